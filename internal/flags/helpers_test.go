package flags

import (
	"strings"
	"testing"
)

func TestNewApp(t *testing.T) {
	app := NewApp("0123456789abcdef", "20260101", "test app")
	if app.Usage != "test app" {
		t.Errorf("usage %q", app.Usage)
	}
	if !strings.Contains(app.Version, "01234567") || !strings.Contains(app.Version, "20260101") {
		t.Errorf("version %q lacks commit or date", app.Version)
	}
	if !app.EnableBashCompletion {
		t.Error("bash completion disabled")
	}
}
