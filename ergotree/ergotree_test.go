package ergotree

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/tos-network/oraclepool/sigma"
)

var testTemplate = []byte{0xd1, 0x73, 0x00, 0x73, 0x01}

func TestTreeEncoding(t *testing.T) {
	tree, err := New(DefaultHeader, []sigma.Constant{sigma.Long(1), sigma.CollByte([]byte{0xaa})}, testTemplate)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := tree.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if have, want := hex.EncodeToString(enc), "1002"+"0502"+"0e01aa"+"d173007301"; have != want {
		t.Errorf("encoding mismatch: have %s, want %s", have, want)
	}
	back, err := Parse(enc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !back.Equal(tree) {
		t.Error("tree mismatch after round trip")
	}
	if !bytes.Equal(back.TemplateBytes(), testTemplate) {
		t.Errorf("template %x, want %x", back.TemplateBytes(), testTemplate)
	}
	if n := back.ConstantsLen(); n != 2 {
		t.Errorf("have %d constants, want 2", n)
	}
}

func TestTreeSizeFlag(t *testing.T) {
	tree, err := New(DefaultHeader|SizeFlag, []sigma.Constant{sigma.Int(7)}, testTemplate)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := tree.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	// header, size, count, constant, template
	if have, want := hex.EncodeToString(enc), "18"+"08"+"01"+"040e"+"d173007301"; have != want {
		t.Errorf("encoding mismatch: have %s, want %s", have, want)
	}
	back, err := Parse(enc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c, err := back.Constant(0)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := c.Int(); err != nil || v != 7 {
		t.Errorf("constant 0: have %d (%v), want 7", v, err)
	}

	enc[1] = 0x0a
	if _, err := Parse(enc); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("want ErrSizeMismatch, got %v", err)
	}
}

func TestWithConstant(t *testing.T) {
	tree, err := New(DefaultHeader, []sigma.Constant{sigma.Long(1), sigma.CollByte([]byte{0xaa})}, testTemplate)
	if err != nil {
		t.Fatal(err)
	}
	replaced, err := tree.WithConstant(1, sigma.CollByte([]byte{0xbb}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(tree.TemplateBytes(), replaced.TemplateBytes()) {
		t.Error("template changed by constant substitution")
	}
	if tree.Equal(replaced) {
		t.Error("replaced tree equals original")
	}
	orig, _ := tree.Constant(1)
	if b, _ := orig.Bytes(); !bytes.Equal(b, []byte{0xaa}) {
		t.Errorf("original tree changed: constant 1 is %x", b)
	}

	if _, err := tree.WithConstant(0, sigma.Int(1)); !errors.Is(err, ErrConstantType) {
		t.Errorf("want ErrConstantType, got %v", err)
	}
	if _, err := tree.WithConstant(5, sigma.Long(1)); !errors.Is(err, ErrConstantIndex) {
		t.Errorf("want ErrConstantIndex, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("nil: want ErrEmptyTree, got %v", err)
	}
	if _, err := Parse([]byte{0x10, 0x00}); !errors.Is(err, ErrEmptyTemplate) {
		t.Errorf("no template: want ErrEmptyTemplate, got %v", err)
	}
	if _, err := Parse([]byte{0x10, 0x01, 0x63, 0xd1}); !errors.Is(err, ErrInvalidConstants) {
		t.Errorf("bad constant: want ErrInvalidConstants, got %v", err)
	}
	plain, err := Parse([]byte{0x00, 0xd1, 0x7f})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := plain.Constant(0); !errors.Is(err, ErrNotSegregated) {
		t.Errorf("want ErrNotSegregated, got %v", err)
	}
}
