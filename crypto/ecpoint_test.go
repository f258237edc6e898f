package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

func TestEcPointEncoding(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	p := NewEcPoint(priv.PubKey())
	enc := p.Bytes()
	if len(enc) != EcPointLength {
		t.Fatalf("encoded length %d, want %d", len(enc), EcPointLength)
	}
	back, err := ParseEcPoint(enc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("point mismatch after round trip")
	}
	if back.IsInfinity() {
		t.Errorf("point at infinity after round trip")
	}
}

func TestEcPointInfinity(t *testing.T) {
	inf, err := ParseEcPoint(make([]byte, EcPointLength))
	if err != nil {
		t.Fatal(err)
	}
	if !inf.IsInfinity() {
		t.Error("zero encoding must be the point at infinity")
	}
	if !inf.Equal(EcPoint{}) {
		t.Error("infinity must equal the zero point")
	}
	if !bytes.Equal(inf.Bytes(), make([]byte, EcPointLength)) {
		t.Errorf("infinity encodes as %x", inf.Bytes())
	}
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if inf.Equal(NewEcPoint(priv.PubKey())) {
		t.Error("infinity equals a real point")
	}
}

func TestParseEcPointInvalid(t *testing.T) {
	if _, err := ParseEcPoint([]byte{0x02, 0x01}); !errors.Is(err, ErrInvalidEcPoint) {
		t.Errorf("short input: want ErrInvalidEcPoint, got %v", err)
	}
	bad := make([]byte, EcPointLength)
	bad[0] = 0x05
	if _, err := ParseEcPoint(bad); !errors.Is(err, ErrInvalidEcPoint) {
		t.Errorf("bad prefix: want ErrInvalidEcPoint, got %v", err)
	}
}
