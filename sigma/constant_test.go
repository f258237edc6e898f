package sigma

import (
	"encoding/hex"
	"errors"
	"math"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/tos-network/oraclepool/crypto"
)

func TestConstantEncodingVectors(t *testing.T) {
	tests := []struct {
		name string
		c    Constant
		want string
	}{
		{"int 100", Int(100), "04c801"},
		{"int -1", Int(-1), "0401"},
		{"int max", Int(math.MaxInt32), "04feffffff0f"},
		{"long 1", Long(1), "0502"},
		{"long -2", Long(-2), "0503"},
		{"bool true", Boolean(true), "0101"},
		{"byte -1", Byte(-1), "02ff"},
		{"short 300", Short(300), "03d804"},
		{"coll byte", CollByte([]byte{1, 2}), "0e020102"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := tc.c.Serialize()
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			if have := hex.EncodeToString(enc); have != tc.want {
				t.Errorf("encoding mismatch: have %s, want %s", have, tc.want)
			}
			back, err := ParseConstantHex(tc.want)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !back.Equal(tc.c) {
				t.Errorf("decoded %v, want %v", back, tc.c)
			}
		})
	}
}

func TestGroupElementAndSigmaProp(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	p := crypto.NewEcPoint(priv.PubKey())

	enc, err := GroupElement(p).Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) != 1+crypto.EcPointLength || enc[0] != byte(TypeGroupElement) {
		t.Fatalf("group element encoding %x", enc)
	}
	c, err := ParseConstant(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := c.EcPoint(); err != nil || !got.Equal(p) {
		t.Errorf("group element mismatch: %v %v", got, err)
	}

	enc, err = SigmaProp(crypto.NewProveDlog(p)).Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] != byte(TypeSigmaProp) || enc[1] != proveDlogOpCode {
		t.Errorf("sigma prop prefix %x", enc[:2])
	}
	c, err = ParseConstant(enc)
	if err != nil {
		t.Fatal(err)
	}
	if pd, err := c.ProveDlog(); err != nil || !pd.H.Equal(p) {
		t.Errorf("prove dlog mismatch: %v %v", pd, err)
	}
}

func TestExtractTypeMismatch(t *testing.T) {
	if _, err := Long(5).Int(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Int on Long: want ErrTypeMismatch, got %v", err)
	}
	if _, err := Int(5).EcPoint(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("EcPoint on Int: want ErrTypeMismatch, got %v", err)
	}
	if _, err := CollByte(make([]byte, 31)).Digest32(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Digest32 on 31 bytes: want ErrTypeMismatch, got %v", err)
	}
	if _, err := Int(5).TokenID(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("TokenID on Int: want ErrTypeMismatch, got %v", err)
	}
	id, err := CollByte(make([]byte, 32)).TokenID()
	if err != nil {
		t.Fatal(err)
	}
	if [32]byte(id) != [32]byte{} {
		t.Errorf("token id %v, want zero", id)
	}
}

func TestParseConstantErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrUnexpectedEOF},
		{"unknown type", "63", ErrUnsupportedType},
		{"truncated coll", "0e0301", ErrUnexpectedEOF},
		{"trailing", "040200", ErrInvalidConstant},
		{"bad bool", "0102", ErrInvalidConstant},
		{"int overflow", "04ffffffff7f", ErrValueRange},
		{"unsupported sigma prop", "08d3", ErrUnsupportedType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConstantHex(tc.input)
			if !errors.Is(err, tc.want) {
				t.Errorf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReadUvarintOverflow(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	if _, err := NewReader(data).ReadUvarint(); !errors.Is(err, ErrVLQOverflow) {
		t.Errorf("want ErrVLQOverflow, got %v", err)
	}
	var w Writer
	w.PutUvarint(math.MaxUint64)
	v, err := NewReader(w.Bytes()).ReadUvarint()
	if err != nil {
		t.Fatal(err)
	}
	if v != math.MaxUint64 {
		t.Errorf("have %d, want %d", v, uint64(math.MaxUint64))
	}
}
