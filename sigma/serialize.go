package sigma

import (
	"fmt"
	"math"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/crypto"
)

// Serialize returns the binary encoding of c: the type code followed by the
// value.
func (c Constant) Serialize() ([]byte, error) {
	var w Writer
	if err := c.Encode(&w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Encode appends the encoding of c to w.
func (c Constant) Encode(w *Writer) error {
	w.PutByte(byte(c.Type))
	return c.writeValue(w)
}

func (c Constant) writeValue(w *Writer) error {
	bad := func() error {
		return fmt.Errorf("%w: %v holds %T", ErrInvalidConstant, c.Type, c.Value)
	}
	switch c.Type {
	case TypeBoolean:
		v, ok := c.Value.(bool)
		if !ok {
			return bad()
		}
		if v {
			w.PutByte(1)
		} else {
			w.PutByte(0)
		}
	case TypeByte:
		v, ok := c.Value.(int8)
		if !ok {
			return bad()
		}
		w.PutByte(byte(v))
	case TypeShort:
		v, ok := c.Value.(int16)
		if !ok {
			return bad()
		}
		w.PutInt32(int32(v))
	case TypeInt:
		v, ok := c.Value.(int32)
		if !ok {
			return bad()
		}
		w.PutInt32(v)
	case TypeLong:
		v, ok := c.Value.(int64)
		if !ok {
			return bad()
		}
		w.PutInt64(v)
	case TypeGroupElement:
		v, ok := c.Value.(crypto.EcPoint)
		if !ok {
			return bad()
		}
		w.PutBytes(v.Bytes())
	case TypeSigmaProp:
		v, ok := c.Value.(crypto.ProveDlog)
		if !ok {
			return bad()
		}
		w.PutByte(proveDlogOpCode)
		w.PutBytes(v.H.Bytes())
	case TypeCollByte:
		v, ok := c.Value.([]byte)
		if !ok {
			return bad()
		}
		if len(v) > math.MaxUint16 {
			return fmt.Errorf("%w: collection of %d bytes", ErrValueRange, len(v))
		}
		w.PutUvarint(uint64(len(v)))
		w.PutBytes(v)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedType, c.Type)
	}
	return nil
}

// ParseConstant decodes a single serialized constant. Trailing bytes are an
// error.
func ParseConstant(data []byte) (Constant, error) {
	r := NewReader(data)
	c, err := ReadConstant(r)
	if err != nil {
		return Constant{}, err
	}
	if r.Remaining() != 0 {
		return Constant{}, fmt.Errorf("%w: %d trailing bytes", ErrInvalidConstant, r.Remaining())
	}
	return c, nil
}

// ParseConstantHex decodes a base16 serialized constant, the form used by
// node APIs for register values.
func ParseConstantHex(s string) (Constant, error) {
	b, err := common.DecodeHex(s)
	if err != nil {
		return Constant{}, err
	}
	return ParseConstant(b)
}

// ReadConstant decodes the next constant from r.
func ReadConstant(r *Reader) (Constant, error) {
	tb, err := r.ReadByte()
	if err != nil {
		return Constant{}, err
	}
	t := TypeCode(tb)
	switch t {
	case TypeBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return Constant{}, err
		}
		if b > 1 {
			return Constant{}, fmt.Errorf("%w: boolean byte 0x%02x", ErrInvalidConstant, b)
		}
		return Boolean(b == 1), nil
	case TypeByte:
		b, err := r.ReadByte()
		if err != nil {
			return Constant{}, err
		}
		return Byte(int8(b)), nil
	case TypeShort:
		v, err := r.ReadInt32()
		if err != nil {
			return Constant{}, err
		}
		if v < math.MinInt16 || v > math.MaxInt16 {
			return Constant{}, fmt.Errorf("%w: short %d", ErrValueRange, v)
		}
		return Short(int16(v)), nil
	case TypeInt:
		v, err := r.ReadInt32()
		if err != nil {
			return Constant{}, err
		}
		return Int(v), nil
	case TypeLong:
		v, err := r.ReadInt64()
		if err != nil {
			return Constant{}, err
		}
		return Long(v), nil
	case TypeGroupElement:
		p, err := readEcPoint(r)
		if err != nil {
			return Constant{}, err
		}
		return GroupElement(p), nil
	case TypeSigmaProp:
		op, err := r.ReadByte()
		if err != nil {
			return Constant{}, err
		}
		if op != proveDlogOpCode {
			return Constant{}, fmt.Errorf("%w: sigma proposition 0x%02x", ErrUnsupportedType, op)
		}
		p, err := readEcPoint(r)
		if err != nil {
			return Constant{}, err
		}
		return SigmaProp(crypto.NewProveDlog(p)), nil
	case TypeCollByte:
		n, err := r.ReadUvarint()
		if err != nil {
			return Constant{}, err
		}
		if n > math.MaxUint16 {
			return Constant{}, fmt.Errorf("%w: collection of %d bytes", ErrValueRange, n)
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return Constant{}, err
		}
		return Constant{Type: TypeCollByte, Value: b}, nil
	default:
		return Constant{}, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
}

func readEcPoint(r *Reader) (crypto.EcPoint, error) {
	b, err := r.ReadBytes(crypto.EcPointLength)
	if err != nil {
		return crypto.EcPoint{}, err
	}
	p, err := crypto.ParseEcPoint(b)
	if err != nil {
		return crypto.EcPoint{}, fmt.Errorf("%w: %v", ErrInvalidConstant, err)
	}
	return p, nil
}
