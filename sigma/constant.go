// Package sigma implements the typed constants stored in box registers and
// script trees, together with their binary serialization.
package sigma

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/crypto"
)

// TypeCode identifies the type of a serialized constant.
type TypeCode byte

const (
	TypeBoolean      TypeCode = 0x01
	TypeByte         TypeCode = 0x02
	TypeShort        TypeCode = 0x03
	TypeInt          TypeCode = 0x04
	TypeLong         TypeCode = 0x05
	TypeBigInt       TypeCode = 0x06
	TypeGroupElement TypeCode = 0x07
	TypeSigmaProp    TypeCode = 0x08

	// TypeCollByte is Coll[Byte]: the collection constructor (12) applied to Byte.
	TypeCollByte TypeCode = 0x0c + TypeByte
)

// proveDlogOpCode prefixes a ProveDlog sigma proposition.
const proveDlogOpCode = 0xcd

func (t TypeCode) String() string {
	switch t {
	case TypeBoolean:
		return "Boolean"
	case TypeByte:
		return "Byte"
	case TypeShort:
		return "Short"
	case TypeInt:
		return "Int"
	case TypeLong:
		return "Long"
	case TypeBigInt:
		return "BigInt"
	case TypeGroupElement:
		return "GroupElement"
	case TypeSigmaProp:
		return "SigmaProp"
	case TypeCollByte:
		return "Coll[Byte]"
	default:
		return fmt.Sprintf("Type(0x%02x)", byte(t))
	}
}

var (
	ErrTypeMismatch    = errors.New("sigma: constant type mismatch")
	ErrUnsupportedType = errors.New("sigma: unsupported constant type")
	ErrInvalidConstant = errors.New("sigma: invalid constant encoding")
)

// Constant is a typed value. Value holds one of bool, int8, int16, int32,
// int64, crypto.EcPoint, crypto.ProveDlog or []byte depending on Type.
type Constant struct {
	Type  TypeCode
	Value interface{}
}

// Constructors for the supported constant types.

func Boolean(v bool) Constant { return Constant{Type: TypeBoolean, Value: v} }
func Byte(v int8) Constant    { return Constant{Type: TypeByte, Value: v} }
func Short(v int16) Constant  { return Constant{Type: TypeShort, Value: v} }
func Int(v int32) Constant    { return Constant{Type: TypeInt, Value: v} }
func Long(v int64) Constant   { return Constant{Type: TypeLong, Value: v} }

func GroupElement(p crypto.EcPoint) Constant {
	return Constant{Type: TypeGroupElement, Value: p}
}

func SigmaProp(pd crypto.ProveDlog) Constant {
	return Constant{Type: TypeSigmaProp, Value: pd}
}

// CollByte copies b into a Coll[Byte] constant.
func CollByte(b []byte) Constant {
	return Constant{Type: TypeCollByte, Value: append([]byte{}, b...)}
}

func mismatch(c Constant, want TypeCode) error {
	return fmt.Errorf("%w: expected %v, found %v", ErrTypeMismatch, want, c.Type)
}

// Int extracts an Int constant.
func (c Constant) Int() (int32, error) {
	v, ok := c.Value.(int32)
	if c.Type != TypeInt || !ok {
		return 0, mismatch(c, TypeInt)
	}
	return v, nil
}

// Long extracts a Long constant.
func (c Constant) Long() (int64, error) {
	v, ok := c.Value.(int64)
	if c.Type != TypeLong || !ok {
		return 0, mismatch(c, TypeLong)
	}
	return v, nil
}

// EcPoint extracts a GroupElement constant.
func (c Constant) EcPoint() (crypto.EcPoint, error) {
	v, ok := c.Value.(crypto.EcPoint)
	if c.Type != TypeGroupElement || !ok {
		return crypto.EcPoint{}, mismatch(c, TypeGroupElement)
	}
	return v, nil
}

// ProveDlog extracts a SigmaProp constant holding a ProveDlog.
func (c Constant) ProveDlog() (crypto.ProveDlog, error) {
	v, ok := c.Value.(crypto.ProveDlog)
	if c.Type != TypeSigmaProp || !ok {
		return crypto.ProveDlog{}, mismatch(c, TypeSigmaProp)
	}
	return v, nil
}

// Bytes extracts a Coll[Byte] constant. The result is a copy.
func (c Constant) Bytes() ([]byte, error) {
	v, ok := c.Value.([]byte)
	if c.Type != TypeCollByte || !ok {
		return nil, mismatch(c, TypeCollByte)
	}
	return append([]byte{}, v...), nil
}

// Digest32 extracts a Coll[Byte] constant of exactly 32 bytes.
func (c Constant) Digest32() (common.Digest32, error) {
	b, err := c.Bytes()
	if err != nil {
		return common.Digest32{}, err
	}
	d, err := common.BytesToDigest32(b)
	if err != nil {
		return common.Digest32{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return d, nil
}

// TokenID extracts a Coll[Byte] constant holding a token identifier.
func (c Constant) TokenID() (common.TokenID, error) {
	d, err := c.Digest32()
	return common.TokenID(d), err
}

// Equal reports whether both constants have the same type and value.
func (c Constant) Equal(o Constant) bool {
	if c.Type != o.Type {
		return false
	}
	a, errA := c.Serialize()
	b, errB := o.Serialize()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

func (c Constant) String() string {
	switch v := c.Value.(type) {
	case []byte:
		return fmt.Sprintf("%v(%x)", c.Type, v)
	case crypto.ProveDlog:
		return fmt.Sprintf("%v(proveDlog(%v))", c.Type, v.H)
	default:
		return fmt.Sprintf("%v(%v)", c.Type, v)
	}
}
