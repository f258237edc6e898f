package box

import (
	"fmt"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/crypto"
	"github.com/tos-network/oraclepool/params"
	"github.com/tos-network/oraclepool/sigma"
)

// RegisterID names a non-mandatory register slot.
type RegisterID uint8

const (
	R4 RegisterID = 4 + iota
	R5
	R6
	R7
	R8
	R9
)

func (id RegisterID) valid() bool { return id >= R4 && id <= R9 }

func (id RegisterID) index() int { return int(id - R4) }

func (id RegisterID) String() string {
	if !id.valid() {
		return fmt.Sprintf("R?(%d)", uint8(id))
	}
	return fmt.Sprintf("R%d", uint8(id))
}

// ParseRegisterID parses a register name such as "R4".
func ParseRegisterID(s string) (RegisterID, error) {
	var n uint8
	if _, err := fmt.Sscanf(s, "R%d", &n); err != nil || fmt.Sprintf("R%d", n) != s {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRegister, s)
	}
	id := RegisterID(n)
	if !id.valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRegister, s)
	}
	return id, nil
}

// Registers is the immutable, densely packed set of non-mandatory registers of
// a box.
type Registers struct {
	values []sigma.Constant
}

// NewRegisters builds a register set. The populated slots must form a
// contiguous run starting at R4.
func NewRegisters(m map[RegisterID]sigma.Constant) (Registers, error) {
	values := make([]sigma.Constant, 0, len(m))
	for id := range m {
		if !id.valid() {
			return Registers{}, fmt.Errorf("%w: %v", ErrInvalidRegister, id)
		}
	}
	for i := 0; i < len(m); i++ {
		c, ok := m[R4+RegisterID(i)]
		if !ok {
			return Registers{}, fmt.Errorf("%w: %v is empty", ErrSparseRegisters, R4+RegisterID(i))
		}
		values = append(values, c)
	}
	return Registers{values: values}, nil
}

// Len returns the number of populated registers.
func (r Registers) Len() int { return len(r.values) }

// Get returns the constant in slot id, if populated.
func (r Registers) Get(id RegisterID) (sigma.Constant, bool) {
	if !id.valid() || id.index() >= len(r.values) {
		return sigma.Constant{}, false
	}
	return r.values[id.index()], true
}

// Map returns the populated registers keyed by slot.
func (r Registers) Map() map[RegisterID]sigma.Constant {
	m := make(map[RegisterID]sigma.Constant, len(r.values))
	for i, c := range r.values {
		m[R4+RegisterID(i)] = c
	}
	return m
}

func (r Registers) get(id RegisterID) (sigma.Constant, error) {
	c, ok := r.Get(id)
	if !ok {
		return sigma.Constant{}, fmt.Errorf("%w: %v", ErrRegisterNotFound, id)
	}
	return c, nil
}

// The typed accessors below distinguish an empty slot (ErrRegisterNotFound)
// from a populated slot holding another type (sigma.ErrTypeMismatch).

// Int extracts an Int register.
func (r Registers) Int(id RegisterID) (int32, error) {
	c, err := r.get(id)
	if err != nil {
		return 0, err
	}
	v, err := c.Int()
	if err != nil {
		return 0, fmt.Errorf("%v: %w", id, err)
	}
	return v, nil
}

// Long extracts a Long register.
func (r Registers) Long(id RegisterID) (int64, error) {
	c, err := r.get(id)
	if err != nil {
		return 0, err
	}
	v, err := c.Long()
	if err != nil {
		return 0, fmt.Errorf("%v: %w", id, err)
	}
	return v, nil
}

// EcPoint extracts a GroupElement register.
func (r Registers) EcPoint(id RegisterID) (crypto.EcPoint, error) {
	c, err := r.get(id)
	if err != nil {
		return crypto.EcPoint{}, err
	}
	v, err := c.EcPoint()
	if err != nil {
		return crypto.EcPoint{}, fmt.Errorf("%v: %w", id, err)
	}
	return v, nil
}

// Digest32 extracts a 32-byte Coll[Byte] register.
func (r Registers) Digest32(id RegisterID) (common.Digest32, error) {
	c, err := r.get(id)
	if err != nil {
		return common.Digest32{}, err
	}
	v, err := c.Digest32()
	if err != nil {
		return common.Digest32{}, fmt.Errorf("%v: %w", id, err)
	}
	return v, nil
}

// TokenID extracts a token identifier register.
func (r Registers) TokenID(id RegisterID) (common.TokenID, error) {
	d, err := r.Digest32(id)
	return common.TokenID(d), err
}

func (r Registers) writeTo(w *sigma.Writer) error {
	if len(r.values) > params.MaxRegisters {
		return fmt.Errorf("%w: %d registers", ErrInvalidRegister, len(r.values))
	}
	w.PutByte(byte(len(r.values)))
	for i, c := range r.values {
		if err := c.Encode(w); err != nil {
			return fmt.Errorf("%v: %w", R4+RegisterID(i), err)
		}
	}
	return nil
}
