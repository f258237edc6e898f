// Package ergotree implements the serialized form of a box guarding script:
// a header, an optional list of segregated constants and the script template.
package ergotree

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/sigma"
)

// Header flags.
const (
	VersionMask             byte = 0x07
	SizeFlag                byte = 0x08
	ConstantSegregationFlag byte = 0x10
)

// DefaultHeader is version 0 with constant segregation.
const DefaultHeader = ConstantSegregationFlag

var (
	ErrEmptyTree        = errors.New("ergotree: empty tree")
	ErrEmptyTemplate    = errors.New("ergotree: empty script template")
	ErrSizeMismatch     = errors.New("ergotree: declared size does not match body")
	ErrNotSegregated    = errors.New("ergotree: constants are not segregated")
	ErrConstantIndex    = errors.New("ergotree: constant index out of range")
	ErrConstantType     = errors.New("ergotree: replacement constant has a different type")
	ErrInvalidConstants = errors.New("ergotree: invalid constants section")
)

// ErgoTree is an immutable script tree.
type ErgoTree struct {
	header    byte
	constants []sigma.Constant
	template  []byte
}

// New assembles a tree from its parts. When constants are given the constant
// segregation flag is set on the header.
func New(header byte, constants []sigma.Constant, template []byte) (*ErgoTree, error) {
	if len(template) == 0 {
		return nil, ErrEmptyTemplate
	}
	if len(constants) > 0 {
		header |= ConstantSegregationFlag
	}
	t := &ErgoTree{
		header:    header,
		constants: append([]sigma.Constant(nil), constants...),
		template:  append([]byte(nil), template...),
	}
	if _, err := t.Bytes(); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse decodes a serialized tree.
func Parse(data []byte) (*ErgoTree, error) {
	if len(data) == 0 {
		return nil, ErrEmptyTree
	}
	r := sigma.NewReader(data)
	header, _ := r.ReadByte()
	if header&SizeFlag != 0 {
		size, err := r.ReadUvarint()
		if err != nil {
			return nil, err
		}
		if size != uint64(r.Remaining()) {
			return nil, fmt.Errorf("%w: declared %d, have %d", ErrSizeMismatch, size, r.Remaining())
		}
	}
	var constants []sigma.Constant
	if header&ConstantSegregationFlag != 0 {
		n, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConstants, err)
		}
		if int(n) > r.Remaining() {
			return nil, fmt.Errorf("%w: %d constants in %d bytes", ErrInvalidConstants, n, r.Remaining())
		}
		constants = make([]sigma.Constant, 0, n)
		for i := uint32(0); i < n; i++ {
			c, err := sigma.ReadConstant(r)
			if err != nil {
				return nil, fmt.Errorf("%w: constant %d: %v", ErrInvalidConstants, i, err)
			}
			constants = append(constants, c)
		}
	}
	template := r.ReadRest()
	if len(template) == 0 {
		return nil, ErrEmptyTemplate
	}
	return &ErgoTree{header: header, constants: constants, template: template}, nil
}

// ParseHex decodes a base16 serialized tree.
func ParseHex(s string) (*ErgoTree, error) {
	b, err := common.DecodeHex(s)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Header returns the header byte.
func (t *ErgoTree) Header() byte { return t.header }

// Version returns the script version encoded in the header.
func (t *ErgoTree) Version() byte { return t.header & VersionMask }

// Bytes returns the serialized tree.
func (t *ErgoTree) Bytes() ([]byte, error) {
	var body sigma.Writer
	if t.header&ConstantSegregationFlag != 0 {
		body.PutUvarint(uint64(len(t.constants)))
		for i, c := range t.constants {
			if err := c.Encode(&body); err != nil {
				return nil, fmt.Errorf("constant %d: %w", i, err)
			}
		}
	}
	body.PutBytes(t.template)

	var w sigma.Writer
	w.PutByte(t.header)
	if t.header&SizeFlag != 0 {
		w.PutUvarint(uint64(body.Len()))
	}
	w.PutBytes(body.Bytes())
	return w.Bytes(), nil
}

// TemplateBytes returns the script body with constants left as placeholders.
// Two trees share a template when they differ only in constant values.
func (t *ErgoTree) TemplateBytes() []byte {
	return append([]byte(nil), t.template...)
}

// ConstantsLen returns the number of segregated constants.
func (t *ErgoTree) ConstantsLen() int { return len(t.constants) }

// Constant returns the segregated constant at index i.
func (t *ErgoTree) Constant(i int) (sigma.Constant, error) {
	if t.header&ConstantSegregationFlag == 0 {
		return sigma.Constant{}, ErrNotSegregated
	}
	if i < 0 || i >= len(t.constants) {
		return sigma.Constant{}, fmt.Errorf("%w: %d of %d", ErrConstantIndex, i, len(t.constants))
	}
	return t.constants[i], nil
}

// WithConstant returns a copy of t with the constant at index i replaced. The
// replacement must have the same type as the original.
func (t *ErgoTree) WithConstant(i int, c sigma.Constant) (*ErgoTree, error) {
	old, err := t.Constant(i)
	if err != nil {
		return nil, err
	}
	if old.Type != c.Type {
		return nil, fmt.Errorf("%w: index %d holds %v, got %v", ErrConstantType, i, old.Type, c.Type)
	}
	cp := &ErgoTree{
		header:    t.header,
		constants: append([]sigma.Constant(nil), t.constants...),
		template:  t.template,
	}
	cp.constants[i] = c
	return cp, nil
}

// Equal reports whether both trees serialize identically.
func (t *ErgoTree) Equal(o *ErgoTree) bool {
	if t == nil || o == nil {
		return t == o
	}
	a, errA := t.Bytes()
	b, errB := o.Bytes()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// Hash returns the blake2b256 digest of the serialized tree.
func (t *ErgoTree) Hash() (common.Digest32, error) {
	b, err := t.Bytes()
	if err != nil {
		return common.Digest32{}, err
	}
	return common.Blake2b256(b), nil
}
