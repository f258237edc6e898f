package box

import (
	"fmt"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/ergotree"
	"github.com/tos-network/oraclepool/params"
	"github.com/tos-network/oraclepool/sigma"
)

// CandidateBuilder assembles a Candidate and checks it against the protocol
// limits on box value, size, tokens and registers.
type CandidateBuilder struct {
	value          uint64
	tree           *ergotree.ErgoTree
	creationHeight uint32
	tokens         []Token
	registers      map[RegisterID]sigma.Constant
}

// NewCandidateBuilder starts a candidate guarded by tree.
func NewCandidateBuilder(value uint64, tree *ergotree.ErgoTree, creationHeight uint32) *CandidateBuilder {
	return &CandidateBuilder{
		value:          value,
		tree:           tree,
		creationHeight: creationHeight,
		registers:      make(map[RegisterID]sigma.Constant),
	}
}

// SetValue changes the box value.
func (b *CandidateBuilder) SetValue(value uint64) { b.value = value }

// SetRegisterValue populates register id, replacing any previous value.
func (b *CandidateBuilder) SetRegisterValue(id RegisterID, c sigma.Constant) {
	b.registers[id] = c
}

// AddToken appends a token. Token order is preserved in the built box.
func (b *CandidateBuilder) AddToken(t Token) {
	b.tokens = append(b.tokens, t)
}

func (b *CandidateBuilder) candidate() (*Candidate, error) {
	if b.tree == nil {
		return nil, ErrMissingErgoTree
	}
	regs, err := NewRegisters(b.registers)
	if err != nil {
		return nil, err
	}
	return &Candidate{
		Value:          b.value,
		ErgoTree:       b.tree,
		Tokens:         append([]Token(nil), b.tokens...),
		Registers:      regs,
		CreationHeight: b.creationHeight,
	}, nil
}

// boxSize returns the size of c once placed in a transaction.
func boxSize(c *Candidate) (int, error) {
	b, err := NewErgoBox(c, common.Digest32{}, 0)
	if err != nil {
		return 0, err
	}
	raw, err := b.Bytes()
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}

// MinBoxValue returns the smallest value the box being built may carry. The
// value is part of the serialized box, so the result is the fixed point where
// the box carrying it needs no more than it.
func (b *CandidateBuilder) MinBoxValue() (uint64, error) {
	c, err := b.candidate()
	if err != nil {
		return 0, err
	}
	c.Value = 0
	for {
		size, err := boxSize(c)
		if err != nil {
			return 0, err
		}
		minValue := uint64(size) * params.MinValuePerByte
		if minValue <= c.Value {
			return c.Value, nil
		}
		c.Value = minValue
	}
}

// Build validates and returns the candidate.
func (b *CandidateBuilder) Build() (*Candidate, error) {
	c, err := b.candidate()
	if err != nil {
		return nil, err
	}
	if len(c.Tokens) > params.MaxTokens {
		return nil, fmt.Errorf("%w: %d, limit %d", ErrTooManyTokens, len(c.Tokens), params.MaxTokens)
	}
	for _, t := range c.Tokens {
		if t.Amount == 0 {
			return nil, fmt.Errorf("%w: token %v", ErrZeroTokenAmount, t.ID)
		}
	}
	size, err := boxSize(c)
	if err != nil {
		return nil, err
	}
	if size > params.MaxBoxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrBoxTooLarge, size, params.MaxBoxSize)
	}
	if minValue := uint64(size) * params.MinValuePerByte; c.Value < minValue {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrValueTooLow, c.Value, minValue)
	}
	return c, nil
}
