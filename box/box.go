package box

import (
	"fmt"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/ergotree"
	"github.com/tos-network/oraclepool/sigma"
)

// Candidate is a box that has not been included in a transaction yet and so
// has no identity on the ledger.
type Candidate struct {
	Value          uint64
	ErgoTree       *ergotree.ErgoTree
	Tokens         []Token
	Registers      Registers
	CreationHeight uint32
}

// Bytes returns the serialized candidate.
func (c *Candidate) Bytes() ([]byte, error) {
	var w sigma.Writer
	if err := c.writeTo(&w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *Candidate) writeTo(w *sigma.Writer) error {
	if c.ErgoTree == nil {
		return ErrMissingErgoTree
	}
	tree, err := c.ErgoTree.Bytes()
	if err != nil {
		return err
	}
	if len(c.Tokens) > 0xff {
		return fmt.Errorf("%w: %d", ErrTooManyTokens, len(c.Tokens))
	}
	w.PutUvarint(c.Value)
	w.PutBytes(tree)
	w.PutUvarint(uint64(c.CreationHeight))
	w.PutByte(byte(len(c.Tokens)))
	for _, t := range c.Tokens {
		w.PutBytes(t.ID[:])
		w.PutUvarint(t.Amount)
	}
	return c.Registers.writeTo(w)
}

// ErgoBox is a box observed on the ledger. It is read-only.
type ErgoBox struct {
	candidate     Candidate
	transactionID common.Digest32
	index         uint16
	id            common.Digest32
}

// NewErgoBox places a candidate at output index of the given transaction and
// derives its box id.
func NewErgoBox(c *Candidate, txID common.Digest32, index uint16) (*ErgoBox, error) {
	b := &ErgoBox{
		candidate: Candidate{
			Value:          c.Value,
			ErgoTree:       c.ErgoTree,
			Tokens:         append([]Token(nil), c.Tokens...),
			Registers:      c.Registers,
			CreationHeight: c.CreationHeight,
		},
		transactionID: txID,
		index:         index,
	}
	raw, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	b.id = common.Blake2b256(raw)
	return b, nil
}

// Bytes returns the serialized box: the candidate followed by the creating
// transaction id and output index.
func (b *ErgoBox) Bytes() ([]byte, error) {
	var w sigma.Writer
	if err := b.candidate.writeTo(&w); err != nil {
		return nil, err
	}
	w.PutBytes(b.transactionID[:])
	w.PutUvarint(uint64(b.index))
	return w.Bytes(), nil
}

// ID returns the box id, the blake2b256 digest of the serialized box.
func (b *ErgoBox) ID() common.Digest32 { return b.id }

// Value returns the box value in nanocoins.
func (b *ErgoBox) Value() uint64 { return b.candidate.Value }

// ErgoTree returns the guarding script.
func (b *ErgoBox) ErgoTree() *ergotree.ErgoTree { return b.candidate.ErgoTree }

// Tokens returns a copy of the attached tokens in box order.
func (b *ErgoBox) Tokens() []Token { return append([]Token(nil), b.candidate.Tokens...) }

// Token returns the token at index i, if present.
func (b *ErgoBox) Token(i int) (Token, bool) {
	if i < 0 || i >= len(b.candidate.Tokens) {
		return Token{}, false
	}
	return b.candidate.Tokens[i], true
}

// Registers returns the non-mandatory registers.
func (b *ErgoBox) Registers() Registers { return b.candidate.Registers }

// CreationHeight returns the height declared by the box creator.
func (b *ErgoBox) CreationHeight() uint32 { return b.candidate.CreationHeight }

// TransactionID returns the id of the transaction that created the box.
func (b *ErgoBox) TransactionID() common.Digest32 { return b.transactionID }

// Index returns the output index within the creating transaction.
func (b *ErgoBox) Index() uint16 { return b.index }

// Candidate returns a copy of the box contents without its ledger identity.
func (b *ErgoBox) Candidate() *Candidate {
	c := b.candidate
	c.Tokens = b.Tokens()
	return &c
}
