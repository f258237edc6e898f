package box

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/ergotree"
	"github.com/tos-network/oraclepool/sigma"
)

type tokenJSON struct {
	TokenID common.TokenID `json:"tokenId"`
	Amount  uint64         `json:"amount"`
}

// candidateJSON mirrors the box representation served by node APIs.
type candidateJSON struct {
	BoxID               *common.Digest32  `json:"boxId,omitempty"`
	Value               uint64            `json:"value"`
	ErgoTree            string            `json:"ergoTree"`
	Assets              []tokenJSON       `json:"assets"`
	CreationHeight      uint32            `json:"creationHeight"`
	AdditionalRegisters map[string]string `json:"additionalRegisters"`
	TransactionID       *common.Digest32  `json:"transactionId,omitempty"`
	Index               *uint16           `json:"index,omitempty"`
}

func (c *Candidate) toJSON() (*candidateJSON, error) {
	if c.ErgoTree == nil {
		return nil, ErrMissingErgoTree
	}
	tree, err := c.ErgoTree.Bytes()
	if err != nil {
		return nil, err
	}
	enc := &candidateJSON{
		Value:               c.Value,
		ErgoTree:            hex.EncodeToString(tree),
		Assets:              make([]tokenJSON, 0, len(c.Tokens)),
		CreationHeight:      c.CreationHeight,
		AdditionalRegisters: make(map[string]string, c.Registers.Len()),
	}
	for _, t := range c.Tokens {
		enc.Assets = append(enc.Assets, tokenJSON{TokenID: t.ID, Amount: t.Amount})
	}
	for id, reg := range c.Registers.Map() {
		raw, err := reg.Serialize()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", id, err)
		}
		enc.AdditionalRegisters[id.String()] = hex.EncodeToString(raw)
	}
	return enc, nil
}

func (dec *candidateJSON) toCandidate() (*Candidate, error) {
	tree, err := ergotree.ParseHex(dec.ErgoTree)
	if err != nil {
		return nil, fmt.Errorf("ergoTree: %w", err)
	}
	regs := make(map[RegisterID]sigma.Constant, len(dec.AdditionalRegisters))
	for name, raw := range dec.AdditionalRegisters {
		id, err := ParseRegisterID(name)
		if err != nil {
			return nil, err
		}
		c, err := sigma.ParseConstantHex(raw)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", id, err)
		}
		regs[id] = c
	}
	registers, err := NewRegisters(regs)
	if err != nil {
		return nil, err
	}
	c := &Candidate{
		Value:          dec.Value,
		ErgoTree:       tree,
		Tokens:         make([]Token, 0, len(dec.Assets)),
		Registers:      registers,
		CreationHeight: dec.CreationHeight,
	}
	for _, a := range dec.Assets {
		c.Tokens = append(c.Tokens, Token{ID: a.TokenID, Amount: a.Amount})
	}
	return c, nil
}

// MarshalJSON implements json.Marshaler.
func (c *Candidate) MarshalJSON() ([]byte, error) {
	enc, err := c.toJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Candidate) UnmarshalJSON(input []byte) error {
	var dec candidateJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	parsed, err := dec.toCandidate()
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b *ErgoBox) MarshalJSON() ([]byte, error) {
	enc, err := b.candidate.toJSON()
	if err != nil {
		return nil, err
	}
	id, tx, index := b.id, b.transactionID, b.index
	enc.BoxID, enc.TransactionID, enc.Index = &id, &tx, &index
	return json.Marshal(enc)
}

// UnmarshalJSON implements json.Unmarshaler. When the input carries a boxId it
// must match the id derived from the box contents.
func (b *ErgoBox) UnmarshalJSON(input []byte) error {
	var dec candidateJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.TransactionID == nil {
		return fmt.Errorf("missing required field 'transactionId' for ErgoBox")
	}
	if dec.Index == nil {
		return fmt.Errorf("missing required field 'index' for ErgoBox")
	}
	c, err := dec.toCandidate()
	if err != nil {
		return err
	}
	parsed, err := NewErgoBox(c, *dec.TransactionID, *dec.Index)
	if err != nil {
		return err
	}
	if dec.BoxID != nil && *dec.BoxID != parsed.id {
		return fmt.Errorf("%w: have %v, computed %v", ErrBoxIDMismatch, *dec.BoxID, parsed.id)
	}
	*b = *parsed
	return nil
}
