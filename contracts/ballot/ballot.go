// Package ballot binds the ballot contract: it checks that a script tree is
// the ballot contract template carrying the expected constants, and creates
// new instances of it.
package ballot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/ergotree"
	"github.com/tos-network/oraclepool/sigma"
)

var (
	ErrParameters            = errors.New("ballot contract: invalid parameters")
	ErrTemplateMismatch      = errors.New("ballot contract: script template differs from expected")
	ErrNoMinStorageRent      = errors.New("ballot contract: no min storage rent constant")
	ErrMinStorageRentDiffers = errors.New("ballot contract: min storage rent differs from expected")
	ErrNoUpdateNFTID         = errors.New("ballot contract: no update nft id constant")
	ErrUpdateNFTDiffers      = errors.New("ballot contract: update nft id differs from expected")
)

// Parameters describe the ballot contract template and where its constants
// live within the tree.
type Parameters struct {
	ErgoTreeBytes       []byte
	MinStorageRentIndex int
	MinStorageRent      uint64
	UpdateNFTIndex      int
}

// Validate checks that the parameters describe a usable template.
func (p *Parameters) Validate() error {
	tree, err := ergotree.Parse(p.ErgoTreeBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParameters, err)
	}
	if p.MinStorageRentIndex == p.UpdateNFTIndex {
		return fmt.Errorf("%w: min storage rent and update nft share constant index %d", ErrParameters, p.UpdateNFTIndex)
	}
	if p.MinStorageRent > math.MaxInt64 {
		return fmt.Errorf("%w: min storage rent %d overflows Long", ErrParameters, p.MinStorageRent)
	}
	for _, idx := range []int{p.MinStorageRentIndex, p.UpdateNFTIndex} {
		if _, err := tree.Constant(idx); err != nil {
			return fmt.Errorf("%w: %v", ErrParameters, err)
		}
	}
	return nil
}

// ContractInputs are the values a ballot contract instance is bound to.
type ContractInputs struct {
	Parameters *Parameters
	// UpdateNFTTokenID appears as a constant in the ballot contract.
	UpdateNFTTokenID common.TokenID
}

// Contract is a ballot contract instance whose constants have been checked.
type Contract struct {
	tree             *ergotree.ErgoTree
	minStorageRent   uint64
	updateNFTTokenID common.TokenID
}

// Load binds an existing tree, typically taken from an observed box, to the
// ballot contract. The tree must share the configured template and carry the
// expected min storage rent and update nft id.
func Load(tree *ergotree.ErgoTree, inputs ContractInputs) (*Contract, error) {
	p := inputs.Parameters
	if p == nil {
		return nil, fmt.Errorf("%w: missing", ErrParameters)
	}
	expected, err := ergotree.Parse(p.ErgoTreeBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameters, err)
	}
	if !bytes.Equal(tree.TemplateBytes(), expected.TemplateBytes()) {
		return nil, ErrTemplateMismatch
	}

	rent, err := tree.Constant(p.MinStorageRentIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMinStorageRent, err)
	}
	rentValue, err := rent.Long()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMinStorageRent, err)
	}
	if rentValue < 0 || uint64(rentValue) != p.MinStorageRent {
		return nil, fmt.Errorf("%w: expected %d, actual %d", ErrMinStorageRentDiffers, p.MinStorageRent, rentValue)
	}

	nft, err := tree.Constant(p.UpdateNFTIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUpdateNFTID, err)
	}
	nftID, err := nft.TokenID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUpdateNFTID, err)
	}
	if nftID != inputs.UpdateNFTTokenID {
		return nil, fmt.Errorf("%w: expected %v, actual %v", ErrUpdateNFTDiffers, inputs.UpdateNFTTokenID, nftID)
	}
	return &Contract{tree: tree, minStorageRent: p.MinStorageRent, updateNFTTokenID: nftID}, nil
}

// Create instantiates the ballot contract from its parameters by writing the
// min storage rent and update nft id into the template constants.
func Create(inputs ContractInputs) (*Contract, error) {
	p := inputs.Parameters
	if p == nil {
		return nil, fmt.Errorf("%w: missing", ErrParameters)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	tree, _ := ergotree.Parse(p.ErgoTreeBytes)
	tree, err := tree.WithConstant(p.MinStorageRentIndex, sigma.Long(int64(p.MinStorageRent)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMinStorageRent, err)
	}
	tree, err = tree.WithConstant(p.UpdateNFTIndex, sigma.CollByte(inputs.UpdateNFTTokenID.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUpdateNFTID, err)
	}
	return Load(tree, inputs)
}

// ErgoTree returns the bound script tree.
func (c *Contract) ErgoTree() *ergotree.ErgoTree { return c.tree }

// MinStorageRent returns the minimum value a ballot box must keep.
func (c *Contract) MinStorageRent() uint64 { return c.minStorageRent }

// UpdateNFTTokenID returns the update nft id the contract refers to.
func (c *Contract) UpdateNFTTokenID() common.TokenID { return c.updateNFTTokenID }
