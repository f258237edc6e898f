// Package boxkind recognises and builds the typed boxes of an oracle pool.
//
// A ballot box holds a single ballot token and records one committee member's
// vote for the next pool box script and reward settings. The registers are laid
// out as follows:
//
//	R4  GroupElement  ballot token owner public key
//	R5  Int           creation height of the update box the vote is for
//	R6  Coll[Byte]    blake2b256 hash of the proposed pool box script
//	R7  Coll[Byte]    proposed reward token id
//	R8  Int           proposed reward token quantity
package boxkind

import (
	"fmt"

	"github.com/tos-network/oraclepool/address"
	"github.com/tos-network/oraclepool/box"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/contracts/ballot"
	"github.com/tos-network/oraclepool/crypto"
	"github.com/tos-network/oraclepool/log"
	"github.com/tos-network/oraclepool/oracleconfig"
)

// Register slots of a ballot box. NewBallotBox and MakeBallotBoxCandidate
// both read them from here.
const (
	ownerRegister                   = box.R4
	updateBoxCreationHeightRegister = box.R5
	poolBoxAddressHashRegister      = box.R6
	rewardTokenIDRegister           = box.R7
	rewardTokenQuantityRegister     = box.R8
)

// BallotBoxInputs is the configuration a candidate ballot box is checked
// against.
type BallotBoxInputs struct {
	Parameters *oracleconfig.BallotBoxWrapperParameters

	// BallotTokenID is the token expected in TOKENS(0) of the box.
	BallotTokenID common.TokenID
	// UpdateNFTTokenID is embedded as a constant in the ballot contract.
	UpdateNFTTokenID common.TokenID
}

func (in BallotBoxInputs) contractInputs() ballot.ContractInputs {
	return ballot.ContractInputs{
		Parameters:       in.Parameters.ContractParameters.Contract(),
		UpdateNFTTokenID: in.UpdateNFTTokenID,
	}
}

// Vote is the vote recorded in registers R5 to R8 of a ballot box.
type Vote struct {
	UpdateBoxCreationHeight int32
	PoolBoxAddressHash      common.Digest32
	RewardTokenID           common.TokenID
	RewardTokenQuantity     uint32
}

// BallotBox is a box that passed NewBallotBox. It is immutable.
type BallotBox struct {
	box      *box.ErgoBox
	contract *ballot.Contract
	vote     Vote
}

// NewBallotBox checks that b is a ballot box owned by the configured owner
// which already carries a vote. Differences between the recorded vote and the
// configured vote are returned as warnings; the box is still accepted.
func NewBallotBox(b *box.ErgoBox, inputs BallotBoxInputs) (*BallotBox, Warnings, error) {
	if inputs.Parameters == nil || inputs.Parameters.VoteParameters == nil {
		return nil, nil, ErrExpectedVoteCast
	}
	var (
		params   = inputs.Parameters
		vote     = params.VoteParameters
		regs     = b.Registers()
		warnings Warnings
	)

	token, ok := b.Token(0)
	if !ok {
		return nil, nil, ErrNoBallotToken
	}
	if token.ID != inputs.BallotTokenID {
		return nil, nil, fmt.Errorf("%w: have %v, want %v", ErrUnknownBallotTokenID, token.ID, inputs.BallotTokenID)
	}

	ownerKey, err := regs.EcPoint(ownerRegister)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoGroupElementInR4, err)
	}
	owner, err := params.OwnerAddress()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrAddressEncoder, err)
	}
	if !address.NewP2PK(crypto.NewProveDlog(ownerKey)).Equal(owner) {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnexpectedGroupElementInR4, ownerKey)
	}

	height, err := regs.Int(updateBoxCreationHeightRegister)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoUpdateBoxCreationHeightInR5, err)
	}

	poolBoxHash, err := regs.Digest32(poolBoxAddressHashRegister)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoPoolBoxAddressInR6, err)
	}
	wantPoolBoxHash, err := vote.PoolBoxAddressDigest()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPoolBoxAddressHash, err)
	}
	if poolBoxHash != wantPoolBoxHash {
		log.Warn("Pool box address hash in ballot box differs from config, could be due to vote",
			"box", b.ID(), "register", poolBoxAddressHashRegister, "have", poolBoxHash, "want", wantPoolBoxHash)
		warnings = append(warnings, WarnPoolBoxAddressDiffers)
	}

	rewardTokenID, err := regs.TokenID(rewardTokenIDRegister)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoRewardTokenIDInR7, err)
	}
	if rewardTokenID != vote.RewardTokenID {
		log.Warn("Reward token id in ballot box differs from config, could be due to vote",
			"box", b.ID(), "register", rewardTokenIDRegister, "have", rewardTokenID, "want", vote.RewardTokenID)
		warnings = append(warnings, WarnRewardTokenIDDiffers)
	}

	quantity, err := regs.Int(rewardTokenQuantityRegister)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoRewardTokenQuantityInR8, err)
	}
	if uint32(quantity) != vote.RewardTokenQuantity {
		log.Warn("Reward token quantity in ballot box differs from config, could be due to vote",
			"box", b.ID(), "register", rewardTokenQuantityRegister, "have", uint32(quantity), "want", vote.RewardTokenQuantity)
		warnings = append(warnings, WarnRewardTokenQuantityDiffers)
	}

	contract, err := ballot.Load(b.ErgoTree(), inputs.contractInputs())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBallotContract, err)
	}
	return &BallotBox{
		box:      b,
		contract: contract,
		vote: Vote{
			UpdateBoxCreationHeight: height,
			PoolBoxAddressHash:      poolBoxHash,
			RewardTokenID:           rewardTokenID,
			RewardTokenQuantity:     uint32(quantity),
		},
	}, warnings, nil
}

// Contract returns the ballot contract the box is locked by.
func (bb *BallotBox) Contract() *ballot.Contract { return bb.contract }

// BallotToken returns the ballot token held in TOKENS(0).
func (bb *BallotBox) BallotToken() box.Token {
	t, ok := bb.box.Token(0)
	if !ok {
		panic("boxkind: ballot box without ballot token")
	}
	return t
}

// MinStorageRent returns the minimum value the contract requires the box to keep.
func (bb *BallotBox) MinStorageRent() uint64 { return bb.contract.MinStorageRent() }

// BallotTokenOwner returns the owner key stored in R4.
func (bb *BallotBox) BallotTokenOwner() crypto.ProveDlog {
	p, err := bb.box.Registers().EcPoint(ownerRegister)
	if err != nil {
		panic(fmt.Sprintf("boxkind: ballot box owner unreadable: %v", err))
	}
	return crypto.NewProveDlog(p)
}

// Vote returns the vote recorded in the box.
func (bb *BallotBox) Vote() Vote { return bb.vote }

// Box returns the underlying box.
func (bb *BallotBox) Box() *box.ErgoBox { return bb.box }
