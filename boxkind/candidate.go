package boxkind

import (
	"fmt"
	"math"

	"github.com/tos-network/oraclepool/box"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/contracts/ballot"
	"github.com/tos-network/oraclepool/crypto"
	"github.com/tos-network/oraclepool/sigma"
)

// MakeBallotBoxCandidate builds an unconfirmed ballot box casting a vote for
// the given pool box script hash and reward tokens. The ballot token is the
// only token of the box. Only the amount of rewardTokens is recorded, in R8.
func MakeBallotBoxCandidate(
	contract *ballot.Contract,
	owner crypto.ProveDlog,
	updateBoxCreationHeight uint32,
	ballotToken box.Token,
	poolBoxAddressHash common.Digest32,
	rewardTokens box.Token,
	value uint64,
	creationHeight uint32,
) (*box.Candidate, error) {
	if updateBoxCreationHeight > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrUpdateBoxCreationHeightOverflow, updateBoxCreationHeight)
	}
	if rewardTokens.Amount > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrRewardTokenQuantityOverflow, rewardTokens.Amount)
	}
	builder := box.NewCandidateBuilder(value, contract.ErgoTree(), creationHeight)
	builder.SetRegisterValue(ownerRegister, sigma.GroupElement(owner.H))
	builder.SetRegisterValue(updateBoxCreationHeightRegister, sigma.Int(int32(updateBoxCreationHeight)))
	builder.SetRegisterValue(poolBoxAddressHashRegister, sigma.CollByte(poolBoxAddressHash.Bytes()))
	builder.SetRegisterValue(rewardTokenIDRegister, sigma.CollByte(rewardTokens.ID.Bytes()))
	builder.SetRegisterValue(rewardTokenQuantityRegister, sigma.Int(int32(rewardTokens.Amount)))
	builder.AddToken(ballotToken)
	return builder.Build()
}
