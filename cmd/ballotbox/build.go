package main

import (
	"fmt"
	"math"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/oraclepool/address"
	"github.com/tos-network/oraclepool/box"
	"github.com/tos-network/oraclepool/boxkind"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/contracts/ballot"
	"github.com/tos-network/oraclepool/internal/flags"
	"github.com/tos-network/oraclepool/log"
)

var (
	heightFlag = &cli.Uint64Flag{
		Name:     "height",
		Usage:    "creation height of the new box",
		Required: true,
		Category: flags.BallotCategory,
	}
	updateHeightFlag = &cli.Uint64Flag{
		Name:     "update-height",
		Usage:    "creation height of the update box being voted on",
		Required: true,
		Category: flags.BallotCategory,
	}
	ownerFlag = &cli.StringFlag{
		Name:     "owner",
		Usage:    "P2PK address of the ballot token owner (default: configured owner)",
		Category: flags.BallotCategory,
	}
	poolBoxHashFlag = &cli.StringFlag{
		Name:     "pool-box-hash",
		Usage:    "hex blake2b256 hash of the proposed pool box script (default: configured vote)",
		Category: flags.BallotCategory,
	}
	rewardTokenFlag = &cli.StringFlag{
		Name:     "reward-token",
		Usage:    "proposed reward token id (default: configured vote)",
		Category: flags.BallotCategory,
	}
	rewardAmountFlag = &cli.Uint64Flag{
		Name:     "reward-amount",
		Usage:    "proposed reward token quantity (default: configured vote)",
		Category: flags.BallotCategory,
	}
	ballotAmountFlag = &cli.Uint64Flag{
		Name:     "ballot-amount",
		Usage:    "number of ballot tokens to lock in the box",
		Value:    1,
		Category: flags.BallotCategory,
	}
	valueFlag = &cli.Uint64Flag{
		Name:     "value",
		Usage:    "box value in nanocoins (default: contract minimum storage rent)",
		Category: flags.BallotCategory,
	}
)

var commandBuild = &cli.Command{
	Name:  "build",
	Usage: "build an unsigned ballot box casting a vote",
	Description: `
Build a ballot box candidate locked by the configured ballot contract and print
it in node API JSON form. Vote fields not given on the command line are taken
from the configured vote.`,
	Flags: []cli.Flag{
		configFlag,
		ballotTokenFlag,
		updateNFTFlag,
		heightFlag,
		updateHeightFlag,
		ownerFlag,
		poolBoxHashFlag,
		rewardTokenFlag,
		rewardAmountFlag,
		ballotAmountFlag,
		valueFlag,
	},
	Action: func(ctx *cli.Context) error {
		cfg, inputs, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		network, err := cfg.NetworkPrefix()
		if err != nil {
			return err
		}
		contract, err := ballot.Create(ballot.ContractInputs{
			Parameters:       cfg.Ballot.ContractParameters.Contract(),
			UpdateNFTTokenID: inputs.UpdateNFTTokenID,
		})
		if err != nil {
			return err
		}

		ownerAddr := cfg.Ballot.BallotTokenOwnerAddress
		if ctx.IsSet(ownerFlag.Name) {
			ownerAddr = ctx.String(ownerFlag.Name)
		}
		addr, err := address.NewEncoder(network).Parse(ownerAddr)
		if err != nil {
			return fmt.Errorf("invalid owner address: %v", err)
		}
		owner, ok := addr.ProveDlog()
		if !ok {
			return fmt.Errorf("owner address %s is not a P2PK address", ownerAddr)
		}

		var (
			vote        = cfg.Ballot.VoteParameters
			poolBoxHash common.Digest32
			reward      box.Token
		)
		if vote != nil {
			if poolBoxHash, err = vote.PoolBoxAddressDigest(); err != nil {
				return err
			}
			reward = box.Token{ID: vote.RewardTokenID, Amount: uint64(vote.RewardTokenQuantity)}
		} else if !ctx.IsSet(poolBoxHashFlag.Name) || !ctx.IsSet(rewardTokenFlag.Name) || !ctx.IsSet(rewardAmountFlag.Name) {
			return fmt.Errorf("no vote configured, --%s, --%s and --%s are required",
				poolBoxHashFlag.Name, rewardTokenFlag.Name, rewardAmountFlag.Name)
		}
		if ctx.IsSet(poolBoxHashFlag.Name) {
			if poolBoxHash, err = common.HexToDigest32(ctx.String(poolBoxHashFlag.Name)); err != nil {
				return fmt.Errorf("invalid --%s: %v", poolBoxHashFlag.Name, err)
			}
		}
		if ctx.IsSet(rewardTokenFlag.Name) {
			if reward.ID, err = common.HexToTokenID(ctx.String(rewardTokenFlag.Name)); err != nil {
				return fmt.Errorf("invalid --%s: %v", rewardTokenFlag.Name, err)
			}
		}
		if ctx.IsSet(rewardAmountFlag.Name) {
			reward.Amount = ctx.Uint64(rewardAmountFlag.Name)
		}
		height := ctx.Uint64(heightFlag.Name)
		if height > math.MaxUint32 {
			return fmt.Errorf("invalid --%s: %d exceeds %d", heightFlag.Name, height, uint32(math.MaxUint32))
		}
		updateHeight := ctx.Uint64(updateHeightFlag.Name)
		if updateHeight > math.MaxUint32 {
			return fmt.Errorf("%w: --%s %d", boxkind.ErrUpdateBoxCreationHeightOverflow, updateHeightFlag.Name, updateHeight)
		}
		value := contract.MinStorageRent()
		if ctx.IsSet(valueFlag.Name) {
			value = ctx.Uint64(valueFlag.Name)
		}

		candidate, err := boxkind.MakeBallotBoxCandidate(
			contract,
			owner,
			uint32(updateHeight),
			box.Token{ID: inputs.BallotTokenID, Amount: ctx.Uint64(ballotAmountFlag.Name)},
			poolBoxHash,
			reward,
			value,
			uint32(height),
		)
		if err != nil {
			return err
		}
		log.Info("Built ballot box candidate", "owner", ownerAddr, "poolBoxHash", poolBoxHash,
			"rewardToken", reward.ID, "rewardAmount", reward.Amount, "value", value)
		return printJSON(ctx, candidate)
	},
}
