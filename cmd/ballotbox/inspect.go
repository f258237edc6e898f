package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/oraclepool/address"
	"github.com/tos-network/oraclepool/box"
	"github.com/tos-network/oraclepool/boxkind"
)

type outputInspect struct {
	BoxID                   string   `json:"boxId"`
	Value                   uint64   `json:"value"`
	MinStorageRent          uint64   `json:"minStorageRent"`
	BallotToken             string   `json:"ballotToken"`
	BallotTokenAmount       uint64   `json:"ballotTokenAmount"`
	Owner                   string   `json:"owner"`
	UpdateBoxCreationHeight int32    `json:"updateBoxCreationHeight"`
	PoolBoxAddressHash      string   `json:"poolBoxAddressHash"`
	RewardTokenID           string   `json:"rewardTokenId"`
	RewardTokenQuantity     uint32   `json:"rewardTokenQuantity"`
	Warnings                []string `json:"warnings,omitempty"`
}

var (
	dumpFlag = &cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the decoded box structure",
	}
)

var commandInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "validate a ballot box",
	ArgsUsage: "<box.json>",
	Description: `
Check that the box in the given file, in node API JSON form, is a ballot box
owned by the configured owner and print the vote it carries.

Differences between the vote in the box and the configured vote are reported
as warnings, they do not make the box invalid.`,
	Flags: []cli.Flag{
		configFlag,
		ballotTokenFlag,
		updateNFTFlag,
		jsonFlag,
		dumpFlag,
	},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("expected a single box file, got %d arguments", ctx.NArg())
		}
		cfg, inputs, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		network, err := cfg.NetworkPrefix()
		if err != nil {
			return err
		}
		b, err := readBox(ctx.Args().First())
		if err != nil {
			return err
		}
		if ctx.Bool(dumpFlag.Name) {
			spew.Fdump(ctx.App.ErrWriter, b)
		}
		bb, warnings, err := boxkind.NewBallotBox(b, inputs)
		if err != nil {
			return fmt.Errorf("box %v is not a valid ballot box: %w", b.ID(), err)
		}
		out := newOutputInspect(bb, warnings, address.NewEncoder(network))

		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx, out)
		}
		table := tablewriter.NewWriter(ctx.App.Writer)
		table.SetHeader([]string{"Field", "Value"})
		table.SetAutoWrapText(false)
		table.AppendBulk([][]string{
			{"Box ID", out.BoxID},
			{"Value", strconv.FormatUint(out.Value, 10)},
			{"Min storage rent", strconv.FormatUint(out.MinStorageRent, 10)},
			{"Ballot token", fmt.Sprintf("%s (%d)", out.BallotToken, out.BallotTokenAmount)},
			{"Owner", out.Owner},
			{"Update box height", strconv.FormatInt(int64(out.UpdateBoxCreationHeight), 10)},
			{"Pool box hash", out.PoolBoxAddressHash},
			{"Reward token", out.RewardTokenID},
			{"Reward quantity", strconv.FormatUint(uint64(out.RewardTokenQuantity), 10)},
		})
		for _, w := range out.Warnings {
			table.Append([]string{"Warning", w})
		}
		table.Render()
		return nil
	},
}

func newOutputInspect(bb *boxkind.BallotBox, warnings boxkind.Warnings, enc address.Encoder) outputInspect {
	var (
		token = bb.BallotToken()
		vote  = bb.Vote()
	)
	out := outputInspect{
		BoxID:                   bb.Box().ID().Hex(),
		Value:                   bb.Box().Value(),
		MinStorageRent:          bb.MinStorageRent(),
		BallotToken:             token.ID.Hex(),
		BallotTokenAmount:       token.Amount,
		Owner:                   enc.Encode(address.NewP2PK(bb.BallotTokenOwner())),
		UpdateBoxCreationHeight: vote.UpdateBoxCreationHeight,
		PoolBoxAddressHash:      vote.PoolBoxAddressHash.Hex(),
		RewardTokenID:           vote.RewardTokenID.Hex(),
		RewardTokenQuantity:     vote.RewardTokenQuantity,
	}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	return out
}

func readBox(file string) (*box.ErgoBox, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read box file '%s': %v", file, err)
	}
	b := new(box.ErgoBox)
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("invalid box file '%s': %v", file, err)
	}
	return b, nil
}

func readBoxes(file string) ([]*box.ErgoBox, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read box file '%s': %v", file, err)
	}
	var boxes []*box.ErgoBox
	if err := json.Unmarshal(data, &boxes); err != nil {
		return nil, fmt.Errorf("invalid box file '%s': %v", file, err)
	}
	return boxes, nil
}

func printJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %v", err)
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}
