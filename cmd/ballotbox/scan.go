package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/oraclepool/address"
	"github.com/tos-network/oraclepool/boxkind"
)

var commandScan = &cli.Command{
	Name:      "scan",
	Usage:     "find the ballot boxes in a list of boxes",
	ArgsUsage: "<boxes.json>",
	Description: `
Validate every box of the JSON array in the given file and print the ones
that are ballot boxes of the configured owner. Other boxes are skipped, run
with --verbosity 4 to see why.`,
	Flags: []cli.Flag{
		configFlag,
		ballotTokenFlag,
		updateNFTFlag,
		jsonFlag,
	},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("expected a single boxes file, got %d arguments", ctx.NArg())
		}
		cfg, inputs, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		network, err := cfg.NetworkPrefix()
		if err != nil {
			return err
		}
		boxes, err := readBoxes(ctx.Args().First())
		if err != nil {
			return err
		}
		found, err := boxkind.ScanBallotBoxes(ctx.Context, boxes, inputs)
		if err != nil {
			return err
		}
		enc := address.NewEncoder(network)
		outs := make([]outputInspect, 0, len(found))
		for _, bb := range found {
			// Warnings were already logged during the scan.
			outs = append(outs, newOutputInspect(bb, nil, enc))
		}
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx, outs)
		}
		table := tablewriter.NewWriter(ctx.App.Writer)
		table.SetHeader([]string{"Box ID", "Value", "Update height", "Pool box hash", "Reward token", "Quantity"})
		table.SetAutoWrapText(false)
		for _, out := range outs {
			table.Append([]string{
				out.BoxID,
				strconv.FormatUint(out.Value, 10),
				strconv.FormatInt(int64(out.UpdateBoxCreationHeight), 10),
				out.PoolBoxAddressHash,
				out.RewardTokenID,
				strconv.FormatUint(uint64(out.RewardTokenQuantity), 10),
			})
		}
		table.SetFooter([]string{"", "", "", "", "Ballot boxes", fmt.Sprintf("%d of %d", len(outs), len(boxes))})
		table.Render()
		return nil
	},
}
