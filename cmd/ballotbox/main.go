// ballotbox inspects and builds oracle pool ballot boxes.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/oraclepool/boxkind"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/internal/flags"
	"github.com/tos-network/oraclepool/log"
	"github.com/tos-network/oraclepool/oracleconfig"
)

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app *cli.App

func init() {
	app = flags.NewApp(gitCommit, gitDate, "an oracle pool ballot box tool")
	app.Flags = []cli.Flag{
		verbosityFlag,
		logCallerFlag,
	}
	app.Before = setupLogging
	app.Commands = []*cli.Command{
		commandInspect,
		commandScan,
		commandBuild,
		commandDumpConfig,
		commandVersion,
	}
}

// Commonly used command line flags.
var (
	configFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Required: true,
		Category: flags.ConfigCategory,
	}
	ballotTokenFlag = &cli.StringFlag{
		Name:     "ballot-token",
		Usage:    "ballot token id, overrides the configured one",
		Category: flags.ConfigCategory,
	}
	updateNFTFlag = &cli.StringFlag{
		Name:     "update-nft",
		Usage:    "update NFT token id, overrides the configured one",
		Category: flags.ConfigCategory,
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output JSON instead of human-readable format",
	}
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    int(log.LvlWarn),
		Category: flags.LoggingCategory,
	}
	logCallerFlag = &cli.BoolFlag{
		Name:     "log.caller",
		Usage:    "prepend log messages with call-site location (file and line number)",
		Category: flags.LoggingCategory,
	}
)

func setupLogging(ctx *cli.Context) error {
	var (
		output   = ctx.App.ErrWriter
		usecolor = false
	)
	if f, ok := output.(*os.File); ok {
		usecolor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
		if usecolor {
			output = colorable.NewColorable(f)
		}
	}
	handler := log.StreamHandler(output, log.TerminalFormat(usecolor))
	if ctx.Bool(logCallerFlag.Name) {
		handler = log.CallerFileHandler(handler)
	}
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(ctx.Int(verbosityFlag.Name)), handler))
	return nil
}

// loadInputs reads the configuration and the token ids ballot boxes are
// checked against.
func loadInputs(ctx *cli.Context) (*oracleconfig.Config, boxkind.BallotBoxInputs, error) {
	cfg, err := oracleconfig.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, boxkind.BallotBoxInputs{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, boxkind.BallotBoxInputs{}, err
	}
	inputs := boxkind.BallotBoxInputs{
		Parameters:       &cfg.Ballot,
		BallotTokenID:    cfg.Tokens.BallotTokenID,
		UpdateNFTTokenID: cfg.Tokens.UpdateNFTTokenID,
	}
	if ctx.IsSet(ballotTokenFlag.Name) {
		if inputs.BallotTokenID, err = common.HexToTokenID(ctx.String(ballotTokenFlag.Name)); err != nil {
			return nil, boxkind.BallotBoxInputs{}, fmt.Errorf("invalid --%s: %v", ballotTokenFlag.Name, err)
		}
	}
	if ctx.IsSet(updateNFTFlag.Name) {
		if inputs.UpdateNFTTokenID, err = common.HexToTokenID(ctx.String(updateNFTFlag.Name)); err != nil {
			return nil, boxkind.BallotBoxInputs{}, fmt.Errorf("invalid --%s: %v", updateNFTFlag.Name, err)
		}
	}
	log.Debug("Loaded configuration", "file", ctx.String(configFlag.Name), "network", cfg.Network,
		"ballotToken", inputs.BallotTokenID, "updateNFT", inputs.UpdateNFTTokenID)
	return cfg, inputs, nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
