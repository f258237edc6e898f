package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/oraclepool/oracleconfig"
	"github.com/tos-network/oraclepool/params"
)

var (
	commandVersion = &cli.Command{
		Action:    version,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Description: `
The output of this command is supposed to be machine-readable.
`,
	}
	commandDumpConfig = &cli.Command{
		Action:    dumpConfig,
		Name:      "dumpconfig",
		Usage:     "Show configuration values",
		ArgsUsage: "<config.toml (optional)>",
		Description: `
Print the configuration in the given file, or the defaults when no file is
given, with all fields filled in.`,
	}
)

func version(ctx *cli.Context) error {
	w := ctx.App.Writer
	fmt.Fprintln(w, "Ballotbox")
	fmt.Fprintln(w, "Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Fprintln(w, "Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Fprintln(w, "Git Commit Date:", gitDate)
	}
	fmt.Fprintln(w, "Architecture:", runtime.GOARCH)
	fmt.Fprintln(w, "Go Version:", runtime.Version())
	fmt.Fprintln(w, "Operating System:", runtime.GOOS)
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg := oracleconfig.Defaults
	if file := ctx.Args().First(); file != "" {
		loaded, err := oracleconfig.Load(file)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	return oracleconfig.Dump(ctx.App.Writer, &cfg)
}
