package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/slackteams/tokenstore/internal/cli"
	"github.com/slackteams/tokenstore/internal/output"
)

var (
	version = "dev"
)

func main() {
	cliInstance := &cli.CLI{}
	parser, err := cli.NewParser(cliInstance, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(output.ExitGeneral)
	}

	ctx, err := parser.Parse(os.Args[1:])
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		// Config failures surface from AfterApply during parsing
		os.Exit(output.ExitWithError(output.New(cliInstance.OutputMode()), cliErr))
	}
	parser.FatalIfErrorf(err)

	// Run command with bound dependencies
	if err := ctx.Run(); err != nil {
		os.Exit(output.ExitWithError(output.New(cliInstance.OutputMode()), err))
	}
}
