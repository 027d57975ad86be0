package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

type estimateCmd struct{}

func (*estimateCmd) Name() string     { return "estimate" }
func (*estimateCmd) Synopsis() string { return "estimate mean returns and covariance" }
func (*estimateCmd) Usage() string {
	return `mvo estimate [<symbol>...]

  Fetches the price history of each symbol, aligns their returns on common
  dates and displays the annualized mean returns and the covariance matrix.
`
}

func (c *estimateCmd) SetFlags(f *flag.FlagSet) {}

func (c *estimateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	u, err := s.load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.EstimatesMarkdown(u.Estimates(), u.Range(), u.Matrix().Rows(), u.Warnings()))
	return subcommands.ExitSuccess
}
