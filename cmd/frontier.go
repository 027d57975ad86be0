package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/chart"
	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

type frontierCmd struct {
	chart string
}

func (*frontierCmd) Name() string     { return "frontier" }
func (*frontierCmd) Synopsis() string { return "compute the long-only efficient frontier" }
func (*frontierCmd) Usage() string {
	return `mvo frontier [-chart <file.png>] [<symbol>...]

  Computes the minimum variance long-only portfolio for 50 target returns
  evenly spaced between the lowest and the highest mean return.
`
}

func (c *frontierCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.chart, "chart", "", "Also draw the frontier to this PNG file.")
}

func (c *frontierCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printWarnings(u)

	frontier, err := u.Estimates().EfficientFrontier(ctx, markowitz.WithFrontierLogger(s.logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the frontier: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.FrontierMarkdown(frontier))

	if c.chart == "" {
		return subcommands.ExitSuccess
	}
	if err := writeChart(c.chart, frontier); err != nil {
		fmt.Fprintf(os.Stderr, "Error drawing chart: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeChart draws the frontier to a PNG file. No file is left behind on
// error.
func writeChart(path string, frontier *markowitz.Frontier) (err error) {
	if len(frontier.Points) == 0 {
		return errors.New("the frontier has no point")
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return frontier.Plot(chart.NewPNG(out, "Efficient frontier"))
}
