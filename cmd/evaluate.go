package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

type evaluateCmd struct {
	weights string
}

func (*evaluateCmd) Name() string     { return "evaluate" }
func (*evaluateCmd) Synopsis() string { return "evaluate a weighted portfolio" }
func (*evaluateCmd) Usage() string {
	return `mvo evaluate -weights <w1,w2,...> [<symbol>...]

  Displays the expected return and the volatility of the portfolio holding
  the symbols in proportion to the weights. Weights are normalized, so
  "3,1" means 75% and 25%.
`
}

func (c *evaluateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.weights, "weights", "", "Comma separated weights, one per symbol, in the symbols order.")
}

func (c *evaluateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	weights, err := parseWeights(c.weights)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -weights: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := capital()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing capital: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := newSession(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	h, err := markowitz.EvaluateHolding(ctx, s.fetcher, s.cfg, weights, s.options()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating the portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printWarnings(h.Universe)
	printMarkdown(renderer.PortfolioMarkdown("Portfolio", h.Portfolio, amount))
	return subcommands.ExitSuccess
}

func parseWeights(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no weight")
	}
	var weights []float64
	for _, field := range strings.Split(s, ",") {
		w, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}
	return weights, nil
}
