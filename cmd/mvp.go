package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

type mvpCmd struct{}

func (*mvpCmd) Name() string     { return "mvp" }
func (*mvpCmd) Synopsis() string { return "compute the minimum variance portfolio" }
func (*mvpCmd) Usage() string {
	return `mvo mvp [<symbol>...]

  Computes the fully invested portfolio of least variance. Short positions
  are allowed, so weights can be negative.
`
}

func (c *mvpCmd) SetFlags(f *flag.FlagSet) {}

func (c *mvpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return solve(ctx, f.Args(), "Minimum variance portfolio", func(e *markowitz.Estimates, _ *markowitz.Config) (markowitz.Portfolio, error) {
		return e.MinimumVariance()
	})
}

type tangencyCmd struct {
	rf string
}

func (*tangencyCmd) Name() string     { return "tangency" }
func (*tangencyCmd) Synopsis() string { return "compute the tangency portfolio" }
func (*tangencyCmd) Usage() string {
	return `mvo tangency [-rf <rate>] [<symbol>...]

  Computes the portfolio of highest Sharpe ratio for the risk-free rate.
  Short positions are allowed, so weights can be negative.
`
}

func (c *tangencyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rf, "rf", "", "Annual risk-free rate, e.g. 0.03. Defaults to the configured one.")
}

func (c *tangencyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var rf *float64
	if c.rf != "" {
		v, err := strconv.ParseFloat(c.rf, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -rf: %v\n", err)
			return subcommands.ExitUsageError
		}
		rf = &v
	}
	return solve(ctx, f.Args(), "Tangency portfolio", func(e *markowitz.Estimates, cfg *markowitz.Config) (markowitz.Portfolio, error) {
		if rf == nil {
			return e.Tangency(cfg.RiskFree())
		}
		return e.Tangency(*rf)
	})
}

// solve loads the symbols and prints the portfolio computed by fn.
func solve(ctx context.Context, args []string, title string, fn func(*markowitz.Estimates, *markowitz.Config) (markowitz.Portfolio, error)) subcommands.ExitStatus {
	amount, err := capital()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing capital: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := newSession(args)
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

	p, err := fn(u.Estimates(), s.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the %s: %v\n", title, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PortfolioMarkdown(title, p, amount))
	return subcommands.ExitSuccess
}
