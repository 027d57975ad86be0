// Command mvo computes mean-variance optimal portfolios from market prices.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/markowitz/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	cmd.Complete(name, cmd.Commands)
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
