package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/markowitz/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the mvo manual: estimation, portfolios, frontier" }
func (*topicCmd) Usage() string {
	return `mvo topic [-list] [<topic>...]

  Prints pages of the mvo manual. Without a topic it prints the readme,
  "*" prints every page, -list prints the page names.

  Examples:
    mvo topic frontier
    mvo topic statistics portfolios
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the manual pages.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		names, err := docs.GetAllTopics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing the manual: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(strings.Join(names, "\n"))
		return subcommands.ExitSuccess
	}

	pages := f.Args()
	if len(pages) == 0 {
		pages = []string{"readme"}
	}
	doc, err := docs.GetTopics(pages...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading the manual: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicNames lists the manual pages, for completion.
func topicNames() []string {
	names, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	return append(names, "readme", "*")
}
