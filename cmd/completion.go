package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests and exits, when the shell asks
// for one. Otherwise it does nothing.
//
// Install with COMP_INSTALL=1 mvo, uninstall with COMP_UNINSTALL=1 mvo.
func Complete(name string, commands []subcommands.Command) {
	completionCommand(commands).Complete(name)
}

func completionCommand(commands []subcommands.Command) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictors(flag.CommandLine),
	}
	for _, c := range commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: predictors(fs)}
		switch c.Name() {
		case "topic":
			sub.Args = predict.Set(topicNames())
		case "search":
			sub.Args = predict.Nothing
		default:
			sub.Args = predict.Something
		}
		root.Sub[c.Name()] = sub
	}
	root.Flags["provider"] = predict.Set{"eodhd", "yahoo", "csv"}
	root.Flags["log-level"] = predict.Set{"trace", "debug", "info", "warn", "error"}
	root.Flags["config"] = predict.Files("*.yaml")
	root.Flags["data-dir"] = predict.Dirs("*")
	root.Flags["cache-dir"] = predict.Dirs("*")
	if sub, ok := root.Sub["frontier"]; ok {
		sub.Flags["chart"] = predict.Files("*.png")
	}
	if sub, ok := root.Sub["history"]; ok {
		sub.Flags["csv"] = predict.Dirs("*")
	}
	return root
}

// predictors predicts a value for every non boolean flag of fs.
func predictors(fs *flag.FlagSet) map[string]complete.Predictor {
	m := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = predict.Nothing
			return
		}
		m[f.Name] = predict.Something
	})
	return m
}
