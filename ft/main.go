package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fundtrade/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion wires shell completion; it exits early when invoked by the
// shell completion hook.
func completion() {
	jsonl := predict.Files("*.jsonl")
	holding := func(extra map[string]complete.Predictor) map[string]complete.Predictor {
		flags := map[string]complete.Predictor{
			"records":  jsonl,
			"prices":   jsonl,
			"code":     predict.Nothing,
			"name":     predict.Nothing,
			"horizon":  predict.Nothing,
			"reinvest": predict.Nothing,
			"exchange": predict.Nothing,
			"sub-fee":  predict.Nothing,
			"red-fee":  predict.Nothing,
		}
		for k, v := range extra {
			flags[k] = v
		}
		return flags
	}
	ft := &complete.Command{
		Sub: map[string]*complete.Command{
			"replay": {Flags: holding(map[string]complete.Predictor{"lots": predict.Nothing})},
			"report": {Flags: holding(map[string]complete.Predictor{"d": predict.Nothing, "raw": predict.Nothing})},
			"xirr":   {Flags: holding(map[string]complete.Predictor{"d": predict.Nothing, "start": predict.Nothing, "guess": predict.Nothing})},
			"fetch":  {Flags: map[string]complete.Predictor{"code": predict.Nothing, "o": jsonl}},
			"topic":  {Args: predict.Something},
		},
	}
	ft.Complete("ft")
}
