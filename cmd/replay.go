package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundtrade"
	"github.com/google/subcommands"
)

// replayCmd holds the flags for the 'replay' subcommand.
type replayCmd struct {
	holdingFlags
	lots bool
}

func (*replayCmd) Name() string     { return "replay" }
func (*replayCmd) Synopsis() string { return "replay a statement into its cash-flow ledger" }
func (*replayCmd) Usage() string {
	return `ft replay -records <file> -prices <file> [-code <code>] [-horizon <date>] [-lots]

  Replays the statement records against the valuation history and prints the
  resulting cash-flow ledger as JSONL, one resolved trading day per line.
  With -lots the lot-remainder ledger is printed instead.
  Warnings raised during the replay go to stderr.
`
}

func (c *replayCmd) SetFlags(f *flag.FlagSet) {
	c.holdingFlags.SetFlags(f)
	f.BoolVar(&c.lots, "lots", false, "Print the lot-remainder ledger instead of the cash flows")
}

func (c *replayCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, warnings, err := c.build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if c.lots {
		err = fundtrade.EncodeLotLedger(os.Stdout, t.LotLedger())
	} else {
		err = fundtrade.EncodeCashFlows(os.Stdout, t.CashFlows())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
