package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundtrade"
	"github.com/google/subcommands"
)

// xirrCmd holds the flags for the 'xirr' subcommand.
type xirrCmd struct {
	holdingFlags
	date  string
	start string
	guess float64
}

func (*xirrCmd) Name() string     { return "xirr" }
func (*xirrCmd) Synopsis() string { return "compute the money-weighted annual return of a holding" }
func (*xirrCmd) Usage() string {
	return `ft xirr -records <file> -prices <file> [-d <date>] [-start <date>] [-guess <rate>]

  Rebuilds the trade and computes the internal rate of return of its cash
  flows as if the position were liquidated on the given date. With -start,
  only the period after the start date is measured: the position value on
  that date counts as the opening investment.
`
}

func (c *xirrCmd) SetFlags(f *flag.FlagSet) {
	c.holdingFlags.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Liquidation date (defaults to yesterday)")
	f.StringVar(&c.start, "start", "", "Measure the return from this date only")
	f.Float64Var(&c.guess, "guess", 0.1, "Initial rate for the solver")
}

func (c *xirrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := fundtrade.Yesterday()
	var err error
	if c.date != "" {
		if on, err = fundtrade.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	var start fundtrade.Date
	if c.start != "" {
		if start, err = fundtrade.ParseDate(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	t, warnings, err := c.build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	rate, err := fundtrade.CombinedXIRR([]fundtrade.Holding{t}, on, start, c.guess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s: %.4f%%\n", t.Code(), on, rate*100)
	return subcommands.ExitSuccess
}
