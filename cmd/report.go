package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundtrade"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	holdingFlags
	date string
	raw  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a daily holding report" }
func (*reportCmd) Usage() string {
	return `ft report -records <file> -prices <file> [-code <code>] [-d <date>]

  Rebuilds the trade and displays the position, cost and return metrics of
  the holding on the given date.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.holdingFlags.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Date for the report (defaults to yesterday)")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown without terminal rendering")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := fundtrade.Yesterday()
	if c.date != "" {
		var err error
		on, err = fundtrade.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date: %v\n", err)
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

	md := t.Report(on).Markdown()
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
