// Package cmd implements the CLI application to replay fund statements.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundtrade"
	"github.com/google/subcommands"
)

// Commands lists the subcommands in registration order.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&replayCmd{},
	&reportCmd{},
	&xirrCmd{},
	&fetchCmd{},
	&topicCmd{},
}

// holding is the full surface a rebuilt trade exposes to the commands,
// satisfied by both fund and exchange trades.
type holding interface {
	fundtrade.Holding
	Code() string
	Name() string
	LotLedger() []fundtrade.LotSnapshot
	Report(on fundtrade.Date) fundtrade.Report
	XIRR(on fundtrade.Date, guess float64) (float64, error)
}

// holdingFlags is the flag set shared by every command that rebuilds a trade
// from a statement and a valuation history.
type holdingFlags struct {
	recordsFile string
	pricesFile  string
	code        string
	name        string
	horizon     string
	reinvest    bool
	exchange    bool
	subFee      float64
	redFee      float64
}

func (c *holdingFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.recordsFile, "records", "records.jsonl", "Statement records file (JSONL format)")
	f.StringVar(&c.pricesFile, "prices", "prices.jsonl", "Valuation history file (JSONL format)")
	f.StringVar(&c.code, "code", "", "Instrument code")
	f.StringVar(&c.name, "name", "", "Instrument display name (defaults to the code)")
	f.StringVar(&c.horizon, "horizon", "", "Replay horizon date (defaults to yesterday)")
	f.BoolVar(&c.reinvest, "reinvest", false, "Reinvest dividends instead of paying them out")
	f.BoolVar(&c.exchange, "exchange", false, "Treat records as executed exchange trades")
	f.Float64Var(&c.subFee, "sub-fee", 0, "Subscription fee rate, e.g. 0.0015")
	f.Float64Var(&c.redFee, "red-fee", 0, "Redemption fee rate, e.g. 0.005")
}

func loadRecords(path string) ([]fundtrade.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open statement %q: %w", path, err)
	}
	defer f.Close()
	return fundtrade.DecodeRecords(f)
}

func loadSeries(path string) (*fundtrade.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open valuations %q: %w", path, err)
	}
	defer f.Close()
	return fundtrade.DecodeSeries(f)
}

// build rebuilds the trade described by the flags.
func (c *holdingFlags) build() (holding, []fundtrade.Warning, error) {
	records, err := loadRecords(c.recordsFile)
	if err != nil {
		return nil, nil, err
	}
	quotes, err := loadSeries(c.pricesFile)
	if err != nil {
		return nil, nil, err
	}
	name := c.name
	if name == "" {
		name = c.code
	}

	if c.exchange {
		t := fundtrade.NewExchangeTrade(c.code, name, "CNY", quotes, records)
		return t, nil, nil
	}

	horizon := fundtrade.Yesterday()
	if c.horizon != "" {
		horizon, err = fundtrade.ParseDate(c.horizon)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid horizon: %w", err)
		}
	}

	fund := fundtrade.NewFund(c.code, name, "CNY", quotes).
		WithFees(c.subFee, c.redFee)
	if c.reinvest {
		fund = fund.WithDividendMode(fundtrade.DividendReinvest)
	}
	t, err := fundtrade.NewTradeUntil(fund, records, horizon)
	if err != nil {
		return nil, nil, err
	}
	return t, t.Warnings(), nil
}
