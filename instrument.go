package fundtrade

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DividendMode is the standing instrument-level dividend handling setting.
// A record can flip it for its own day via the reinvest toggle flag.
type DividendMode int

const (
	// DividendPayout takes cash dividends as cash.
	DividendPayout DividendMode = iota
	// DividendReinvest converts cash dividends into new shares at the
	// event-day net asset value.
	DividendReinvest
)

func (m DividendMode) String() string {
	switch m {
	case DividendPayout:
		return "payout"
	case DividendReinvest:
		return "reinvest"
	default:
		return "unknown"
	}
}

// flip returns the opposite dividend mode.
func (m DividendMode) flip() DividendMode {
	if m == DividendPayout {
		return DividendReinvest
	}
	return DividendPayout
}

// Instrument is the trading aim of a replay: it provides identity, the daily
// valuation series, the dividend handling default, and executes subscriptions
// and redemptions at its own fee schedule. The replay core only reads it.
type Instrument interface {
	Code() string
	Name() string
	Currency() string
	// Quotes returns the instrument's daily net-asset-value series. Days
	// carrying a corporate-action annotation are the instrument's special
	// dates; negatively annotated days are conversion-locked.
	Quotes() *Series
	DividendMode() DividendMode
	// Subscribe invests a cash amount on a priced day and returns the shares
	// credited after fees.
	Subscribe(amount Money, on Date) (Quantity, error)
	// Redeem sells a share count on a priced day and returns the cash
	// proceeds after fees.
	Redeem(shares Quantity, on Date) (Money, error)
}

// Fund is a standard open-end fund with flat subscription and redemption fee
// rates applied at the day's net asset value.
type Fund struct {
	code     string
	name     string
	currency string
	quotes   *Series
	mode     DividendMode

	subscribeFee decimal.Decimal // e.g. 0.015 for 1.5%
	redeemFee    decimal.Decimal
}

// NewFund creates a fund with no fees and cash dividend handling.
func NewFund(code, name, currency string, quotes *Series) *Fund {
	return &Fund{code: code, name: name, currency: currency, quotes: quotes}
}

// WithFees sets the flat subscription and redemption fee rates.
func (f *Fund) WithFees(subscribe, redeem float64) *Fund {
	f.subscribeFee = decimal.NewFromFloat(subscribe)
	f.redeemFee = decimal.NewFromFloat(redeem)
	return f
}

// WithDividendMode sets the standing dividend handling mode.
func (f *Fund) WithDividendMode(m DividendMode) *Fund {
	f.mode = m
	return f
}

func (f *Fund) Code() string               { return f.code }
func (f *Fund) Name() string               { return f.name }
func (f *Fund) Currency() string           { return f.currency }
func (f *Fund) Quotes() *Series            { return f.quotes }
func (f *Fund) DividendMode() DividendMode { return f.mode }

// nav returns the net asset value on a day, or the latest one before it.
func (f *Fund) nav(on Date) (decimal.Decimal, error) {
	_, q, ok := f.quotes.AsOf(on)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%s: no net asset value on or before %s", f.code, on)
	}
	return q.NAV, nil
}

// Subscribe converts an invested cash amount into shares at the day's net
// asset value, net of the subscription fee rate.
func (f *Fund) Subscribe(amount Money, on Date) (Quantity, error) {
	nav, err := f.nav(on)
	if err != nil {
		return Quantity{}, err
	}
	one := decimal.NewFromInt(1)
	net := amount.Mul(Q(one.Sub(f.subscribeFee)))
	return net.DivPrice(M(nav, f.currency)).Round(), nil
}

// Redeem converts a share count into cash proceeds at the day's net asset
// value, net of the redemption fee rate.
func (f *Fund) Redeem(shares Quantity, on Date) (Money, error) {
	nav, err := f.nav(on)
	if err != nil {
		return Money{}, err
	}
	one := decimal.NewFromInt(1)
	gross := shares.MulPrice(M(nav, f.currency))
	return gross.Mul(Q(one.Sub(f.redeemFee))).Round(), nil
}
