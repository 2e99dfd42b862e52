package fundtrade

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ExchangeTrade is the on-exchange variant of Trade: records already carry an
// executed unit price, share count and commission, so the cash-flow ledger is
// built directly from them. There is no cost-lot bookkeeping and the lot
// ledger is empty.
type ExchangeTrade struct {
	code     string
	name     string
	currency string
	quotes   *Series

	cashflows []CashFlow
}

// NewExchangeTrade builds the cash-flow ledger of an exchange-traded
// instrument from its executed records.
func NewExchangeTrade(code, name, currency string, quotes *Series, records []Record) *ExchangeTrade {
	t := &ExchangeTrade{code: code, name: name, currency: currency, quotes: quotes}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for _, r := range sorted {
		var cf CashFlow
		cf.Date = r.Date
		switch {
		case r.Shares.IsZero():
			// Pure cash movement (e.g. an exchange cash dividend).
			cf.Cash = M(r.Value.Neg(), currency).Round()
			cf.Shares = Q(0)
		case r.Value.IsZero():
			// Pure share movement (e.g. a bonus issue), recorded as the
			// total share delta directly.
			cf.Cash = M(0, currency)
			cf.Shares = Q(r.Shares).Round()
		default:
			// The commission always carries the sign of the purchase.
			cost := r.Value.Mul(r.Shares).Add(r.Fee.Abs())
			cf.Cash = M(cost.Neg(), currency).Round()
			cf.Shares = Q(r.Shares).Round()
		}
		t.cashflows = append(t.cashflows, cf)
	}
	return t
}

// Code returns the instrument code this trade is bound to.
func (t *ExchangeTrade) Code() string { return t.code }

// Name returns the instrument display name.
func (t *ExchangeTrade) Name() string { return t.name }

// CashFlows returns the cash-flow ledger rows in date order.
func (t *ExchangeTrade) CashFlows() []CashFlow {
	out := make([]CashFlow, len(t.cashflows))
	copy(out, t.cashflows)
	return out
}

// LotLedger returns nil: exchange trades carry no cost-lot bookkeeping.
func (t *ExchangeTrade) LotLedger() []LotSnapshot { return nil }

// price returns the close price on a day, or the latest one before it.
func (t *ExchangeTrade) price(on Date) decimal.Decimal {
	if _, q, ok := t.quotes.AsOf(on); ok {
		return q.NAV
	}
	return decimal.Decimal{}
}

// Position reports the share balance and market value on a date.
func (t *ExchangeTrade) Position(on Date) (Position, bool) {
	var shares Quantity
	var any bool
	for _, cf := range t.cashflows {
		if cf.Date.After(on) {
			break
		}
		shares = shares.Add(cf.Shares)
		any = true
	}
	if !any {
		return Position{}, false
	}
	nav := M(t.price(on), t.currency)
	return Position{
		Date:   on,
		NAV:    nav,
		Shares: shares.Round(),
		Value:  shares.MulPrice(nav).Round(),
	}, true
}

// LiquidationValue is the market value of the position: exchange positions
// sell at the quoted price with no redemption fee.
func (t *ExchangeTrade) LiquidationValue(on Date) Money {
	pos, ok := t.Position(on)
	if !ok {
		return M(0, t.currency)
	}
	return pos.Value
}

// XIRR returns the money-weighted return of this trade as if the position
// were liquidated on the given date.
func (t *ExchangeTrade) XIRR(on Date, guess float64) (float64, error) {
	return CombinedXIRR([]Holding{t}, on, Date{}, guess)
}

// Report computes the daily report of this trade on the given date.
func (t *ExchangeTrade) Report(on Date) Report {
	return buildReport(t.code, t.name, t.currency, t.cashflows, t, on)
}
