package fundtrade

import (
	"fmt"
	"strings"
)

// Position is a point-in-time valuation of a holding.
type Position struct {
	Date   Date     `json:"date"`
	NAV    Money    `json:"nav"`    // unit value on that date
	Shares Quantity `json:"shares"` // current share balance
	Value  Money    `json:"value"`  // shares at the unit value
}

// Position reports the share balance and market value on a date.
// It returns false before the first ledger row.
func (t *Trade) Position(on Date) (Position, bool) {
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
	currency := t.instrument.Currency()
	nav := M(0, currency)
	if _, q, ok := t.instrument.Quotes().AsOf(on); ok {
		nav = M(q.NAV, currency)
	}
	shares = shares.Round()
	return Position{Date: on, NAV: nav, Shares: shares, Value: shares.MulPrice(nav).Round()}, true
}

// LiquidationValue is the cash the position would return if redeemed in full
// on the given date, net of the instrument's redemption fee.
func (t *Trade) LiquidationValue(on Date) Money {
	currency := t.instrument.Currency()
	pos, ok := t.Position(on)
	if !ok {
		return M(0, currency)
	}
	proceeds, err := t.instrument.Redeem(pos.Shares, on)
	if err != nil {
		return M(0, currency)
	}
	return proceeds
}

// UnitCost is the net invested cash per share still held on the given date.
func (t *Trade) UnitCost(on Date) Money {
	currency := t.instrument.Currency()
	netInput := M(0, currency)
	var shares Quantity
	for _, cf := range t.cashflows {
		if cf.Date.After(on) {
			break
		}
		netInput = netInput.Sub(cf.Cash)
		shares = shares.Add(cf.Shares)
	}
	if !shares.IsPositive() {
		return M(0, currency)
	}
	return netInput.Div(shares)
}

// XIRR returns the money-weighted return of this trade as if the position
// were liquidated on the given date, at the redemption fee schedule.
func (t *Trade) XIRR(on Date, guess float64) (float64, error) {
	return CombinedXIRR([]Holding{t}, on, Date{}, guess)
}

// XIRRFrom is XIRR restricted to the period after start: the position value
// on the start date counts as the opening investment.
func (t *Trade) XIRRFrom(start, on Date, guess float64) (float64, error) {
	return CombinedXIRR([]Holding{t}, on, start, guess)
}

// Report computes the daily report of this trade on the given date.
func (t *Trade) Report(on Date) Report {
	return buildReport(t.Code(), t.Name(), t.instrument.Currency(), t.cashflows, t, on)
}

// Bottleneck is the maximum net cash the holding ever tied up: the highest
// prefix sum of invested minus returned cash.
func Bottleneck(flows []CashFlow) Money {
	var running, max Money
	for _, cf := range flows {
		running = running.Sub(cf.Cash)
		if running.GreaterThan(max) {
			max = running
		}
	}
	return max.Round()
}

// TurnoverRate is the annualized ratio of traded cash volume to the
// bottleneck, counting a round trip once.
func TurnoverRate(flows []CashFlow, end Date) float64 {
	if len(flows) == 0 {
		return 0
	}
	days := end.DaysSince(flows[0].Date)
	if days <= 0 {
		return 0
	}
	bottleneck := Bottleneck(flows).AsFloat()
	if bottleneck == 0 {
		return 0
	}
	var volume float64
	for _, cf := range flows {
		a := cf.Cash.AsFloat()
		if a < 0 {
			a = -a
		}
		volume += a
	}
	return volume / bottleneck / 2 * 365 / float64(days)
}

// Report is the full daily summary of one holding.
type Report struct {
	Code string
	Name string
	Date Date

	NAV      Money
	Shares   Quantity
	Value    Money
	UnitCost Money

	TotalInvested Money // all cash paid in
	TotalReturned Money // all cash received back (redemptions, dividends)
	HoldingCost   Money // invested minus returned
	Bottleneck    Money // maximum historical cash occupation

	TotalReturn  Money   // value + returned - invested
	ReturnRate   float64 // total return over bottleneck, in percent
	TurnoverRate float64 // annualized
}

// buildReport aggregates the cash-flow ledger of a holding up to a date.
func buildReport(code, name, currency string, flows []CashFlow, h Holding, on Date) Report {
	r := Report{Code: code, Name: name, Date: on}
	r.NAV = M(0, currency)
	r.Value = M(0, currency)
	r.UnitCost = M(0, currency)
	invested, returned := M(0, currency), M(0, currency)

	var part []CashFlow
	for _, cf := range flows {
		if cf.Date.After(on) {
			break
		}
		part = append(part, cf)
		if cf.Cash.IsNegative() {
			invested = invested.Sub(cf.Cash)
		} else {
			returned = returned.Add(cf.Cash)
		}
	}
	if len(part) == 0 {
		return r
	}

	pos, _ := h.Position(on)
	r.NAV = pos.NAV
	r.Shares = pos.Shares
	r.Value = pos.Value

	r.TotalInvested = invested.Round()
	r.TotalReturned = returned.Round()
	r.HoldingCost = invested.Sub(returned).Round()
	r.Bottleneck = Bottleneck(part)
	r.TotalReturn = r.Value.Add(returned).Sub(invested).Round()
	if b := r.Bottleneck.AsFloat(); b != 0 {
		r.ReturnRate = r.TotalReturn.AsFloat() / b * 100
	}
	r.TurnoverRate = TurnoverRate(part, on)
	if r.Shares.IsPositive() {
		r.UnitCost = r.HoldingCost.Div(r.Shares)
	}
	return r
}

// Markdown renders the report as a markdown document, ready for a terminal
// renderer or any markdown sink.
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s) on %s\n\n", r.Name, r.Code, r.Date)
	fmt.Fprintf(&b, "| Metric | Value |\n")
	fmt.Fprintf(&b, "|---|---|\n")
	fmt.Fprintf(&b, "| Unit value | %s |\n", r.NAV)
	fmt.Fprintf(&b, "| Shares held | %s |\n", r.Shares)
	fmt.Fprintf(&b, "| Position value | %s |\n", r.Value)
	fmt.Fprintf(&b, "| Unit cost | %s |\n", r.UnitCost)
	fmt.Fprintf(&b, "| Total invested | %s |\n", r.TotalInvested)
	fmt.Fprintf(&b, "| Total returned | %s |\n", r.TotalReturned)
	fmt.Fprintf(&b, "| Holding cost | %s |\n", r.HoldingCost)
	fmt.Fprintf(&b, "| Max cash occupied | %s |\n", r.Bottleneck)
	fmt.Fprintf(&b, "| Total return | %s |\n", r.TotalReturn.SignedString())
	fmt.Fprintf(&b, "| Return on max occupation | %.4f%% |\n", r.ReturnRate)
	fmt.Fprintf(&b, "| Annualized turnover | %.4f |\n", r.TurnoverRate)
	return b.String()
}
