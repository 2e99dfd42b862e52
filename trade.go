package fundtrade

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// CashFlow is one cash-flow ledger row: the signed cash and share change of
// one resolved trading day. Negative cash is money invested, positive cash is
// money returned.
type CashFlow struct {
	Date   Date     `json:"date"`
	Cash   Money    `json:"cash"`
	Shares Quantity `json:"shares"`
}

// LotSnapshot is one lot-remainder ledger row: the open purchase lots after
// that day's activity. The lot ledger is always index-aligned with the
// cash-flow ledger.
type LotSnapshot struct {
	Date Date `json:"date"`
	Lots Lots `json:"lots"`
}

// Trade replays one instrument's statement records into two derived ledgers:
//
//  1. the cash-flow ledger, one row per resolved trading day with activity,
//     recording cash in/out and share deltas at the day's unadjusted values;
//  2. the lot-remainder ledger, the FIFO snapshot of open purchase lots after
//     each row, used for cost basis. Share conversions show up in the
//     cash-flow ledger as one-off share deltas.
//
// Both ledgers are built once by an incremental replay bound to a single
// instrument and record set, and are read-only afterward.
type Trade struct {
	instrument Instrument
	records    []Record        // non-zero records, sorted by date
	byDate     map[Date]Record // index of records by statement date
	specials   map[Date]bool   // quote days carrying an action annotation
	locks      map[Date]bool   // conversion days: subscriptions/redemptions ignored
	horizon    Date            // processing horizon, nothing is replayed past it

	cashflows []CashFlow
	lots      []LotSnapshot
	warnings  []Warning

	lastNominal Date // statement date of the last consumed step
}

// NewTrade replays the records against the instrument up to yesterday.
func NewTrade(instrument Instrument, records []Record) (*Trade, error) {
	return NewTradeUntil(instrument, records, Yesterday())
}

// NewTradeUntil replays with an explicit processing horizon, which makes the
// build deterministic for a fixed record set and quote series.
func NewTradeUntil(instrument Instrument, records []Record, horizon Date) (*Trade, error) {
	t := &Trade{
		instrument: instrument,
		byDate:     make(map[Date]Record),
		specials:   make(map[Date]bool),
		locks:      make(map[Date]bool),
		horizon:    horizon,
	}
	for _, r := range records {
		if r.Value.IsZero() {
			continue // zero entries carry no signal
		}
		t.records = append(t.records, r)
	}
	sort.SliceStable(t.records, func(i, j int) bool { return t.records[i].Date.Before(t.records[j].Date) })
	for _, r := range t.records {
		t.byDate[r.Date] = r
	}
	for on, q := range instrument.Quotes().Values() {
		if q.Comment == "" {
			continue
		}
		t.specials[on] = true
		if v, ok := parseAction(q.Comment); ok && v.IsNegative() {
			t.locks[on] = true
		}
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

// build steps the replay until no further record can be consumed.
// Exhaustion is the loop's success condition, not an error.
func (t *Trade) build() error {
	for {
		if err := t.addRow(); err != nil {
			if errors.Is(err, errExhausted) {
				return nil
			}
			return err
		}
	}
}

// Code returns the instrument code this trade is bound to.
func (t *Trade) Code() string { return t.instrument.Code() }

// Name returns the instrument display name.
func (t *Trade) Name() string { return t.instrument.Name() }

// CashFlows returns the cash-flow ledger rows in date order.
func (t *Trade) CashFlows() []CashFlow {
	out := make([]CashFlow, len(t.cashflows))
	copy(out, t.cashflows)
	return out
}

// LotLedger returns the lot-remainder ledger rows in date order.
func (t *Trade) LotLedger() []LotSnapshot {
	out := make([]LotSnapshot, len(t.lots))
	copy(out, t.lots)
	return out
}

// Warnings returns the recoverable anomalies recorded during the replay.
func (t *Trade) Warnings() []Warning {
	out := make([]Warning, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// resolveDate shifts a nominal event date to the day it is actually priced:
// the next later priced day if any, else the latest earlier one.
func (t *Trade) resolveDate(nominal Date) (Date, bool) {
	if d, _, ok := t.instrument.Quotes().Next(nominal); ok {
		return d, true
	}
	if d, _, ok := t.instrument.Quotes().AsOf(nominal); ok {
		return d, true
	}
	return Date{}, false
}

// heldShares is the cumulative share balance over the rows built so far.
// Same-day activity is intentionally excluded: shares bought on a dividend
// day are not entitled to that day's dividend.
func (t *Trade) heldShares() Quantity {
	var total Quantity
	for _, cf := range t.cashflows {
		total = total.Add(cf.Shares)
	}
	return total
}

func (t *Trade) lastLots() Lots {
	if len(t.lots) == 0 {
		return nil
	}
	return t.lots[len(t.lots)-1].Lots
}

// appendRow appends the combined day row to both ledgers. Dates are
// non-decreasing but not unique: a record past the end of the price history
// resolves backward and may land on the previous row's date.
func (t *Trade) appendRow(cf CashFlow, rem Lots) {
	t.cashflows = append(t.cashflows, cf)
	t.lots = append(t.lots, LotSnapshot{Date: cf.Date, Lots: rem})
}

func (t *Trade) warn(code WarningCode, on Date, format string, args ...any) {
	w := Warning{Code: code, Date: on, Message: fmt.Sprintf(format, args...)}
	t.warnings = append(t.warnings, w)
	log.Printf("%s: %s", t.instrument.Code(), w)
}

// addRow advances the replay by one resolved trading day, appending one row
// to each ledger, or returns errExhausted when no further record can be
// consumed.
func (t *Trade) addRow() error {
	if len(t.cashflows) == 0 {
		return t.addFirstRow()
	}

	currency := t.instrument.Currency()

	// Scan forward from the day after the last consumed statement date to
	// the next day with activity: a non-zero record or an annotated quote.
	nominal := t.lastNominal.Add(1)
	for {
		if nominal.After(t.horizon) {
			return errExhausted
		}
		if t.specials[nominal] {
			break
		}
		if _, ok := t.byDate[nominal]; ok {
			break
		}
		nominal = nominal.Add(1)
	}

	date, ok := t.resolveDate(nominal)
	if !ok {
		return errExhausted
	}
	if date != nominal {
		if _, exists := t.byDate[date]; exists {
			// Documented limitation of the statement format: the record
			// already sitting on the resolved day is shadowed, not merged.
			t.warn(WarnDateAmbiguity, nominal,
				"statement date %s shifted to priced day %s which carries its own record; that record is shadowed", nominal, date)
		}
	}
	t.lastNominal = nominal
	if date.After(nominal) {
		// Restart the next scan after the resolved day, not the nominal one.
		t.lastNominal = date
	}

	mode := t.instrument.DividendMode()
	cash := M(0, currency)
	var shares Quantity
	rem := t.lastLots().clone()

	// Ordinary subscription or redemption. Conversion days are locked for
	// trading, so a record landing on one is ignored outright, not deferred.
	if rec, ok := t.byDate[nominal]; ok && !t.locks[date] {
		sig := DecodeSignal(rec.Value, currency)
		if sig.ToggleReinvest {
			mode = mode.flip()
		}
		switch sig.Kind {
		case SignalPurchase:
			credited, err := t.instrument.Subscribe(sig.Amount, date)
			if err != nil {
				return err
			}
			cash = cash.Sub(sig.Amount)
			shares = shares.Add(credited)
			rem = rem.open(credited, date)
		case SignalRedeemShares, SignalRedeemRatio:
			requested := Q(sig.Shares)
			if sig.IsSellAll() {
				// The whole position, with no ratio rounding in between.
				requested = t.heldShares()
			} else if sig.Kind == SignalRedeemRatio {
				requested = t.heldShares().Mul(Q(sig.Ratio)).Round()
			}
			removed, left := rem.consume(requested)
			if removed.LessThan(requested) {
				t.warn(WarnRedemptionShortfall, date,
					"requested redemption of %s shares, only %s held", requested, removed)
			}
			rem = left
			proceeds, err := t.instrument.Redeem(removed, date)
			if err != nil {
				return err
			}
			cash = cash.Add(proceeds)
			shares = shares.Sub(removed)
		}
	}

	// Corporate action on the resolved day: dividend or share conversion.
	// It can share the row with an ordinary trade.
	if t.specials[date] {
		q, _ := t.instrument.Quotes().Get(date)
		effect, err := resolveAction(t.instrument.Code(), date, q, mode, t.heldShares(), rem, currency)
		if err != nil {
			return err
		}
		cash = cash.Add(effect.cash)
		shares = shares.Add(effect.shares)
		rem = effect.lots
	}

	t.appendRow(CashFlow{Date: date, Cash: cash.Round(), Shares: shares.Round()}, rem)
	return nil
}

// addFirstRow consumes the first record: it must be a purchase, since there
// is no position to sell from yet.
func (t *Trade) addFirstRow() error {
	if len(t.records) == 0 {
		return errExhausted
	}
	rec := t.records[0]
	sig := DecodeSignal(rec.Value, t.instrument.Currency())
	if sig.Kind != SignalPurchase {
		return &OrderingViolationError{Code: t.instrument.Code(), Date: rec.Date}
	}
	date, ok := t.resolveDate(rec.Date)
	if !ok {
		return errExhausted
	}
	shares, err := t.instrument.Subscribe(sig.Amount, date)
	if err != nil {
		return err
	}
	rem := Lots{}.open(shares.Round(), date)
	t.appendRow(CashFlow{Date: date, Cash: sig.Amount.Neg().Round(), Shares: shares.Round()}, rem)
	t.lastNominal = rec.Date
	if date.After(rec.Date) {
		t.lastNominal = date
	}
	return nil
}
