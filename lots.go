package fundtrade

import "github.com/shopspring/decimal"

// Lot represents a single block of shares acquired in one purchase event,
// tracked separately for cost-basis purposes.
type Lot struct {
	Date   Date     `json:"date"`   // purchase date
	Shares Quantity `json:"shares"` // remaining shares of that purchase
}

// Lots is an open-lot snapshot, ordered by purchase date ascending.
type Lots []Lot

// Total returns the sum of remaining shares across all lots.
func (l Lots) Total() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Shares)
	}
	return total
}

// clone returns a value copy of the snapshot. Every ledger row owns its copy,
// so mutating a day's lots never rewrites a previous row's snapshot.
func (l Lots) clone() Lots {
	out := make(Lots, len(l))
	copy(out, l)
	return out
}

// open appends a new lot. FIFO ordering is purchase-date ascending, so
// appending at the end is correct because the replay feeds non-decreasing dates.
func (l Lots) open(shares Quantity, on Date) Lots {
	out := l.clone()
	return append(out, Lot{Date: on, Shares: shares})
}

// consume removes shares oldest-lot-first and returns the shares actually
// removed, which may be less than requested when the position is short.
// The shortfall is surfaced to the caller, not silently clamped here.
// Exhausted lots are dropped so they can never be selected again.
func (l Lots) consume(shares Quantity) (removed Quantity, remaining Lots) {
	remaining = make(Lots, 0, len(l))
	for _, lot := range l {
		if shares.IsZero() || shares.IsNegative() {
			remaining = append(remaining, lot)
			continue
		}
		if lot.Shares.GreaterThan(shares) {
			// Partial consumption of this lot.
			remaining = append(remaining, Lot{Date: lot.Date, Shares: lot.Shares.Sub(shares)})
			removed = removed.Add(shares)
			shares = Q(0)
		} else {
			// This lot is fully consumed.
			removed = removed.Add(lot.Shares)
			shares = shares.Sub(lot.Shares)
		}
	}
	return removed, remaining
}

// scale multiplies every lot's remaining shares by factor, rounding each lot
// to the share precision. Conversions are carried out per purchase lot, so
// rounding differences never leak across lots.
func (l Lots) scale(factor decimal.Decimal) Lots {
	out := make(Lots, 0, len(l))
	f := Q(factor)
	for _, lot := range l {
		scaled := lot.Shares.Mul(f).Round()
		if scaled.IsZero() {
			continue
		}
		out = append(out, Lot{Date: lot.Date, Shares: scaled})
	}
	return out
}
