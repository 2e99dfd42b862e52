package fundtrade

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAction interprets a raw quote annotation as a corporate-action value:
// a negative conversion ratio or a positive per-share dividend payout.
// Zero and non-numeric comments are unrecognized.
func parseAction(comment string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(strings.TrimSpace(comment))
	if err != nil || v.IsZero() {
		return decimal.Decimal{}, false
	}
	return v, true
}

// actionEffect is the cash/share deltas and the lot mutation produced by a
// corporate action on one day.
type actionEffect struct {
	cash   Money
	shares Quantity
	lots   Lots
}

// resolveAction applies the corporate action annotated on a priced day.
//
//   - negative ratio r: conversion. Every open lot is scaled by (1+r),
//     rounded per lot, so lots carried from different purchase dates never
//     share rounding drift. Cash is unchanged.
//   - positive payout p, payout mode: cash dividend of held*p, lots unchanged.
//   - positive payout p, reinvest mode: held*p/nav new shares in a lot opened
//     on the event date. Cash is unchanged.
func resolveAction(code string, on Date, q Quote, mode DividendMode, held Quantity, rem Lots, currency string) (actionEffect, error) {
	value, ok := parseAction(q.Comment)
	if !ok {
		return actionEffect{}, &ActionDecodeError{Code: code, Date: on, Comment: q.Comment}
	}

	effect := actionEffect{cash: M(0, currency), lots: rem}
	switch {
	case value.IsNegative():
		factor := value.Add(decimal.NewFromInt(1))
		// The share delta is the sum of per-lot rounded changes, so the
		// cash-flow ledger stays consistent with the lot snapshot.
		before := rem.Total()
		effect.lots = rem.scale(factor)
		effect.shares = effect.lots.Total().Sub(before)
	case mode == DividendPayout:
		effect.cash = held.MulPrice(M(value, currency)).Round()
		effect.lots = rem.clone()
	default: // reinvest
		payout := held.Mul(Q(value))
		credited := payout.Div(Q(q.NAV)).Round()
		effect.shares = credited
		effect.lots = rem.open(credited, on)
	}
	return effect, nil
}
