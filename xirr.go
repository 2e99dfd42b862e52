package fundtrade

import (
	"math"
	"sort"
)

// Holding is the read-only reporting surface shared by fund and exchange
// trades, consumed by the XIRR aggregation and the report layer.
type Holding interface {
	CashFlows() []CashFlow
	Position(on Date) (Position, bool)
	LiquidationValue(on Date) Money
}

const (
	maxNewtonIterations = 50
	maxBisectIterations = 200
	npvTolerance        = 1e-9
)

// flowPoint is one cash flow reduced to solver coordinates: years since the
// first flow (days/365) and a float amount.
type flowPoint struct {
	t      float64
	amount float64
}

// npv is the net present value of the flows discounted at the given rate.
func npv(points []flowPoint, rate float64) float64 {
	var sum float64
	for _, p := range points {
		sum += p.amount / math.Pow(1+rate, p.t)
	}
	return sum
}

// dnpv is the derivative of npv with respect to the rate.
func dnpv(points []flowPoint, rate float64) float64 {
	var sum float64
	for _, p := range points {
		sum -= p.t * p.amount / math.Pow(1+rate, p.t+1)
	}
	return sum
}

// XIRR finds the rate at which the net present value of the dated cash flows
// is zero, with a (days since first flow)/365 day-count convention.
//
// It tries Newton iterations seeded with the guess first, then falls back to
// bracketing and bisection, both with bounded iteration counts. An empty
// series yields 0. A series whose flows all share one sign has no real root
// and yields ErrNoConvergence.
func XIRR(flows []CashFlow, guess float64) (float64, error) {
	if len(flows) == 0 {
		return 0, nil
	}
	first := flows[0].Date
	points := make([]flowPoint, 0, len(flows))
	var pos, neg bool
	for _, cf := range flows {
		a := cf.Cash.AsFloat()
		if a == 0 {
			continue
		}
		pos = pos || a > 0
		neg = neg || a < 0
		points = append(points, flowPoint{t: float64(cf.Date.DaysSince(first)) / 365, amount: a})
	}
	if len(points) == 0 {
		return 0, nil
	}
	if !pos || !neg {
		return 0, ErrNoConvergence
	}

	// Newton first: fast on the realistic single-sign-change series.
	rate := guess
	for i := 0; i < maxNewtonIterations; i++ {
		v := npv(points, rate)
		if math.Abs(v) < npvTolerance {
			return rate, nil
		}
		d := dnpv(points, rate)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		next := rate - v/d
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break // left the domain, switch to bisection
		}
		if math.Abs(next-rate) < 1e-12 {
			return next, nil
		}
		rate = next
	}

	// Bisection fallback on a bracketing interval.
	lo, hi, ok := bracket(points)
	if !ok {
		return 0, ErrNoConvergence
	}
	vlo := npv(points, lo)
	for i := 0; i < maxBisectIterations; i++ {
		mid := (lo + hi) / 2
		v := npv(points, mid)
		if math.Abs(v) < npvTolerance || (hi-lo)/2 < 1e-10 {
			return mid, nil
		}
		if (v > 0) == (vlo > 0) {
			lo, vlo = mid, v
		} else {
			hi = mid
		}
	}
	return 0, ErrNoConvergence
}

// bracket scans a fixed rate grid for a sign change of the npv.
func bracket(points []flowPoint) (lo, hi float64, ok bool) {
	grid := []float64{-0.999999, -0.99, -0.9, -0.5, -0.2, -0.1, -0.05, 0,
		0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 100, 1000}
	prev, pv := grid[0], npv(points, grid[0])
	for _, r := range grid[1:] {
		v := npv(points, r)
		if (pv < 0) != (v < 0) {
			return prev, r, true
		}
		prev, pv = r, v
	}
	return 0, 0, false
}

// CombinedXIRR computes the money-weighted return of one or more holdings as
// if all positions were liquidated on the query date.
//
// With a zero start date the whole cash-flow history up to the query date is
// used. With a start date, the history is truncated to flows after it and an
// opening flow equal to the combined position value on the start date is
// prepended. A terminal synthetic liquidation flow is always appended.
// All holdings must share one currency.
func CombinedXIRR(holdings []Holding, on Date, start Date, guess float64) (float64, error) {
	var flows []CashFlow
	for _, h := range holdings {
		for _, cf := range h.CashFlows() {
			if cf.Date.After(on) {
				break
			}
			if !start.IsZero() && !cf.Date.After(start) {
				continue
			}
			flows = append(flows, cf)
		}
	}
	if start.IsZero() {
		if len(flows) == 0 {
			return 0, nil
		}
	} else {
		var opening Money
		for _, h := range holdings {
			if pos, ok := h.Position(start); ok {
				opening = opening.Add(pos.Value)
			}
		}
		flows = append(flows, CashFlow{Date: start, Cash: opening.Neg()})
	}

	var terminal Money
	for _, h := range holdings {
		terminal = terminal.Add(h.LiquidationValue(on))
	}
	flows = append(flows, CashFlow{Date: on, Cash: terminal})

	sort.SliceStable(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })
	return XIRR(flows, guess)
}
