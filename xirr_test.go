package fundtrade

import (
	"errors"
	"math"
	"testing"
)

func TestXIRROneYearReturn(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2021-01-01"), Cash: cny("1100")},
	}
	rate, err := XIRR(flows, 0.1)
	if err != nil {
		t.Fatalf("XIRR() = %v", err)
	}
	// 365 days at the 365-day count convention: exactly 10%.
	if math.Abs(rate-0.10) > 1e-6 {
		t.Errorf("rate = %v, want 0.10", rate)
	}
}

func TestXIRREmptySeries(t *testing.T) {
	rate, err := XIRR(nil, 0.1)
	if err != nil || rate != 0 {
		t.Errorf("XIRR(empty) = %v, %v; want 0, nil", rate, err)
	}
}

func TestXIRRSameSignFlows(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2020-06-02"), Cash: cny("-500")},
	}
	if _, err := XIRR(flows, 0.1); !errors.Is(err, ErrNoConvergence) {
		t.Errorf("err = %v, want ErrNoConvergence", err)
	}
}

func TestXIRRZeroFlowsAreSkipped(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2020-06-02"), Cash: cny("0")},
		{Date: d("2021-01-01"), Cash: cny("1100")},
	}
	rate, err := XIRR(flows, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rate-0.10) > 1e-6 {
		t.Errorf("rate = %v, want 0.10", rate)
	}
}

func TestXIRRNegativeReturn(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2021-01-01"), Cash: cny("800")},
	}
	rate, err := XIRR(flows, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rate-(-0.20)) > 1e-6 {
		t.Errorf("rate = %v, want -0.20", rate)
	}
}

func TestXIRRBadGuessStillConverges(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2021-01-01"), Cash: cny("1100")},
	}
	// A wild guess pushes Newton out of the domain; bisection recovers.
	rate, err := XIRR(flows, -0.999)
	if err != nil {
		t.Fatalf("XIRR() = %v", err)
	}
	if math.Abs(rate-0.10) > 1e-6 {
		t.Errorf("rate = %v, want 0.10", rate)
	}
}

func TestTradeXIRRLiquidatesPosition(t *testing.T) {
	// Buy 1000 at nav 1.0, nav doubles within the year: the virtual
	// liquidation flow makes the rate strongly positive.
	quotes := quotesOf(t,
		"2020-01-02", "1.0",
		"2020-07-01", "2.0",
	)
	tr := mustTrade(t, quotes, "2020-07-01", rec("2020-01-02", "1000"))
	rate, err := tr.XIRR(d("2020-07-01"), 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if rate <= 1.0 {
		t.Errorf("rate = %v, want a doubling-scale return", rate)
	}
}

func TestCombinedXIRRWithStartDate(t *testing.T) {
	// Flat nav until the start date, then +10% over exactly a year: the
	// truncated computation must only see the later period.
	quotes := quotesOf(t,
		"2019-01-01", "1.0",
		"2020-01-01", "1.0",
		"2020-12-31", "1.1",
	)
	tr := mustTrade(t, quotes, "2020-12-31", rec("2019-01-01", "1000"))

	rate, err := CombinedXIRR([]Holding{tr}, d("2020-12-31"), d("2020-01-01"), 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rate-0.10) > 1e-3 {
		t.Errorf("rate = %v, want about 0.10", rate)
	}
}

func TestCombinedXIRRAcrossHoldings(t *testing.T) {
	quotes := quotesOf(t,
		"2020-01-02", "1.0",
		"2021-01-01", "1.1",
	)
	a := mustTrade(t, quotes, "2021-01-01", rec("2020-01-02", "600"))
	b := mustTrade(t, quotes, "2021-01-01", rec("2020-01-02", "400"))

	rate, err := CombinedXIRR([]Holding{a, b}, d("2021-01-01"), Date{}, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rate-0.10) > 1e-3 {
		t.Errorf("rate = %v, want about 0.10", rate)
	}
}
