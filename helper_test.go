package fundtrade

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// d is a compact date literal for tests.
func d(str string) Date { return MustParse(str) }

// dec is a compact decimal literal for tests.
func dec(str string) decimal.Decimal { return decimal.RequireFromString(str) }

// quotesOf builds a series from alternating "date", "nav[:comment]" pairs.
func quotesOf(t *testing.T, pairs ...string) *Series {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("quotesOf wants date/nav pairs")
	}
	s := &Series{}
	for i := 0; i < len(pairs); i += 2 {
		nav, comment := pairs[i+1], ""
		if j := strings.IndexByte(nav, ':'); j >= 0 {
			nav, comment = nav[:j], nav[j+1:]
		}
		s.Append(d(pairs[i]), Quote{NAV: dec(nav), Comment: comment})
	}
	return s
}

// rec builds a fund statement record.
func rec(date, value string) Record {
	return Record{Date: MustParse(date), Value: dec(value)}
}

// weekdayQuotes is a flat CNY 1.0 valuation over the first two trading weeks
// of 2020 (Jan 1 is priced here for simplicity; Jan 4-5 and 11-12 are the
// weekend gaps).
func weekdayQuotes(t *testing.T) *Series {
	t.Helper()
	return quotesOf(t,
		"2020-01-01", "1.0",
		"2020-01-02", "1.0",
		"2020-01-03", "1.0",
		"2020-01-06", "1.0",
		"2020-01-07", "1.0",
		"2020-01-08", "1.0",
		"2020-01-09", "1.0",
		"2020-01-10", "1.0",
	)
}

// mustTrade replays records against a plain no-fee CNY fund and fails the
// test on error.
func mustTrade(t *testing.T, quotes *Series, horizon string, records ...Record) *Trade {
	t.Helper()
	fund := NewFund("000001", "test fund", "CNY", quotes)
	tr, err := NewTradeUntil(fund, records, d(horizon))
	if err != nil {
		t.Fatalf("NewTradeUntil() = %v", err)
	}
	return tr
}

// cny is a cash literal in the test currency.
func cny(str string) Money { return M(dec(str), "CNY") }

// qty is a share literal.
func qty(str string) Quantity { return Q(dec(str)) }
