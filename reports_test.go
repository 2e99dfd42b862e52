package fundtrade

import (
	"math"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	astext "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func TestPosition(t *testing.T) {
	quotes := quotesOf(t, "2020-01-02", "1.0", "2020-01-06", "1.2")
	tr := mustTrade(t, quotes, "2020-01-10", rec("2020-01-02", "1000"))

	pos, ok := tr.Position(d("2020-01-06"))
	if !ok {
		t.Fatal("no position")
	}
	if !pos.Shares.Equal(qty("1000")) {
		t.Errorf("shares = %s, want 1000", pos.Shares)
	}
	if !pos.Value.Equal(cny("1200")) {
		t.Errorf("value = %s, want 1200", pos.Value)
	}

	if _, ok := tr.Position(d("2020-01-01")); ok {
		t.Error("position before the first row should not exist")
	}
}

func TestLiquidationValueAppliesRedemptionFee(t *testing.T) {
	fund := NewFund("000001", "test fund", "CNY", weekdayQuotes(t)).
		WithFees(0, 0.005)
	tr, err := NewTradeUntil(fund, []Record{rec("2020-01-02", "1000")}, d("2020-01-10"))
	if err != nil {
		t.Fatal(err)
	}
	// 1000 shares at nav 1.0 less the 0.5% redemption fee.
	if lv := tr.LiquidationValue(d("2020-01-10")); !lv.Equal(cny("995")) {
		t.Errorf("liquidation = %s, want 995", lv)
	}
}

func TestUnitCost(t *testing.T) {
	quotes := quotesOf(t, "2020-01-02", "1.0", "2020-01-06", "2.0")
	tr := mustTrade(t, quotes, "2020-01-10",
		rec("2020-01-02", "1000"),
		rec("2020-01-06", "1000"),
	)
	// 2000 invested for 1000 + 500 shares.
	uc := tr.UnitCost(d("2020-01-10"))
	want := cny("2000").Div(qty("1500"))
	if !uc.Round().Equal(want.Round()) {
		t.Errorf("unit cost = %s, want %s", uc, want)
	}
}

func TestBottleneck(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2020-02-02"), Cash: cny("600")},
		{Date: d("2020-03-02"), Cash: cny("-800")},
	}
	// Peaks at 1000, dips to 400, peaks again at 1200.
	if b := Bottleneck(flows); !b.Equal(cny("1200")) {
		t.Errorf("bottleneck = %s, want 1200", b)
	}

	if b := Bottleneck(nil); !b.IsZero() {
		t.Errorf("empty bottleneck = %s, want 0", b)
	}
}

func TestTurnoverRate(t *testing.T) {
	flows := []CashFlow{
		{Date: d("2020-01-02"), Cash: cny("-1000")},
		{Date: d("2021-01-01"), Cash: cny("1000")},
	}
	// One full round trip over a year at full occupation.
	got := TurnoverRate(flows, d("2021-01-01"))
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("turnover = %v, want 1.0", got)
	}

	if got := TurnoverRate(nil, d("2021-01-01")); got != 0 {
		t.Errorf("empty turnover = %v, want 0", got)
	}
}

func TestReportAggregates(t *testing.T) {
	quotes := quotesOf(t,
		"2020-01-02", "1.0",
		"2020-01-06", "1.0:0.05",
		"2020-01-07", "1.2",
	)
	tr := mustTrade(t, quotes, "2020-01-10", rec("2020-01-02", "1000"))

	r := tr.Report(d("2020-01-07"))
	if !r.TotalInvested.Equal(cny("1000")) {
		t.Errorf("invested = %s, want 1000", r.TotalInvested)
	}
	if !r.TotalReturned.Equal(cny("50")) {
		t.Errorf("returned = %s, want 50 (the dividend)", r.TotalReturned)
	}
	if !r.HoldingCost.Equal(cny("950")) {
		t.Errorf("holding cost = %s, want 950", r.HoldingCost)
	}
	if !r.Value.Equal(cny("1200")) {
		t.Errorf("value = %s, want 1200", r.Value)
	}
	// 1200 + 50 - 1000.
	if !r.TotalReturn.Equal(cny("250")) {
		t.Errorf("total return = %s, want 250", r.TotalReturn)
	}
	if !r.Bottleneck.Equal(cny("1000")) {
		t.Errorf("bottleneck = %s, want 1000", r.Bottleneck)
	}
}

func TestReportBeforeFirstRow(t *testing.T) {
	tr := mustTrade(t, weekdayQuotes(t), "2020-01-10", rec("2020-01-06", "1000"))
	r := tr.Report(d("2020-01-02"))
	if !r.Shares.IsZero() || !r.Value.IsZero() {
		t.Errorf("report before activity = %+v, want zeroes", r)
	}
}

// The markdown report must stay a well-formed document with a heading and a
// two-column table, since it feeds a terminal renderer downstream.
func TestReportMarkdownStructure(t *testing.T) {
	tr := mustTrade(t, weekdayQuotes(t), "2020-01-10", rec("2020-01-02", "1000"))
	md := tr.Report(d("2020-01-10")).Markdown()

	source := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))

	var hasHeading, hasTable bool
	var tableRows int
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading:
			hasHeading = true
		case *astext.Table:
			hasTable = true
		case *astext.TableRow:
			tableRows++
		}
		return ast.WalkContinue, nil
	})

	if !hasHeading {
		t.Error("report markdown has no heading")
	}
	if !hasTable {
		t.Fatal("report markdown has no table")
	}
	if tableRows < 8 {
		t.Errorf("report table has %d rows, want the full metric set", tableRows)
	}
	if !strings.Contains(md, "test fund") || !strings.Contains(md, "000001") {
		t.Error("report markdown must name the instrument")
	}
}
