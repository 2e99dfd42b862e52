package fundtrade

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
	{
	    "Data": {
	        "LSJZList": [
	            {
	                "FSRQ": "2020-07-10",
	                "DWJZ": "1.0316",
	                "LJJZ": "3.4206",
	                "FHSP": "每份派现金0.0500元",
	                ...
	            }
	        ]
	    },
	    "TotalCount": 1234,
	    ...
	}
*/
const lsjzPageSize = 49

// FetchFund downloads the published valuation history of an open-end fund
// from the Eastmoney fund API and returns it ready for replay. Dividend and
// split events published alongside the history are folded into the quote
// annotations.
func FetchFund(code string) (*Fund, error) {
	client := dailyClient()

	name, err := fetchFundName(client, code)
	if err != nil {
		return nil, err
	}

	quotes := &Series{}
	for page := 1; ; page++ {
		rows, total, err := fetchNavPage(client, code, page)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			on, q, err := parseNavRow(row)
			if err != nil {
				return nil, fmt.Errorf("fund %s: %w", code, err)
			}
			quotes.Append(on, q)
		}
		if page*lsjzPageSize >= total || len(rows) == 0 {
			break
		}
	}
	if quotes.Len() == 0 {
		return nil, fmt.Errorf("fund %s: empty valuation history", code)
	}
	return NewFund(code, name, "CNY", quotes), nil
}

// fetchFundName resolves the display name of a fund code through the
// Eastmoney search API.
func fetchFundName(client *http.Client, code string) (string, error) {
	addr := "https://fundsuggest.eastmoney.com/FundSearch/api/FundSearchAPI.ashx?m=1&key=" + code
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return "", fmt.Errorf("error retrieving fund %q: %w", code, err)
	}
	path := "$.Datas[0].NAME"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing fund %q: %q %w", code, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of one
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	name, ok := jval.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("error parsing fund %q: %q not a name: %v", code, path, jval)
	}
	return name, nil
}

// fetchNavPage retrieves one page of the valuation history, newest first.
func fetchNavPage(client *http.Client, code string, page int) (rows []any, total int, err error) {
	addr := fmt.Sprintf("https://api.fund.eastmoney.com/f10/lsjz?fundCode=%s&pageIndex=%d&pageSize=%d", code, page, lsjzPageSize)
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, 0, fmt.Errorf("error retrieving fund %q page %d: %w", code, page, err)
	}

	jval, err := jsonpath.Get("$.TotalCount", jobj)
	if err != nil {
		return nil, 0, fmt.Errorf("error parsing fund %q: %w", code, err)
	}
	count, ok := jval.(float64)
	if !ok {
		return nil, 0, fmt.Errorf("error parsing fund %q: TotalCount not a number: %v", code, jval)
	}

	jval, err = jsonpath.Get("$.Data.LSJZList", jobj)
	if err != nil {
		return nil, 0, fmt.Errorf("error parsing fund %q: %w", code, err)
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, 0, fmt.Errorf("error parsing fund %q: LSJZList not a list: %v", code, jval)
	}
	return list, int(count), nil
}

// parseNavRow decodes one history row into a dated quote.
func parseNavRow(row any) (Date, Quote, error) {
	m, ok := row.(map[string]any)
	if !ok {
		return Date{}, Quote{}, fmt.Errorf("valuation row is not an object: %v", row)
	}
	day, _ := m["FSRQ"].(string)
	on, err := ParseDate(day)
	if err != nil {
		return Date{}, Quote{}, fmt.Errorf("valuation row date %q: %w", day, err)
	}
	raw, _ := m["DWJZ"].(string)
	nav, err := decimal.NewFromString(raw)
	if err != nil {
		return Date{}, Quote{}, fmt.Errorf("valuation row %s nav %q: %w", on, raw, err)
	}
	event, _ := m["FHSP"].(string)
	return on, Quote{NAV: nav, Comment: parseEventText(event)}, nil
}

var (
	payoutRe = regexp.MustCompile(`派现金([0-9.]+)元`)
	splitRe  = regexp.MustCompile(`折算([0-9.]+)份`)
)

// parseEventText normalizes the published event description into the
// numeric annotation the replay understands: a positive per-share payout
// or a negative conversion ratio (new shares per share, minus one).
func parseEventText(s string) string {
	if m := payoutRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := splitRe.FindStringSubmatch(s); m != nil {
		factor, err := decimal.NewFromString(m[1])
		// Only downward conversions are representable; an upward split would
		// collide with the payout encoding.
		one := decimal.NewFromInt(1)
		if err != nil || !factor.IsPositive() || factor.GreaterThanOrEqual(one) {
			return ""
		}
		return factor.Sub(one).String()
	}
	return ""
}
