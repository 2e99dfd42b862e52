package fundtrade

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeRecords(t *testing.T) {
	in := `{"date":"2020-01-02","value":1000}

{"date":"2020-01-06","value":-0.005}
`
	records, err := DecodeRecords(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeRecords() = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (blank line skipped)", len(records))
	}
	if records[0].Date != d("2020-01-02") || !records[0].Value.Equal(dec("1000")) {
		t.Errorf("first record = %+v", records[0])
	}
	if !records[1].Value.Equal(dec("-0.005")) {
		t.Errorf("second record value = %s, want -0.005", records[1].Value)
	}
}

func TestDecodeRecordsBadLine(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`{"date":"2020-01-02","value":1000}
not json
`))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want a line-2 failure", err)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	records := []Record{
		rec("2020-01-02", "1000.05"),
		{Date: d("2020-01-06"), Value: dec("12.5"), Shares: dec("-50"), Fee: dec("5")},
	}
	var buf bytes.Buffer
	if err := EncodeRecords(&buf, records); err != nil {
		t.Fatal(err)
	}
	back, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(records) {
		t.Fatalf("got %d records back, want %d", len(back), len(records))
	}
	for i := range records {
		if back[i].Date != records[i].Date || !back[i].Value.Equal(records[i].Value) ||
			!back[i].Shares.Equal(records[i].Shares) || !back[i].Fee.Equal(records[i].Fee) {
			t.Errorf("record %d = %+v, want %+v", i, back[i], records[i])
		}
	}
}

func TestSeriesRoundTrip(t *testing.T) {
	s := quotesOf(t,
		"2020-01-06", "1.2:0.05",
		"2020-01-02", "1.0",
	)
	var buf bytes.Buffer
	if err := EncodeSeries(&buf, s); err != nil {
		t.Fatal(err)
	}
	// Encoded in date order, comment omitted when empty.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "2020-01-02") || strings.Contains(lines[0], "comment") {
		t.Errorf("first line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"comment":"0.05"`) {
		t.Errorf("second line = %s", lines[1])
	}

	back, err := DecodeSeries(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", back.Len())
	}
	q, ok := back.Get(d("2020-01-06"))
	if !ok || !q.NAV.Equal(dec("1.2")) || q.Comment != "0.05" {
		t.Errorf("decoded quote = %+v", q)
	}
}

func TestEncodeCashFlows(t *testing.T) {
	tr := mustTrade(t, weekdayQuotes(t), "2020-01-10", rec("2020-01-02", "1000"))
	var buf bytes.Buffer
	if err := EncodeCashFlows(&buf, tr.CashFlows()); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"cash":-1000`) || !strings.Contains(line, `"shares":1000`) {
		t.Errorf("encoded row = %s", line)
	}
}

func TestEncodeLotLedger(t *testing.T) {
	tr := mustTrade(t, weekdayQuotes(t), "2020-01-10", rec("2020-01-02", "1000"))
	var buf bytes.Buffer
	if err := EncodeLotLedger(&buf, tr.LotLedger()); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"lots"`) || !strings.Contains(line, `"2020-01-02"`) {
		t.Errorf("encoded snapshot = %s", line)
	}
}
