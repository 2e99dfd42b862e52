package fundtrade

import (
	"errors"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"0.05", true},
		{"-0.1", true},
		{" 0.05 ", true},
		{"0", false},
		{"", false},
		{"split 1:2", false},
	}
	for _, tt := range tests {
		if _, ok := parseAction(tt.in); ok != tt.ok {
			t.Errorf("parseAction(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestUnrecognizedActionFailsBuild(t *testing.T) {
	quotes := quotesOf(t,
		"2020-01-02", "1.0",
		"2020-01-06", "1.0:no idea",
	)
	fund := NewFund("000001", "test fund", "CNY", quotes)
	_, err := NewTradeUntil(fund, []Record{rec("2020-01-02", "1000")}, d("2020-01-10"))

	var ad *ActionDecodeError
	if !errors.As(err, &ad) {
		t.Fatalf("err = %v, want ActionDecodeError", err)
	}
	if ad.Date != d("2020-01-06") || ad.Comment != "no idea" {
		t.Errorf("decode error = %+v", ad)
	}
}

func TestDividendModeFlip(t *testing.T) {
	if DividendPayout.flip() != DividendReinvest || DividendReinvest.flip() != DividendPayout {
		t.Error("flip() must swap the two modes")
	}
}
