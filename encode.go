package fundtrade

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	// Keep numbers as plain JSON numbers in the JSONL streams.
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeRecords reads a statement as a JSONL stream, one record per line.
// Blank lines are skipped.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}
	return records, nil
}

// EncodeRecords writes a statement as a JSONL stream, one record per line.
func EncodeRecords(w io.Writer, records []Record) error {
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("cannot encode record on %s: %w", rec.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", raw); err != nil {
			return err
		}
	}
	return nil
}

// quoteRow is the JSONL shape of one valuation day.
type quoteRow struct {
	Date    Date            `json:"date"`
	NAV     decimal.Decimal `json:"nav"`
	Comment string          `json:"comment,omitempty"`
}

// DecodeSeries reads a valuation history as a JSONL stream, one day per line.
// Duplicate dates keep the last occurrence.
func DecodeSeries(r io.Reader) (*Series, error) {
	s := &Series{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var row quoteRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("invalid valuation on line %d: %w", line, err)
		}
		s.Append(row.Date, Quote{NAV: row.NAV, Comment: row.Comment})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading valuations: %w", err)
	}
	return s, nil
}

// EncodeSeries writes a valuation history as a JSONL stream, one day per line
// in date order.
func EncodeSeries(w io.Writer, s *Series) error {
	for on, q := range s.Values() {
		raw, err := json.Marshal(quoteRow{Date: on, NAV: q.NAV, Comment: q.Comment})
		if err != nil {
			return fmt.Errorf("cannot encode valuation on %s: %w", on, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", raw); err != nil {
			return err
		}
	}
	return nil
}

// EncodeCashFlows writes a cash-flow ledger as a JSONL stream.
func EncodeCashFlows(w io.Writer, flows []CashFlow) error {
	for _, cf := range flows {
		raw, err := json.Marshal(cf)
		if err != nil {
			return fmt.Errorf("cannot encode cash flow on %s: %w", cf.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", raw); err != nil {
			return err
		}
	}
	return nil
}

// EncodeLotLedger writes a lot-remainder ledger as a JSONL stream.
func EncodeLotLedger(w io.Writer, snaps []LotSnapshot) error {
	for _, snap := range snaps {
		raw, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("cannot encode lot snapshot on %s: %w", snap.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", raw); err != nil {
			return err
		}
	}
	return nil
}
