package fundtrade

import (
	"iter"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Quote is a single published valuation day: the net asset value and an
// optional raw corporate-action annotation carried by the statement source.
// The annotation is kept verbatim; interpreting it is the action resolver's
// job, so a malformed one only fails the build when the replay reaches it.
type Quote struct {
	NAV     decimal.Decimal
	Comment string
}

// Series stores a chronological sequence of daily quotes.
// It ensures that dates are unique and the sequence is always sorted.
type Series struct {
	days   []Date
	quotes []Quote
}

// Latest returns the latest date and quote in the series.
// If the series is empty, it returns zero values.
func (s *Series) Latest() (day Date, q Quote) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, Quote{}
	}
	return s.days[last], s.quotes[last]
}

// First returns the earliest date and quote in the series.
func (s *Series) First() (day Date, q Quote) {
	if len(s.days) == 0 {
		return Date{}, Quote{}
	}
	return s.days[0], s.quotes[0]
}

// Len returns the number of quotes in the series.
func (s *Series) Len() int { return len(s.days) }

// chronological is a private implementation to make this series chronologically sorted.
type chronological struct{ *Series }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.quotes[i], s.quotes[j] = s.quotes[j], s.quotes[i]
}

// sort sorts the series in chronological order.
func (s *Series) sort() { sort.Sort(chronological{s}) }

// Append adds a quote to the series.
//
// An existing quote at that date is overwritten.
func (s *Series) Append(on Date, q Quote) *Series {
	if i := slices.Index(s.days, on); i >= 0 {
		// Found a quote on that exact day. We choose to replace, because it
		// gives higher priority to the last data.
		s.quotes[i] = q
		return s
	}
	s.days, s.quotes = append(s.days, on), append(s.quotes, q)
	s.sort()
	return s
}

// Values returns an iterator over all date/quote pairs, in chronological order.
func (s *Series) Values() iter.Seq2[Date, Quote] {
	return func(yield func(Date, Quote) bool) {
		for i, on := range s.days {
			if !yield(on, s.quotes[i]) {
				return
			}
		}
	}
}

// Get returns the quote published exactly on 'day'.
func (s *Series) Get(day Date) (Quote, bool) {
	i := slices.Index(s.days, day)
	if i >= 0 {
		return s.quotes[i], true
	}
	return Quote{}, false
}

// search returns the insertion index of day in the sorted days slice.
func (s *Series) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(s.days, day, func(d, t Date) int { return d.Compare(t) })
}

// AsOf returns the quote on a given day, or the most recent quote before it.
func (s *Series) AsOf(day Date) (Date, Quote, bool) {
	i, found := s.search(day)
	if found {
		return s.days[i], s.quotes[i], true
	}
	// Not found. `i` is the index where `day` would be inserted, so the
	// last quote before the target date is at `i-1`.
	if i == 0 {
		return Date{}, Quote{}, false // No quote on or before the given day.
	}
	return s.days[i-1], s.quotes[i-1], true
}

// Next returns the quote on a given day, or the earliest quote after it.
func (s *Series) Next(day Date) (Date, Quote, bool) {
	i, found := s.search(day)
	if found {
		return s.days[i], s.quotes[i], true
	}
	if i >= len(s.days) {
		return Date{}, Quote{}, false // No quote on or after the given day.
	}
	return s.days[i], s.quotes[i], true
}
