package fundtrade

import (
	"errors"
	"fmt"
)

// errExhausted signals that the replay loop has no further record to consume.
// It is the loop's normal termination condition, never surfaced to callers.
var errExhausted = errors.New("no further record to add to the cash-flow ledger")

// ErrNoConvergence is returned by the XIRR solver when the cash-flow series
// has no real root (e.g. all flows share the same sign) or the iteration cap
// is reached before the requested tolerance.
var ErrNoConvergence = errors.New("xirr: solver did not converge")

// OrderingViolationError reports a redemption that precedes any purchase.
// It aborts the instrument's ledger build.
type OrderingViolationError struct {
	Code string
	Date Date
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("%s: cannot sell on %s before any purchase", e.Code, e.Date)
}

// ActionDecodeError reports an unrecognized corporate-action annotation.
// It aborts the instrument's ledger build.
type ActionDecodeError struct {
	Code    string
	Date    Date
	Comment string
}

func (e *ActionDecodeError) Error() string {
	return fmt.Sprintf("%s: unrecognized corporate action %q on %s", e.Code, e.Comment, e.Date)
}

// WarningCode classifies recoverable replay anomalies.
type WarningCode string

const (
	// WarnRedemptionShortfall flags a redemption request exceeding the shares
	// actually held; the replay continues with the available shares.
	WarnRedemptionShortfall WarningCode = "redemption-shortfall"
	// WarnDateAmbiguity flags a record whose resolved date collides with
	// another record's date; the colliding record is shadowed. Known
	// limitation of the statement format, reported rather than fixed.
	WarnDateAmbiguity WarningCode = "date-ambiguity"
)

// Warning is a recoverable anomaly recorded alongside a (possibly degraded)
// ledger. Warnings are accumulated, never silently dropped.
type Warning struct {
	Code    WarningCode
	Date    Date
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s on %s: %s", w.Code, w.Date, w.Message)
}
