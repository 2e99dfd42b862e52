package fundtrade

import (
	"github.com/shopspring/decimal"
)

// Record is one raw statement row for a single instrument.
//
// For open-end funds only Value is meaningful and it is overloaded by sign
// and magnitude (see DecodeSignal). For exchange-traded instruments Value is
// the unit price and Shares/Fee carry the executed quantity and commission.
type Record struct {
	Date   Date            `json:"date"`
	Value  decimal.Decimal `json:"value"`
	Shares decimal.Decimal `json:"shares,omitzero"`
	Fee    decimal.Decimal `json:"fee,omitzero"`
}

// SignalKind tags the decoded meaning of a record's value.
type SignalKind int

const (
	// SignalNone is a zero entry, no activity.
	SignalNone SignalKind = iota
	// SignalPurchase is a subscription of a cash amount.
	SignalPurchase
	// SignalRedeemShares is a redemption of an absolute share count.
	SignalRedeemShares
	// SignalRedeemRatio is a redemption of a ratio of the shares currently held.
	SignalRedeemRatio
)

func (k SignalKind) String() string {
	switch k {
	case SignalNone:
		return "none"
	case SignalPurchase:
		return "purchase"
	case SignalRedeemShares:
		return "redeem-shares"
	case SignalRedeemRatio:
		return "redeem-ratio"
	default:
		return "unknown"
	}
}

// Signal is the decoded form of a record's overloaded value field.
// The replay core only ever consumes Signals; the raw numeric sentinels of
// the statement format never leak past DecodeSignal.
type Signal struct {
	Kind   SignalKind
	Amount Money           // purchase cash amount (Kind == SignalPurchase)
	Shares decimal.Decimal // absolute share count (Kind == SignalRedeemShares)
	Ratio  decimal.Decimal // fraction of held shares in (0,1] (Kind == SignalRedeemRatio)

	// ToggleReinvest flips the instrument's dividend handling (cash payout vs
	// reinvestment) for this record's day only.
	ToggleReinvest bool
}

// IsSellAll reports whether the signal redeems the entire position.
func (s Signal) IsSellAll() bool {
	return s.Kind == SignalRedeemRatio && s.Ratio.Equal(decimal.NewFromInt(1))
}

// sellAllSentinel encodes "redeem 100% of the position". Values in
// (sellAllSentinel, 0) are proportional ratios, values below it are absolute
// share counts. Historical statement-format shorthand, preserved verbatim.
var sellAllSentinel = decimal.RequireFromString("-0.005")

// reinvestMark is the hundredths-digit flag appended to a value to toggle
// dividend reinvestment for one record.
var reinvestMark = decimal.RequireFromString("0.5")

// DecodeSignal decodes the overloaded value of a statement record into a
// tagged Signal, in the instrument's currency.
//
// Encoding, in decode order:
//   - a fractional remainder of exactly 0.05 (0.5 in tenths of the value
//     times ten) is stripped and sets ToggleReinvest;
//   - value > 0 is a purchase of that cash amount;
//   - value < -0.005 is a redemption of -value shares;
//   - -0.005 <= value < 0 is a redemption of value/-0.005 of the held
//     shares, the sentinel -0.005 itself meaning "sell 100%";
//   - value == 0 is no activity.
func DecodeSignal(value decimal.Decimal, currency string) Signal {
	var sig Signal

	// The reinvest flag lives past the tenths digit: round(10v - int(10v), 1) == 0.5.
	// As in the source format, the mark is only effective on positive values.
	if value.IsPositive() {
		tenths := value.Mul(decimal.NewFromInt(10))
		if tenths.Sub(tenths.Truncate(0)).Round(1).Equal(reinvestMark) {
			sig.ToggleReinvest = true
			value = value.Truncate(1)
		}
	}

	switch {
	case value.IsPositive():
		sig.Kind = SignalPurchase
		sig.Amount = M(value, currency)
	case value.LessThan(sellAllSentinel):
		sig.Kind = SignalRedeemShares
		sig.Shares = value.Neg()
	case value.IsNegative():
		// value in [-0.005, 0): a ratio of the current position.
		sig.Kind = SignalRedeemRatio
		sig.Ratio = value.Div(sellAllSentinel)
	default:
		sig.Kind = SignalNone
	}
	return sig
}
