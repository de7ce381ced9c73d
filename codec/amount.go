package codec

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/verr"
)

// Sign is a CR/DB/empty amount-sign indicator.
type Sign string

const (
	SignCredit Sign = "CR"
	SignDebit  Sign = "DB"
	SignEmpty  Sign = ""
)

// ParseSign decodes a two-character sign field. Any value other than
// "CR", "DB", or blank is treated as empty in lenient mode; callers in
// strict mode should reject it themselves via field validation.
func ParseSign(raw string) Sign {
	switch strings.TrimSpace(raw) {
	case "CR":
		return SignCredit
	case "DB":
		return SignDebit
	default:
		return SignEmpty
	}
}

// Signed applies sign to amount, returning a negative decimal for DB and
// the amount unchanged for CR or empty. This is the `signed(x)` helper
// referenced throughout the report aggregator (spec's §4.5).
func Signed(amount decimal.Decimal, sign Sign) decimal.Decimal {
	if sign == SignDebit {
		return amount.Neg()
	}
	return amount
}

// SignOf returns CR for non-negative values, DB for negative, matching
// the aggregator's emission convention (|net| plus a derived sign).
func SignOf(v decimal.Decimal) Sign {
	if v.IsNegative() {
		return SignDebit
	}
	return SignCredit
}

// DecodeAmount decodes a 15-character digit field with implied two
// decimal places into a fixed-point decimal (P2). An all-zero or
// all-space field decodes to exactly zero. A field with non-digit,
// non-space characters is a malformed-field error in strict mode; in
// lenient mode it is coerced to zero and the caller is told via the
// returned ok=false so it can record a warning without aborting.
func DecodeAmount(raw string, strict bool, format verr.FormatTag, fieldName string, lineNumber int) (decimal.Decimal, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, true, nil
	}

	digits := raw
	allDigitsOrSpace := true
	for _, c := range raw {
		if c == ' ' {
			continue
		}
		if c < '0' || c > '9' {
			allDigitsOrSpace = false
			break
		}
	}
	if !allDigitsOrSpace {
		if strict {
			return decimal.Zero, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "15 ASCII digits", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return decimal.Zero, false, nil
	}

	// Space-pad (rather than zero-pad) inputs: treat blanks as zero digits.
	digits = strings.ReplaceAll(digits, " ", "0")
	cents, err := decimal.NewFromString(digits)
	if err != nil {
		if strict {
			return decimal.Zero, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "15 ASCII digits", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return decimal.Zero, false, nil
	}

	return cents.Shift(-2), true, nil
}
