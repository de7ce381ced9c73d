package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/eviepay/vss-settlement/verr"
)

// dateFloor is the lower bound of the accepted range for strict-mode
// date validation, [2000-01-01, today+1y]; the upper bound is computed
// from the caller's "now" in DecodeCCYYDDD.
var dateFloor = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DecodeCCYYDDD decodes a 7-digit CCYYDDD field (4-digit year + 3-digit
// day-of-year) into a UTC date. An all-space field decodes to the zero
// time with ok=false (not an error: "null"). A malformed field is an
// error in strict mode, or lenient-substituted to the Unix epoch with
// ok=false.
func DecodeCCYYDDD(raw string, strict bool, now time.Time, format verr.FormatTag, fieldName string, lineNumber int) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false, nil
	}
	if len(trimmed) != 7 || !allDigits(trimmed) {
		if strict {
			return time.Time{}, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "7 digit CCYYDDD", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return time.Unix(0, 0).UTC(), false, nil
	}

	year, _ := strconv.Atoi(trimmed[0:4])
	day, _ := strconv.Atoi(trimmed[4:7])
	if day < 1 || day > 366 {
		if strict {
			return time.Time{}, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "day-of-year 1-366", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return time.Unix(0, 0).UTC(), false, nil
	}

	d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	if strict && (d.Before(dateFloor) || d.After(now.AddDate(1, 0, 0))) {
		return time.Time{}, false, &verr.OutOfRangeDateError{Field: fieldName, Value: raw, LineNumber: lineNumber}
	}
	return d, true, nil
}

// DecodeCCYDDD decodes the 6-digit funds-transfer date field (3-digit
// year-within-century + 3-digit day-of-year). Per the century-inference
// convention documented in DESIGN.md's Open Question 1, the reconstructed
// year takes settlementDate's century and decade, substitutes the last
// digit of the field's 3-digit year part for the settlement year's last
// digit, and
// shifts forward a decade if that would land the funds-transfer date
// more than a year before settlementDate.
func DecodeCCYDDD(raw string, settlementDate time.Time, strict bool, format verr.FormatTag, fieldName string, lineNumber int) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false, nil
	}
	if len(trimmed) != 6 || !allDigits(trimmed) {
		if strict {
			return time.Time{}, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "6 digit CCYDDD", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return time.Unix(0, 0).UTC(), false, nil
	}

	yearDigit, _ := strconv.Atoi(trimmed[2:3])
	day, _ := strconv.Atoi(trimmed[3:6])
	if day < 1 || day > 366 {
		if strict {
			return time.Time{}, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "day-of-year 1-366", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return time.Unix(0, 0).UTC(), false, nil
	}

	base := settlementDate
	if base.IsZero() {
		base = time.Now().UTC()
	}
	reconstructedYear := (base.Year()/10)*10 + yearDigit
	d := time.Date(reconstructedYear, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	if d.Before(base.AddDate(-1, 0, 0)) {
		d = d.AddDate(10, 0, 0)
	}
	return d, true, nil
}

// DecodeShortDate decodes the backward-compatible 5-digit YYDDD
// settlement-date raw form (§6.2), using the pivot-year windowing
// convention documented in DESIGN.md's Open Question 2: a 2-digit year
// 00-79 maps to 2000-2079, and 80-99 maps to 1980-1999.
func DecodeShortDate(raw string, strict bool, format verr.FormatTag, fieldName string, lineNumber int) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false, nil
	}
	if len(trimmed) != 5 || !allDigits(trimmed) {
		if strict {
			return time.Time{}, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "5 digit YYDDD", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return time.Unix(0, 0).UTC(), false, nil
	}

	yy, _ := strconv.Atoi(trimmed[0:2])
	day, _ := strconv.Atoi(trimmed[2:5])
	if day < 1 || day > 366 {
		if strict {
			return time.Time{}, false, &verr.MalformedFieldError{
				Field: fieldName, Expected: "day-of-year 1-366", Actual: raw, LineNumber: lineNumber, Format: format,
			}
		}
		return time.Unix(0, 0).UTC(), false, nil
	}

	year := 2000 + yy
	if yy >= 80 {
		year = 1900 + yy
	}
	d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	return d, true, nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
