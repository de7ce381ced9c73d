package parse

import (
	"strconv"
	"strings"
	"time"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/verr"
)

// fieldByName looks up a named field within a declared layout. Layouts
// are small fixed tables known at compile time, so a linear scan is
// simpler than building a map per parse call.
func fieldByName(layout []codec.Field, name string) codec.Field {
	for _, f := range layout {
		if f.Name == name {
			return f
		}
	}
	panic("parse: unknown layout field " + name)
}

// decodeDateField decodes a CCYYDDD field, recording (lenient) or
// surfacing (strict, via the returned envelope error append) any
// failure, and returns the zero time when the field was blank.
func decodeDateField(raw string, opts Options, env *record.Envelope, format verr.FormatTag, name string, lineNumber int) time.Time {
	d, ok, err := codec.DecodeCCYYDDD(raw, opts.Strict, opts.Now, format, name, lineNumber)
	if err != nil {
		env.AddError(err.Error())
		return time.Time{}
	}
	if !ok {
		return time.Time{}
	}
	return d
}

// decodeCountField decodes a 15-digit integer count field (no implied
// decimal places, unlike an amount field).
func decodeCountField(raw string, strict bool, format verr.FormatTag, name string, lineNumber int) (int64, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, true, nil
	}
	digits := strings.ReplaceAll(raw, " ", "0")
	for _, c := range digits {
		if c < '0' || c > '9' {
			if strict {
				return 0, false, &verr.MalformedFieldError{Field: name, Expected: "15 ASCII digits", Actual: raw, LineNumber: lineNumber, Format: format}
			}
			return 0, false, nil
		}
	}
	n, err := strconv.ParseInt(strings.TrimLeft(digits, "0"), 10, 64)
	if err != nil {
		// all-zero input: TrimLeft empties the string
		return 0, true, nil
	}
	return n, true, nil
}
