// Package codec implements positional fixed-width field extraction and
// the VSS-specific decoders (dates, signed amounts) used by the parse
// package. It never mutates the input line and never forms a dependency
// on any particular record type.
package codec

import (
	"strings"

	"github.com/eviepay/vss-settlement/verr"
)

// Field describes one positional field in a fixed-width record layout.
// Start and End are 1-based, inclusive, matching the conventions used
// throughout the external record layouts.
type Field struct {
	Name  string
	Start int
	End   int
}

// Len returns the field's declared width.
func (f Field) Len() int { return f.End - f.Start + 1 }

// Extract returns the substring of line occupying f's position range.
// Required fields missing from a short line produce a MissingFieldError;
// callers decide whether that is fatal (strict mode) or merely recorded
// (lenient mode).
func Extract(line string, f Field, format verr.FormatTag, lineNumber int) (string, error) {
	if f.Start < 1 || f.End < f.Start {
		return "", &verr.MalformedFieldError{
			Field: f.Name, Expected: "valid position range", Actual: "", LineNumber: lineNumber, Format: format,
		}
	}
	if len(line) < f.Start {
		return "", &verr.MissingFieldError{Field: f.Name, LineNumber: lineNumber, Format: format}
	}
	end := f.End
	if end > len(line) {
		end = len(line)
	}
	return line[f.Start-1 : end], nil
}

// ExtractPadded behaves like Extract but pads a short tail with spaces
// up to the field's declared width rather than erroring, for fields
// the layout documents as tolerant of truncated trailing lines (e.g.
// TCR1's minimum-143-character tolerance).
func ExtractPadded(line string, f Field) string {
	if len(line) < f.Start {
		return strings.Repeat(" ", f.Len())
	}
	end := f.End
	if end > len(line) {
		end = len(line)
	}
	s := line[f.Start-1 : end]
	if len(s) < f.Len() {
		s += strings.Repeat(" ", f.Len()-len(s))
	}
	return s
}

// Trim is a small convenience used when a field's raw value is an
// alphanumeric code that should be compared without surrounding spaces.
func Trim(s string) string { return strings.TrimSpace(s) }
