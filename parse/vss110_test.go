package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
)

func vss110Fixture(credit, debit, net, sign string) []byte {
	line := blankLine(168)
	setAt(line, 59, 59, "V")
	setAt(line, 60, 60, "2")
	setAt(line, 61, 63, "110")
	setAt(line, 96, 110, "000000000000000")
	setAt(line, 111, 125, padAmount(credit))
	setAt(line, 126, 140, padAmount(debit))
	setAt(line, 141, 155, padAmount(net))
	setAt(line, 156, 157, sign)
	return line
}

func padAmount(cents string) string {
	out := make([]byte, 15)
	for i := range out {
		out[i] = '0'
	}
	copy(out[15-len(cents):], cents)
	return string(out)
}

func TestParseVSS110DecodesConsistentNet(t *testing.T) {
	line := string(vss110Fixture("00050000", "00020000", "00030000", "CR"))
	rec, err := ParseVSS110(line, "job-1", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseVSS110: %v", err)
	}
	want, _ := decimal.NewFromString("500.00")
	if !rec.CreditAmount.Equal(want) {
		t.Fatalf("expected credit 500.00, got %s", rec.CreditAmount)
	}
	if rec.AmountSign != codec.SignCredit {
		t.Fatalf("expected CR sign, got %s", rec.AmountSign)
	}
	if !rec.IsValid {
		t.Fatalf("expected a consistent record to remain valid, errors=%v", rec.ValidationErrors)
	}
}

// TestParseVSS110LenientFlagsInconsistentNet pins P3: a net amount that
// doesn't match |credit-debit| is recorded as a validation error rather
// than aborting the parse.
func TestParseVSS110LenientFlagsInconsistentNet(t *testing.T) {
	line := string(vss110Fixture("00050000", "00020000", "00099900", "CR"))
	rec, err := ParseVSS110(line, "job-1", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseVSS110: %v", err)
	}
	if rec.IsValid {
		t.Fatal("expected the inconsistent net to mark the record invalid")
	}
	if len(rec.ValidationErrors) == 0 {
		t.Fatal("expected a recorded validation error")
	}
}

// TestParseVSS110StrictAbortsOnInconsistentNet pins the strict-mode
// counterpart: the same mismatch is fatal instead of merely recorded.
func TestParseVSS110StrictAbortsOnInconsistentNet(t *testing.T) {
	line := string(vss110Fixture("00050000", "00020000", "00099900", "CR"))
	_, err := ParseVSS110(line, "job-1", 1, Options{Strict: true, Now: time.Now().UTC()})
	if err == nil {
		t.Fatal("expected strict mode to reject the inconsistent net")
	}
}

// TestParseVSS110TooShortLineIsMissingField pins the minimum-length
// guard ahead of any field extraction.
func TestParseVSS110TooShortLineIsMissingField(t *testing.T) {
	_, err := ParseVSS110("too short", "job-1", 1, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a line shorter than the TCR0 minimum")
	}
}
