package parse

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
)

func tcr1Fixture(firstCount string, firstAmount, firstSign, secondAmount, secondSign, thirdAmount, thirdSign string) []byte {
	line := blankLine(143)
	setAt(line, 1, 4, "4601")
	setAt(line, 12, 26, zeroPad15(firstCount))
	setAt(line, 42, 56, zeroPad15(firstAmount))
	setAt(line, 57, 58, firstSign)
	setAt(line, 59, 73, zeroPad15(secondAmount))
	setAt(line, 74, 75, secondSign)
	setAt(line, 76, 90, zeroPad15(thirdAmount))
	setAt(line, 91, 92, thirdSign)
	return line
}

func zeroPad15(digits string) string {
	out := make([]byte, 15)
	for i := range out {
		out[i] = '0'
	}
	copy(out[15-len(digits):], digits)
	return string(out)
}

func TestParseTCR1DecodesAmountsAndSigns(t *testing.T) {
	line := string(tcr1Fixture("0000050", "00100000", "CR", "00020000", "CR", "00005000", "DB"))
	rec, err := ParseTCR1(line, "job-1", 2, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTCR1: %v", err)
	}
	if rec.FirstCount != 50 {
		t.Fatalf("expected FirstCount 50, got %d", rec.FirstCount)
	}
	want, _ := decimal.NewFromString("1000.00")
	if !rec.FirstAmount.Equal(want) {
		t.Fatalf("expected FirstAmount 1000.00, got %s", rec.FirstAmount)
	}
	if rec.FirstSign != codec.SignCredit {
		t.Fatalf("expected CR first sign, got %s", rec.FirstSign)
	}
	if rec.ThirdSign != codec.SignDebit {
		t.Fatalf("expected DB third sign, got %s", rec.ThirdSign)
	}
}

func TestParseTCR1BlankSignsDecodeEmpty(t *testing.T) {
	line := string(tcr1Fixture("0000050", "00100000", "CR", "00020000", "  ", "00005000", "  "))
	rec, err := ParseTCR1(line, "job-1", 2, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTCR1: %v", err)
	}
	if rec.SecondSign != codec.SignEmpty {
		t.Fatalf("expected blank secondSign to decode empty, got %q", rec.SecondSign)
	}
	if rec.ThirdSign != codec.SignEmpty {
		t.Fatalf("expected blank thirdSign to decode empty, got %q", rec.ThirdSign)
	}
}

func TestParseTCR1ToleratesMinimumLength(t *testing.T) {
	line := string(tcr1Fixture("0000001", "00000100", "CR", "00000000", "CR", "00000000", "DB"))
	if len(line) != minLineLengthTCR1 {
		t.Fatalf("fixture should be exactly the minimum TCR1 length, got %d", len(line))
	}
	rec, err := ParseTCR1(line, "job-1", 2, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTCR1 at minimum length: %v", err)
	}
	if rec.FirstCount != 1 {
		t.Fatalf("expected FirstCount 1, got %d", rec.FirstCount)
	}
}

func TestParseTCR1TooShortLineIsMissingField(t *testing.T) {
	_, err := ParseTCR1("short", "job-1", 2, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a line shorter than the TCR1 minimum")
	}
}
