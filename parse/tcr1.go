package parse

import (
	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/verr"
)

// ParseTCR1 decodes a SubGroup-4 TCR1 amount line (positions 1-168 per
// §6.1). Destination id is not present on a TCR1 line; the caller is
// responsible for stamping DestinationID/ParentTCR0ID/ParentReportNumber
// from the active-parent carry-over context once this returns.
func ParseTCR1(line string, jobID string, lineNumber int, opts Options) (*record.Vss120Tcr1Record, error) {
	if len(line) < minLineLengthTCR1 {
		return nil, &verr.MissingFieldError{Field: "line", LineNumber: lineNumber, Format: verr.FormatVSS120TCR1}
	}

	env := record.Envelope{JobID: jobID, RawLine: line, LineNumber: lineNumber, IsValid: true}
	rd := newFieldReader(line, &env, opts, verr.FormatVSS120TCR1)

	rec := &record.Vss120Tcr1Record{Envelope: env}
	rec.RateTableID = rd.get(fieldByName(tcr1Layout, "rateTableId"))

	firstCountRaw := rd.get(fieldByName(tcr1Layout, "firstCount"))
	secondCountRaw := rd.get(fieldByName(tcr1Layout, "secondCount"))

	amountNames := [6]string{"firstAmount", "secondAmount", "thirdAmount", "fourthAmount", "fifthAmount", "sixthAmount"}
	signNames := [6]string{"firstAmountSign", "secondAmountSign", "thirdAmountSign", "fourthAmountSign", "fifthAmountSign", "sixthAmountSign"}

	var amountRaws, signRaws [6]string
	for i := range amountNames {
		amountRaws[i] = rd.get(fieldByName(tcr1Layout, amountNames[i]))
		signRaws[i] = rd.get(fieldByName(tcr1Layout, signNames[i]))
	}

	if err := rd.err(); err != nil {
		return nil, err
	}

	firstCount, _, fcErr := decodeCountField(firstCountRaw, opts.Strict, verr.FormatVSS120TCR1, "firstCount", lineNumber)
	if fcErr != nil {
		if opts.Strict {
			return nil, fcErr
		}
		rec.Envelope.AddError(fcErr.Error())
	}
	rec.FirstCount = firstCount

	secondCount, _, scErr := decodeCountField(secondCountRaw, opts.Strict, verr.FormatVSS120TCR1, "secondCount", lineNumber)
	if scErr != nil {
		if opts.Strict {
			return nil, scErr
		}
		rec.Envelope.AddError(scErr.Error())
	}
	rec.SecondCount = secondCount

	var amountErr error
	decodeOne := func(idx int) {
		v, _, err := codec.DecodeAmount(amountRaws[idx], opts.Strict, verr.FormatVSS120TCR1, amountNames[idx], lineNumber)
		if err != nil {
			if opts.Strict {
				amountErr = err
			} else {
				rec.Envelope.AddError(err.Error())
			}
		}
		switch idx {
		case 0:
			rec.FirstAmount = v
		case 1:
			rec.SecondAmount = v
		case 2:
			rec.ThirdAmount = v
		case 3:
			rec.FourthAmount = v
		case 4:
			rec.FifthAmount = v
		case 5:
			rec.SixthAmount = v
		}
	}
	for i := 0; i < 6 && amountErr == nil; i++ {
		decodeOne(i)
	}
	if amountErr != nil {
		return nil, amountErr
	}

	rec.FirstSign = codec.ParseSign(signRaws[0])
	rec.SecondSign = codec.ParseSign(signRaws[1])
	rec.ThirdSign = codec.ParseSign(signRaws[2])
	rec.FourthSign = codec.ParseSign(signRaws[3])
	rec.FifthSign = codec.ParseSign(signRaws[4])
	rec.SixthSign = codec.ParseSign(signRaws[5])

	return rec, nil
}
