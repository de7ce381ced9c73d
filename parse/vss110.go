package parse

import (
	"fmt"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/verr"
)

// ParseVSS110 decodes a VSS-110/111 TCR0 line (positions 1-168 per §6.1).
func ParseVSS110(line string, jobID string, lineNumber int, opts Options) (*record.Vss110Record, error) {
	if len(line) < minLineLengthTCR0 {
		return nil, &verr.MissingFieldError{Field: "line", LineNumber: lineNumber, Format: verr.FormatVSS110}
	}

	env := record.Envelope{JobID: jobID, RawLine: line, LineNumber: lineNumber, IsValid: true}
	rd := newFieldReader(line, &env, opts, verr.FormatVSS110)

	rec := &record.Vss110Record{Envelope: env}
	rec.TransactionCode = rd.get(fieldByName(vss110Layout, "transactionCode"))
	rec.TransactionCodeQual = rd.get(fieldByName(vss110Layout, "transactionCodeQual"))
	rec.ComponentSequence = rd.get(fieldByName(vss110Layout, "componentSequence"))
	rec.DestinationID = rd.get(fieldByName(vss110Layout, "destinationId"))
	rec.SourceID = rd.get(fieldByName(vss110Layout, "sourceId"))
	rec.ReportingSREID = rd.get(fieldByName(vss110Layout, "reportingSreId"))
	rec.RollupSREID = rd.get(fieldByName(vss110Layout, "rollupSreId"))
	rec.FundsTransferSREID = rd.get(fieldByName(vss110Layout, "fundsTransferSreId"))
	rec.SettlementServiceID = rd.get(fieldByName(vss110Layout, "settlementServiceId"))
	rec.SettlementCurrencyCode = rd.get(fieldByName(vss110Layout, "settlementCurrencyCode"))
	rec.NoDataIndicator = rd.get(fieldByName(vss110Layout, "noDataIndicator"))
	rec.ReportGroup = rd.get(fieldByName(vss110Layout, "reportGroup"))
	rec.ReportSubgroup = rd.get(fieldByName(vss110Layout, "reportSubgroup"))
	rec.ReportIDNumber = rd.get(fieldByName(vss110Layout, "reportIdNumber"))
	rec.ReportIDSuffix = rd.get(fieldByName(vss110Layout, "reportIdSuffix"))

	rec.SettlementDateRaw = rd.get(fieldByName(vss110Layout, "settlementDate"))
	rec.ReportDateRaw = rd.get(fieldByName(vss110Layout, "reportDate"))
	rec.FromDateRaw = rd.get(fieldByName(vss110Layout, "fromDate"))
	rec.ToDateRaw = rd.get(fieldByName(vss110Layout, "toDate"))

	rec.AmountType = record.AmountType(rd.get(fieldByName(vss110Layout, "amountType")))
	rec.BusinessMode = record.BusinessMode(rd.get(fieldByName(vss110Layout, "businessMode")))

	countRaw := rd.get(fieldByName(vss110Layout, "count"))
	creditRaw := rd.get(fieldByName(vss110Layout, "creditAmount"))
	debitRaw := rd.get(fieldByName(vss110Layout, "debitAmount"))
	netRaw := rd.get(fieldByName(vss110Layout, "netAmount"))
	signRaw := rd.get(fieldByName(vss110Layout, "netAmountSign"))

	rec.FundsTransferDateRaw = rd.get(fieldByName(vss110Layout, "fundsTransferDate"))
	rec.ReimbursementAttribute = rd.get(fieldByName(vss110Layout, "reimbursementAttribute"))

	if err := rd.err(); err != nil {
		return nil, err
	}

	rec.SettlementDate = decodeDateField(rec.SettlementDateRaw, opts, &rec.Envelope, verr.FormatVSS110, "settlementDate", lineNumber)
	rec.ReportDate = decodeDateField(rec.ReportDateRaw, opts, &rec.Envelope, verr.FormatVSS110, "reportDate", lineNumber)
	rec.FromDate = decodeDateField(rec.FromDateRaw, opts, &rec.Envelope, verr.FormatVSS110, "fromDate", lineNumber)
	rec.ToDate = decodeDateField(rec.ToDateRaw, opts, &rec.Envelope, verr.FormatVSS110, "toDate", lineNumber)

	ftDate, ftOk, ftErr := codec.DecodeCCYDDD(rec.FundsTransferDateRaw, rec.SettlementDate, opts.Strict, verr.FormatVSS110, "fundsTransferDate", lineNumber)
	if ftErr != nil {
		if opts.Strict {
			return nil, ftErr
		}
		rec.Envelope.AddError(ftErr.Error())
	}
	if ftOk {
		rec.FundsTransferDate = ftDate
	}

	count, countOk, countErr := decodeCountField(countRaw, opts.Strict, verr.FormatVSS110, "count", lineNumber)
	if countErr != nil {
		if opts.Strict {
			return nil, countErr
		}
		rec.Envelope.AddError(countErr.Error())
	}
	if countOk {
		rec.TransactionCount = count
	}

	credit, _, creditErr := codec.DecodeAmount(creditRaw, opts.Strict, verr.FormatVSS110, "creditAmount", lineNumber)
	if creditErr != nil {
		if opts.Strict {
			return nil, creditErr
		}
		rec.Envelope.AddError(creditErr.Error())
	}
	rec.CreditAmount = credit

	debit, _, debitErr := codec.DecodeAmount(debitRaw, opts.Strict, verr.FormatVSS110, "debitAmount", lineNumber)
	if debitErr != nil {
		if opts.Strict {
			return nil, debitErr
		}
		rec.Envelope.AddError(debitErr.Error())
	}
	rec.DebitAmount = debit

	net, _, netErr := codec.DecodeAmount(netRaw, opts.Strict, verr.FormatVSS110, "netAmount", lineNumber)
	if netErr != nil {
		if opts.Strict {
			return nil, netErr
		}
		rec.Envelope.AddError(netErr.Error())
	}
	rec.NetAmount = net
	rec.AmountSign = codec.ParseSign(signRaw)

	if err := validateNetConsistency(rec); err != nil {
		if opts.Strict {
			return nil, err
		}
		rec.Envelope.AddError(err.Error())
	}

	return rec, nil
}

// validateNetConsistency enforces P3 / §3's invariant: when credit,
// debit, and net are all present and the calculated net is non-zero,
// |credit-debit| must equal net and its sign must match amountSign.
// When calculated net is zero, any amountSign is accepted.
func validateNetConsistency(rec *record.Vss110Record) error {
	calc := rec.CreditAmount.Sub(rec.DebitAmount)
	if calc.IsZero() {
		return nil
	}
	abs := calc.Abs()
	if !abs.Equal(rec.NetAmount) {
		return &verr.InvariantViolationError{
			Invariant:  "vss110-net-consistency",
			Detail:     fmt.Sprintf("|credit-debit|=%s != net=%s", abs.String(), rec.NetAmount.String()),
			LineNumber: rec.LineNumber,
		}
	}
	wantSign := codec.SignOf(calc)
	if rec.AmountSign != wantSign {
		return &verr.InvariantViolationError{
			Invariant:  "vss110-net-sign",
			Detail:     fmt.Sprintf("calculated sign=%s, recorded amountSign=%s", wantSign, rec.AmountSign),
			LineNumber: rec.LineNumber,
		}
	}
	return nil
}
