package parse

import (
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/verr"
)

// ParseSubgroup4 decodes a SubGroup-4 TCR0 line (VSS-120/130/140 and
// siblings), positions 1-168 per §6.1.
func ParseSubgroup4(line string, jobID string, lineNumber int, opts Options) (*record.Vss120LikeRecord, error) {
	if len(line) < minLineLengthTCR0 {
		return nil, &verr.MissingFieldError{Field: "line", LineNumber: lineNumber, Format: verr.FormatSubGroup4}
	}

	env := record.Envelope{JobID: jobID, RawLine: line, LineNumber: lineNumber, IsValid: true}
	rd := newFieldReader(line, &env, opts, verr.FormatSubGroup4)

	rec := &record.Vss120LikeRecord{Envelope: env}
	rec.TransactionCode = rd.get(fieldByName(subgroup4Layout, "transactionCode"))
	rec.TransactionCodeQual = rd.get(fieldByName(subgroup4Layout, "transactionCodeQual"))
	rec.ComponentSequence = rd.get(fieldByName(subgroup4Layout, "componentSequence"))
	rec.DestinationID = rd.get(fieldByName(subgroup4Layout, "destinationId"))
	rec.SourceID = rd.get(fieldByName(subgroup4Layout, "sourceId"))
	rec.ReportingSREID = rd.get(fieldByName(subgroup4Layout, "reportingSreId"))
	rec.RollupSREID = rd.get(fieldByName(subgroup4Layout, "rollupSreId"))
	rec.FundsTransferSREID = rd.get(fieldByName(subgroup4Layout, "fundsTransferSreId"))
	rec.SettlementServiceID = rd.get(fieldByName(subgroup4Layout, "settlementServiceId"))

	rec.SettlementCurrencyCode = rd.get(fieldByName(subgroup4Layout, "settlementCurrencyCode"))
	rec.ClearingCurrencyCode = rd.get(fieldByName(subgroup4Layout, "clearingCurrencyCode"))
	rec.BusinessMode = record.BusinessMode(rd.get(fieldByName(subgroup4Layout, "businessMode")))
	rec.NoDataIndicator = rd.get(fieldByName(subgroup4Layout, "noDataIndicator"))

	rec.ReportGroup = rd.get(fieldByName(subgroup4Layout, "reportGroup"))
	rec.ReportSubgroup = rd.get(fieldByName(subgroup4Layout, "reportSubgroup"))
	rec.ReportIDNumber = rd.get(fieldByName(subgroup4Layout, "reportIdNumber"))
	rec.ReportIDSuffix = rd.get(fieldByName(subgroup4Layout, "reportIdSuffix"))

	rec.SettlementDateRaw = rd.get(fieldByName(subgroup4Layout, "settlementDate"))
	rec.ReportDateRaw = rd.get(fieldByName(subgroup4Layout, "reportDate"))
	rec.FromDateRaw = rd.get(fieldByName(subgroup4Layout, "fromDate"))
	rec.ToDateRaw = rd.get(fieldByName(subgroup4Layout, "toDate"))

	rec.ChargeTypeCode = rd.get(fieldByName(subgroup4Layout, "chargeTypeCode"))
	rec.BusinessTransactionType = rd.get(fieldByName(subgroup4Layout, "businessTransactionType"))
	rec.BusinessTransactionCycle = rd.get(fieldByName(subgroup4Layout, "businessTransactionCycle"))
	rec.ReversalIndicator = rd.get(fieldByName(subgroup4Layout, "reversalIndicator"))
	rec.ReturnIndicator = rd.get(fieldByName(subgroup4Layout, "returnIndicator"))
	rec.JurisdictionCode = rd.get(fieldByName(subgroup4Layout, "jurisdictionCode"))
	rec.InterregionalRoutingFlag = rd.get(fieldByName(subgroup4Layout, "interregionalRoutingFlag"))
	rec.SourceCountryCode = rd.get(fieldByName(subgroup4Layout, "sourceCountryCode"))
	rec.DestinationCountryCode = rd.get(fieldByName(subgroup4Layout, "destinationCountryCode"))
	rec.SourceRegionCode = rd.get(fieldByName(subgroup4Layout, "sourceRegionCode"))
	rec.DestinationRegionCode = rd.get(fieldByName(subgroup4Layout, "destinationRegionCode"))
	rec.FeeLevelDescriptor = rd.get(fieldByName(subgroup4Layout, "feeLevelDescriptor"))
	rec.CreditDebitNetIndicator = rd.get(fieldByName(subgroup4Layout, "creditDebitNetIndicator"))
	rec.SummaryLevel = rd.get(fieldByName(subgroup4Layout, "summaryLevel"))
	rec.ReimbursementAttribute = rd.get(fieldByName(subgroup4Layout, "reimbursementAttribute"))

	if err := rd.err(); err != nil {
		return nil, err
	}

	rec.SettlementDate = decodeDateField(rec.SettlementDateRaw, opts, &rec.Envelope, verr.FormatSubGroup4, "settlementDate", lineNumber)
	rec.ReportDate = decodeDateField(rec.ReportDateRaw, opts, &rec.Envelope, verr.FormatSubGroup4, "reportDate", lineNumber)
	rec.FromDate = decodeDateField(rec.FromDateRaw, opts, &rec.Envelope, verr.FormatSubGroup4, "fromDate", lineNumber)
	rec.ToDate = decodeDateField(rec.ToDateRaw, opts, &rec.Envelope, verr.FormatSubGroup4, "toDate", lineNumber)

	if !record.ValidSubgroup4ReportIDs[rec.ReportIDNumber] {
		err := &verr.MalformedFieldError{
			Field: "reportIdNumber", Expected: "one of the subgroup-4 report id set", Actual: rec.ReportIDNumber,
			LineNumber: lineNumber, Format: verr.FormatSubGroup4,
		}
		if opts.Strict {
			return nil, err
		}
		rec.Envelope.AddError(err.Error())
	}
	if rec.ReportGroup != "V" || rec.ReportSubgroup != "4" {
		err := &verr.InvariantViolationError{
			Invariant: "subgroup4-report-group", Detail: "report group/subgroup must be \"V\"/\"4\"", LineNumber: lineNumber,
		}
		if opts.Strict {
			return nil, err
		}
		rec.Envelope.AddError(err.Error())
	}

	return rec, nil
}
