package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
)

// ValidSubgroup4ReportIDs is the set of report-id-number values a
// SubGroup-4 TCR0 line may carry.
var ValidSubgroup4ReportIDs = map[string]bool{
	"120": true, "130": true, "131": true, "135": true, "136": true,
	"140": true, "210": true, "215": true, "230": true, "640": true,
}

// Vss120LikeRecord is the SubGroup-4 TCR0 context row shared by the
// VSS-120/130/140 report families (and their less common siblings).
// The three families are not separate Go types: ReportIDNumber alone
// selects a record's semantics, per the tagged-union guidance.
type Vss120LikeRecord struct {
	Envelope

	TransactionCode     string
	TransactionCodeQual string
	ComponentSequence   string
	DestinationID       string
	SourceID            string
	ReportingSREID      string
	RollupSREID         string
	FundsTransferSREID  string
	SettlementServiceID string

	SettlementCurrencyCode string
	ClearingCurrencyCode   string
	BusinessMode           BusinessMode
	NoDataIndicator        string

	ReportGroup    string // "V"
	ReportSubgroup string // "4"
	ReportIDNumber string // one of ValidSubgroup4ReportIDs
	ReportIDSuffix string

	SettlementDate    time.Time
	SettlementDateRaw string
	ReportDate        time.Time
	ReportDateRaw     string
	FromDate          time.Time
	FromDateRaw       string
	ToDate            time.Time
	ToDateRaw         string

	ChargeTypeCode             string
	BusinessTransactionType    string
	BusinessTransactionCycle   string
	ReversalIndicator          string
	ReturnIndicator            string
	JurisdictionCode           string
	InterregionalRoutingFlag   string
	SourceCountryCode          string
	DestinationCountryCode     string
	SourceRegionCode           string
	DestinationRegionCode      string
	FeeLevelDescriptor         string
	CreditDebitNetIndicator    string
	SummaryLevel               string
	ReimbursementAttribute     string
}

// Vss120Tcr1Record is the amount-carrying companion to a Vss120LikeRecord
// TCR0. Its parent reference is a lookup key (ParentTCR0ID), never an
// owning pointer -- the parent is looked up on demand by the aggregator
// and store, never embedded.
type Vss120Tcr1Record struct {
	Envelope

	RateTableID string

	FirstCount  int64
	SecondCount int64

	FirstAmount   decimal.Decimal
	FirstSign     codec.Sign
	SecondAmount  decimal.Decimal
	SecondSign    codec.Sign
	ThirdAmount   decimal.Decimal
	ThirdSign     codec.Sign
	FourthAmount  decimal.Decimal
	FourthSign    codec.Sign
	FifthAmount   decimal.Decimal
	FifthSign     codec.Sign
	SixthAmount   decimal.Decimal
	SixthSign     codec.Sign

	// DestinationID is inherited from the preceding parent TCR0 (a TCR1
	// line carries no destination-id field of its own).
	DestinationID string

	// ParentTCR0ID is empty when recovery could not find any parent
	// (orphan fallback); in that case the envelope is marked invalid.
	ParentTCR0ID       string
	ParentReportNumber string
}
