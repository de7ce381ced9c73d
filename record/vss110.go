package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
)

// AmountType classifies a VSS-110 row's content.
type AmountType string

const (
	AmountTypeInterchange AmountType = "I"
	AmountTypeFee         AmountType = "F"
	AmountTypeCharge      AmountType = "C"
	AmountTypeTotal       AmountType = "T"
	AmountTypeEmpty       AmountType = ""
)

// BusinessMode is the settlement side a record describes.
type BusinessMode string

const (
	BusinessModeAcquirer BusinessMode = "1"
	BusinessModeIssuer   BusinessMode = "2"
	BusinessModeOther    BusinessMode = "3"
	BusinessModeTotal    BusinessMode = "9"
	BusinessModeEmpty    BusinessMode = ""
)

// Vss110Record is one VSS-110/111 detail or summary settlement line
// (report group V, subgroup 2).
type Vss110Record struct {
	Envelope

	TransactionCode        string // "46"
	TransactionCodeQual    string // "0"
	ComponentSequence      string // "0"
	DestinationID          string
	SourceID               string
	ReportingSREID         string
	RollupSREID            string
	FundsTransferSREID     string
	SettlementServiceID    string
	SettlementCurrencyCode string
	NoDataIndicator        string
	ReportGroup            string // "V"
	ReportSubgroup         string // "2"
	ReportIDNumber         string // "110" | "111"
	ReportIDSuffix         string

	SettlementDate    time.Time
	SettlementDateRaw string
	ReportDate        time.Time
	ReportDateRaw     string
	FromDate          time.Time
	FromDateRaw       string
	ToDate            time.Time
	ToDateRaw         string

	AmountType   AmountType
	BusinessMode BusinessMode

	TransactionCount int64
	CreditAmount     decimal.Decimal
	DebitAmount      decimal.Decimal
	NetAmount        decimal.Decimal
	AmountSign       codec.Sign

	FundsTransferDate    time.Time
	FundsTransferDateRaw string

	ReimbursementAttribute string
}
