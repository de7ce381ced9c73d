package parse

import "github.com/eviepay/vss-settlement/codec"

// Layouts are declared as flat field tables, in the spirit of the
// pack's fixed-width field-spec style: one slice of positional fields
// per record kind, walked once by the corresponding parser rather than
// hand-indexed inline.

var vss110Layout = []codec.Field{
	{Name: "transactionCode", Start: 1, End: 2},
	{Name: "transactionCodeQual", Start: 3, End: 3},
	{Name: "componentSequence", Start: 4, End: 4},
	{Name: "destinationId", Start: 5, End: 10},
	{Name: "sourceId", Start: 11, End: 16},
	{Name: "reportingSreId", Start: 17, End: 26},
	{Name: "rollupSreId", Start: 27, End: 36},
	{Name: "fundsTransferSreId", Start: 37, End: 46},
	{Name: "settlementServiceId", Start: 47, End: 49},
	{Name: "settlementCurrencyCode", Start: 50, End: 52},
	{Name: "noDataIndicator", Start: 53, End: 53},
	{Name: "reserved1", Start: 54, End: 58},
	{Name: "reportGroup", Start: 59, End: 59},
	{Name: "reportSubgroup", Start: 60, End: 60},
	{Name: "reportIdNumber", Start: 61, End: 63},
	{Name: "reportIdSuffix", Start: 64, End: 65},
	{Name: "settlementDate", Start: 66, End: 72},
	{Name: "reportDate", Start: 73, End: 79},
	{Name: "fromDate", Start: 80, End: 86},
	{Name: "toDate", Start: 87, End: 93},
	{Name: "amountType", Start: 94, End: 94},
	{Name: "businessMode", Start: 95, End: 95},
	{Name: "count", Start: 96, End: 110},
	{Name: "creditAmount", Start: 111, End: 125},
	{Name: "debitAmount", Start: 126, End: 140},
	{Name: "netAmount", Start: 141, End: 155},
	{Name: "netAmountSign", Start: 156, End: 157},
	{Name: "fundsTransferDate", Start: 158, End: 164},
	{Name: "reserved2", Start: 165, End: 167},
	{Name: "reimbursementAttribute", Start: 168, End: 168},
}

var subgroup4Layout = []codec.Field{
	{Name: "transactionCode", Start: 1, End: 2},
	{Name: "transactionCodeQual", Start: 3, End: 3},
	{Name: "componentSequence", Start: 4, End: 4},
	{Name: "destinationId", Start: 5, End: 10},
	{Name: "sourceId", Start: 11, End: 16},
	{Name: "reportingSreId", Start: 17, End: 26},
	{Name: "rollupSreId", Start: 27, End: 36},
	{Name: "fundsTransferSreId", Start: 37, End: 46},
	{Name: "settlementServiceId", Start: 47, End: 49},
	{Name: "settlementCurrencyCode", Start: 50, End: 52},
	{Name: "clearingCurrencyCode", Start: 53, End: 55},
	{Name: "businessMode", Start: 56, End: 56},
	{Name: "noDataIndicator", Start: 57, End: 57},
	{Name: "reserved1", Start: 58, End: 58},
	{Name: "reportGroup", Start: 59, End: 59},
	{Name: "reportSubgroup", Start: 60, End: 60},
	{Name: "reportIdNumber", Start: 61, End: 63},
	{Name: "reportIdSuffix", Start: 64, End: 65},
	{Name: "settlementDate", Start: 66, End: 72},
	{Name: "reportDate", Start: 73, End: 79},
	{Name: "fromDate", Start: 80, End: 86},
	{Name: "toDate", Start: 87, End: 93},
	{Name: "chargeTypeCode", Start: 94, End: 96},
	{Name: "businessTransactionType", Start: 97, End: 99},
	{Name: "businessTransactionCycle", Start: 100, End: 100},
	{Name: "reversalIndicator", Start: 101, End: 101},
	{Name: "returnIndicator", Start: 102, End: 102},
	{Name: "jurisdictionCode", Start: 103, End: 104},
	{Name: "interregionalRoutingFlag", Start: 105, End: 105},
	{Name: "sourceCountryCode", Start: 106, End: 108},
	{Name: "destinationCountryCode", Start: 109, End: 111},
	{Name: "sourceRegionCode", Start: 112, End: 113},
	{Name: "destinationRegionCode", Start: 114, End: 115},
	{Name: "feeLevelDescriptor", Start: 116, End: 131},
	{Name: "creditDebitNetIndicator", Start: 132, End: 132},
	{Name: "summaryLevel", Start: 133, End: 134},
	{Name: "reserved2", Start: 135, End: 167},
	{Name: "reimbursementAttribute", Start: 168, End: 168},
}

var tcr1Layout = []codec.Field{
	{Name: "transactionCode", Start: 1, End: 2},
	{Name: "transactionCodeQual", Start: 3, End: 3},
	{Name: "componentSequence", Start: 4, End: 4},
	{Name: "rateTableId", Start: 5, End: 9},
	{Name: "reserved1", Start: 10, End: 11},
	{Name: "firstCount", Start: 12, End: 26},
	{Name: "secondCount", Start: 27, End: 41},
	{Name: "firstAmount", Start: 42, End: 56},
	{Name: "firstAmountSign", Start: 57, End: 58},
	{Name: "secondAmount", Start: 59, End: 73},
	{Name: "secondAmountSign", Start: 74, End: 75},
	{Name: "thirdAmount", Start: 76, End: 90},
	{Name: "thirdAmountSign", Start: 91, End: 92},
	{Name: "fourthAmount", Start: 93, End: 107},
	{Name: "fourthAmountSign", Start: 108, End: 109},
	{Name: "fifthAmount", Start: 110, End: 124},
	{Name: "fifthAmountSign", Start: 125, End: 126},
	{Name: "sixthAmount", Start: 127, End: 141},
	{Name: "sixthAmountSign", Start: 142, End: 143},
	{Name: "reserved2", Start: 144, End: 168},
}

// minLineLength enforces §6.1's tolerated minimum lengths.
const (
	minLineLengthTCR1 = 143
	minLineLengthTCR0 = 155
	fullLineLength    = 168
)
