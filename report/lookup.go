package report

// Lookup tables resolving the raw codes carried on subgroup-4 TCR0
// rows to human labels (§4.5). An unrecognized code passes through as
// its raw value rather than erroring -- the aggregator never fails a
// report over an unmapped code.

// BusinessModeLabels maps the business-mode digit to its settlement side.
var BusinessModeLabels = map[string]string{
	"1": "Acquirer",
	"2": "Issuer",
	"3": "Other",
	"9": "Total",
}

// CycleLabels maps the single-digit business-transaction-cycle code.
// Code "1" resolving to "Originals" is pinned by the worked example.
var CycleLabels = map[string]string{
	"0": "Interchange",
	"1": "Originals",
	"2": "Representments",
	"3": "Retrieval Requests",
	"4": "Chargebacks",
	"5": "Reassignment",
	"6": "Financial Collections",
	"7": "Fee Collections",
	"8": "Adjustments",
}

// JurisdictionLabels maps the 2-digit jurisdiction code to its Visa region.
var JurisdictionLabels = map[string]string{
	"00": "Domestic",
	"01": "Intra-Europe",
	"02": "Inter-Regional",
	"03": "Asia Pacific",
	"04": "Canada",
	"05": "CEMEA",
	"06": "Latin America and Caribbean",
	"07": "United States",
	"08": "Europe",
	"09": "Central Europe, Middle East, Africa",
	"10": "North America",
	"11": "Global",
}

// RegionLabels maps a 2-letter region code to its display name.
var RegionLabels = map[string]string{
	"US": "United States",
	"CA": "Canada",
	"EU": "Europe",
	"AP": "Asia Pacific",
	"LA": "Latin America and Caribbean",
	"ME": "Central Europe, Middle East, Africa",
}

// CountryLabels maps an ISO-ish 3-character country code to its name.
// Only the entries a settlement file is realistically expected to
// carry are populated; anything else passes through unresolved.
var CountryLabels = map[string]string{
	"840": "United States",
	"124": "Canada",
	"826": "United Kingdom",
	"276": "Germany",
	"250": "France",
	"392": "Japan",
	"036": "Australia",
	"356": "India",
	"076": "Brazil",
	"484": "Mexico",
}

func label(table map[string]string, code string) string {
	if v, ok := table[code]; ok {
		return v
	}
	return code
}

func businessModeLabel(code string) string  { return label(BusinessModeLabels, code) }
func cycleLabel(code string) string         { return label(CycleLabels, code) }
func jurisdictionLabel(code string) string  { return label(JurisdictionLabels, code) }
func regionLabel(code string) string        { return label(RegionLabels, code) }
func countryLabel(code string) string        { return label(CountryLabels, code) }

// routingLabel applies the VSS-130/140 routing rule (§4.5): prefer the
// region-pair label when both region codes are present, falling back
// to the country-pair label otherwise.
func routingLabel(sourceRegion, destRegion, sourceCountry, destCountry string) string {
	if sourceRegion != "" && destRegion != "" {
		return regionLabel(sourceRegion) + " - " + regionLabel(destRegion)
	}
	return countryLabel(sourceCountry) + " - " + countryLabel(destCountry)
}
