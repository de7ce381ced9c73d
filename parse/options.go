package parse

import "time"

// Options controls strict/lenient parsing behavior, per §4.2/§7.
type Options struct {
	// Strict, when true, makes a field-contract mismatch fatal for the
	// current record (returned as an error); when false, the mismatch
	// is recorded as a validation error and the record is still
	// returned with IsValid=false so it can be persisted for audit.
	// The CCYYDDD date fields (settlement, report, from, to dates) are
	// the exception: their decode failures are recorded on the record in
	// either mode and never returned.
	Strict bool

	// Now anchors "today" for the out-of-range date check
	// ([2000-01-01, today+1y]); tests pass a fixed value for determinism.
	Now time.Time
}

// DefaultOptions returns lenient-mode options anchored to the current
// time, matching the pipeline's default of always persisting a record
// (invalid ones included) for audit.
func DefaultOptions() Options {
	return Options{Strict: false, Now: time.Now().UTC()}
}
