// Package record defines the tagged-union entity model: a shared
// envelope (identity, audit trail, validity) plus type-specific
// payloads for each VSS record kind and the owning ProcessingJob. The
// subgroup-4 family (VSS-120/130/140) is deliberately a single Go type
// whose ReportIDNumber field selects its semantics, rather than a
// three-deep inheritance chain.
package record

import "time"

// Envelope is embedded by every persisted record kind. It carries the
// identity, audit, and validity fields common to all of them.
type Envelope struct {
	ID               string
	JobID            string
	RawLine          string
	LineNumber       int
	IsValid          bool
	ValidationErrors []string
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AddError appends a validation error message and marks the envelope
// invalid. It is the single mutation point lenient-mode parsing uses
// to keep a record persistable while flagging it for audit.
func (e *Envelope) AddError(msg string) {
	e.IsValid = false
	e.ValidationErrors = append(e.ValidationErrors, msg)
}
