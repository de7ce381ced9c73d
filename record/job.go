package record

import "time"

// Status is a ProcessingJob's lifecycle phase.
type Status string

const (
	StatusUploaded   Status = "UPLOADED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// ReportFormat is the auto-detected VSS family a job's file belongs to.
type ReportFormat string

const (
	ReportFormatVSS110  ReportFormat = "VSS_110"
	ReportFormatVSS120  ReportFormat = "VSS_120"
	ReportFormatVSS130  ReportFormat = "VSS_130"
	ReportFormatVSS140  ReportFormat = "VSS_140"
	ReportFormatMixed   ReportFormat = "MIXED"
	ReportFormatUnknown ReportFormat = "UNKNOWN"
)

// MaxErrorSummaryLines bounds the per-job truncated error summary (§7):
// the first N lines are kept verbatim, the rest are counted.
const MaxErrorSummaryLines = 10

// ProcessingJob is the aggregate root for one uploaded EPIN file. It is
// created on submit, mutated only by the orchestrator, and never
// deleted -- a retry supersedes it in place after purging dependent
// records.
type ProcessingJob struct {
	ID                     string
	Filename               string
	FileSize               int64
	FileType               string // always "EPIN" for this pipeline
	ReportFormat           ReportFormat
	ClientID               string
	Status                 Status
	TotalRecords           int64
	ProcessedRecords       int64
	FailedRecords          int64
	ProcessingStartedAt    *time.Time
	ProcessingCompletedAt  *time.Time
	RetryCount             int
	MaxRetries             int
	ErrorSummary           []string
	ErrorOverflowCount     int
	Metadata               map[string]string
	Version                int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// AddErrorSummaryLine appends a line to the job's truncated error
// summary, once MaxErrorSummaryLines is reached it just counts the
// overflow instead of growing the slice unbounded.
func (j *ProcessingJob) AddErrorSummaryLine(line string) {
	if len(j.ErrorSummary) < MaxErrorSummaryLines {
		j.ErrorSummary = append(j.ErrorSummary, line)
		return
	}
	j.ErrorOverflowCount++
}

// RecordUpgradeFormat upgrades the job's detected report format to
// MIXED when a differing VSS family is observed after the first record.
func (j *ProcessingJob) RecordUpgradeFormat(observed ReportFormat) {
	if observed == "" || observed == ReportFormatUnknown {
		return
	}
	switch {
	case j.ReportFormat == "":
		j.ReportFormat = observed
	case j.ReportFormat != observed && j.ReportFormat != ReportFormatMixed:
		j.ReportFormat = ReportFormatMixed
	}
}

// allowedTransitions encodes the FSM from spec §4.3.
var allowedTransitions = map[Status]map[Status]bool{
	StatusUploaded:   {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusCompleted: true, StatusFailed: true, StatusCancelled: true},
	StatusFailed:     {StatusUploaded: true}, // retry-allowed
}

// CanTransition reports whether from -> to is a legal FSM edge.
func CanTransition(from, to Status) bool {
	edges, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return edges[to]
}
