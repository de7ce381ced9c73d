package job

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eviepay/vss-settlement/parse"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/resilience"
)

// batchResult summarizes the outcome of writing one batch.
type batchResult struct {
	processed int64
	failed    int64
	errLines  []string
}

// orphanDestinationID / orphanReportNumber are the documented fallback
// values (§4.3) used when a TCR1 arrives with no recoverable parent.
const (
	orphanDestinationID = "000000"
	orphanReportNumber  = "120"
)

var orphanPreferenceOrder = []string{"140", "130", "120"}

// runPipeline streams blob as text lines, batches them to
// o.cfg.BatchSize, and hands each batch to writeBatchWithRetry,
// carrying the active-parent-TCR0 context across batch boundaries.
func (o *Orchestrator) runPipeline(ctx context.Context, j *record.ProcessingJob, blob []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(blob))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	pctx := &parentContext{}
	var batch []lineEntry
	lineNumber := 0
	headerSeen := false

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := o.writeBatchWithRetry(ctx, j, batch, pctx)
		if err != nil {
			return err
		}
		j.ProcessedRecords += res.processed
		j.FailedRecords += res.failed
		j.TotalRecords = j.ProcessedRecords + j.FailedRecords
		for _, line := range res.errLines {
			j.AddErrorSummaryLine(line)
		}
		o.metrics.SetPendingBatches(0)
		batch = batch[:0]
		if o.cancelledInStore(ctx, j) {
			return nil
		}
		return o.store.SaveJob(ctx, j)
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !headerSeen && parse.Classify(line) == parse.KindHeader {
			headerSeen = true
			hdr := parse.ParseHeader(line, j.ID, lineNumber)
			hdr.Envelope.ID = uuid.NewString()
			hdr.Envelope.CreatedAt = o.now()
			hdr.Envelope.UpdatedAt = hdr.Envelope.CreatedAt
			if hdr.ClientID != "" {
				j.ClientID = hdr.ClientID
			}
			if insErr := o.store.InsertHeader(ctx, hdr); insErr != nil {
				return insErr
			}
			continue
		}

		batch = append(batch, lineEntry{line: line, lineNumber: lineNumber})
		o.metrics.SetPendingBatches(len(batch))

		if len(batch) >= o.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
			if o.cancelledInStore(ctx, j) {
				return nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}

type lineEntry struct {
	line       string
	lineNumber int
}

// cancelledInStore re-reads the job's persisted status at a batch
// boundary: j is the orchestrator's own long-lived pointer and is
// never mutated by a concurrent Cancel call, which only ever updates
// the store's copy. Stops scheduling further batches once the store
// reports StatusCancelled, syncing j.Status so the caller observes it.
func (o *Orchestrator) cancelledInStore(ctx context.Context, j *record.ProcessingJob) bool {
	st, err := o.store.FindJobByID(ctx, j.ID)
	if err != nil || st == nil {
		return false
	}
	if st.Status == record.StatusCancelled {
		j.Status = record.StatusCancelled
		j.Version = st.Version
		return true
	}
	return false
}

// writeBatchWithRetry wraps writeBatch with the circuit breaker and
// linear-backoff retry policy (§4.3): transient store failures retry
// the whole batch; parse/validation failures inside writeBatch never
// abort the batch itself, so there is nothing transient to retry for
// them.
func (o *Orchestrator) writeBatchWithRetry(ctx context.Context, j *record.ProcessingJob, batch []lineEntry, pctx *parentContext) (batchResult, error) {
	start := time.Now()
	result, err := resilience.ExecuteWithResult(ctx, o.retry, "write_batch", func() (batchResult, error) {
		var res batchResult
		breakerErr := o.breaker.Execute(func() error {
			var writeErr error
			res, writeErr = o.writeBatch(ctx, j, batch, pctx)
			return writeErr
		})
		return res, breakerErr
	})
	o.metrics.RecordBatchDuration(time.Since(start))
	if err != nil {
		o.metrics.RecordBatchWritten("failed")
		return batchResult{}, err
	}
	o.metrics.RecordBatchWritten("success")
	return result, nil
}

// writeBatch parses and persists each line in the batch, maintaining
// the active-parent-TCR0 carry-over and the job's report-format
// auto-detection. Parse/validation errors mark a record invalid and
// persisted (never abort the batch); only a genuine store error
// propagates, which is what the retry wrapper acts on.
func (o *Orchestrator) writeBatch(ctx context.Context, j *record.ProcessingJob, batch []lineEntry, pctx *parentContext) (batchResult, error) {
	var res batchResult
	opts := parse.DefaultOptions()

	for _, entry := range batch {
		kind := parse.Classify(entry.line)

		switch kind {
		case parse.KindV2110:
			rec, err := parse.ParseVSS110(entry.line, j.ID, entry.lineNumber, opts)
			if err != nil {
				res.failed++
				res.errLines = append(res.errLines, err.Error())
				continue
			}
			stampEnvelope(&rec.Envelope, o.now())
			if insErr := o.store.InsertVss110(ctx, rec); insErr != nil {
				return res, insErr
			}
			j.RecordUpgradeFormat(record.ReportFormatVSS110)
			o.metrics.RecordRecordProcessed("vss110")
			tallyValidity(&res, rec.IsValid, rec.ValidationErrors)

		case parse.KindV4120, parse.KindV4130, parse.KindV4140:
			rec, err := parse.ParseSubgroup4(entry.line, j.ID, entry.lineNumber, opts)
			if err != nil {
				res.failed++
				res.errLines = append(res.errLines, err.Error())
				continue
			}
			stampEnvelope(&rec.Envelope, o.now())
			if insErr := o.store.InsertSubgroup4(ctx, rec); insErr != nil {
				return res, insErr
			}
			pctx.set(rec)
			j.RecordUpgradeFormat(subgroup4Format(kind))
			o.metrics.RecordRecordProcessed("subgroup4")
			tallyValidity(&res, rec.IsValid, rec.ValidationErrors)

		case parse.KindTCR1:
			rec, err := parse.ParseTCR1(entry.line, j.ID, entry.lineNumber, opts)
			if err != nil {
				res.failed++
				res.errLines = append(res.errLines, err.Error())
				continue
			}
			if resolveErr := o.resolveParent(ctx, j, rec, entry.lineNumber, pctx); resolveErr != nil {
				return res, resolveErr
			}
			stampEnvelope(&rec.Envelope, o.now())
			if insErr := o.store.InsertTCR1(ctx, rec); insErr != nil {
				return res, insErr
			}
			o.metrics.RecordRecordProcessed("tcr1")
			tallyValidity(&res, rec.IsValid, rec.ValidationErrors)

		default: // UNKNOWN
			res.failed++
			res.errLines = append(res.errLines, unknownLineMessage(entry.lineNumber))
			o.logger.LogParseError(j.ID, entry.lineNumber, "UNKNOWN", errUnknownKind)
		}
	}

	return res, nil
}

func tallyValidity(res *batchResult, valid bool, errs []string) {
	if valid {
		res.processed++
		return
	}
	res.failed++
	if len(errs) > 0 {
		res.errLines = append(res.errLines, errs[len(errs)-1])
	}
}

func subgroup4Format(kind parse.Kind) record.ReportFormat {
	switch kind {
	case parse.KindV4120:
		return record.ReportFormatVSS120
	case parse.KindV4130:
		return record.ReportFormatVSS130
	case parse.KindV4140:
		return record.ReportFormatVSS140
	default:
		return record.ReportFormatUnknown
	}
}

func stampEnvelope(env *record.Envelope, now time.Time) {
	env.ID = uuid.NewString()
	env.CreatedAt = now
	env.UpdatedAt = now
}

// resolveParent links rec to the active parent TCR0, recovering it
// from the store when the in-memory slot is empty (no subgroup-4 TCR0
// parsed yet in this run; the slot carries across batch boundaries),
// in preference order VSS-140 -> VSS-130 -> VSS-120. If no parent can be found
// anywhere, rec is stamped with the documented orphan-fallback values
// and marked invalid for audit (§4.3).
func (o *Orchestrator) resolveParent(ctx context.Context, j *record.ProcessingJob, rec *record.Vss120Tcr1Record, lineNumber int, pctx *parentContext) error {
	parent := pctx.get()
	if parent == nil {
		found, err := o.store.FindTopSubgroup4ByJob(ctx, j.ID, orphanPreferenceOrder)
		if err != nil {
			return err
		}
		parent = found
		if parent != nil {
			pctx.set(parent)
			o.logger.LogOrphanRecovery(j.ID, lineNumber, parent.ReportIDNumber, true)
			o.metrics.RecordOrphanRecovery(parent.ReportIDNumber)
		}
	}

	if parent == nil {
		rec.DestinationID = orphanDestinationID
		rec.ParentReportNumber = orphanReportNumber
		rec.Envelope.AddError("no recoverable parent TCR0; orphan fallback applied")
		o.logger.LogOrphanRecovery(j.ID, lineNumber, orphanReportNumber, false)
		o.metrics.RecordOrphanRecovery(orphanReportNumber)
		return nil
	}

	rec.ParentTCR0ID = parent.ID
	rec.ParentReportNumber = parent.ReportIDNumber
	rec.DestinationID = parent.DestinationID
	return nil
}

var errUnknownKind = unknownKindError{}

type unknownKindError struct{}

func (unknownKindError) Error() string { return "classifier returned UNKNOWN" }

func unknownLineMessage(lineNumber int) string {
	return "unknown record type at line " + strconv.Itoa(lineNumber)
}

// now returns the orchestrator's clock, overridable in tests.
func (o *Orchestrator) now() time.Time {
	if o.clock != nil {
		return o.clock()
	}
	return time.Now().UTC()
}
