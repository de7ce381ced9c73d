package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/verr"
)

// Stats is the aggregate snapshot returned by Orchestrator.Stats (§6.3).
type Stats struct {
	TotalJobs            int64
	ActiveJobs           int64
	CompletedJobs        int64
	FailedJobs           int64
	SuccessRate          float64
	AvgProcessingSeconds float64
	AvgRecordsPerJob     float64
	MaxRecordsPerJob     int64
	MinRecordsPerJob     int64
	StatusDistribution   map[record.Status]int64
	RecentJobs           []*record.ProcessingJob
}

// recentJobsWindow is the size of the recent-jobs window in stats().
const recentJobsWindow = 5

// Submit creates a job in UPLOADED, health-checks the store, then
// synchronously drives it to a terminal state (§4.3).
func (o *Orchestrator) Submit(ctx context.Context, filename string, blob []byte, size int64) (*record.ProcessingJob, error) {
	if err := o.store.HealthCheck(ctx); err != nil {
		return nil, err
	}

	now := o.now()
	j := &record.ProcessingJob{
		ID:         uuid.NewString(),
		Filename:   filename,
		FileSize:   size,
		FileType:   "EPIN",
		Status:     record.StatusUploaded,
		MaxRetries: o.cfg.MaxRetries,
		Metadata:   map[string]string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := o.store.InsertJob(ctx, j); err != nil {
		return nil, err
	}
	o.metrics.RecordJobSubmitted(j.ClientID)

	return o.process(ctx, j, blob)
}

// Status returns the current snapshot for jobID.
func (o *Orchestrator) Status(ctx context.Context, jobID string) (*record.ProcessingJob, error) {
	return o.store.FindJobByID(ctx, jobID)
}

// ListByClient returns clientID's jobs, reverse-chronological.
func (o *Orchestrator) ListByClient(ctx context.Context, clientID string) ([]*record.ProcessingJob, error) {
	return o.store.FindJobsByClient(ctx, clientID)
}

// Retry purges jobID's dependent records and re-runs submit semantics
// against blob, provided the job's status permits retry and its retry
// count hasn't exceeded MaxRetries. Unlike submit/upload, this core
// does not retain the original file blob (no blob-store abstraction is
// in scope, per §1) -- the caller must resupply the content.
func (o *Orchestrator) Retry(ctx context.Context, jobID string, blob []byte) (*record.ProcessingJob, error) {
	j, err := o.store.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !record.CanTransition(j.Status, record.StatusUploaded) {
		return nil, &verr.StateTransitionError{JobID: jobID, From: string(j.Status), To: string(record.StatusUploaded)}
	}
	if j.RetryCount >= j.MaxRetries {
		return nil, fmt.Errorf("job %s: retry bound exceeded (%d/%d)", jobID, j.RetryCount, j.MaxRetries)
	}
	if blob == nil {
		return nil, fmt.Errorf("job %s: retry requires content, original blob is not retained by the core", jobID)
	}

	if err := o.purgeJobRecords(ctx, jobID); err != nil {
		return nil, err
	}

	if err := o.transition(j, record.StatusUploaded); err != nil {
		return nil, err
	}
	j.RetryCount++
	j.ProcessedRecords = 0
	j.FailedRecords = 0
	j.TotalRecords = 0
	j.ErrorSummary = nil
	j.ErrorOverflowCount = 0
	j.ProcessingStartedAt = nil
	j.ProcessingCompletedAt = nil
	j.FileSize = int64(len(blob))
	if err := o.store.SaveJob(ctx, j); err != nil {
		return nil, err
	}

	return o.process(ctx, j, blob)
}

// Cancel marks jobID CANCELLED, provided it is currently active.
func (o *Orchestrator) Cancel(ctx context.Context, jobID string) (*record.ProcessingJob, error) {
	j, err := o.store.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !record.CanTransition(j.Status, record.StatusCancelled) {
		return nil, &verr.StateTransitionError{JobID: jobID, From: string(j.Status), To: string(record.StatusCancelled)}
	}
	if err := o.transition(j, record.StatusCancelled); err != nil {
		return nil, err
	}
	completedAt := o.now()
	j.ProcessingCompletedAt = &completedAt
	if err := o.store.SaveJob(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Stats returns aggregate job counts and a recent-jobs window (§6.3).
// The average/max/min figures are computed over the recent-jobs
// sample rather than a full table scan, since the abstract store
// contract (§4.4) does not expose a whole-collection aggregate query.
func (o *Orchestrator) Stats(ctx context.Context) (*Stats, error) {
	counts, err := o.store.CountJobsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := o.store.ListRecentJobs(ctx, recentJobsWindow)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	completed := counts[record.StatusCompleted]
	failed := counts[record.StatusFailed]
	active := counts[record.StatusUploaded] + counts[record.StatusProcessing]

	s := &Stats{
		TotalJobs:          total,
		ActiveJobs:         active,
		CompletedJobs:      completed,
		FailedJobs:         failed,
		StatusDistribution: counts,
		RecentJobs:         recent,
	}
	if completed+failed > 0 {
		s.SuccessRate = float64(completed) / float64(completed+failed)
	}

	var sumSeconds, sumRecords float64
	var sampled int
	for _, j := range recent {
		if j.ProcessingStartedAt != nil && j.ProcessingCompletedAt != nil {
			sumSeconds += j.ProcessingCompletedAt.Sub(*j.ProcessingStartedAt).Seconds()
		}
		recs := j.ProcessedRecords + j.FailedRecords
		sumRecords += float64(recs)
		if sampled == 0 || recs > s.MaxRecordsPerJob {
			s.MaxRecordsPerJob = recs
		}
		if sampled == 0 || recs < s.MinRecordsPerJob {
			s.MinRecordsPerJob = recs
		}
		sampled++
	}
	if sampled > 0 {
		s.AvgProcessingSeconds = sumSeconds / float64(sampled)
		s.AvgRecordsPerJob = sumRecords / float64(sampled)
	}

	return s, nil
}

// process drives j from UPLOADED through PROCESSING to its terminal
// status, running the batch pipeline against blob.
func (o *Orchestrator) process(ctx context.Context, j *record.ProcessingJob, blob []byte) (*record.ProcessingJob, error) {
	if err := o.transition(j, record.StatusProcessing); err != nil {
		return nil, err
	}
	started := o.now()
	j.ProcessingStartedAt = &started
	if err := o.store.SaveJob(ctx, j); err != nil {
		return nil, err
	}
	o.metrics.SetActiveJobs(1)
	defer o.metrics.SetActiveJobs(0)

	pipelineErr := o.runPipeline(ctx, j, blob)

	var target record.Status
	switch {
	case j.Status == record.StatusCancelled:
		completedAt := o.now()
		j.ProcessingCompletedAt = &completedAt
		return j, o.store.SaveJob(ctx, j)
	case pipelineErr != nil:
		j.AddErrorSummaryLine(pipelineErr.Error())
		target = record.StatusFailed
	case j.ProcessedRecords > 0:
		target = record.StatusCompleted
	default:
		target = record.StatusFailed
	}

	if err := o.transition(j, target); err != nil {
		return nil, err
	}
	completedAt := o.now()
	j.ProcessingCompletedAt = &completedAt
	if err := o.store.SaveJob(ctx, j); err != nil {
		return nil, err
	}
	o.metrics.RecordJobDuration(completedAt.Sub(started))
	return j, nil
}

// transition mutates j.Status, rejecting illegal FSM edges (P8).
func (o *Orchestrator) transition(j *record.ProcessingJob, to record.Status) error {
	if !record.CanTransition(j.Status, to) {
		return &verr.StateTransitionError{JobID: j.ID, From: string(j.Status), To: string(to)}
	}
	from := j.Status
	j.Status = to
	o.logger.LogJobTransition(j.ID, string(from), string(to))
	return nil
}

// purgeJobRecords deletes every dependent record owned by jobID, in
// every typed collection, ahead of a retry (P6: no duplicates, no
// leftovers from the previous attempt).
func (o *Orchestrator) purgeJobRecords(ctx context.Context, jobID string) error {
	if err := o.store.DeleteHeaderByJob(ctx, jobID); err != nil {
		return err
	}
	if err := o.store.DeleteVss110ByJob(ctx, jobID); err != nil {
		return err
	}
	if err := o.store.DeleteTCR1ByJob(ctx, jobID); err != nil {
		return err
	}
	if err := o.store.DeleteSubgroup4ByJob(ctx, jobID); err != nil {
		return err
	}
	return nil
}
