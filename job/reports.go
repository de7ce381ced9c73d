package job

import (
	"context"
	"time"

	"github.com/eviepay/vss-settlement/report"
	"github.com/eviepay/vss-settlement/store"
)

// Vss110Stats, Vss120Report, Vss130Report, and Vss140Report complete
// the service surface from §6.3: read-side queries over whatever the
// pipeline has already persisted, timed through the same metrics the
// write side uses.

func (o *Orchestrator) Vss110Stats(ctx context.Context, f store.Filter) (*report.Vss110Stats, error) {
	start := time.Now()
	stats, err := report.VSS110Stats(ctx, o.store, f)
	o.metrics.RecordReportBuildDuration("vss110", time.Since(start))
	return stats, err
}

func (o *Orchestrator) Vss120Report(ctx context.Context, f store.Filter) (*report.Vss120Report, error) {
	start := time.Now()
	r, err := report.VSS120Report(ctx, o.store, f)
	o.metrics.RecordReportBuildDuration("vss120", time.Since(start))
	return r, err
}

func (o *Orchestrator) Vss130Report(ctx context.Context, f store.Filter) (*report.Vss130Report, error) {
	start := time.Now()
	r, err := report.VSS130Report(ctx, o.store, f)
	o.metrics.RecordReportBuildDuration("vss130", time.Since(start))
	return r, err
}

func (o *Orchestrator) Vss140Report(ctx context.Context, f store.Filter) (*report.Vss140Report, error) {
	start := time.Now()
	r, err := report.VSS140Report(ctx, o.store, f)
	o.metrics.RecordReportBuildDuration("vss140", time.Since(start))
	return r, err
}
