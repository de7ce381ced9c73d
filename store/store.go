// Package store defines the abstract Record Store contract (§4.4): a
// key-addressed sink with typed per-entity collections,
// range/filter queries, and a join query used by the report aggregator.
// Two implementations exist: store/memory (tests, embedding callers
// that don't need durability) and store/postgres (the durable
// database/sql + lib/pq adapter).
package store

import (
	"context"
	"time"

	"github.com/eviepay/vss-settlement/record"
)

// Filter is the conjunction of optional predicates §4.4 requires:
// (settlementDate between, destinationId like prefix, currencyCode
// equals, businessMode equals). A nil/zero field means "no constraint".
type Filter struct {
	StartDate           *time.Time
	EndDate             *time.Time
	DestinationIDPrefix string
	CurrencyCode        string
	BusinessMode        string
}

// Subgroup4Pair is one (TCR0, child TCR1) row produced by the join
// query the report aggregator uses. TCR1 is nil when a TCR0 has no
// persisted child (a no-data or header-only row).
type Subgroup4Pair struct {
	TCR0 *record.Vss120LikeRecord
	TCR1 *record.Vss120Tcr1Record
}

// Store is the full abstract persistence contract. All methods are
// context-aware since every call is I/O: a single statement against the
// connection pool in the postgres adapter, or a mutex-guarded map lookup
// in the memory adapter. No method opens a transaction, so the writes of
// one batch are not committed or rolled back as a unit.
type Store interface {
	// Jobs
	InsertJob(ctx context.Context, job *record.ProcessingJob) error
	SaveJob(ctx context.Context, job *record.ProcessingJob) error
	FindJobByID(ctx context.Context, id string) (*record.ProcessingJob, error)
	FindJobsByClient(ctx context.Context, clientID string) ([]*record.ProcessingJob, error)
	ListRecentJobs(ctx context.Context, limit int) ([]*record.ProcessingJob, error)
	CountJobsByStatus(ctx context.Context) (map[record.Status]int64, error)

	// File header
	InsertHeader(ctx context.Context, hdr *record.EpinFileHeader) error
	FindHeaderByJob(ctx context.Context, jobID string) (*record.EpinFileHeader, error)
	DeleteHeaderByJob(ctx context.Context, jobID string) error

	// VSS-110
	InsertVss110(ctx context.Context, rec *record.Vss110Record) error
	FindVss110ByJob(ctx context.Context, jobID string) ([]*record.Vss110Record, error)
	FindVss110ByFilter(ctx context.Context, f Filter) ([]*record.Vss110Record, error)
	DeleteVss110ByJob(ctx context.Context, jobID string) error

	// SubGroup-4 TCR0 (120/130/140 family)
	InsertSubgroup4(ctx context.Context, rec *record.Vss120LikeRecord) error
	FindSubgroup4ByID(ctx context.Context, id string) (*record.Vss120LikeRecord, error)
	FindSubgroup4ByJob(ctx context.Context, jobID string) ([]*record.Vss120LikeRecord, error)
	// FindTopSubgroup4ByJob returns the most recently persisted (highest
	// line number) subgroup-4 TCR0 for jobID whose ReportIDNumber is in
	// reportIDNumbers, trying each element of reportIDNumbers in order
	// and returning the first one with any match; it returns nil, nil
	// when nothing matches. Used by orphan-TCR1 recovery (§4.3) with
	// preferenceOrder = [140, 130, 120].
	FindTopSubgroup4ByJob(ctx context.Context, jobID string, reportIDNumbers []string) (*record.Vss120LikeRecord, error)
	DeleteSubgroup4ByJob(ctx context.Context, jobID string) error

	// TCR1
	InsertTCR1(ctx context.Context, rec *record.Vss120Tcr1Record) error
	FindTCR1ByJob(ctx context.Context, jobID string) ([]*record.Vss120Tcr1Record, error)
	DeleteTCR1ByJob(ctx context.Context, jobID string) error

	// JoinSubgroup4WithTCR1 returns (TCR0, child TCR1) pairs for TCR0
	// rows whose ReportIDNumber is in reportIDNumbers and which match
	// f, ordered by (businessMode, businessTransactionType,
	// businessTransactionCycle). Used by the VSS-120/130/140 aggregator.
	JoinSubgroup4WithTCR1(ctx context.Context, reportIDNumbers []string, f Filter) ([]Subgroup4Pair, error)

	// HealthCheck verifies the store is reachable; submit() calls this
	// before driving a job to PROCESSING.
	HealthCheck(ctx context.Context) error
}
