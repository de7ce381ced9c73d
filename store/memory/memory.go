// Package memory is an in-memory Store implementation: a mutex-guarded
// set of maps, used by tests and by callers that don't need
// durability. It satisfies the same store.Store contract as
// store/postgres, so the job orchestrator and report aggregator are
// storage-agnostic.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/store"
	"github.com/eviepay/vss-settlement/verr"
)

// Store is the in-memory store.Store implementation.
type Store struct {
	mu sync.RWMutex

	jobs       map[string]*record.ProcessingJob
	headers    map[string]*record.EpinFileHeader // keyed by jobID (one per job)
	vss110     map[string]*record.Vss110Record
	subgroup4  map[string]*record.Vss120LikeRecord
	tcr1       map[string]*record.Vss120Tcr1Record
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		jobs:      make(map[string]*record.ProcessingJob),
		headers:   make(map[string]*record.EpinFileHeader),
		vss110:    make(map[string]*record.Vss110Record),
		subgroup4: make(map[string]*record.Vss120LikeRecord),
		tcr1:      make(map[string]*record.Vss120Tcr1Record),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) HealthCheck(_ context.Context) error { return nil }

// --- Jobs ---

func (s *Store) InsertJob(_ context.Context, job *record.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return &verr.StoreError{Op: "InsertJob", Err: errAlreadyExists("job", job.ID)}
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *Store) SaveJob(_ context.Context, job *record.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.jobs[job.ID]
	if ok && existing.Version != job.Version {
		return &verr.StoreError{Op: "SaveJob", Err: verr.ErrStaleVersion}
	}
	job.Version++
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *Store) FindJobByID(_ context.Context, id string) (*record.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, &verr.StoreError{Op: "FindJobByID", Err: errNotFound("job", id)}
	}
	cp := *j
	return &cp, nil
}

func (s *Store) FindJobsByClient(_ context.Context, clientID string) ([]*record.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record.ProcessingJob
	for _, j := range s.jobs {
		if j.ClientID == clientID {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (s *Store) ListRecentJobs(_ context.Context, limit int) ([]*record.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record.ProcessingJob
	for _, j := range s.jobs {
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountJobsByStatus(_ context.Context) (map[record.Status]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[record.Status]int64)
	for _, j := range s.jobs {
		out[j.Status]++
	}
	return out, nil
}

// --- Header ---

func (s *Store) InsertHeader(_ context.Context, hdr *record.EpinFileHeader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *hdr
	s.headers[hdr.JobID] = &cp
	return nil
}

func (s *Store) FindHeaderByJob(_ context.Context, jobID string) (*record.EpinFileHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[jobID]
	if !ok {
		return nil, &verr.StoreError{Op: "FindHeaderByJob", Err: errNotFound("header", jobID)}
	}
	cp := *h
	return &cp, nil
}

func (s *Store) DeleteHeaderByJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.headers, jobID)
	return nil
}

// --- VSS-110 ---

func (s *Store) InsertVss110(_ context.Context, rec *record.Vss110Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.vss110[rec.ID] = &cp
	return nil
}

func (s *Store) FindVss110ByJob(_ context.Context, jobID string) ([]*record.Vss110Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record.Vss110Record
	for _, r := range s.vss110 {
		if r.JobID == jobID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].LineNumber < out[k].LineNumber })
	return out, nil
}

func (s *Store) FindVss110ByFilter(_ context.Context, f store.Filter) ([]*record.Vss110Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record.Vss110Record
	for _, r := range s.vss110 {
		if !matchesVss110Filter(r, f) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func matchesVss110Filter(r *record.Vss110Record, f store.Filter) bool {
	if f.StartDate != nil && r.SettlementDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && r.SettlementDate.After(*f.EndDate) {
		return false
	}
	if f.DestinationIDPrefix != "" && !hasPrefix(r.DestinationID, f.DestinationIDPrefix) {
		return false
	}
	if f.CurrencyCode != "" && r.SettlementCurrencyCode != f.CurrencyCode {
		return false
	}
	if f.BusinessMode != "" && string(r.BusinessMode) != f.BusinessMode {
		return false
	}
	return true
}

func (s *Store) DeleteVss110ByJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.vss110 {
		if r.JobID == jobID {
			delete(s.vss110, id)
		}
	}
	return nil
}

// --- SubGroup-4 TCR0 ---

func (s *Store) InsertSubgroup4(_ context.Context, rec *record.Vss120LikeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.subgroup4[rec.ID] = &cp
	return nil
}

func (s *Store) FindSubgroup4ByID(_ context.Context, id string) (*record.Vss120LikeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.subgroup4[id]
	if !ok {
		return nil, &verr.StoreError{Op: "FindSubgroup4ByID", Err: errNotFound("subgroup4", id)}
	}
	cp := *r
	return &cp, nil
}

func (s *Store) FindSubgroup4ByJob(_ context.Context, jobID string) ([]*record.Vss120LikeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record.Vss120LikeRecord
	for _, r := range s.subgroup4 {
		if r.JobID == jobID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].LineNumber < out[k].LineNumber })
	return out, nil
}

func (s *Store) FindTopSubgroup4ByJob(_ context.Context, jobID string, reportIDNumbers []string) (*record.Vss120LikeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, reportID := range reportIDNumbers {
		var best *record.Vss120LikeRecord
		for _, r := range s.subgroup4 {
			if r.JobID != jobID || r.ReportIDNumber != reportID {
				continue
			}
			if best == nil || r.LineNumber > best.LineNumber {
				best = r
			}
		}
		if best != nil {
			cp := *best
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) DeleteSubgroup4ByJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.subgroup4 {
		if r.JobID == jobID {
			delete(s.subgroup4, id)
		}
	}
	return nil
}

// --- TCR1 ---

func (s *Store) InsertTCR1(_ context.Context, rec *record.Vss120Tcr1Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.tcr1[rec.ID] = &cp
	return nil
}

func (s *Store) FindTCR1ByJob(_ context.Context, jobID string) ([]*record.Vss120Tcr1Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*record.Vss120Tcr1Record
	for _, r := range s.tcr1 {
		if r.JobID == jobID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].LineNumber < out[k].LineNumber })
	return out, nil
}

func (s *Store) DeleteTCR1ByJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.tcr1 {
		if r.JobID == jobID {
			delete(s.tcr1, id)
		}
	}
	return nil
}

// --- Join query ---

func (s *Store) JoinSubgroup4WithTCR1(_ context.Context, reportIDNumbers []string, f store.Filter) ([]store.Subgroup4Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(reportIDNumbers))
	for _, id := range reportIDNumbers {
		wanted[id] = true
	}

	childrenByParent := make(map[string][]*record.Vss120Tcr1Record)
	for _, t := range s.tcr1 {
		if t.ParentTCR0ID == "" {
			continue
		}
		childrenByParent[t.ParentTCR0ID] = append(childrenByParent[t.ParentTCR0ID], t)
	}

	var parents []*record.Vss120LikeRecord
	for _, r := range s.subgroup4 {
		if !wanted[r.ReportIDNumber] {
			continue
		}
		if !matchesSubgroup4Filter(r, f) {
			continue
		}
		parents = append(parents, r)
	}
	sort.Slice(parents, func(i, k int) bool {
		a, b := parents[i], parents[k]
		if a.BusinessMode != b.BusinessMode {
			return a.BusinessMode < b.BusinessMode
		}
		if a.BusinessTransactionType != b.BusinessTransactionType {
			return a.BusinessTransactionType < b.BusinessTransactionType
		}
		return a.BusinessTransactionCycle < b.BusinessTransactionCycle
	})

	var out []store.Subgroup4Pair
	for _, p := range parents {
		children := childrenByParent[p.ID]
		if len(children) == 0 {
			pcp := *p
			out = append(out, store.Subgroup4Pair{TCR0: &pcp})
			continue
		}
		sort.Slice(children, func(i, k int) bool { return children[i].LineNumber < children[k].LineNumber })
		for _, c := range children {
			pcp, ccp := *p, *c
			out = append(out, store.Subgroup4Pair{TCR0: &pcp, TCR1: &ccp})
		}
	}
	return out, nil
}

func matchesSubgroup4Filter(r *record.Vss120LikeRecord, f store.Filter) bool {
	if f.StartDate != nil && r.SettlementDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && r.SettlementDate.After(*f.EndDate) {
		return false
	}
	if f.DestinationIDPrefix != "" && !hasPrefix(r.DestinationID, f.DestinationIDPrefix) {
		return false
	}
	if f.CurrencyCode != "" && r.SettlementCurrencyCode != f.CurrencyCode {
		return false
	}
	if f.BusinessMode != "" && string(r.BusinessMode) != f.BusinessMode {
		return false
	}
	return true
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func errNotFound(kind, id string) error     { return &notFoundError{kind: kind, id: id} }
func errAlreadyExists(kind, id string) error { return &alreadyExistsError{kind: kind, id: id} }

type notFoundError struct{ kind, id string }

func (e *notFoundError) Error() string { return e.kind + " not found: " + e.id }

type alreadyExistsError struct{ kind, id string }

func (e *alreadyExistsError) Error() string { return e.kind + " already exists: " + e.id }
