// Package storage provides the in-memory stores backing the HTTP API.
package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jonathan/resume-matcher/internal/types"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = fmt.Errorf("record not found")

// Memory holds candidates and jobs for the lifetime of the process. Safe for
// concurrent use.
type Memory struct {
	mu         sync.RWMutex
	candidates map[string]*types.CandidateProfile
	jobs       map[string]*types.JobPosting
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		candidates: make(map[string]*types.CandidateProfile),
		jobs:       make(map[string]*types.JobPosting),
	}
}

// PutCandidate inserts or replaces a candidate keyed by its ID.
func (m *Memory) PutCandidate(c *types.CandidateProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[c.ID] = c
}

// GetCandidate returns the candidate with the given ID.
func (m *Memory) GetCandidate(id string) (*types.CandidateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// ListCandidates returns all candidates sorted by ID for stable output.
func (m *Memory) ListCandidates() []*types.CandidateProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.CandidateProfile, 0, len(m.candidates))
	for _, c := range m.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteCandidate removes the candidate with the given ID.
func (m *Memory) DeleteCandidate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[id]; !ok {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	delete(m.candidates, id)
	return nil
}

// PutJob inserts or replaces a job keyed by its ID.
func (m *Memory) PutJob(j *types.JobPosting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
}

// GetJob returns the job with the given ID.
func (m *Memory) GetJob(id string) (*types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return j, nil
}

// ListJobs returns all jobs sorted by ID for stable output.
func (m *Memory) ListJobs() []*types.JobPosting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.JobPosting, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteJob removes the job with the given ID.
func (m *Memory) DeleteJob(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	delete(m.jobs, id)
	return nil
}

// CandidateCount returns the number of stored candidates.
func (m *Memory) CandidateCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.candidates)
}

// JobCount returns the number of stored jobs.
func (m *Memory) JobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
