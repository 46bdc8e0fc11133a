// internal/core/usecases/stats_service.go
package usecases

import (
	"sync"

	"horizon/internal/core/domain"
)

// StatsService owns the mutable SourceStats shared across requests against a
// single orchestrator instance. Mutated only by the orchestrator's
// result-collection step, after every task in a request has joined.
type StatsService struct {
	mu    sync.Mutex
	bySrc map[string]*domain.SourceStats
}

// NewStatsService builds a stats service seeded with zero counters for the
// given source names, so Snapshot always reports every registered source.
func NewStatsService(sourceNames []string) *StatsService {
	s := &StatsService{bySrc: make(map[string]*domain.SourceStats, len(sourceNames))}
	for _, name := range sourceNames {
		s.bySrc[name] = &domain.SourceStats{}
	}
	return s
}

// Record applies one source outcome to its counters.
func (s *StatsService) Record(outcome domain.SourceOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.bySrc[outcome.SourceName]
	if !ok {
		stats = &domain.SourceStats{}
		s.bySrc[outcome.SourceName] = stats
	}
	if outcome.Succeeded() {
		stats.SuccessCount++
		stats.TotalResultsReturned += len(outcome.List)
	} else {
		stats.FailureCount++
	}
}

// Snapshot returns a defensive copy of every source's counters.
func (s *StatsService) Snapshot() map[string]domain.SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.SourceStats, len(s.bySrc))
	for name, stats := range s.bySrc {
		out[name] = *stats
	}
	return out
}

// Overall aggregates per-source counters into the process-wide totals
// surfaced by backend_statistics.
func (s *StatsService) Overall() domain.OverallStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overall domain.OverallStats
	for _, stats := range s.bySrc {
		overall.TotalRequests += stats.CallsIssued()
		overall.FailedRequests += stats.FailureCount
		overall.TotalResultsFound += stats.TotalResultsReturned
	}
	return overall
}

// Reset zeroes every counter without altering the set of tracked sources.
func (s *StatsService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.bySrc {
		s.bySrc[name] = &domain.SourceStats{}
	}
}
