package metrics

import (
	"sync"
	"time"
)

// RunStats accumulates counters for a single newsletter run. Per-source
// fetches report concurrently, so everything is mutex-guarded.
type RunStats struct {
	mu sync.RWMutex

	SourcesAttempted   int64
	SourcesSucceeded   int64
	EntriesFetched     int64
	RecordsSkipped     int64
	ItemsProcessed     int64
	ItemsStale         int64
	DuplicatesFiltered int64
	ItemsDiscarded     int64
	ItemsRendered      int64

	StartedAt      time.Time
	ProcessingTime time.Duration
}

func NewRunStats() *RunStats {
	return &RunStats{StartedAt: time.Now().UTC()}
}

func (s *RunStats) SourceAttempted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SourcesAttempted++
}

func (s *RunStats) SourceSucceeded(entries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SourcesSucceeded++
	s.EntriesFetched += int64(entries)
}

func (s *RunStats) RecordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordsSkipped++
}

func (s *RunStats) ItemProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ItemsProcessed++
}

func (s *RunStats) ItemStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ItemsStale++
}

func (s *RunStats) DuplicateFiltered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DuplicatesFiltered++
}

func (s *RunStats) ItemDiscarded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ItemsDiscarded++
}

func (s *RunStats) ItemsIncluded(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ItemsRendered += int64(n)
}

func (s *RunStats) RecordProcessingTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ProcessingTime = d
}

// Snapshot returns the counters for the run summary log and the archive
// manifest.
func (s *RunStats) Snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int64{
		"sources_attempted":   s.SourcesAttempted,
		"sources_succeeded":   s.SourcesSucceeded,
		"entries_fetched":     s.EntriesFetched,
		"records_skipped":     s.RecordsSkipped,
		"items_processed":     s.ItemsProcessed,
		"items_stale":         s.ItemsStale,
		"duplicates_filtered": s.DuplicatesFiltered,
		"items_discarded":     s.ItemsDiscarded,
		"items_rendered":      s.ItemsRendered,
	}
}
