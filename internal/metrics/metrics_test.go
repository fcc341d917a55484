package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotReflectsCounters(t *testing.T) {
	s := NewRunStats()

	s.SourceAttempted()
	s.SourceAttempted()
	s.SourceSucceeded(7)
	s.RecordSkipped()
	s.ItemProcessed()
	s.ItemStale()
	s.DuplicateFiltered()
	s.ItemDiscarded()
	s.ItemsIncluded(3)
	s.RecordProcessingTime(time.Second)

	snap := s.Snapshot()
	assert.Equal(t, int64(2), snap["sources_attempted"])
	assert.Equal(t, int64(1), snap["sources_succeeded"])
	assert.Equal(t, int64(7), snap["entries_fetched"])
	assert.Equal(t, int64(1), snap["records_skipped"])
	assert.Equal(t, int64(1), snap["items_processed"])
	assert.Equal(t, int64(1), snap["items_stale"])
	assert.Equal(t, int64(1), snap["duplicates_filtered"])
	assert.Equal(t, int64(1), snap["items_discarded"])
	assert.Equal(t, int64(3), snap["items_rendered"])
	assert.Equal(t, time.Second, s.ProcessingTime)
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewRunStats()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SourceAttempted()
			s.ItemProcessed()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, int64(20), snap["sources_attempted"])
	assert.Equal(t, int64(20), snap["items_processed"])
}
