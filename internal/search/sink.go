package search

import (
	"sync"

	"github.com/hyperjump/mitsuke/internal/models"
)

// resultSink collects records from the walk callback and content workers.
// It admits one record beyond the cap so the engine can distinguish a set
// that exactly fills the cap from one that overflows it; the extra record
// still takes part in sorting before the final truncation.
type resultSink struct {
	mu       sync.Mutex
	records  []*models.ResultRecord
	capacity int
	overflow bool
}

func newResultSink(maxResults int) *resultSink {
	return &resultSink{capacity: maxResults + 1}
}

// add stores r unless the sink is already full. It returns true once the
// sink has overflowed, which tells the caller to stop producing.
func (s *resultSink) add(r *models.ResultRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) < s.capacity {
		s.records = append(s.records, r)
	}
	if len(s.records) == s.capacity {
		s.overflow = true
	}
	return s.overflow
}

// full reports whether production should stop.
func (s *resultSink) full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflow
}

// take hands out the collected records; the sink must not be used after.
func (s *resultSink) take() []*models.ResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// overflowed reports whether more records matched than the cap allows.
func (s *resultSink) overflowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflow
}
