package services

import (
	"sync"

	"github.com/slideforge/slideforge-backend/internal/models"
)

// IngestState holds the editing session's current input. Uploads run
// concurrently with the UI, so each normalization claims a sequence
// number before it starts; a result only lands if no newer upload has
// claimed a number since. A stale result is discarded, never merged.
type IngestState struct {
	mu      sync.Mutex
	seq     uint64
	applied uint64
	current models.InputSource
}

func NewIngestState() *IngestState {
	return &IngestState{current: models.EmptyText()}
}

// Next claims a sequence number for an upload about to start.
func (s *IngestState) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Apply installs the result of upload seq. Returns false if a newer
// upload has started or finished in the meantime.
func (s *IngestState) Apply(seq uint64, src models.InputSource) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.seq || seq <= s.applied {
		return false
	}
	s.applied = seq
	s.current = src
	return true
}

// Clear resets the session to an empty text input. In-flight uploads
// claimed before the clear are invalidated.
func (s *IngestState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.applied = s.seq
	s.current = models.EmptyText()
}

func (s *IngestState) Current() models.InputSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
