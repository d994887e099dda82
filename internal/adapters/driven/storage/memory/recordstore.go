package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Insertion order is preserved per source.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
	order   map[string][]string
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.Record),
		order:   make(map[string][]string),
	}
}

// Save stores or updates a record.
func (s *RecordStore) Save(_ context.Context, record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; !exists {
		s.order[record.SourceID] = append(s.order[record.SourceID], record.ID)
	}
	s.records[record.ID] = *record
	return nil
}

// Get retrieves a record by ID.
func (s *RecordStore) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// ListBySource returns records for a source in insertion order.
func (s *RecordStore) ListBySource(_ context.Context, sourceID string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.order[sourceID]
	result := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.records[id]; ok {
			result = append(result, record)
		}
	}
	return result, nil
}

// DeleteBySource removes all records for a source.
func (s *RecordStore) DeleteBySource(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order[sourceID] {
		delete(s.records, id)
	}
	delete(s.order, sourceID)
	return nil
}
