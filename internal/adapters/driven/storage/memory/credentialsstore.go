package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore is an in-memory implementation of driven.CredentialsStore.
type CredentialsStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credentials
}

// NewCredentialsStore creates a new in-memory credentials store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{
		creds: make(map[string]domain.Credentials),
	}
}

// Save stores credentials. Creates if new, updates if exists.
func (s *CredentialsStore) Save(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[creds.ID] = creds
	return nil
}

// Get retrieves credentials by ID.
func (s *CredentialsStore) Get(_ context.Context, id string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.creds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &creds, nil
}

// GetBySourceID retrieves credentials for a specific source.
// Returns nil if no credentials exist for the source.
func (s *CredentialsStore) GetBySourceID(_ context.Context, sourceID string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, creds := range s.creds {
		if creds.SourceID == sourceID {
			return &creds, nil
		}
	}
	return nil, nil
}

// Delete removes credentials by ID.
func (s *CredentialsStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, id)
	return nil
}
