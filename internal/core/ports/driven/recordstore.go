package driven

import (
	"context"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// RecordStore persists extracted records.
type RecordStore interface {
	// Save stores or updates a record.
	Save(ctx context.Context, record *domain.Record) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// ListBySource returns records for a source in insertion order.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Record, error)

	// DeleteBySource removes all records for a source.
	DeleteBySource(ctx context.Context, sourceID string) error
}
