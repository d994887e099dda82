package driving

import (
	"context"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// SourceManager manages workspace source configuration.
type SourceManager interface {
	// Add registers a new source and returns it with a generated ID.
	Add(ctx context.Context, sourceType, name string, config map[string]string) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source and its sync state.
	Remove(ctx context.Context, id string) error
}
