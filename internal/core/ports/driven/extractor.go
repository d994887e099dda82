package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// ContentExtractor turns a materialized content stream into the final
// record handed to the indexing pipeline.
//
// The content stream has single-consumption semantics: it can be read
// exactly once, start to finish, and reports io.EOF after exhaustion.
// The extractor owns the stream and must close it.
type ContentExtractor interface {
	// Process extracts content for a record. Returning (nil, nil) drops
	// the record from the output sequence entirely; this is the engine's
	// only built-in filtering rule.
	Process(ctx context.Context, record domain.Record, content io.ReadCloser, metadata map[string]any) (*domain.Record, error)
}
