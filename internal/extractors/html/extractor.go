package html

import (
	"context"
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// Ensure Extractor implements the ContentExtractor interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Extractor converts HTML content streams to markdown. Records whose
// converted body is empty are dropped from the output sequence.
type Extractor struct{}

// New creates an HTML content extractor.
func New() *Extractor {
	return &Extractor{}
}

// Process consumes the content stream, converts it to markdown and
// returns the record with the converted body. The stream is read
// exactly once and closed here.
func (e *Extractor) Process(_ context.Context, record domain.Record, content io.ReadCloser, metadata map[string]any) (*domain.Record, error) {
	defer content.Close()

	raw, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read content for %s: %w", record.ID, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("convert content for %s: %w", record.ID, err)
	}

	if strings.TrimSpace(markdown) == "" {
		logger.Debug("Dropping %s: no textual content", record.ID)
		return nil, nil
	}

	record.Body = markdown
	record.MIMEType = "text/markdown"

	if record.Metadata == nil {
		record.Metadata = make(map[string]any, len(metadata))
	}
	for k, v := range metadata {
		record.Metadata[k] = v
	}

	return &record, nil
}
