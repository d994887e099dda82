package confluence

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
	"github.com/custodia-labs/wikisync-cli/internal/streamio"
)

// materialize wraps a page's body in a content envelope and hands it
// to the extractor together with the record and source metadata. A nil
// extractor result drops the record from the output sequence - the
// engine's only built-in filtering rule.
func (c *Connector) materialize(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	stream := envelopeStream(rec.Title, rec.Body)

	metadata := map[string]any{
		"source":  "confluence",
		"page_id": rec.ID,
	}

	processed, err := c.extractor.Process(ctx, *rec, stream, metadata)
	if err != nil {
		return nil, fmt.Errorf("extract page %s: %w", rec.ID, err)
	}
	if processed == nil {
		logger.Debug("Extractor dropped page %s", rec.ID)
		return nil, nil
	}
	return processed, nil
}

// envelopeStream synthesizes a minimal self-contained HTML document
// around a title and body and exposes it as a single-consumption byte
// stream: once exhausted, reads report EOF, never re-emit or block.
func envelopeStream(title, body string) io.ReadCloser {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<meta charset=\"UTF-8\">\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return streamio.FromBytes([]byte(b.String()))
}
