package confluence

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// ConnectorType is the type identifier for Confluence connectors.
const ConnectorType = "confluence"

// Connector streams spaces, pages, comments and blog posts from a
// Confluence Cloud workspace. Implements driven.Connector.
type Connector struct {
	sourceID  string
	config    *Config
	client    *Client
	extractor driven.ContentExtractor
	roots     []*traversal

	mu     sync.Mutex
	closed bool
}

// New creates a Confluence connector for a source. It resolves the
// workspace instance from the token's accessible resources unless the
// config pins a base URL or cloud id explicitly.
func New(ctx context.Context, sourceID string, cfg *Config, tokenProvider driven.TokenProvider, extractor driven.ContentExtractor) (*Connector, error) {
	if tokenProvider == nil {
		return nil, domain.ErrAuthRequired
	}

	client := NewClient(tokenProvider)

	baseURL := cfg.BaseURL
	cloudID := cfg.CloudID
	if baseURL == "" {
		if cloudID == "" {
			resolved, err := client.ResolveCloudID(ctx)
			if err != nil {
				return nil, fmt.Errorf("resolve cloud id: %w", err)
			}
			cloudID = resolved
		}
		baseURL = instanceBaseURL(cloudID)
	}
	client.SetInstance(baseURL, cloudID)

	return &Connector{
		sourceID:  sourceID,
		config:    cfg,
		client:    client,
		extractor: extractor,
		roots:     buildRoots(cfg),
	}, nil
}

// NewFromSource builds a connector from a source definition. This is
// the driven.ConnectorBuilder registered with the factory.
func NewFromSource(ctx context.Context, source domain.Source, tokenProvider driven.TokenProvider, extractor driven.ContentExtractor) (driven.Connector, error) {
	cfg, err := ParseConfig(source)
	if err != nil {
		return nil, err
	}
	return New(ctx, source.ID, cfg, tokenProvider, extractor)
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return ConnectorType
}

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns what this connector supports.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsHierarchy:    true,
		RequiresAuth:         true,
		SupportsValidation:   true,
		SupportsCursorReturn: true,
		SupportsRateLimiting: true,
		SupportsPagination:   true,
	}
}

// Validate checks authentication with a minimal API call.
func (c *Connector) Validate(ctx context.Context) error {
	if c.isClosed() {
		return domain.ErrConnectorClosed
	}

	if !c.client.tokenProvider.IsAuthenticated() {
		return domain.ErrAuthRequired
	}

	if err := c.client.ValidateCredentials(ctx); err != nil {
		if IsUnauthorized(err) {
			return fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}
	return nil
}

// Records returns a lazy, pull-based sequence of every record in the
// workspace, in traversal order: spaces first, then beneath each space
// its pages (each followed by its inline comments), databases, folders
// and blog posts, then global labels. No request is issued until the
// consumer pulls; abandoning the sequence early stops all fetching.
//
// A non-nil error is the final element of the sequence. Item-level
// failures are skipped and logged, they do not appear as errors here.
func (c *Connector) Records(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		if c.isClosed() {
			yield(domain.Record{}, domain.ErrConnectorClosed)
			return
		}

		root := parentContext{}
		for _, t := range c.roots {
			if !c.walk(ctx, t, root, yield) {
				return
			}
		}
	}
}

// FullSync streams every record over an unbuffered channel pair. The
// producer goroutine pulls from Records and suspends until the consumer
// receives, so cancellation or an abandoned consumer never leaks work.
// On clean completion a SyncComplete carrying the new cursor is sent on
// the error channel.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.Record, <-chan error) {
	records := make(chan domain.Record)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		logger.Info("Starting Confluence sync for source %s", c.sourceID)

		count := 0
		for rec, err := range c.Records(ctx) {
			if err != nil {
				errs <- err
				return
			}
			select {
			case records <- rec:
				count++
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		logger.Info("Confluence sync complete: %d records from source %s", count, c.sourceID)
		errs <- &driven.SyncComplete{NewCursor: strconv.FormatInt(time.Now().UnixNano(), 10)}
	}()

	return records, errs
}

// Close releases resources. Safe to call multiple times; a closed
// connector rejects further syncs.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.client.http.CloseIdleConnections()
	}
	return nil
}

func (c *Connector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
