package confluence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// parentContext carries the ancestry for one traversal level.
// The lineage is the parent record's own lineage plus its breadcrumb;
// records emitted at this level adopt it unchanged.
type parentContext struct {
	id      string
	lineage []domain.Breadcrumb
}

// traversal declares how one resource kind is listed, mapped and
// descended into. Kinds are added by adding table entries; the walk
// loop itself never changes.
type traversal struct {
	kind    domain.RecordKind
	enabled bool

	// listURL builds the first page URL of the kind's list endpoint.
	listURL func(c *Connector, parent parentContext) string

	// mapItem converts one raw result into a record. Returning
	// (nil, nil) silently drops the item.
	mapItem func(ctx context.Context, c *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error)

	// children are traversed beneath every emitted record, in order.
	children []*traversal
}

// walk streams one kind beneath a parent, depth-first: each emitted
// record is immediately followed by its children before the next
// sibling is visited. Pagination follows next-links until none remain.
//
// Returns false when the consumer stopped iterating. Fatal list-fetch
// errors are yielded once and stop the walk. Item-level failures
// (mapping, detail fetches) skip the item and continue - except scope
// errors, which can never succeed later and abort the whole stream.
func (c *Connector) walk(ctx context.Context, t *traversal, parent parentContext, yield func(domain.Record, error) bool) bool {
	if !t.enabled {
		return true
	}

	url := t.listURL(c, parent)
	for url != "" {
		if err := ctx.Err(); err != nil {
			yield(domain.Record{}, err)
			return false
		}

		env, err := c.client.GetPage(ctx, url)
		if err != nil {
			yield(domain.Record{}, fmt.Errorf("list %s: %w", t.kind, err))
			return false
		}

		for _, raw := range env.Results {
			rec, err := t.mapItem(ctx, c, raw, parent)
			if err != nil {
				if IsScope(err) {
					yield(domain.Record{}, err)
					return false
				}
				logger.Warn("Skipping %s item: %v", t.kind, err)
				continue
			}
			if rec == nil {
				continue
			}

			rec.SourceID = c.sourceID
			if !yield(*rec, nil) {
				return false
			}

			if len(t.children) == 0 {
				continue
			}
			childParent := parentContext{
				id:      rec.ID,
				lineage: domain.ExtendLineage(parent.lineage, rec.ID, rec.Title, t.kind),
			}
			for _, child := range t.children {
				if !c.walk(ctx, child, childParent, yield) {
					return false
				}
			}
		}

		url = c.client.NextURL(env.Links.Next)
	}

	return true
}
