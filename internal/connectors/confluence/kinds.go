package confluence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// buildRoots assembles the traversal table for a config. The fixed
// order below every space is: pages (each immediately followed by its
// inline comments), then databases and folders, then blog posts.
// Labels are a global listing beside spaces. Blog post comments stay
// disabled until the upstream endpoint stabilises.
func buildRoots(cfg *Config) []*traversal {
	pageComments := &traversal{
		kind:    domain.KindComment,
		enabled: cfg.HasContentType(ContentComments),
		listURL: func(c *Connector, parent parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/pages/%s/inline-comments?limit=%d",
				c.client.BaseURL(), parent.id, c.config.Limit)
		},
		mapItem: mapComment,
	}

	blogComments := &traversal{
		kind:    domain.KindComment,
		enabled: false,
		listURL: func(c *Connector, parent parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/blogposts/%s/inline-comments?limit=%d",
				c.client.BaseURL(), parent.id, c.config.Limit)
		},
		mapItem: mapComment,
	}

	pages := &traversal{
		kind:    domain.KindPage,
		enabled: cfg.HasContentType(ContentPages),
		listURL: func(c *Connector, parent parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/spaces/%s/pages?limit=%d",
				c.client.BaseURL(), parent.id, c.config.Limit)
		},
		mapItem:  mapPage,
		children: []*traversal{pageComments},
	}

	databases := &traversal{
		kind:    domain.KindDatabase,
		enabled: cfg.HasContentType(ContentDatabases),
		listURL: func(c *Connector, parent parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/spaces/%s/databases?limit=%d",
				c.client.BaseURL(), parent.id, c.config.Limit)
		},
		mapItem: mapDatabase,
	}

	folders := &traversal{
		kind:    domain.KindFolder,
		enabled: cfg.HasContentType(ContentFolders),
		listURL: func(c *Connector, parent parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/spaces/%s/content/folder?limit=%d",
				c.client.BaseURL(), parent.id, c.config.Limit)
		},
		mapItem: mapFolder,
	}

	blogposts := &traversal{
		kind:    domain.KindBlogPost,
		enabled: cfg.HasContentType(ContentBlogPosts),
		listURL: func(c *Connector, parent parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/spaces/%s/blogposts?limit=%d",
				c.client.BaseURL(), parent.id, c.config.Limit)
		},
		mapItem:  mapBlogPost,
		children: []*traversal{blogComments},
	}

	spaces := &traversal{
		kind:    domain.KindSpace,
		enabled: true,
		listURL: func(c *Connector, _ parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/spaces?limit=%d",
				c.client.BaseURL(), c.config.Limit)
		},
		mapItem:  mapSpace,
		children: []*traversal{pages, databases, folders, blogposts},
	}

	labels := &traversal{
		kind:    domain.KindLabel,
		enabled: cfg.HasContentType(ContentLabels),
		listURL: func(c *Connector, _ parentContext) string {
			return fmt.Sprintf("%s/wiki/api/v2/labels?limit=%d",
				c.client.BaseURL(), c.config.Limit)
		},
		mapItem: mapLabel,
	}

	return []*traversal{spaces, labels}
}

// storageBody is the nested body representation of the v2 API.
type storageBody struct {
	Storage struct {
		Value string `json:"value"`
	} `json:"storage"`
}

type spaceItem struct {
	ID         string `json:"id"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	HomepageID string `json:"homepageId"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func mapSpace(_ context.Context, c *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	var item spaceItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode space: %w", err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("space item missing id")
	}

	return &domain.Record{
		ID:        item.ID,
		Kind:      domain.KindSpace,
		Lineage:   parent.lineage,
		Title:     item.Name,
		Status:    item.Status,
		URI:       fmt.Sprintf("%s/wiki/api/v2/spaces/%s", c.client.BaseURL(), item.ID),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Metadata: map[string]any{
			"space_key":   item.Key,
			"space_type":  item.Type,
			"homepage_id": item.HomepageID,
		},
	}, nil
}

// pageDetail is the detail response for a single page with its body
// expanded in storage format.
type pageDetail struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	SpaceID string `json:"spaceId"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body      storageBody `json:"body"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

// mapPage issues the per-page detail fetch for the full body, then
// materializes the content envelope through the extractor. The listing
// response only carries stubs; the detail call is an accepted N+1 cost
// in exchange for complete content.
func mapPage(ctx context.Context, c *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("page item missing id")
	}

	detailURL := fmt.Sprintf("%s/wiki/api/v2/pages/%s?body-format=storage", c.client.BaseURL(), item.ID)
	var detail pageDetail
	if err := c.client.GetJSON(ctx, detailURL, &detail); err != nil {
		return nil, fmt.Errorf("page %s detail: %w", item.ID, err)
	}

	title := detail.Title
	if title == "" {
		title = "Untitled Page"
	}

	rec := &domain.Record{
		ID:        item.ID,
		Kind:      domain.KindPage,
		Lineage:   parent.lineage,
		Title:     detail.Title,
		Body:      detail.Body.Storage.Value,
		Status:    detail.Status,
		Version:   detail.Version.Number,
		SpaceID:   detail.SpaceID,
		URI:       fmt.Sprintf("%s/wiki/api/v2/pages/%s", c.client.BaseURL(), item.ID),
		MIMEType:  "text/html",
		CreatedAt: detail.CreatedAt,
		UpdatedAt: detail.UpdatedAt,
		Metadata: map[string]any{
			"filename": title + ".html",
		},
	}

	return c.materialize(ctx, rec)
}

type commentItem struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Title     string      `json:"title"`
	Body      storageBody `json:"body"`
	CreatedBy string      `json:"createdBy"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Container struct {
		ID string `json:"id"`
	} `json:"container"`
}

func mapComment(_ context.Context, _ *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	var item commentItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("comment item missing id")
	}

	return &domain.Record{
		ID:        item.ID,
		Kind:      domain.KindComment,
		Lineage:   parent.lineage,
		Title:     item.Title,
		Body:      item.Body.Storage.Value,
		Status:    item.Status,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Metadata: map[string]any{
			"created_by":        item.CreatedBy,
			"parent_content_id": item.Container.ID,
		},
	}, nil
}

type blogPostItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	SpaceID string `json:"spaceId"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body      storageBody `json:"body"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

func mapBlogPost(_ context.Context, c *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	var item blogPostItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode blog post: %w", err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("blog post item missing id")
	}

	return &domain.Record{
		ID:        item.ID,
		Kind:      domain.KindBlogPost,
		Lineage:   parent.lineage,
		Title:     item.Title,
		Body:      item.Body.Storage.Value,
		Status:    item.Status,
		Version:   item.Version.Number,
		SpaceID:   item.SpaceID,
		URI:       fmt.Sprintf("%s/wiki/api/v2/blogposts/%s", c.client.BaseURL(), item.ID),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}

type labelItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	OwnerID string `json:"ownerId"`
}

func mapLabel(_ context.Context, _ *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	var item labelItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode label: %w", err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("label item missing id")
	}

	return &domain.Record{
		ID:      item.ID,
		Kind:    domain.KindLabel,
		Lineage: parent.lineage,
		Title:   item.Name,
		Metadata: map[string]any{
			"label_type": item.Type,
			"owner_id":   item.OwnerID,
		},
	}, nil
}

type contentStubItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func mapDatabase(_ context.Context, _ *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	rec, err := mapContentStub(raw, domain.KindDatabase, parent)
	if err != nil {
		return nil, fmt.Errorf("decode database: %w", err)
	}
	return rec, nil
}

func mapFolder(_ context.Context, _ *Connector, raw json.RawMessage, parent parentContext) (*domain.Record, error) {
	rec, err := mapContentStub(raw, domain.KindFolder, parent)
	if err != nil {
		return nil, fmt.Errorf("decode folder: %w", err)
	}
	return rec, nil
}

func mapContentStub(raw json.RawMessage, kind domain.RecordKind, parent parentContext) (*domain.Record, error) {
	var item contentStubItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, fmt.Errorf("%s item missing id", kind)
	}

	return &domain.Record{
		ID:        item.ID,
		Kind:      kind,
		Lineage:   parent.lineage,
		Title:     item.Title,
		Status:    item.Status,
		SpaceID:   parent.id,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}
