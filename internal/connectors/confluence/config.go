package confluence

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// ContentType represents the type of content to extract.
type ContentType string

const (
	ContentPages     ContentType = "pages"
	ContentBlogPosts ContentType = "blogposts"
	ContentComments  ContentType = "comments"
	ContentLabels    ContentType = "labels"
	ContentDatabases ContentType = "databases"
	ContentFolders   ContentType = "folders"
)

// DefaultLimit is the page size requested from list endpoints.
const DefaultLimit = 50

// DefaultContentTypes returns the content types enabled by default.
// Labels, databases and folders are declared branches that stay off
// until explicitly requested.
func DefaultContentTypes() []ContentType {
	return []ContentType{ContentPages, ContentBlogPosts, ContentComments}
}

// Config holds the parsed configuration for a Confluence source.
type Config struct {
	// ContentTypes specifies what content to extract below each space.
	// Spaces themselves are always emitted.
	ContentTypes []ContentType

	// Limit is the page size for list endpoints.
	Limit int

	// BaseURL overrides the workspace instance root. When empty the
	// instance is resolved from the token's accessible resources.
	BaseURL string

	// CloudID pins the workspace cloud id. Normally resolved.
	CloudID string
}

// ParseConfig parses a source's config map into a Config struct.
// All fields are optional.
func ParseConfig(source domain.Source) (*Config, error) {
	cfg := &Config{
		ContentTypes: DefaultContentTypes(),
		Limit:        DefaultLimit,
	}

	if contentTypes, ok := source.Config["content_types"]; ok && contentTypes != "" {
		types, err := parseContentTypes(contentTypes)
		if err != nil {
			return nil, err
		}
		cfg.ContentTypes = types
	}

	if limit, ok := source.Config["limit"]; ok && limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return nil, ErrConfigInvalidLimit
		}
		cfg.Limit = n
	}

	if baseURL, ok := source.Config["base_url"]; ok {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if cloudID, ok := source.Config["cloud_id"]; ok {
		cfg.CloudID = cloudID
	}

	return cfg, nil
}

// parseContentTypes parses a comma-separated content types string.
func parseContentTypes(s string) ([]ContentType, error) {
	valid := map[string]ContentType{
		"pages":     ContentPages,
		"blogposts": ContentBlogPosts,
		"comments":  ContentComments,
		"labels":    ContentLabels,
		"databases": ContentDatabases,
		"folders":   ContentFolders,
	}

	parts := strings.Split(s, ",")
	types := make([]ContentType, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		ct, ok := valid[part]
		if !ok {
			return nil, ErrConfigInvalidContentType
		}
		types = append(types, ct)
	}

	if len(types) == 0 {
		return DefaultContentTypes(), nil
	}
	return types, nil
}

// HasContentType checks if a content type is enabled.
func (c *Config) HasContentType(ct ContentType) bool {
	for _, t := range c.ContentTypes {
		if t == ct {
			return true
		}
	}
	return false
}
