package domain

// RecordKind identifies the resource kind a Record was extracted from.
type RecordKind string

const (
	// KindSpace is a top-level workspace container.
	KindSpace RecordKind = "space"

	// KindPage is a content page inside a space.
	KindPage RecordKind = "page"

	// KindBlogPost is a blog post inside a space.
	KindBlogPost RecordKind = "blogpost"

	// KindComment is an inline comment on a page or blog post.
	KindComment RecordKind = "comment"

	// KindLabel is a workspace label.
	KindLabel RecordKind = "label"

	// KindDatabase is an embedded database inside a space.
	KindDatabase RecordKind = "database"

	// KindFolder is a content folder inside a space.
	KindFolder RecordKind = "folder"
)

// Breadcrumb is one level of ancestry metadata for a record.
// It is display-only lineage, never used as an identity key.
type Breadcrumb struct {
	// ID is the ancestor's identifier.
	ID string

	// Name is the ancestor's display name. Defaults to empty, never null.
	Name string

	// Kind is the ancestor's resource kind.
	Kind RecordKind
}

// ExtendLineage returns parent + [Breadcrumb{id, name, kind}] as a fresh
// slice. The parent lineage is never mutated; an empty name stays empty.
func ExtendLineage(parent []Breadcrumb, id, name string, kind RecordKind) []Breadcrumb {
	lineage := make([]Breadcrumb, len(parent), len(parent)+1)
	copy(lineage, parent)
	return append(lineage, Breadcrumb{ID: id, Name: name, Kind: kind})
}

// Record is a typed content record extracted from a workspace source.
// It is the connector's output, consumed by the indexing pipeline.
type Record struct {
	// ID is the upstream identifier, stable and unique within its kind.
	ID string

	// Kind identifies the resource kind.
	Kind RecordKind

	// SourceID links to the Source that produced this record.
	SourceID string

	// Lineage is the ordered ancestry chain. Empty only for top-level
	// spaces; otherwise it ends with the immediate parent's breadcrumb.
	Lineage []Breadcrumb

	// Title is the human-readable title (space name, page title, ...).
	Title string

	// Body is the content body after extraction, empty for kinds
	// without content.
	Body string

	// Status is the upstream status (e.g. "current").
	Status string

	// Version is the upstream version number, zero when not versioned.
	Version int

	// SpaceID links to the owning space for nested kinds.
	SpaceID string

	// URI is the canonical location of the record.
	URI string

	// MIMEType is the content type for records carrying a content body.
	MIMEType string

	// CreatedAt is the upstream creation timestamp, verbatim.
	CreatedAt string

	// UpdatedAt is the upstream modification timestamp, verbatim.
	UpdatedAt string

	// Metadata contains kind-specific key-value pairs.
	Metadata map[string]any
}

// ParentID returns the immediate parent's ID, implied by the last
// breadcrumb. Empty for top-level records.
func (r *Record) ParentID() string {
	if len(r.Lineage) == 0 {
		return ""
	}
	return r.Lineage[len(r.Lineage)-1].ID
}
