// Package domain defines the core business entities for wikisync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A typed content record extracted from a workspace
//   - Breadcrumb: Ancestry metadata attached to a record
//   - Source: A configured workspace source
//   - SyncState: Traversal progress for a source
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
