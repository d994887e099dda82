// Package confluence extracts content from a Confluence Cloud instance
// (read-only) and streams it as lineage-tagged records:
//
//   - Spaces
//   - Pages (with their inline comments)
//   - Blog Posts
//   - Labels, Databases, Folders (declared, disabled by default)
//
// Traversal is depth-first and strictly sequential: for each space the
// space record is emitted first, then every page (each page immediately
// followed by its comments), then the space's blog posts, before the
// next space is visited. Pagination follows the v2 REST API's
// _links.next cursors; all requests flow through one authenticated
// client with a single refresh-and-retry on 401.
//
// References:
//
//	https://developer.atlassian.com/cloud/confluence/rest/v2/intro/
package confluence
