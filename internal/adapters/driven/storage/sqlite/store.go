package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/wikisync-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.wikisync/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".wikisync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// SyncStateStore returns a SyncStateStore interface backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{store: s}
}

// CredentialsStore returns a CredentialsStore interface backed by this store.
func (s *Store) CredentialsStore() driven.CredentialsStore {
	return &credentialsStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1).
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	configJSON, err := json.Marshal(source.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, type, name, config, credentials_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			config = excluded.config,
			credentials_id = excluded.credentials_id,
			updated_at = excluded.updated_at
	`, source.ID, source.Type, source.Name, string(configJSON),
		nullString(source.CredentialsID), source.CreatedAt, source.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, name, config, credentials_id, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting source: %w", err)
	}
	return source, nil
}

// Delete removes a source.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all configured sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, name, config, credentials_id, created_at, updated_at
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, *source)
	}
	return sources, rows.Err()
}

// scanner abstracts over sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*domain.Source, error) {
	var source domain.Source
	var configJSON string
	var credentialsID sql.NullString

	err := row.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
		&credentialsID, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	source.CredentialsID = credentialsID.String
	return &source, nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Save stores or updates a record. Insertion order is preserved via a
// monotonically increasing position.
func (s *recordStore) Save(ctx context.Context, record *domain.Record) error {
	lineageJSON, err := json.Marshal(record.Lineage)
	if err != nil {
		return fmt.Errorf("marshalling lineage: %w", err)
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, source_id, lineage, title, body, status,
			version, space_id, uri, mime_type, created_at, updated_at, metadata, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM records))
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			source_id = excluded.source_id,
			lineage = excluded.lineage,
			title = excluded.title,
			body = excluded.body,
			status = excluded.status,
			version = excluded.version,
			space_id = excluded.space_id,
			uri = excluded.uri,
			mime_type = excluded.mime_type,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			metadata = excluded.metadata
	`, record.ID, string(record.Kind), record.SourceID, string(lineageJSON),
		record.Title, record.Body, record.Status, record.Version, record.SpaceID,
		record.URI, record.MIMEType, record.CreatedAt, record.UpdatedAt, string(metadataJSON))
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *recordStore) Get(ctx context.Context, id string) (*domain.Record, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, kind, source_id, lineage, title, body, status, version,
			space_id, uri, mime_type, created_at, updated_at, metadata
		FROM records WHERE id = ?
	`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// ListBySource returns records for a source in insertion order.
func (s *recordStore) ListBySource(ctx context.Context, sourceID string) ([]domain.Record, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, source_id, lineage, title, body, status, version,
			space_id, uri, mime_type, created_at, updated_at, metadata
		FROM records WHERE source_id = ? ORDER BY position
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// DeleteBySource removes all records for a source.
func (s *recordStore) DeleteBySource(ctx context.Context, sourceID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM records WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	return nil
}

func scanRecord(row scanner) (*domain.Record, error) {
	var record domain.Record
	var kind, lineageJSON string
	var metadataJSON sql.NullString

	err := row.Scan(&record.ID, &kind, &record.SourceID, &lineageJSON,
		&record.Title, &record.Body, &record.Status, &record.Version,
		&record.SpaceID, &record.URI, &record.MIMEType,
		&record.CreatedAt, &record.UpdatedAt, &metadataJSON)
	if err != nil {
		return nil, err
	}

	record.Kind = domain.RecordKind(kind)
	if err := json.Unmarshal([]byte(lineageJSON), &record.Lineage); err != nil {
		return nil, fmt.Errorf("unmarshalling lineage: %w", err)
	}
	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &record.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	return &record, nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_state (source_id, cursor, last_sync)
		VALUES (?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			cursor = excluded.cursor,
			last_sync = excluded.last_sync
	`, state.SourceID, state.Cursor, state.LastSync.UTC())
	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// Get retrieves sync state for a source.
func (s *syncStateStore) Get(ctx context.Context, sourceID string) (*domain.SyncState, error) {
	var state domain.SyncState
	err := s.store.db.QueryRowContext(ctx, `
		SELECT source_id, cursor, last_sync FROM sync_state WHERE source_id = ?
	`, sourceID).Scan(&state.SourceID, &state.Cursor, &state.LastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting sync state: %w", err)
	}
	return &state, nil
}

// Delete removes sync state for a source.
func (s *syncStateStore) Delete(ctx context.Context, sourceID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_state WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("deleting sync state: %w", err)
	}
	return nil
}

// ==================== Credentials Store ====================

// credentialsStore implements driven.CredentialsStore.
type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

// Save stores credentials. Creates if new, updates if exists.
func (s *credentialsStore) Save(ctx context.Context, creds domain.Credentials) error {
	var oauthJSON sql.NullString
	if creds.OAuth != nil {
		raw, err := json.Marshal(creds.OAuth)
		if err != nil {
			return fmt.Errorf("marshalling oauth tokens: %w", err)
		}
		oauthJSON = sql.NullString{String: string(raw), Valid: true}
	}

	now := time.Now().UTC()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO credentials (id, source_id, account_identifier, oauth, api_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			account_identifier = excluded.account_identifier,
			oauth = excluded.oauth,
			api_token = excluded.api_token,
			updated_at = excluded.updated_at
	`, creds.ID, creds.SourceID, creds.AccountIdentifier, oauthJSON,
		creds.APIToken, creds.CreatedAt, creds.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Get retrieves credentials by ID.
func (s *credentialsStore) Get(ctx context.Context, id string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, account_identifier, oauth, api_token, created_at, updated_at
		FROM credentials WHERE id = ?
	`, id)

	creds, err := scanCredentials(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting credentials: %w", err)
	}
	return creds, nil
}

// GetBySourceID retrieves credentials for a specific source.
// Returns nil if no credentials exist for the source.
func (s *credentialsStore) GetBySourceID(ctx context.Context, sourceID string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, account_identifier, oauth, api_token, created_at, updated_at
		FROM credentials WHERE source_id = ?
	`, sourceID)

	creds, err := scanCredentials(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting credentials by source: %w", err)
	}
	return creds, nil
}

// Delete removes credentials by ID.
func (s *credentialsStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}

func scanCredentials(row scanner) (*domain.Credentials, error) {
	var creds domain.Credentials
	var oauthJSON sql.NullString

	err := row.Scan(&creds.ID, &creds.SourceID, &creds.AccountIdentifier,
		&oauthJSON, &creds.APIToken, &creds.CreatedAt, &creds.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if oauthJSON.Valid && oauthJSON.String != "" {
		var oauth domain.OAuthCredentials
		if err := json.Unmarshal([]byte(oauthJSON.String), &oauth); err != nil {
			return nil, fmt.Errorf("unmarshalling oauth tokens: %w", err)
		}
		creds.OAuth = &oauth
	}
	return &creds, nil
}

// nullString converts empty strings to NULL for optional columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
