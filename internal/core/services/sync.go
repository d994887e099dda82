package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator coordinates record synchronisation. It drives a
// connector's FullSync stream, persists every record and tracks the
// completion cursor.
type SyncOrchestrator struct {
	sourceStore driven.SourceStore
	syncStore   driven.SyncStateStore
	recordStore driven.RecordStore
	factory     driven.ConnectorFactory

	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	sourceStore driven.SourceStore,
	syncStore driven.SyncStateStore,
	recordStore driven.RecordStore,
	factory driven.ConnectorFactory,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		sourceStore: sourceStore,
		syncStore:   syncStore,
		recordStore: recordStore,
		factory:     factory,
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
}

// Sync triggers synchronisation for a source. A full sync replaces the
// source's previously stored records. Only one sync per source runs at
// a time.
func (o *SyncOrchestrator) Sync(ctx context.Context, sourceID string) error {
	source, err := o.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if o.factory == nil {
		return fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := o.factory.Create(ctx, *source)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	caps := connector.Capabilities()
	if caps.SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
		}
	}

	status := &driving.SyncStatus{
		SourceID: sourceID,
		RunID:    uuid.NewString(),
		Running:  true,
	}
	if !o.startRun(sourceID, status) {
		return fmt.Errorf("%w: source %s", domain.ErrSyncInProgress, sourceID)
	}
	defer o.clearStatus(sourceID)

	logger.Info("Starting sync for source %s (run %s)", sourceID, status.RunID)

	// Full sync replaces the previous snapshot.
	if err := o.recordStore.DeleteBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	recordsCh, errsCh := connector.FullSync(ctx)
	newCursor, err := o.processRecords(ctx, recordsCh, errsCh, status)
	if err != nil {
		return err
	}
	if newCursor == "" && caps.SupportsCursorReturn {
		newCursor = fmt.Sprintf("%d", time.Now().UnixNano())
	}

	newState := domain.SyncState{
		SourceID: sourceID,
		Cursor:   newCursor,
		LastSync: time.Now(),
	}
	if err := o.syncStore.Save(ctx, newState); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}

	logger.Info("Sync complete: %d records, %d errors", status.RecordsProcessed, status.ErrorCount)
	status.Running = false
	return nil
}

// SyncAll triggers synchronisation for all configured sources.
func (o *SyncOrchestrator) SyncAll(ctx context.Context) error {
	sources, err := o.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var errs []error
	for _, source := range sources {
		if err := o.Sync(ctx, source.ID); err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", source.ID, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Status returns sync status for a source.
func (o *SyncOrchestrator) Status(_ context.Context, sourceID string) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[sourceID]; ok {
		// Return a copy to avoid race conditions
		copied := *status
		return &copied, nil
	}

	return &driving.SyncStatus{
		SourceID: sourceID,
		Running:  false,
	}, nil
}

// processRecords drains the connector's channel pair until both close.
// Returns the cursor carried by the SyncComplete sentinel, if any.
func (o *SyncOrchestrator) processRecords(
	ctx context.Context,
	recordsCh <-chan domain.Record,
	errsCh <-chan error,
	status *driving.SyncStatus,
) (string, error) {
	var newCursor string

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if sc, isSyncComplete := driven.IsSyncComplete(err); isSyncComplete {
				newCursor = sc.NewCursor
				continue
			}
			if err != nil {
				return "", fmt.Errorf("connector error: %w", err)
			}

		case record, ok := <-recordsCh:
			if !ok {
				return newCursor, nil
			}

			logger.Debug("Processing %s %s", record.Kind, record.ID)
			if err := o.recordStore.Save(ctx, &record); err != nil {
				status.ErrorCount++
				logger.Debug("Failed to save %s: %v", record.ID, err)
				continue
			}
			status.RecordsProcessed++
		}
	}
}

// startRun claims the per-source sync slot. Returns false if a sync is
// already running for the source.
func (o *SyncOrchestrator) startRun(sourceID string, status *driving.SyncStatus) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.activeSyncs[sourceID]; ok && existing.Running {
		return false
	}
	o.activeSyncs[sourceID] = status
	return true
}

// clearStatus removes the sync status for a source.
func (o *SyncOrchestrator) clearStatus(sourceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, sourceID)
}
