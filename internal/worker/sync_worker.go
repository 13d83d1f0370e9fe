// Package worker pushes locally recorded entries to the remote tracking
// service and mirrors billable work into the timesheet export.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"hourtracker/internal/amqp"
	"hourtracker/internal/api"
	"hourtracker/internal/core"
	"hourtracker/internal/storage"
	"hourtracker/internal/timesheet"
)

// RemoteEntries is the upstream half of the sync: the remote tracking
// service entries are pushed to and deleted from.
type RemoteEntries interface {
	CreateEntry(ctx context.Context, draft core.EntryDraft) (core.TimeEntry, error)
	DeleteEntry(ctx context.Context, id core.ID) error
}

// SyncWorker handles synchronization of entries from SQLite to the remote
// tracking service, with an optional timesheet export for billable work.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	remote    RemoteEntries
	timesheet timesheet.RowWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, remote RemoteEntries, sheet timesheet.RowWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		remote:    remote,
		timesheet: sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"kind", msg.Kind,
		"local_id", msg.LocalID)

	switch msg.Kind {
	case amqp.KindEntryUpsert:
		return w.syncEntry(ctx, msg.LocalID)
	case amqp.KindEntryDelete:
		return w.deleteRemote(ctx, msg.LocalID, msg.RemoteID)
	default:
		// Unknown kinds are dropped rather than requeued forever.
		slog.WarnContext(ctx, "Unknown sync message kind", "kind", msg.Kind)
		return nil
	}
}

func (w *SyncWorker) deleteRemote(ctx context.Context, localID int64, remoteID core.ID) error {
	if remoteID.IsZero() {
		// Entry was never pushed upstream, nothing to remove.
		slog.InfoContext(ctx, "Entry has no remote id, skipping remote delete",
			"local_id", localID)
		return nil
	}
	if w.remote == nil {
		slog.WarnContext(ctx, "No remote service configured, skipping delete",
			"local_id", localID)
		return nil
	}

	if err := w.remote.DeleteEntry(ctx, remoteID); err != nil {
		if api.IsNotFound(err) {
			slog.WarnContext(ctx, "Entry already gone on remote service",
				"local_id", localID, "remote_id", remoteID)
			return nil
		}
		return fmt.Errorf("delete remote entry: %w", err)
	}

	slog.InfoContext(ctx, "Deleted entry on remote service",
		"local_id", localID, "remote_id", remoteID)
	return nil
}

// syncEntry pushes one local entry to the remote service and records the
// assigned remote id. Rows that were deleted or already synced in the
// meantime are skipped; the AMQP redelivery path makes duplicates possible.
func (w *SyncWorker) syncEntry(ctx context.Context, localID int64) error {
	record, err := w.storage.GetEntry(ctx, localID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if record.Deleted {
		slog.InfoContext(ctx, "Entry deleted before sync, skipping", "local_id", localID)
		return nil
	}
	if record.SyncStatus == storage.SyncSynced {
		slog.InfoContext(ctx, "Entry already synced, skipping", "local_id", localID)
		return nil
	}
	if w.remote == nil {
		slog.WarnContext(ctx, "No remote service configured, leaving entry pending",
			"local_id", localID)
		return nil
	}

	remote, err := w.remote.CreateEntry(ctx, core.EntryDraft{
		ProjectID: record.Entry.ProjectID,
		Date:      record.Entry.Date,
		Hours:     record.Entry.Hours,
		Notes:     record.Entry.Notes,
		Billable:  record.Entry.Billable,
	})
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, localID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "local_id", localID, "error", markErr)
		}
		return fmt.Errorf("push entry to remote service: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, localID, remote.ID); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}

	w.exportToTimesheet(ctx, record)

	return nil
}

// exportToTimesheet mirrors a billable entry into the timesheet target.
// Export failures are logged, not retried; the remote sync already succeeded.
func (w *SyncWorker) exportToTimesheet(ctx context.Context, record *storage.EntryRecord) {
	if w.timesheet == nil || !record.Entry.Billable {
		return
	}

	projectName, clientName := w.projectNames(ctx, record.Entry.ProjectID)

	ref, err := w.timesheet.Append(ctx, timesheet.Row{
		Date:     record.Entry.Date,
		Project:  projectName,
		Client:   clientName,
		Hours:    record.Entry.Hours,
		Notes:    record.Entry.Notes,
		Billable: true,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export entry to timesheet",
			"local_id", record.LocalID, "error", err)
		return
	}

	slog.InfoContext(ctx, "Entry exported to timesheet",
		"local_id", record.LocalID, "row_ref", ref)
}

func (w *SyncWorker) projectNames(ctx context.Context, projectID core.ID) (string, string) {
	projects, err := w.storage.ListProjects(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to resolve project name", "error", err)
		return "", ""
	}
	for _, p := range projects {
		if p.ID == projectID {
			return p.Name, p.ClientName
		}
	}
	return "", ""
}

// ProcessPendingEntries processes any entries that haven't been synced yet,
// including ones whose last push failed.
// This is a backup mechanism in case AMQP messages are lost
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.PendingEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, id := range pending {
		if err := w.syncEntry(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry", "local_id", id, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck verifies and syncs any pending entries at worker startup
// This is useful to recover from missed AMQP messages or worker downtime
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.storage.PendingEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, id := range pending {
		if err := w.syncEntry(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during startup",
				"local_id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}
