// Package storage is the sqlite-backed local store used in offline-first
// mode. Entries carry sync bookkeeping (pending / synced / error plus the id
// assigned by the remote service) so the worker can push them upstream later.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hourtracker/internal/core"
	"hourtracker/internal/track"

	_ "modernc.org/sqlite"
)

// Entry sync states.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ track.ProjectLister = (*SQLiteRepository)(nil)
	_ track.ProjectWriter = (*SQLiteRepository)(nil)
	_ track.ClientLister  = (*SQLiteRepository)(nil)
	_ track.ClientWriter  = (*SQLiteRepository)(nil)
	_ track.EntryLister   = (*SQLiteRepository)(nil)
	_ track.EntryWriter   = (*SQLiteRepository)(nil)
	_ track.EntryDeleter  = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListProjects implements track.ProjectLister.
func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, COALESCE(c.name, ''), p.active
		FROM projects p LEFT JOIN clients c ON c.id = p.client_id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []core.Project
	for rows.Next() {
		var (
			id         int64
			name       string
			clientName string
			active     bool
		)
		if err := rows.Scan(&id, &name, &clientName, &active); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, core.Project{
			ID:         localID(id),
			Name:       name,
			ClientName: clientName,
			Active:     active,
		})
	}
	return projects, rows.Err()
}

// CreateProject implements track.ProjectWriter.
func (r *SQLiteRepository) CreateProject(ctx context.Context, draft core.ProjectDraft) (core.Project, error) {
	if err := draft.Validate(); err != nil {
		return core.Project{}, err
	}

	var clientID sql.NullInt64
	clientName := ""
	if !draft.ClientID.IsZero() {
		cid, err := parseLocalID(draft.ClientID)
		if err != nil {
			return core.Project{}, fmt.Errorf("invalid client id %q: %w", draft.ClientID, err)
		}
		if err := r.db.QueryRowContext(ctx, `SELECT name FROM clients WHERE id = ?`, cid).Scan(&clientName); err != nil {
			return core.Project{}, fmt.Errorf("lookup client %d: %w", cid, err)
		}
		clientID = sql.NullInt64{Int64: cid, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, client_id, active) VALUES (?, ?, ?)`,
		draft.Name, clientID, draft.Active)
	if err != nil {
		return core.Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Project{}, fmt.Errorf("project id: %w", err)
	}

	slog.InfoContext(ctx, "Project saved to SQLite", "id", id, "name", draft.Name)

	return core.Project{
		ID:         localID(id),
		Name:       draft.Name,
		ClientName: clientName,
		Active:     draft.Active,
	}, nil
}

// ListClients implements track.ClientLister.
func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []core.Client
	for rows.Next() {
		var (
			id          int64
			name, email string
		)
		if err := rows.Scan(&id, &name, &email); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, core.Client{ID: localID(id), Name: name, Email: email})
	}
	return clients, rows.Err()
}

// CreateClient implements track.ClientWriter.
func (r *SQLiteRepository) CreateClient(ctx context.Context, draft core.ClientDraft) (core.Client, error) {
	if err := draft.Validate(); err != nil {
		return core.Client{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (name, email) VALUES (?, ?)`, draft.Name, draft.Email)
	if err != nil {
		return core.Client{}, fmt.Errorf("insert client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Client{}, fmt.Errorf("client id: %w", err)
	}
	return core.Client{ID: localID(id), Name: draft.Name, Email: draft.Email}, nil
}

// ListEntries implements track.EntryLister. Soft-deleted entries are hidden.
func (r *SQLiteRepository) ListEntries(ctx context.Context, projectID core.ID) ([]core.TimeEntry, error) {
	pid, err := parseLocalID(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, entry_date, hours, notes, billable
		FROM entries
		WHERE project_id = ? AND deleted_at IS NULL
		ORDER BY entry_date DESC, id DESC`, pid)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.TimeEntry
	for rows.Next() {
		var (
			id, projID  int64
			date, notes string
			hours       float64
			billable    bool
		)
		if err := rows.Scan(&id, &projID, &date, &hours, &notes, &billable); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, core.TimeEntry{
			ID:        localID(id),
			ProjectID: localID(projID),
			Date:      date,
			Hours:     hours,
			Notes:     notes,
			Billable:  billable,
		})
	}
	return entries, rows.Err()
}

// CreateEntry implements track.EntryWriter. New entries start in the pending
// sync state.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, draft core.EntryDraft) (core.TimeEntry, error) {
	if err := draft.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	pid, err := parseLocalID(draft.ProjectID)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("invalid project id %q: %w", draft.ProjectID, err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (project_id, entry_date, hours, notes, billable, sync_status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pid, draft.Date, draft.Hours, draft.Notes, draft.Billable, SyncPending)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("entry id: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", id, "project_id", pid, "entry_date", draft.Date, "hours", draft.Hours)

	return core.TimeEntry{
		ID:        localID(id),
		ProjectID: draft.ProjectID,
		Date:      draft.Date,
		Hours:     draft.Hours,
		Notes:     draft.Notes,
		Billable:  draft.Billable,
	}, nil
}

// DeleteEntry implements track.EntryDeleter via soft delete; the row is kept
// so the delete can still be propagated to the remote service.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id core.ID) error {
	eid, err := parseLocalID(id)
	if err != nil {
		return fmt.Errorf("invalid entry id %q: %w", id, err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, eid)
	if err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// EntryRecord is an entry row together with its sync bookkeeping.
type EntryRecord struct {
	Entry      core.TimeEntry
	LocalID    int64
	SyncStatus string
	RemoteID   core.ID
	Deleted    bool
	CreatedAt  time.Time
}

// GetEntry returns one entry row by local id, including soft-deleted rows.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (*EntryRecord, error) {
	var (
		rec       EntryRecord
		projID    int64
		deletedAt sql.NullTime
		createdAt sql.NullTime
		remoteID  string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, entry_date, hours, notes, billable, sync_status, remote_id, deleted_at, created_at
		FROM entries WHERE id = ?`, id).Scan(
		&rec.LocalID, &projID, &rec.Entry.Date, &rec.Entry.Hours, &rec.Entry.Notes,
		&rec.Entry.Billable, &rec.SyncStatus, &remoteID, &deletedAt, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	rec.Entry.ID = localID(rec.LocalID)
	rec.Entry.ProjectID = localID(projID)
	rec.RemoteID = core.ID(remoteID)
	rec.Deleted = deletedAt.Valid
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	return &rec, nil
}

// PendingEntries returns up to limit live entries still waiting to be
// synced. Entries whose last push failed are included so the periodic sweep
// retries them instead of parking them in the error state.
func (r *SQLiteRepository) PendingEntries(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM entries
		WHERE sync_status IN (?, ?) AND deleted_at IS NULL
		ORDER BY id LIMIT ?`, SyncPending, SyncError, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending entries: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced records the remote id assigned to an entry.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, remoteID core.ID) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = ?, remote_id = ? WHERE id = ?`,
		SyncSynced, remoteID.String(), id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as synced", "id", id, "remote_id", remoteID)
	return nil
}

// MarkSyncError flags an entry whose sync failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with sync error", "id", id)
	return nil
}

func localID(id int64) core.ID {
	return core.ID(strconv.FormatInt(id, 10))
}

func parseLocalID(id core.ID) (int64, error) {
	return strconv.ParseInt(id.String(), 10, 64)
}
