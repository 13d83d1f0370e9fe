package adapters

import (
	"context"

	"hourtracker/internal/core"
	"hourtracker/internal/services"
	"hourtracker/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and EntryService to implement the
// track.* interfaces. Entry writes go through the service so each one is
// published to the sync queue; reads and project/client writes hit the
// repository directly.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.EntryService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.EntryService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// ListProjects implements track.ProjectLister
func (a *SQLiteAdapter) ListProjects(ctx context.Context) ([]core.Project, error) {
	return a.storage.ListProjects(ctx)
}

// CreateProject implements track.ProjectWriter
func (a *SQLiteAdapter) CreateProject(ctx context.Context, draft core.ProjectDraft) (core.Project, error) {
	return a.storage.CreateProject(ctx, draft)
}

// ListClients implements track.ClientLister
func (a *SQLiteAdapter) ListClients(ctx context.Context) ([]core.Client, error) {
	return a.storage.ListClients(ctx)
}

// CreateClient implements track.ClientWriter
func (a *SQLiteAdapter) CreateClient(ctx context.Context, draft core.ClientDraft) (core.Client, error) {
	return a.storage.CreateClient(ctx, draft)
}

// ListEntries implements track.EntryLister
func (a *SQLiteAdapter) ListEntries(ctx context.Context, projectID core.ID) ([]core.TimeEntry, error) {
	return a.storage.ListEntries(ctx, projectID)
}

// CreateEntry implements track.EntryWriter
func (a *SQLiteAdapter) CreateEntry(ctx context.Context, draft core.EntryDraft) (core.TimeEntry, error) {
	return a.service.CreateEntry(ctx, draft)
}

// DeleteEntry implements track.EntryDeleter
func (a *SQLiteAdapter) DeleteEntry(ctx context.Context, id core.ID) error {
	return a.service.DeleteEntry(ctx, id)
}
