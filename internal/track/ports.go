package track

import (
	"context"

	"hourtracker/internal/core"
)

// Ports for outbound adapters. The web layer only sees these; whether the
// other side is the remote REST service, a local sqlite store, or an
// in-memory fake is the backend factory's decision.
type (
	ProjectLister interface {
		ListProjects(ctx context.Context) ([]core.Project, error)
	}

	ProjectWriter interface {
		CreateProject(ctx context.Context, draft core.ProjectDraft) (core.Project, error)
	}

	ClientLister interface {
		ListClients(ctx context.Context) ([]core.Client, error)
	}

	ClientWriter interface {
		CreateClient(ctx context.Context, draft core.ClientDraft) (core.Client, error)
	}

	// EntryLister returns the entries recorded against one project.
	EntryLister interface {
		ListEntries(ctx context.Context, projectID core.ID) ([]core.TimeEntry, error)
	}

	EntryWriter interface {
		CreateEntry(ctx context.Context, draft core.EntryDraft) (core.TimeEntry, error)
	}

	EntryDeleter interface {
		DeleteEntry(ctx context.Context, id core.ID) error
	}
)
