// Package memory is an in-process backend for development and tests. It can
// be seeded from plain text files in the data directory.
package memory

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"hourtracker/internal/core"
	"hourtracker/internal/track"
)

type Store struct {
	mu       sync.Mutex
	projects []core.Project
	clients  []core.Client
	entries  []core.TimeEntry
	nextID   int64
}

// Ensure interface conformance
var (
	_ track.ProjectLister = (*Store)(nil)
	_ track.ProjectWriter = (*Store)(nil)
	_ track.ClientLister  = (*Store)(nil)
	_ track.ClientWriter  = (*Store)(nil)
	_ track.EntryLister   = (*Store)(nil)
	_ track.EntryWriter   = (*Store)(nil)
	_ track.EntryDeleter  = (*Store)(nil)
)

func New() *Store {
	return &Store{nextID: 1}
}

// NewFromFiles seeds the store from seed_clients.txt (one client name per
// line) and seed_projects.txt (one "project | client" per line, client
// optional). Falls back to a small default set when the files are missing.
func NewFromFiles(base string) *Store {
	s := New()
	ctx := context.Background()

	clients := readLines(filepath.Join(base, "seed_clients.txt"))
	if len(clients) == 0 {
		clients = []string{"Acme", "Globex"}
	}
	byName := map[string]core.ID{}
	for _, name := range clients {
		c, err := s.CreateClient(ctx, core.ClientDraft{Name: name})
		if err != nil {
			slog.Warn("Skipping invalid seed client", "line", name, "error", err)
			continue
		}
		byName[name] = c.ID
	}

	projects := readLines(filepath.Join(base, "seed_projects.txt"))
	if len(projects) == 0 {
		projects = []string{"Website | Acme", "Internal"}
	}
	for _, line := range projects {
		name, clientName, _ := strings.Cut(line, "|")
		draft := core.ProjectDraft{Name: strings.TrimSpace(name), Active: true}
		if id, ok := byName[strings.TrimSpace(clientName)]; ok {
			draft.ClientID = id
		}
		if _, err := s.CreateProject(ctx, draft); err != nil {
			slog.Warn("Skipping invalid seed project", "line", line, "error", err)
		}
	}
	return s
}

func (s *Store) ListProjects(_ context.Context) ([]core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Project(nil), s.projects...), nil
}

func (s *Store) CreateProject(_ context.Context, draft core.ProjectDraft) (core.Project, error) {
	if err := draft.Validate(); err != nil {
		return core.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	clientName := ""
	if !draft.ClientID.IsZero() {
		for _, c := range s.clients {
			if c.ID == draft.ClientID {
				clientName = c.Name
				break
			}
		}
		if clientName == "" {
			return core.Project{}, sql.ErrNoRows
		}
	}

	p := core.Project{
		ID:         s.allocID(),
		Name:       draft.Name,
		ClientName: clientName,
		Active:     draft.Active,
	}
	s.projects = append(s.projects, p)
	return p, nil
}

func (s *Store) ListClients(_ context.Context) ([]core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Client(nil), s.clients...), nil
}

func (s *Store) CreateClient(_ context.Context, draft core.ClientDraft) (core.Client, error) {
	if err := draft.Validate(); err != nil {
		return core.Client{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := core.Client{ID: s.allocID(), Name: draft.Name, Email: draft.Email}
	s.clients = append(s.clients, c)
	return c, nil
}

func (s *Store) ListEntries(_ context.Context, projectID core.ID) ([]core.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.TimeEntry
	for _, e := range s.entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateEntry(_ context.Context, draft core.EntryDraft) (core.TimeEntry, error) {
	if err := draft.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := core.TimeEntry{
		ID:        s.allocID(),
		ProjectID: draft.ProjectID,
		Date:      draft.Date,
		Hours:     draft.Hours,
		Notes:     draft.Notes,
		Billable:  draft.Billable,
	}
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *Store) DeleteEntry(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *Store) allocID() core.ID {
	id := core.ID(strconv.FormatInt(s.nextID, 10))
	s.nextID++
	return id
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
