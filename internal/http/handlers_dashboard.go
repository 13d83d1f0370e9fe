package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"hourtracker/internal/core"
)

const (
	projectsCacheKey = "projects"
	clientsCacheKey  = "clients"
)

// getProjects returns the project list, served from cache when fresh.
func (s *Server) getProjects(ctx context.Context) ([]core.Project, error) {
	if projects, found := s.projectsCache.Get(projectsCacheKey); found {
		slog.DebugContext(ctx, "Project list cache hit", "count", len(projects))
		return projects, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	projects, err := s.backend.ListProjects(cctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	s.projectsCache.Set(projectsCacheKey, projects)
	return projects, nil
}

func (s *Server) getClients(ctx context.Context) ([]core.Client, error) {
	if clients, found := s.clientsCache.Get(clientsCacheKey); found {
		return clients, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	clients, err := s.backend.ListClients(cctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	s.clientsCache.Set(clientsCacheKey, clients)
	return clients, nil
}

func (s *Server) getEntries(ctx context.Context, projectID core.ID) ([]core.TimeEntry, error) {
	key := "entries:" + projectID.String()
	if entries, found := s.entriesCache.Get(key); found {
		result := make([]core.TimeEntry, len(entries))
		copy(result, entries)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	entries, err := s.backend.ListEntries(cctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list entries (project=%s): %w", projectID, err)
	}

	s.entriesCache.Set(key, entries)
	return entries, nil
}

// allEntries collects the entries of every project, fetching the per-project
// lists concurrently.
func (s *Server) allEntries(ctx context.Context, projects []core.Project) ([]core.TimeEntry, error) {
	results := make([][]core.TimeEntry, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range projects {
		g.Go(func() error {
			entries, err := s.getEntries(gctx, p.ID)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []core.TimeEntry
	for _, entries := range results {
		all = append(all, entries...)
	}
	return all, nil
}

func (s *Server) invalidateProjects() {
	s.projectsCache.Delete(projectsCacheKey)
}

func (s *Server) invalidateClients() {
	s.clientsCache.Delete(clientsCacheKey)
}

func (s *Server) invalidateEntries(projectID core.ID) {
	s.entriesCache.Delete("entries:" + projectID.String())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	// Projects and clients load concurrently; neither depends on the other.
	var (
		projects []core.Project
		clients  []core.Client
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		projects, err = s.getProjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.getClients(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Initial load error", "error", err)
	}

	data := struct {
		Today       string
		Projects    []core.Project
		Clients     []core.Client
		AuthEnabled bool
	}{
		Today:       time.Now().UTC().Format("2006-01-02"),
		Projects:    projects,
		Clients:     clients,
		AuthEnabled: s.authEnabled(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSummary renders the totals partial for the requested filter. Hour
// totals cover only the selected project when a projectId is supplied;
// without one they span every project.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	filter := core.ParseFilter(strings.TrimSpace(r.URL.Query().Get("filter")))
	projectID := queryProjectID(r)

	projects, err := s.getProjects(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary projects error", "error", err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Could not load summary</div></section>`))
		return
	}
	clients, err := s.getClients(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary clients error", "error", err)
	}
	var entries []core.TimeEntry
	if projectID.IsZero() {
		entries, err = s.allEntries(r.Context(), projects)
	} else {
		entries, err = s.getEntries(r.Context(), projectID)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary entries error", "error", err, "project_id", projectID)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Could not load summary</div></section>`))
		return
	}

	summary := core.Summarize(projects, clients, entries, filter, time.Now().UTC())

	data := struct {
		Filter        string
		ProjectID     string
		Summary       core.Summary
		Hours         string
		BillableHours string
	}{
		Filter:        string(filter),
		ProjectID:     projectID.String(),
		Summary:       summary,
		Hours:         core.FormatHours(summary.Hours),
		BillableHours: core.FormatHours(summary.BillableHours),
	}

	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Could not render summary</div></section>`))
	}
}
