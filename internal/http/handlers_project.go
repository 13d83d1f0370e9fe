package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"hourtracker/internal/core"
)

// handleProjectList renders the project list partial. The selected project
// id is echoed back so the list keeps its highlight across refreshes.
func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	projects, err := s.getProjects(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Project list error", "error", err)
		_, _ = w.Write([]byte(`<section id="project-list" class="project-list"><div class="placeholder">Could not load projects</div></section>`))
		return
	}

	data := struct {
		Projects []core.Project
		Selected string
	}{
		Projects: projects,
		Selected: strings.TrimSpace(r.URL.Query().Get("projectId")),
	}

	if err := s.templates.ExecuteTemplate(w, "project_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "project_list.html")
		_, _ = w.Write([]byte(`<section id="project-list" class="project-list"><div class="placeholder">Could not render projects</div></section>`))
	}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	draft := core.ProjectDraft{
		Name:     sanitizeInput(r.Form.Get("name")),
		ClientID: core.ID(strings.TrimSpace(r.Form.Get("client_id"))),
		Active:   formIsChecked(r.Form.Get("active")),
	}
	if err := draft.Validate(); err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	project, err := s.backend.CreateProject(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Project create error", "error", err, "name", draft.Name)
		InternalServerError("Could not save the project").Write(w)
		return
	}

	s.invalidateProjects()

	NewHTMXResponse().
		TriggerProjectCreated(project.ID).
		TriggerFormReset().
		TriggerSuccessNotification("Project created: " + project.Name).
		BodyHTML(`<div class="success">Project created: ` + template.HTMLEscapeString(project.Name) + `</div>`).
		Write(w)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	draft := core.ClientDraft{
		Name:  sanitizeInput(r.Form.Get("name")),
		Email: sanitizeInput(r.Form.Get("email")),
	}
	if err := draft.Validate(); err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	client, err := s.backend.CreateClient(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Client create error", "error", err, "name", draft.Name)
		InternalServerError("Could not save the client").Write(w)
		return
	}

	s.invalidateClients()

	NewHTMXResponse().
		TriggerClientCreated(client.ID).
		TriggerFormReset().
		TriggerSuccessNotification("Client created: " + client.Name).
		BodyHTML(`<div class="success">Client created: ` + template.HTMLEscapeString(client.Name) + `</div>`).
		Write(w)
}

// validationMessage maps core validation errors to user-facing text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required"
	case errors.Is(err, core.ErrNameTooLong):
		return "Name is too long"
	case errors.Is(err, core.ErrMissingProject):
		return "Pick a project first"
	case errors.Is(err, core.ErrInvalidDate):
		return "Date must be YYYY-MM-DD"
	case errors.Is(err, core.ErrInvalidHours):
		return "Hours must be a positive number"
	default:
		return "Invalid input"
	}
}
