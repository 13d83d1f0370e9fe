package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hourtracker/internal/core"
)

// handleEntryList renders the entry list partial for one project, optionally
// narrowed to this week or this month.
func (s *Server) handleEntryList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	projectID := queryProjectID(r)
	if projectID.IsZero() {
		_, _ = w.Write([]byte(`<section id="entry-list" class="entry-list"><div class="placeholder">Pick a project to see its entries</div></section>`))
		return
	}

	filter := core.ParseFilter(strings.TrimSpace(r.URL.Query().Get("filter")))

	entries, err := s.getEntries(r.Context(), projectID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Entry list error", "error", err, "project_id", projectID)
		_, _ = w.Write([]byte(`<section id="entry-list" class="entry-list"><div class="placeholder">Could not load entries</div></section>`))
		return
	}

	now := time.Now().UTC()
	type row struct {
		ID       string
		Date     string
		Hours    string
		Notes    string
		Billable bool
	}
	data := struct {
		ProjectID string
		Filter    string
		Total     string
		Rows      []row
	}{
		ProjectID: projectID.String(),
		Filter:    string(filter),
	}

	var total float64
	for _, e := range entries {
		if !filter.Matches(now, e.Date) {
			continue
		}
		total += e.Hours
		data.Rows = append(data.Rows, row{
			ID:       e.ID.String(),
			Date:     e.Date,
			Hours:    core.FormatHours(e.Hours),
			Notes:    e.Notes,
			Billable: e.Billable,
		})
	}
	data.Total = core.FormatHours(total)

	if err := s.templates.ExecuteTemplate(w, "entry_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "entry_list.html", "project_id", projectID)
		_, _ = w.Write([]byte(`<section id="entry-list" class="entry-list"><div class="placeholder">Could not render entries</div></section>`))
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	projectID := core.ID(strings.TrimSpace(r.Form.Get("project_id")))
	date := strings.TrimSpace(r.Form.Get("date"))
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if !core.ValidDateOnly(date) {
		UnprocessableEntityError("Date must be a real calendar date (YYYY-MM-DD)").Write(w)
		return
	}

	hours, err := core.ParseHours(r.Form.Get("hours"))
	if err != nil {
		UnprocessableEntityError("Hours must be a positive number").Write(w)
		return
	}

	draft := core.EntryDraft{
		ProjectID: projectID,
		Date:      date,
		Hours:     hours,
		Notes:     sanitizeInput(r.Form.Get("notes")),
		Billable:  formIsChecked(r.Form.Get("billable")),
	}
	if err := draft.Validate(); err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	entry, err := s.backend.CreateEntry(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Entry create error", "error", err,
			"project_id", projectID, "entry_date", draft.Date, "hours", draft.Hours)
		InternalServerError("Could not save the entry").Write(w)
		return
	}

	s.invalidateEntries(projectID)

	NewHTMXResponse().
		TriggerEntryCreated(projectID).
		TriggerFormReset().
		TriggerSuccessNotification("Recorded " + core.FormatHours(entry.Hours) + " on " + entry.Date).
		BodyHTML(`<div class="success">Recorded ` + core.FormatHours(entry.Hours) + ` on ` + entry.Date + `</div>`).
		Write(w)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := core.ID(strings.TrimSpace(r.Form.Get("id")))
	projectID := core.ID(strings.TrimSpace(r.Form.Get("project_id")))
	if id.IsZero() {
		BadRequestError("Missing entry id").Write(w)
		return
	}

	if err := s.backend.DeleteEntry(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Entry delete error", "error", err, "entry_id", id)
		InternalServerError("Could not delete the entry").Write(w)
		return
	}

	s.invalidateEntries(projectID)

	NewHTMXResponse().
		TriggerEntryDeleted(projectID).
		TriggerSuccessNotification("Entry deleted").
		BodyHTML(`<div class="success">Entry deleted</div>`).
		Write(w)
}
