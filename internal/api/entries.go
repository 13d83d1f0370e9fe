package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"hourtracker/internal/adapt"
	"hourtracker/internal/core"
)

type entryCreateRequest struct {
	ProjectID string  `json:"projectId"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Notes     *string `json:"notes"`
	Billable  bool    `json:"billable"`
}

// ListEntries fetches and normalizes the time entries of one project.
func (c *Client) ListEntries(ctx context.Context, projectID core.ID) ([]core.TimeEntry, error) {
	path := "/api/entries"
	if !projectID.IsZero() {
		path += "?projectId=" + url.QueryEscape(projectID.String())
	}
	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return adapt.Entries(payload), nil
}

// CreateEntry records a time entry. Notes are sent as null when empty.
func (c *Client) CreateEntry(ctx context.Context, draft core.EntryDraft) (core.TimeEntry, error) {
	if err := draft.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	req := entryCreateRequest{
		ProjectID: draft.ProjectID.String(),
		Date:      draft.Date,
		Hours:     draft.Hours,
		Billable:  draft.Billable,
	}
	if notes := strings.TrimSpace(draft.Notes); notes != "" {
		req.Notes = &notes
	}
	payload, err := c.do(ctx, http.MethodPost, "/api/entries", req)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("create entry: %w", err)
	}
	return adapt.Entry(asObject(payload)), nil
}

// DeleteEntry removes a time entry; the service answers 204 on success.
func (c *Client) DeleteEntry(ctx context.Context, id core.ID) error {
	if id.IsZero() {
		return fmt.Errorf("delete entry: missing id")
	}
	if _, err := c.do(ctx, http.MethodDelete, "/api/entries/"+url.PathEscape(id.String()), nil); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}
