package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hourtracker/internal/adapt"
	"hourtracker/internal/core"
)

type projectCreateRequest struct {
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	ClientID *string `json:"clientId"`
}

// ListProjects fetches and normalizes all projects.
func (c *Client) ListProjects(ctx context.Context) ([]core.Project, error) {
	payload, err := c.do(ctx, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return adapt.Projects(payload), nil
}

// CreateProject creates a project and returns the server's normalized record.
func (c *Client) CreateProject(ctx context.Context, draft core.ProjectDraft) (core.Project, error) {
	if err := draft.Validate(); err != nil {
		return core.Project{}, err
	}
	req := projectCreateRequest{
		Name:   strings.TrimSpace(draft.Name),
		Active: draft.Active,
	}
	if !draft.ClientID.IsZero() {
		id := draft.ClientID.String()
		req.ClientID = &id
	}
	payload, err := c.do(ctx, http.MethodPost, "/api/projects", req)
	if err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}
	return adapt.Project(asObject(payload)), nil
}
