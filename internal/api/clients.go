package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hourtracker/internal/adapt"
	"hourtracker/internal/core"
)

type clientCreateRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// ListClients fetches and normalizes all billing clients.
func (c *Client) ListClients(ctx context.Context) ([]core.Client, error) {
	payload, err := c.do(ctx, http.MethodGet, "/api/clients", nil)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return adapt.Clients(payload), nil
}

// CreateClient creates a billing client. Email is sent as null when empty.
func (c *Client) CreateClient(ctx context.Context, draft core.ClientDraft) (core.Client, error) {
	if err := draft.Validate(); err != nil {
		return core.Client{}, err
	}
	req := clientCreateRequest{Name: strings.TrimSpace(draft.Name)}
	if email := strings.TrimSpace(draft.Email); email != "" {
		req.Email = &email
	}
	payload, err := c.do(ctx, http.MethodPost, "/api/clients", req)
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	return adapt.Client(asObject(payload)), nil
}
