package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hourtracker/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("  ", nil); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	c, err := NewClient("http://example.test/", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.baseURL != "http://example.test" {
		t.Fatalf("baseURL = %q, trailing slash not trimmed", c.baseURL)
	}
}

func TestListProjectsBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Alpha", "client": {"name": "ACME"}, "active": 1}, {"id": 2}]`))
	})

	got, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	want := core.Project{ID: "1", Name: "Alpha", ClientName: "ACME", Active: true}
	if got[0] != want {
		t.Fatalf("got[0] = %+v, want %+v", got[0], want)
	}
	if got[1].Name != "(untitled project #2)" {
		t.Fatalf("got[1].Name = %q", got[1].Name)
	}
}

func TestListProjectsPagedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [{"id": "p1", "projectName": "Paged"}], "totalElements": 1}`))
	})

	got, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Paged" {
		t.Fatalf("got = %+v", got)
	}
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not a *StatusError", err)
	}
	if se.Code != http.StatusBadGateway || se.Body != "boom" {
		t.Fatalf("StatusError = %+v", se)
	}
	if se.Error() != "HTTP 502: boom" {
		t.Fatalf("Error() = %q", se.Error())
	}
}

func TestCreateEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/entries" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["projectId"] != "7" || body["hours"] != 1.5 || body["billable"] != true {
			t.Errorf("body = %v", body)
		}
		if _, present := body["notes"]; !present || body["notes"] != nil {
			t.Errorf("empty notes should be sent as null, got %v", body["notes"])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 3, "projectId": 7, "date": "2024-05-01", "hours": "1.5", "billable": 1}`))
	})

	got, err := c.CreateEntry(context.Background(), core.EntryDraft{
		ProjectID: "7",
		Date:      "2024-05-01",
		Hours:     1.5,
		Billable:  true,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	want := core.TimeEntry{ID: "3", ProjectID: "7", Date: "2024-05-01", Hours: 1.5, Billable: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCreateEntryRejectsInvalidDraft(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be reached for an invalid draft")
	})
	if _, err := c.CreateEntry(context.Background(), core.EntryDraft{}); !errors.Is(err, core.ErrMissingProject) {
		t.Fatalf("got %v, want ErrMissingProject", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/entries/3" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteEntry(context.Background(), "3"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := c.DeleteEntry(context.Background(), ""); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestCreateClientSendsNullEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != nil {
			t.Errorf("email = %v, want null", body["email"])
		}
		_, _ = w.Write([]byte(`{"id": "c9", "name": "ACME"}`))
	})
	got, err := c.CreateClient(context.Background(), core.ClientDraft{Name: "ACME"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if got.ID != "c9" {
		t.Fatalf("got %+v", got)
	}
}
