package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hourtracker/internal/auth"
	"hourtracker/internal/core"
	"hourtracker/internal/memory"
)

func newTestServer(t *testing.T, opts Options) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	if opts.Backend == nil {
		opts.Backend = store
	}
	if opts.Addr == "" {
		opts.Addr = ":0"
	}
	s := NewServer(opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return s, store
}

func seedProject(t *testing.T, store *memory.Store) core.Project {
	t.Helper()
	client, err := store.CreateClient(context.Background(), core.ClientDraft{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	project, err := store.CreateProject(context.Background(), core.ProjectDraft{
		Name: "Website", ClientID: client.ID, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return project
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersProjects(t *testing.T) {
	s, store := newTestServer(t, Options{})
	seedProject(t, store)

	rec := get(s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Website") {
		t.Error("index missing seeded project")
	}
	if !strings.Contains(body, "Acme") {
		t.Error("index missing seeded client")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if rec := get(s, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}
	rec := get(s, "/readyz")
	if rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"backend":"ok"`) {
		t.Errorf("readyz body = %s", rec.Body.String())
	}
}

func TestProjectListPartial(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)

	rec := get(s, "/ui/project-list?projectId="+project.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Website") {
		t.Error("partial missing project name")
	}
}

func TestCreateEntryFlow(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)

	rec := postForm(s, "/entries", url.Values{
		"project_id": {project.ID.String()},
		"date":       {"2026-08-10"},
		"hours":      {"1,5"},
		"notes":      {"kickoff"},
		"billable":   {"on"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "entry:created") {
		t.Errorf("HX-Trigger = %q, want entry:created", trigger)
	}

	entries, err := store.ListEntries(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Hours != 1.5 || !entries[0].Billable {
		t.Fatalf("entries = %+v", entries)
	}

	list := get(s, "/ui/entry-list?projectId="+project.ID.String())
	if !strings.Contains(list.Body.String(), "kickoff") {
		t.Error("entry list missing new entry")
	}
}

func TestCreateEntryValidation(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)

	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{
			name: "zero hours",
			form: url.Values{"project_id": {project.ID.String()}, "date": {"2026-08-10"}, "hours": {"0"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "garbage hours",
			form: url.Values{"project_id": {project.ID.String()}, "date": {"2026-08-10"}, "hours": {"abc"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "missing project",
			form: url.Values{"date": {"2026-08-10"}, "hours": {"1"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad date",
			form: url.Values{"project_id": {project.ID.String()}, "date": {"10/08/2026"}, "hours": {"1"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "overflowing date",
			form: url.Values{"project_id": {project.ID.String()}, "date": {"2026-02-31"}, "hours": {"1"}},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(s, "/entries", tt.form)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	entries, _ := store.ListEntries(context.Background(), project.ID)
	if len(entries) != 0 {
		t.Errorf("invalid forms created %d entries", len(entries))
	}
}

func TestDeleteEntryFlow(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)
	entry, err := store.CreateEntry(context.Background(), core.EntryDraft{
		ProjectID: project.ID, Date: "2026-08-10", Hours: 1,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	rec := postForm(s, "/entries/delete", url.Values{
		"id":         {entry.ID.String()},
		"project_id": {project.ID.String()},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "entry:deleted") {
		t.Error("missing entry:deleted trigger")
	}

	entries, _ := store.ListEntries(context.Background(), project.ID)
	if len(entries) != 0 {
		t.Errorf("entry not deleted: %+v", entries)
	}

	missing := postForm(s, "/entries/delete", url.Values{"project_id": {project.ID.String()}})
	if missing.Code != http.StatusBadRequest {
		t.Errorf("delete without id = %d, want 400", missing.Code)
	}
}

func TestCreateProjectAndClient(t *testing.T) {
	s, store := newTestServer(t, Options{})

	rec := postForm(s, "/clients", url.Values{"name": {"Acme"}, "email": {"billing@acme.test"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("create client = %d, body = %s", rec.Code, rec.Body.String())
	}
	clients, _ := store.ListClients(context.Background())
	if len(clients) != 1 {
		t.Fatalf("clients = %+v", clients)
	}

	rec = postForm(s, "/projects", url.Values{
		"name": {"Website"}, "client_id": {clients[0].ID.String()}, "active": {"on"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create project = %d, body = %s", rec.Code, rec.Body.String())
	}
	projects, _ := store.ListProjects(context.Background())
	if len(projects) != 1 || projects[0].ClientName != "Acme" {
		t.Fatalf("projects = %+v", projects)
	}

	empty := postForm(s, "/projects", url.Values{"name": {"   "}})
	if empty.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank name = %d, want 422", empty.Code)
	}
}

func TestEntryListFilter(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)
	ctx := context.Background()

	thisMonth := time.Now().UTC().Format("2006-01") + "-01"
	for _, date := range []string{thisMonth, "2020-01-15"} {
		if _, err := store.CreateEntry(ctx, core.EntryDraft{
			ProjectID: project.ID, Date: date, Hours: 2,
		}); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}

	all := get(s, "/ui/entry-list?projectId="+project.ID.String()+"&filter=all")
	if !strings.Contains(all.Body.String(), "2020-01-15") {
		t.Error("all filter lost an entry")
	}

	month := get(s, "/ui/entry-list?projectId="+project.ID.String()+"&filter=month")
	if strings.Contains(month.Body.String(), "2020-01-15") {
		t.Error("month filter kept an old entry")
	}
	if !strings.Contains(month.Body.String(), thisMonth) {
		t.Error("month filter dropped a current entry")
	}
}

func TestSummaryPartial(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)
	if _, err := store.CreateEntry(context.Background(), core.EntryDraft{
		ProjectID: project.ID, Date: "2026-08-10", Hours: 2.5, Billable: true,
	}); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	rec := get(s, "/ui/summary?filter=all")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "2.50 h") {
		t.Errorf("summary body missing hours: %s", rec.Body.String())
	}
}

func TestSummaryScopedToSelectedProject(t *testing.T) {
	s, store := newTestServer(t, Options{})
	first := seedProject(t, store)
	second, err := store.CreateProject(context.Background(), core.ProjectDraft{Name: "Mobile App", Active: true})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	for _, p := range []core.Project{first, second} {
		if _, err := store.CreateEntry(context.Background(), core.EntryDraft{
			ProjectID: p.ID, Date: "2026-08-10", Hours: 2.5, Billable: true,
		}); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}

	rec := get(s, "/ui/summary?filter=all&projectId="+first.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "2.50 h") {
		t.Errorf("scoped summary missing selected project's hours: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "5.00 h") {
		t.Errorf("scoped summary counts other projects' hours: %s", rec.Body.String())
	}

	// The scoped partial keeps the selection on its refresh URL.
	if !strings.Contains(rec.Body.String(), "projectId="+first.ID.String()) {
		t.Errorf("scoped summary does not propagate projectId: %s", rec.Body.String())
	}

	// Without a selection the totals span every project.
	rec = get(s, "/ui/summary?filter=all")
	if !strings.Contains(rec.Body.String(), "5.00 h") {
		t.Errorf("unscoped summary missing combined hours: %s", rec.Body.String())
	}
}

func TestAuthRequiredFlow(t *testing.T) {
	sessions := auth.NewSessionStore(time.Hour, 24*time.Hour)
	s, store := newTestServer(t, Options{
		Authenticator: auth.NewStaticAuthenticator("admin", "s3cret"),
		Sessions:      sessions,
	})
	seedProject(t, store)

	// Pages redirect to the login form.
	rec := get(s, "/")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("unauthenticated / = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	// Partials get a bare 401.
	req := httptest.NewRequest(http.MethodGet, "/ui/summary", nil)
	req.Header.Set("HX-Request", "true")
	prec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(prec, req)
	if prec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated partial = %d, want 401", prec.Code)
	}

	// Wrong password is rejected.
	bad := postForm(s, "/login", url.Values{"username": {"admin"}, "password": {"nope"}})
	if bad.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", bad.Code)
	}

	// Good login sets a session cookie.
	good := postForm(s, "/login", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	if good.Code != http.StatusSeeOther {
		t.Fatalf("login = %d, want 303", good.Code)
	}
	var session *http.Cookie
	for _, c := range good.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("no session cookie set")
	}

	// The cookie unlocks the dashboard.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated / = %d, want 200", rec.Code)
	}

	// Logout destroys the session.
	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout = %d, want 303", rec.Code)
	}
	if _, ok := sessions.Validate(session.Value); ok {
		t.Error("session survived logout")
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	s, store := newTestServer(t, Options{})
	project := seedProject(t, store)

	form := url.Values{
		"project_id": {project.ID.String()},
		"date":       {"2026-08-10"},
		"hours":      {"1"},
	}

	limited := false
	for i := 0; i < requestsPerMinute+5; i++ {
		rec := postForm(s, "/entries", form)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("rate limiter never tripped")
	}
}
