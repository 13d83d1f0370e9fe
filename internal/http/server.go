package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"hourtracker/internal/auth"
	"hourtracker/internal/cache"
	"hourtracker/internal/core"
	"hourtracker/internal/track"
	appweb "hourtracker/web"
)

// DataBackend is everything the dashboard needs from a data source.
type DataBackend interface {
	track.ProjectLister
	track.ProjectWriter
	track.ClientLister
	track.ClientWriter
	track.EntryLister
	track.EntryWriter
	track.EntryDeleter
}

// Options configures the dashboard server.
type Options struct {
	Addr    string
	Backend DataBackend

	// Authenticator and Sessions are both required to enable auth. With
	// either missing the dashboard is open.
	Authenticator auth.Authenticator
	Sessions      *auth.SessionStore
}

type Server struct {
	http.Server
	templates     *template.Template
	backend       DataBackend
	authenticator auth.Authenticator
	sessions      *auth.SessionStore
	rateLimiter   *rateLimiter
	metrics       securityMetrics
	startedAt     time.Time

	// Per-project entry lists and the project/client lists are cached
	// between partial refreshes.
	projectsCache *cache.LRU[[]core.Project]
	clientsCache  *cache.LRU[[]core.Client]
	entriesCache  *cache.LRU[[]core.TimeEntry]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		backend:          opts.Backend,
		authenticator:    opts.Authenticator,
		sessions:         opts.Sessions,
		rateLimiter:      newRateLimiter(),
		startedAt:        time.Now(),
		projectsCache:    cache.NewLRU[[]core.Project](10, 1*time.Minute),
		clientsCache:     cache.NewLRU[[]core.Client](10, 1*time.Minute),
		entriesCache:     cache.NewLRU[[]core.TimeEntry](200, 1*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))

	mux.HandleFunc("/", s.withSecurityHeaders(s.requireSession(s.handleIndex)))
	mux.HandleFunc("/projects", s.withSecurityHeaders(s.requireSession(s.handleCreateProject)))
	mux.HandleFunc("/clients", s.withSecurityHeaders(s.requireSession(s.handleCreateClient)))
	mux.HandleFunc("/entries", s.withSecurityHeaders(s.requireSession(s.handleCreateEntry)))
	mux.HandleFunc("/entries/delete", s.withSecurityHeaders(s.requireSession(s.handleDeleteEntry)))

	// UI partials
	mux.HandleFunc("/ui/project-list", s.withSecurityHeaders(s.requireSession(s.handleProjectList)))
	mux.HandleFunc("/ui/entry-list", s.withSecurityHeaders(s.requireSession(s.handleEntryList)))
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.requireSession(s.handleSummary)))

	return s
}

// authEnabled reports whether login is required for dashboard pages.
func (s *Server) authEnabled() bool {
	return s.authenticator != nil && s.sessions != nil
}

// requireSession redirects to the login page when no valid session cookie is
// present. Partial requests get a bare 401 so htmx swaps show the problem
// instead of embedding the login page.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled() {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(auth.SessionCookie)
		if err == nil {
			if _, ok := s.sessions.Validate(cookie.Value); ok {
				next(w, r)
				return
			}
		}

		atomic.AddInt64(&s.metrics.unauthedRequests, 1)
		if r.Header.Get("HX-Request") == "true" {
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// withSecurityHeaders adds security headers, rate limiting, and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only; partial refreshes stay cheap.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// startCacheCleanup runs periodic cleanup for the list caches.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			projects := s.projectsCache.CleanExpired()
			clients := s.clientsCache.CleanExpired()
			entries := s.entriesCache.CleanExpired()
			if projects > 0 || clients > 0 || entries > 0 {
				slog.Debug("Cache cleanup completed",
					"project_entries_removed", projects,
					"client_entries_removed", clients,
					"entry_entries_removed", entries)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.sessions != nil {
			s.sessions.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
