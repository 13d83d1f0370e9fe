package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"hourtracker/internal/auth"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, r, "")
	case http.MethodPost:
		s.processLogin(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, errorMsg string) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct {
		Error string
	}{Error: errorMsg}

	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err, "template", "login.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) processLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, r, "Invalid request format")
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")
	remember := formIsChecked(r.Form.Get("remember"))

	ok, err := s.authenticator.Authenticate(r.Context(), username, password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Authentication error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.renderLogin(w, r, "Login is unavailable right now")
		return
	}
	if !ok {
		atomic.AddInt64(&s.metrics.authFailures, 1)
		slog.WarnContext(r.Context(), "Login failed", "username", username, "client_ip", extractClientIP(r))
		w.WriteHeader(http.StatusUnauthorized)
		s.renderLogin(w, r, "Wrong username or password")
		return
	}

	token, expiresAt, err := s.sessions.Create(username, remember)
	if err != nil {
		slog.ErrorContext(r.Context(), "Session create error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.renderLogin(w, r, "Login is unavailable right now")
		return
	}

	cookie := &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// Session cookies without remember-me expire with the browser session.
	if remember {
		cookie.Expires = expiresAt
	}
	http.SetCookie(w, cookie)

	slog.InfoContext(r.Context(), "Login succeeded",
		"username", username, "remember", remember, "expires_at", expiresAt.Format(time.RFC3339))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.authEnabled() {
		if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
			s.sessions.Destroy(cookie.Value)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
