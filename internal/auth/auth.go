// Package auth provides credential checking and cookie session tracking for
// the dashboard. The Authenticator is a replaceable collaborator so the
// static env-configured check can be swapped for a real identity provider.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// SessionCookie is the cookie name used for dashboard sessions.
const SessionCookie = "hourtracker_session"

// Authenticator verifies a username and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (bool, error)
}

// StaticAuthenticator checks against a single credential pair from config.
type StaticAuthenticator struct {
	username string
	password string
}

func NewStaticAuthenticator(username, password string) *StaticAuthenticator {
	return &StaticAuthenticator{username: username, password: password}
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (bool, error) {
	if a.username == "" {
		return false, fmt.Errorf("no credentials configured")
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK, nil
}

type session struct {
	username  string
	expiresAt time.Time
}

// SessionStore keeps sessions in memory, keyed by an opaque token.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]session
	ttl         time.Duration
	rememberTTL time.Duration

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func NewSessionStore(ttl, rememberTTL time.Duration) *SessionStore {
	s := &SessionStore{
		sessions:    make(map[string]session),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Create issues a new session token. Remember-me sessions get the longer TTL.
func (s *SessionStore) Create(username string, remember bool) (token string, expiresAt time.Time, err error) {
	token, err = generateToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}

	ttl := s.ttl
	if remember {
		ttl = s.rememberTTL
	}
	expiresAt = time.Now().Add(ttl)

	s.mu.Lock()
	s.sessions[token] = session{username: username, expiresAt: expiresAt}
	s.mu.Unlock()

	return token, expiresAt, nil
}

// Validate returns the session's username when the token is known and fresh.
func (s *SessionStore) Validate(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}
	return sess.username, true
}

// Destroy removes a session, if present.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// startCleanup runs periodic cleanup to remove expired sessions
func (s *SessionStore) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Stop gracefully shuts down the cleanup goroutine
func (s *SessionStore) Stop() {
	s.shutdownOnce.Do(func() {
		if s.stopCleanup != nil {
			close(s.stopCleanup)
		}
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
