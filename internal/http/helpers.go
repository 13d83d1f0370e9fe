package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hourtracker/internal/core"
)

// requestIDKey is the context key carrying the per-request trace id.
type requestIDKey struct{}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// formIsChecked reports whether a checkbox-style form value is set.
func formIsChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// queryProjectID extracts the project id from the request, form or query.
func queryProjectID(r *http.Request) core.ID {
	if v := strings.TrimSpace(r.URL.Query().Get("projectId")); v != "" {
		return core.ID(v)
	}
	return core.ID(strings.TrimSpace(r.Form.Get("project_id")))
}
