// Package adapt normalizes loosely-shaped upstream records into strict core
// types. The remote service is treated as unpredictable in shape: fields may
// be missing, aliased, nested, or mistyped. Every function here is total:
// malformed input degrades to a documented default, it never produces an
// error.
package adapt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"hourtracker/internal/core"
)

// projectNameLookups is the ordered accessor chain for the project display
// name. The first candidate yielding a non-empty trimmed string wins.
var projectNameLookups = []func(map[string]any) any{
	func(r map[string]any) any { return r["name"] },
	func(r map[string]any) any { return r["projectName"] },
	func(r map[string]any) any { return r["title"] },
	func(r map[string]any) any { return nested(r, "project")["name"] },
}

// Project normalizes a raw project object. A nil input yields a record with
// every field at its default, including the synthesized placeholder name.
func Project(raw map[string]any) core.Project {
	id := idOf(raw["id"])

	name := ""
	for _, lookup := range projectNameLookups {
		if s := strings.TrimSpace(stringOf(lookup(raw))); s != "" {
			name = s
			break
		}
	}
	if name == "" {
		ref := "?"
		if !id.IsZero() {
			ref = id.String()
		}
		name = "(untitled project #" + ref + ")"
	}

	clientName := stringOf(raw["clientName"])
	if clientName == "" {
		clientName = stringOf(nested(raw, "client")["name"])
	}

	return core.Project{
		ID:         id,
		Name:       name,
		ClientName: clientName,
		Active:     truthy(raw["active"]),
	}
}

// Client normalizes a raw client object.
func Client(raw map[string]any) core.Client {
	return core.Client{
		ID:    idOf(raw["id"]),
		Name:  strings.TrimSpace(stringOf(raw["name"])),
		Email: strings.TrimSpace(stringOf(raw["email"])),
	}
}

// Entry normalizes a raw time-entry object. The project id may be flat
// (projectId) or embedded in a nested project object; hours may arrive as a
// number or a numeric string and default to 0 when neither.
func Entry(raw map[string]any) core.TimeEntry {
	projectID := idOf(raw["projectId"])
	if projectID.IsZero() {
		projectID = idOf(nested(raw, "project")["id"])
	}

	return core.TimeEntry{
		ID:        idOf(raw["id"]),
		ProjectID: projectID,
		Date:      stringOf(raw["date"]),
		Hours:     hoursOf(raw["hours"]),
		Notes:     stringOf(raw["notes"]),
		Billable:  truthy(raw["billable"]),
	}
}

// Records extracts the list of raw objects from a decoded list payload. The
// service returns either a bare JSON array or a paged object carrying a
// "content" array. Elements that are not objects come back as nil maps, which
// the per-record adapters turn into default records.
func Records(payload any) []map[string]any {
	items, ok := payload.([]any)
	if !ok {
		if obj, isObj := payload.(map[string]any); isObj {
			items, _ = obj["content"].([]any)
		}
	}
	if items == nil {
		return nil
	}
	out := make([]map[string]any, len(items))
	for i, item := range items {
		m, _ := item.(map[string]any)
		out[i] = m
	}
	return out
}

// Projects adapts a decoded list payload into normalized projects.
func Projects(payload any) []core.Project {
	raws := Records(payload)
	out := make([]core.Project, len(raws))
	for i, raw := range raws {
		out[i] = Project(raw)
	}
	return out
}

// Clients adapts a decoded list payload into normalized clients.
func Clients(payload any) []core.Client {
	raws := Records(payload)
	out := make([]core.Client, len(raws))
	for i, raw := range raws {
		out[i] = Client(raw)
	}
	return out
}

// Entries adapts a decoded list payload into normalized time entries.
func Entries(payload any) []core.TimeEntry {
	raws := Records(payload)
	out := make([]core.TimeEntry, len(raws))
	for i, raw := range raws {
		out[i] = Entry(raw)
	}
	return out
}

// nested returns the named field as an object, or a nil map when it is
// absent or not an object. Indexing a nil map is safe, which keeps the
// accessor chains above free of nil checks.
func nested(raw map[string]any, key string) map[string]any {
	m, _ := raw[key].(map[string]any)
	return m
}

// stringOf renders a scalar JSON value as a string. Objects and arrays have
// no sensible string form and yield "".
func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// idOf normalizes a scalar identifier into an opaque ID, "" when absent.
func idOf(v any) core.ID {
	return core.ID(stringOf(v))
}

// truthy coerces any JSON value to a boolean: nil, false, 0, and "" are
// false; everything else, including objects and arrays, is true.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case string:
		return b != ""
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// hoursOf coerces an hours value to a finite float64. Numbers are kept,
// numeric strings are parsed, anything else defaults to 0 (best-effort
// import; the strict path for user input is core.ParseHours).
func hoursOf(v any) float64 {
	switch h := v.(type) {
	case float64:
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return 0
		}
		return h
	case json.Number:
		f, err := h.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
