package adapt

import (
	"encoding/json"
	"reflect"
	"testing"

	"hourtracker/internal/core"
)

// decode mimics what the API client hands the adapter: json.Unmarshal into any.
func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return m
}

func TestProjectNameResolution(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain name", `{"id": 1, "name": "Alpha"}`, "Alpha"},
		{"trimmed", `{"id": 1, "name": "  Alpha  "}`, "Alpha"},
		{"projectName alias", `{"id": 1, "projectName": "Beta"}`, "Beta"},
		{"title alias", `{"id": 1, "title": "Gamma"}`, "Gamma"},
		{"nested project", `{"id": 1, "project": {"name": "Delta"}}`, "Delta"},
		{"name wins over alias", `{"id": 1, "name": "A", "projectName": "B", "title": "C"}`, "A"},
		{"empty name falls through", `{"id": 1, "name": "  ", "projectName": "B"}`, "B"},
		{"numeric name stringified", `{"id": 1, "name": 42}`, "42"},
		{"placeholder with id", `{"id": 9}`, "(untitled project #9)"},
		{"placeholder without id", `{}`, "(untitled project #?)"},
		{"placeholder with string id", `{"id": "abc"}`, "(untitled project #abc)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Project(decode(t, tc.raw)).Name; got != tc.want {
				t.Fatalf("Name = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProjectClientName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`{"clientName": "ACME"}`, "ACME"},
		{`{"client": {"name": "Globex"}}`, "Globex"},
		{`{"clientName": "ACME", "client": {"name": "Globex"}}`, "ACME"},
		{`{"client": {}}`, ""},
		{`{"client": "oops"}`, ""},
		{`{}`, ""},
	}
	for _, tc := range cases {
		if got := Project(decode(t, tc.raw)).ClientName; got != tc.want {
			t.Errorf("ClientName for %s = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestProjectActiveCoercion(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"active": true}`, true},
		{`{"active": 1}`, true},
		{`{"active": "yes"}`, true},
		{`{"active": {}}`, true},
		{`{"active": false}`, false},
		{`{"active": 0}`, false},
		{`{"active": ""}`, false},
		{`{"active": null}`, false},
		{`{}`, false},
	}
	for _, tc := range cases {
		if got := Project(decode(t, tc.raw)).Active; got != tc.want {
			t.Errorf("Active for %s = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestProjectConcrete(t *testing.T) {
	got := Project(decode(t, `{"id": 7, "active": 1}`))
	want := core.Project{ID: "7", Name: "(untitled project #7)", ClientName: "", Active: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestProjectNilInput(t *testing.T) {
	got := Project(nil)
	want := core.Project{Name: "(untitled project #?)"}
	if got != want {
		t.Fatalf("Project(nil) = %+v, want %+v", got, want)
	}
}

func TestProjectDeterministic(t *testing.T) {
	raw := decode(t, `{"id": 3, "title": " X ", "client": {"name": "ACME"}, "active": "on"}`)
	first := Project(raw)
	second := Project(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("adapter is not deterministic: %+v != %+v", first, second)
	}
}

func TestEntryHoursCoercion(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`{"hours": 2.5}`, 2.5},
		{`{"hours": "2.5"}`, 2.5},
		{`{"hours": "1.5"}`, 1.5},
		{`{"hours": " 3 "}`, 3},
		{`{"hours": "abc"}`, 0},
		{`{"hours": null}`, 0},
		{`{"hours": true}`, 0},
		{`{"hours": []}`, 0},
		{`{}`, 0},
	}
	for _, tc := range cases {
		if got := Entry(decode(t, tc.raw)).Hours; got != tc.want {
			t.Errorf("Hours for %s = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestEntryProjectID(t *testing.T) {
	cases := []struct {
		raw  string
		want core.ID
	}{
		{`{"projectId": 7}`, "7"},
		{`{"projectId": "p-7"}`, "p-7"},
		{`{"project": {"id": 9}}`, "9"},
		{`{"projectId": 7, "project": {"id": 9}}`, "7"},
		{`{}`, ""},
	}
	for _, tc := range cases {
		if got := Entry(decode(t, tc.raw)).ProjectID; got != tc.want {
			t.Errorf("ProjectID for %s = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestEntryConcrete(t *testing.T) {
	raw := decode(t, `{"id": 3, "projectId": 7, "date": "2024-05-01", "hours": "1.5", "billable": 1}`)
	got := Entry(raw)
	want := core.TimeEntry{ID: "3", ProjectID: "7", Date: "2024-05-01", Hours: 1.5, Notes: "", Billable: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEntryNilInput(t *testing.T) {
	if got := Entry(nil); got != (core.TimeEntry{}) {
		t.Fatalf("Entry(nil) = %+v, want zero entry", got)
	}
}

func TestClientAdapt(t *testing.T) {
	got := Client(decode(t, `{"id": "c1", "name": " ACME ", "email": "billing@acme.test"}`))
	want := core.Client{ID: "c1", Name: "ACME", Email: "billing@acme.test"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRecordsShapes(t *testing.T) {
	var bare any
	if err := json.Unmarshal([]byte(`[{"id": 1}, {"id": 2}]`), &bare); err != nil {
		t.Fatal(err)
	}
	if got := len(Records(bare)); got != 2 {
		t.Fatalf("bare array: %d records", got)
	}

	var paged any
	if err := json.Unmarshal([]byte(`{"content": [{"id": 1}], "totalPages": 3}`), &paged); err != nil {
		t.Fatal(err)
	}
	if got := len(Records(paged)); got != 1 {
		t.Fatalf("paged object: %d records", got)
	}

	if Records(nil) != nil {
		t.Fatal("nil payload should yield no records")
	}
	if Records("garbage") != nil {
		t.Fatal("scalar payload should yield no records")
	}
}

func TestProjectsFromPayload(t *testing.T) {
	var payload any
	if err := json.Unmarshal([]byte(`[{"id": 1, "name": "A"}, "junk", {"id": 2}]`), &payload); err != nil {
		t.Fatal(err)
	}
	got := Projects(payload)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Name != "A" {
		t.Errorf("got[0].Name = %q", got[0].Name)
	}
	// Non-object elements degrade to default records rather than failing.
	if got[1].Name != "(untitled project #?)" {
		t.Errorf("got[1].Name = %q", got[1].Name)
	}
	if got[2].Name != "(untitled project #2)" {
		t.Errorf("got[2].Name = %q", got[2].Name)
	}
}
