package core

import (
	"errors"
	"strings"
)

type (
	// ID is an opaque record identifier assigned by the remote service.
	// It is passed through unchanged; uniqueness is the server's concern.
	ID string

	// Project is the normalized local shape of an upstream project record.
	// ClientName is empty when the project has no client.
	Project struct {
		ID         ID
		Name       string
		ClientName string
		Active     bool
	}

	// Client is a billing client a project may belong to.
	Client struct {
		ID    ID
		Name  string
		Email string
	}

	// TimeEntry is the normalized local shape of an upstream time entry.
	// Date is a date-only value in YYYY-MM-DD form, never a timestamp.
	TimeEntry struct {
		ID        ID
		ProjectID ID
		Date      string
		Hours     float64
		Notes     string
		Billable  bool
	}
)

var (
	ErrEmptyName      = errors.New("empty name")
	ErrMissingProject = errors.New("missing project")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidHours   = errors.New("invalid hours")
	ErrNameTooLong    = errors.New("name too long (max 200 characters)")
)

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// ProjectDraft carries user input for creating a project.
type ProjectDraft struct {
	Name     string
	ClientID ID // zero means no client
	Active   bool
}

func (d ProjectDraft) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}

// ClientDraft carries user input for creating a client.
type ClientDraft struct {
	Name  string
	Email string // optional
}

func (d ClientDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// EntryDraft carries user input for recording a time entry.
type EntryDraft struct {
	ProjectID ID
	Date      string // YYYY-MM-DD
	Hours     float64
	Notes     string
	Billable  bool
}

func (d EntryDraft) Validate() error {
	if d.ProjectID.IsZero() {
		return ErrMissingProject
	}
	if _, ok := ParseDateOnly(d.Date); !ok {
		return ErrInvalidDate
	}
	if d.Hours <= 0 {
		return ErrInvalidHours
	}
	return nil
}
