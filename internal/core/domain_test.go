package core

import (
	"errors"
	"strings"
	"testing"
)

func TestProjectDraftValidate(t *testing.T) {
	good := ProjectDraft{Name: "Website relaunch", Active: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		d    ProjectDraft
		want error
	}{
		{ProjectDraft{Name: ""}, ErrEmptyName},
		{ProjectDraft{Name: "   "}, ErrEmptyName},
		{ProjectDraft{Name: strings.Repeat("x", 201)}, ErrNameTooLong},
	}
	for i, tc := range cases {
		if err := tc.d.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestClientDraftValidate(t *testing.T) {
	if err := (ClientDraft{Name: "ACME"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (ClientDraft{Name: " ", Email: "x@y.z"}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestEntryDraftValidate(t *testing.T) {
	good := EntryDraft{ProjectID: "7", Date: "2024-05-01", Hours: 1.5, Billable: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		d    EntryDraft
		want error
	}{
		{EntryDraft{Date: "2024-05-01", Hours: 1}, ErrMissingProject},
		{EntryDraft{ProjectID: "7", Date: "", Hours: 1}, ErrInvalidDate},
		{EntryDraft{ProjectID: "7", Date: "garbage", Hours: 1}, ErrInvalidDate},
		{EntryDraft{ProjectID: "7", Date: "2024-05-01", Hours: 0}, ErrInvalidHours},
		{EntryDraft{ProjectID: "7", Date: "2024-05-01", Hours: -2}, ErrInvalidHours},
	}
	for i, tc := range cases {
		if err := tc.d.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.5", 1.5, true},
		{"1,5", 1.5, true},
		{" 8 ", 8, true},
		{"0.25", 0.25, true},
		{"", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseHours(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseHours(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseHours(%q) expected error", tc.in)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(1.5); got != "1.50 h" {
		t.Fatalf("FormatHours(1.5) = %q", got)
	}
	if got := FormatHours(0); got != "0.00 h" {
		t.Fatalf("FormatHours(0) = %q", got)
	}
}
