package export

import (
	"errors"
	"testing"
)

func bind(t *testing.T, header, values []string) *Record {
	t.Helper()
	rec, err := NewSchema(header).Bind(values, 2)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	return rec
}

func TestRecord_Require(t *testing.T) {
	rec := bind(t, []string{"id"}, []string{"F1"})

	if v, err := rec.Require("id"); err != nil || v != "F1" {
		t.Errorf("Require(id) = %q, %v", v, err)
	}

	_, err := rec.Require("mimeType")
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("Require(mimeType) error = %v, want MissingColumnError", err)
	}
	if missing.Column != "mimeType" || missing.Line != 2 {
		t.Errorf("MissingColumnError = %+v", missing)
	}
}

func TestRecord_Title(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		values []string
		want   string
	}{
		{"name wins", []string{"name", "title"}, []string{"Report", "Old"}, "Report"},
		{"empty name still wins", []string{"name", "title"}, []string{"", "Old"}, ""},
		{"title fallback", []string{"title"}, []string{"Old"}, "Old"},
		{"unknown", []string{"id"}, []string{"F1"}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bind(t, tt.header, tt.values).Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_UserEntries(t *testing.T) {
	header := []string{
		"id",
		"permissions.0.type", "permissions.0.role", "permissions.0.emailAddress", "permissions.0.domain", "permissions.0.id",
		"permissions.1.type", "permissions.1.role", "permissions.1.emailAddress", "permissions.1.domain", "permissions.1.id",
		"permissions.1.deleted", "permissions.1.permissionDetails.0.inherited",
		"permissions.2.type", "permissions.2.role", "permissions.2.emailAddress", "permissions.2.domain", "permissions.2.id",
	}
	values := []string{
		"F1",
		"user", "reader", "bob@x.com", "x.com", "101",
		"user", "writer", "carol@y.com", "y.com", "102", "True", "True",
		"group", "reader", "team@x.com", "x.com", "103",
	}

	entries := bind(t, header, values).UserEntries()
	if len(entries) != 2 {
		t.Fatalf("UserEntries() returned %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Index != "0" || first.Permission.EmailAddress != "bob@x.com" || first.Permission.Role != "reader" {
		t.Errorf("entries[0] = %+v", first.Permission)
	}
	if first.Deleted() || first.Inherited() {
		t.Error("entries[0] should be neither deleted nor inherited")
	}
	if id, err := first.PermissionID(); err != nil || id != "101" {
		t.Errorf("PermissionID() = %q, %v", id, err)
	}

	second := entries[1]
	if !second.Deleted() || !second.Inherited() {
		t.Error("entries[1] should be deleted and inherited")
	}
}

func TestEntry_MissingCompanions(t *testing.T) {
	header := []string{"permissions.4.type", "permissions.4.role", "permissions.4.emailAddress"}
	entries := bind(t, header, []string{"user", "reader", "bob@x.com"}).UserEntries()
	if len(entries) != 1 {
		t.Fatalf("UserEntries() returned %d entries, want 1", len(entries))
	}

	var missing *MissingColumnError
	if err := entries[0].CheckRequired(); !errors.As(err, &missing) || missing.Column != "permissions.4.domain" {
		t.Errorf("CheckRequired() = %v, want missing permissions.4.domain", err)
	}
	if _, err := entries[0].PermissionID(); !errors.As(err, &missing) || missing.Column != "permissions.4.id" {
		t.Errorf("PermissionID() = %v, want missing permissions.4.id", err)
	}
}

func TestEntry_BooleansAreExactText(t *testing.T) {
	header := []string{
		"permissions.0.type", "permissions.0.role", "permissions.0.emailAddress", "permissions.0.domain",
		"permissions.0.deleted", "permissions.0.permissionDetails.0.inherited",
	}
	entries := bind(t, header, []string{"user", "reader", "a@x.com", "x.com", "true", "TRUE"}).UserEntries()

	if entries[0].Deleted() || entries[0].Inherited() {
		t.Error("only the exact text True should count as true")
	}
}
