package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

func rec(name string) AssetRecord {
	return AssetRecord{StoredName: name, OriginalName: name, AddedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)}
}

func names(records []AssetRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StoredName
	}
	return out
}

func TestParseAddedAt(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"2024-03-01 10:00:00", false},
		{"2024-03-01T10:00:00", true},
		{"2024-03-01", true},
		{"", true},
	}

	for _, tt := range tests {
		got, err := ParseAddedAt(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAddedAt(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got.Location() != time.Local {
			t.Errorf("ParseAddedAt(%q) location = %v, want Local", tt.value, got.Location())
		}
	}

	r := rec("a.jpg")
	if got := r.FormatAddedAt(); got != "2024-03-01 10:00:00" {
		t.Errorf("FormatAddedAt() = %q", got)
	}
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	if _, err := NewCatalog([]AssetRecord{rec("a.jpg"), rec("a.jpg")}); err == nil {
		t.Fatal("expected duplicate stored name to be rejected")
	}
	if _, err := NewCatalog([]AssetRecord{rec("")}); err == nil {
		t.Fatal("expected empty stored name to be rejected")
	}
}

func TestCatalog_OrderAndLookup(t *testing.T) {
	c, err := NewCatalog([]AssetRecord{rec("c.jpg"), rec("a.jpg")})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if err := c.Add(rec("b.jpg")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	want := []string{"c.jpg", "a.jpg", "b.jpg"}
	if got := names(c.Records()); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v, want %v", got, want)
	}
	if !c.Has("a.jpg") || c.Has("z.jpg") {
		t.Error("Has() returned wrong result")
	}
	if err := c.Add(rec("a.jpg")); err == nil {
		t.Error("Add() accepted a duplicate")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCatalog_RecordsIsACopy(t *testing.T) {
	c, _ := NewCatalog([]AssetRecord{rec("a.jpg")})
	records := c.Records()
	records[0].Description = "mutated"

	got, _ := c.Get("a.jpg")
	if got.Description != "" {
		t.Error("mutating Records() leaked into the catalog")
	}
}

func TestCatalog_RemoveReindexes(t *testing.T) {
	c, _ := NewCatalog([]AssetRecord{rec("a.jpg"), rec("b.jpg"), rec("c.jpg")})

	if !c.Remove("a.jpg") {
		t.Fatal("Remove(a.jpg) = false")
	}
	if c.Remove("a.jpg") {
		t.Error("second Remove(a.jpg) = true")
	}

	got, ok := c.Get("c.jpg")
	if !ok || got.StoredName != "c.jpg" {
		t.Errorf("Get(c.jpg) after remove = %v, %v", got, ok)
	}

	updated := rec("b.jpg")
	updated.Description = "new"
	if !c.Update(updated) {
		t.Fatal("Update(b.jpg) = false")
	}
	if got, _ := c.Get("b.jpg"); got.Description != "new" {
		t.Errorf("Update did not apply, got %q", got.Description)
	}
}

func TestCatalog_WithoutAndClone(t *testing.T) {
	c, _ := NewCatalog([]AssetRecord{rec("a.jpg"), rec("b.jpg")})

	if got := names(c.Without("a.jpg")); !reflect.DeepEqual(got, []string{"b.jpg"}) {
		t.Errorf("Without(a.jpg) = %v", got)
	}
	if c.Len() != 2 {
		t.Error("Without mutated the catalog")
	}

	clone := c.Clone()
	clone.Remove("b.jpg")
	if !c.Has("b.jpg") {
		t.Error("Clone shares state with the original")
	}
}

func TestCatalogError(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("wrapped: %w", NewError(ErrCopyFailed, "ingest", "a.jpg", cause))

	if !errors.Is(err, ErrCopyFailed) {
		t.Error("errors.Is(err, ErrCopyFailed) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause is not reachable through Unwrap")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is matched the wrong kind")
	}

	var ce *CatalogError
	if !errors.As(err, &ce) || ce.Op != "ingest" {
		t.Errorf("errors.As failed, got %v", ce)
	}
	if msg := err.Error(); !strings.Contains(msg, "copy failed") || !strings.Contains(msg, "a.jpg") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestVerifyReport_Consistent(t *testing.T) {
	if !(VerifyReport{Records: 1, Files: 1}).Consistent() {
		t.Error("clean report should be consistent")
	}
	if (VerifyReport{OrphanFiles: []string{"x.png"}}).Consistent() {
		t.Error("orphan should make the report inconsistent")
	}
}
