package storage

import (
	"context"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type prefs struct {
		Skills    []string `json:"skills"`
		MinSalary int      `json:"minSalary"`
	}

	in := prefs{Skills: []string{"go", "sql"}, MinSalary: 90000}
	if err := m.SetJSON(ctx, KeyPrefs, in); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out prefs
	found, err := m.GetJSON(ctx, KeyPrefs, &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist")
	}
	if out.MinSalary != 90000 || len(out.Skills) != 2 {
		t.Errorf("round-trip mismatch: %+v", out)
	}
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()
	var out int
	found, err := m.GetJSON(context.Background(), KeyViewedCount, &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.SetJSON(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := m.Delete(ctx, KeyTheme); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var theme string
	found, _ := m.GetJSON(ctx, KeyTheme, &theme)
	if found {
		t.Error("deleted key still present")
	}
}
