package project

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nextbase-dev/nextbase/internal/errors"
)

func TestParseFeature(t *testing.T) {
	tests := []struct {
		in      string
		want    FeatureID
		wantErr bool
	}{
		{"auth", FeatureAuth, false},
		{" Database ", FeatureDatabase, false},
		{"storage", FeatureStorage, false},
		{"billing", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFeature(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				if errors.CodeOf(err) != "E101" {
					t.Errorf("code = %q, want E101", errors.CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFeature(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFeatureSet_Sorted(t *testing.T) {
	s := NewFeatureSet(FeatureStorage, FeatureAuth)
	want := []FeatureID{FeatureAuth, FeatureStorage}
	if diff := cmp.Diff(want, s.Sorted()); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Name: "demo", Features: NewFeatureSet(FeatureAuth)}, false},
		{"name with spaces is accepted", Config{Name: "my app", Features: NewFeatureSet(FeatureAuth)}, false},
		{"empty name", Config{Name: "", Features: NewFeatureSet(FeatureAuth)}, true},
		{"blank name is accepted", Config{Name: "   ", Features: NewFeatureSet(FeatureAuth)}, false},
		{"no features", Config{Name: "demo", Features: NewFeatureSet()}, true},
		{"unknown feature", Config{Name: "demo", Features: NewFeatureSet("billing")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFeatureTable_Unselected(t *testing.T) {
	table := DefaultFeatureTable()

	tests := []struct {
		name     string
		selected FeatureSet
		want     []string
	}{
		{"auth only", NewFeatureSet(FeatureAuth), []string{"lib/database.ts", "lib/storage.ts"}},
		{"auth and database", NewFeatureSet(FeatureAuth, FeatureDatabase), []string{"lib/storage.ts"}},
		{"everything", NewFeatureSet(AllFeatures...), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Unselected(tt.selected)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Unselected() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeatureTable_UnselectedKeepsSharedPaths(t *testing.T) {
	table := FeatureTable{
		FeatureAuth:     {"lib/auth.ts", "app/(auth)/login/page.tsx"},
		FeatureDatabase: {"lib/database.ts"},
		FeatureStorage:  {"lib/storage.ts", "./lib/auth.ts", "app/(auth)"},
	}

	got := table.Unselected(NewFeatureSet(FeatureAuth, FeatureDatabase))
	if diff := cmp.Diff([]string{"lib/storage.ts"}, got); diff != "" {
		t.Errorf("Unselected() mismatch (-want +got):\n%s", diff)
	}

	got = table.Unselected(NewFeatureSet(FeatureDatabase))
	want := []string{"lib/auth.ts", "app/(auth)/login/page.tsx", "lib/storage.ts", "./lib/auth.ts", "app/(auth)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unselected() mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureTable_Validate(t *testing.T) {
	if err := DefaultFeatureTable().Validate(); err != nil {
		t.Errorf("default table invalid: %v", err)
	}

	bad := []FeatureTable{
		{FeatureAuth: {"/etc/passwd"}},
		{FeatureAuth: {"../outside.ts"}},
		{FeatureAuth: {".."}},
		{FeatureStorage: {"."}},
		{FeatureStorage: {""}},
		{FeatureStorage: {"lib/.."}},
		{FeatureStorage: {"./"}},
	}
	for _, table := range bad {
		err := table.Validate()
		if errors.CodeOf(err) != "E121" {
			t.Errorf("Validate(%v) = %v, want E121", table, err)
		}
	}
}

func TestFeatureID_Title(t *testing.T) {
	if FeatureAuth.Title() != "Authentication" {
		t.Errorf("Title = %q", FeatureAuth.Title())
	}
	if FeatureID("x").Title() != "x" {
		t.Errorf("unknown Title = %q", FeatureID("x").Title())
	}
}
