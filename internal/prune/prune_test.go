package prune

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/project"
)

func setupTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"lib/auth.ts", "lib/database.ts", "lib/storage.ts", "package.json"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func exists(dir, rel string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name     string
		selected project.FeatureSet
		kept     []string
		removed  []string
	}{
		{
			name:     "auth only",
			selected: project.NewFeatureSet(project.FeatureAuth),
			kept:     []string{"lib/auth.ts"},
			removed:  []string{"lib/database.ts", "lib/storage.ts"},
		},
		{
			name:     "auth and database",
			selected: project.NewFeatureSet(project.FeatureAuth, project.FeatureDatabase),
			kept:     []string{"lib/auth.ts", "lib/database.ts"},
			removed:  []string{"lib/storage.ts"},
		},
		{
			name:     "storage only",
			selected: project.NewFeatureSet(project.FeatureStorage),
			kept:     []string{"lib/storage.ts"},
			removed:  []string{"lib/auth.ts", "lib/database.ts"},
		},
		{
			name:     "everything",
			selected: project.NewFeatureSet(project.AllFeatures...),
			kept:     []string{"lib/auth.ts", "lib/database.ts", "lib/storage.ts"},
			removed:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTemplate(t)

			res, err := Prune(dir, tt.selected, project.DefaultFeatureTable())
			if err != nil {
				t.Fatalf("Prune() error: %v", err)
			}

			for _, rel := range tt.kept {
				if !exists(dir, rel) {
					t.Errorf("%s should be kept", rel)
				}
			}
			for _, rel := range tt.removed {
				if exists(dir, rel) {
					t.Errorf("%s should be removed", rel)
				}
			}
			if !exists(dir, "package.json") {
				t.Error("files outside the feature table must not be touched")
			}
			if diff := cmp.Diff(tt.removed, res.Removed); diff != "" {
				t.Errorf("Removed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrune_MissingIsNoop(t *testing.T) {
	dir := t.TempDir()

	res, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth), project.DefaultFeatureTable())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if len(res.Removed) != 0 {
		t.Errorf("Removed = %v, want none", res.Removed)
	}
	if diff := cmp.Diff([]string{"lib/database.ts", "lib/storage.ts"}, res.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}

	// Running again is still fine.
	if _, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth), project.DefaultFeatureTable()); err != nil {
		t.Errorf("second Prune() error: %v", err)
	}
}

func TestPrune_Directories(t *testing.T) {
	dir := setupTemplate(t)
	upload := filepath.Join(dir, "app", "api", "upload")
	os.MkdirAll(upload, 0755)
	os.WriteFile(filepath.Join(upload, "route.ts"), []byte("x"), 0644)

	table := project.DefaultFeatureTable()
	table[project.FeatureStorage] = []string{"lib/storage.ts", "app/api/upload"}

	if _, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth, project.FeatureDatabase), table); err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if exists(dir, "app/api/upload") {
		t.Error("feature directory should be removed")
	}
	if !exists(dir, "app/api") {
		t.Error("parent directory should be kept")
	}
}

func TestPrune_OtherErrorsAbort(t *testing.T) {
	dir := setupTemplate(t)

	table := project.DefaultFeatureTable()
	// A path component longer than any filesystem allows fails with
	// ENAMETOOLONG, which is not a "missing file".
	table[project.FeatureDatabase] = []string{"lib/" + strings.Repeat("d", 300) + ".ts"}

	_, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth), table)
	if errors.CodeOf(err) != "E120" {
		t.Fatalf("Prune() = %v, want E120", err)
	}
	if !exists(dir, "lib/auth.ts") {
		t.Error("selected feature file must survive a failed prune")
	}
}

func TestPrune_RejectsEscapingPaths(t *testing.T) {
	dir := setupTemplate(t)
	table := project.FeatureTable{project.FeatureStorage: {"../outside"}}

	_, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth), table)
	if errors.CodeOf(err) != "E121" {
		t.Errorf("Prune() = %v, want E121", err)
	}
}

func TestPrune_RejectsProjectRoot(t *testing.T) {
	for _, rel := range []string{".", "", "lib/..", "./"} {
		dir := setupTemplate(t)
		table := project.FeatureTable{
			project.FeatureAuth:    {"lib/auth.ts"},
			project.FeatureStorage: {rel},
		}

		_, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth), table)
		if errors.CodeOf(err) != "E121" {
			t.Errorf("Prune(%q) = %v, want E121", rel, err)
		}
		if !exists(dir, "lib/auth.ts") || !exists(dir, "package.json") {
			t.Errorf("Prune(%q) removed files of the template", rel)
		}
	}
}

func TestPrune_KeepsPathsOfSelectedFeatures(t *testing.T) {
	dir := setupTemplate(t)
	table := project.FeatureTable{
		project.FeatureAuth:    {"lib/auth.ts"},
		project.FeatureStorage: {"lib/storage.ts", "lib/auth.ts", "lib"},
	}

	res, err := Prune(dir, project.NewFeatureSet(project.FeatureAuth), table)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if !exists(dir, "lib/auth.ts") {
		t.Error("lib/auth.ts belongs to a selected feature and must stay")
	}
	if exists(dir, "lib/storage.ts") {
		t.Error("lib/storage.ts should be removed")
	}
	if diff := cmp.Diff([]string{"lib/storage.ts"}, res.Removed); diff != "" {
		t.Errorf("Removed mismatch (-want +got):\n%s", diff)
	}
}
