// Package project defines the answers a scaffolding run is driven by and the
// table mapping optional features to template files.
package project

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// FeatureID identifies an optional backend feature of the starter template.
type FeatureID string

const (
	FeatureAuth     FeatureID = "auth"
	FeatureDatabase FeatureID = "database"
	FeatureStorage  FeatureID = "storage"
)

// AllFeatures lists every known feature in questionnaire order.
var AllFeatures = []FeatureID{FeatureAuth, FeatureDatabase, FeatureStorage}

// DefaultFeatures is the pre-selected feature set.
var DefaultFeatures = []FeatureID{FeatureAuth, FeatureDatabase}

var featureTitles = map[FeatureID]string{
	FeatureAuth:     "Authentication",
	FeatureDatabase: "Database",
	FeatureStorage:  "Storage",
}

// Title returns the human readable name of the feature.
func (f FeatureID) Title() string {
	if t, ok := featureTitles[f]; ok {
		return t
	}
	return string(f)
}

// Known reports whether f is one of AllFeatures.
func (f FeatureID) Known() bool {
	_, ok := featureTitles[f]
	return ok
}

// ParseFeature converts a string to a FeatureID.
func ParseFeature(s string) (FeatureID, error) {
	f := FeatureID(strings.ToLower(strings.TrimSpace(s)))
	if !f.Known() {
		return "", errors.New("E101").
			WithDetail("Unknown feature '" + s + "'").
			WithSuggestion("Known features: auth, database, storage")
	}
	return f, nil
}

// FeatureSet is a set of selected features.
type FeatureSet map[FeatureID]struct{}

// NewFeatureSet builds a set from ids.
func NewFeatureSet(ids ...FeatureID) FeatureSet {
	s := make(FeatureSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s FeatureSet) Has(id FeatureID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the selected features in AllFeatures order, followed by
// any unknown ids sorted alphabetically.
func (s FeatureSet) Sorted() []FeatureID {
	out := make([]FeatureID, 0, len(s))
	for _, id := range AllFeatures {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	var extra []FeatureID
	for id := range s {
		if !id.Known() {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// Config holds the questionnaire answers for one run.
// It is built once by the collector and not modified afterwards.
type Config struct {
	// Name is the project name and the name of the directory that is created.
	Name string

	// Features are the backend features to keep.
	Features FeatureSet

	// Tailwind enables the CSS framework setup step.
	Tailwind bool

	// UILibrary enables the shadcn/ui setup step.
	UILibrary bool
}

// Validate checks the invariants the rest of the pipeline relies on.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("E101").
			WithDetail("Project name is required")
	}
	if len(c.Features) == 0 {
		return errors.New("E101").
			WithDetail("Select at least one feature")
	}
	for id := range c.Features {
		if !id.Known() {
			return errors.New("E101").
				WithDetail("Unknown feature '" + string(id) + "'").
				WithSuggestion("Known features: auth, database, storage")
		}
	}
	return nil
}

// FeatureTable maps each feature to the template-relative paths that belong
// to it. Adding a feature only requires a new entry here.
type FeatureTable map[FeatureID][]string

// DefaultFeatureTable is the mapping for the Next.js + Supabase starter.
func DefaultFeatureTable() FeatureTable {
	return FeatureTable{
		FeatureAuth:     {"lib/auth.ts"},
		FeatureDatabase: {"lib/database.ts"},
		FeatureStorage:  {"lib/storage.ts"},
	}
}

// Unselected returns the paths of every feature in the table that is not in
// selected, in a stable order. A path that is also claimed by a selected
// feature, or that contains one, is left out.
func (t FeatureTable) Unselected(selected FeatureSet) []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	var kept []string
	for _, id := range ids {
		if selected.Has(FeatureID(id)) {
			for _, p := range t[FeatureID(id)] {
				kept = append(kept, cleanRel(p))
			}
		}
	}

	var paths []string
	for _, id := range ids {
		if selected.Has(FeatureID(id)) {
			continue
		}
		for _, p := range t[FeatureID(id)] {
			if !covers(cleanRel(p), kept) {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// covers reports whether removing p would remove any of kept.
func covers(p string, kept []string) bool {
	for _, k := range kept {
		if k == p || strings.HasPrefix(k, p+"/") {
			return true
		}
	}
	return false
}

func cleanRel(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// Validate rejects empty paths, paths naming the project root, absolute
// paths and paths that climb out of the project.
func (t FeatureTable) Validate() error {
	for id, paths := range t {
		for _, p := range paths {
			clean := filepath.Clean(filepath.FromSlash(p))
			if strings.TrimSpace(p) == "" || clean == "." ||
				filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
				return errors.New("E121").
					WithDetail("Feature '" + string(id) + "' maps to '" + p + "'")
			}
		}
	}
	return nil
}
