// Package prune removes template files that belong to features the user did
// not select.
package prune

import (
	"os"
	"path/filepath"

	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/project"
)

// Result lists what a prune pass did.
type Result struct {
	// Removed are the template-relative paths that were deleted.
	Removed []string

	// Missing are the paths that were already absent.
	Missing []string
}

// Prune deletes the files of every feature in table that is not selected.
// A path that does not exist is not an error. Any other failure stops the
// pass and returns an E120 error naming the path.
func Prune(dir string, selected project.FeatureSet, table project.FeatureTable) (Result, error) {
	var res Result

	if err := table.Validate(); err != nil {
		return res, err
	}

	for _, rel := range table.Unselected(selected) {
		target := filepath.Join(dir, filepath.FromSlash(rel))

		if _, err := os.Lstat(target); err != nil {
			if os.IsNotExist(err) {
				res.Missing = append(res.Missing, rel)
				continue
			}
			return res, removeError(rel, err)
		}

		if err := os.RemoveAll(target); err != nil {
			return res, removeError(rel, err)
		}
		res.Removed = append(res.Removed, rel)
	}
	return res, nil
}

func removeError(rel string, err error) error {
	return errors.New("E120").
		WithDetail("Could not remove '" + rel + "'").
		WithSuggestion("Check the permissions of the project directory").
		Wrap(err)
}
