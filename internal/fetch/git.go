package fetch

import (
	"context"
	goerrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gitFetcher shallow-clones a repository and drops its history.
type gitFetcher struct {
	url      string
	ref      string
	progress io.Writer
	source   string
}

func (g *gitFetcher) Kind() Kind     { return KindGit }
func (g *gitFetcher) Source() string { return g.source }

func (g *gitFetcher) Fetch(ctx context.Context, dst string) error {
	if err := CheckDestination(dst); err != nil {
		return err
	}

	if g.ref == "" {
		if err := g.clone(ctx, dst, plumbing.HEAD); err != nil {
			return fetchError(KindGit, g.source, err)
		}
	} else {
		// A ref is tried as a branch first, then as a tag.
		err := g.clone(ctx, dst, plumbing.NewBranchReferenceName(g.ref))
		if isMissingRef(err) {
			if rmErr := os.RemoveAll(dst); rmErr != nil {
				return fetchError(KindGit, g.source, rmErr)
			}
			err = g.clone(ctx, dst, plumbing.NewTagReferenceName(g.ref))
		}
		if err != nil {
			return fetchError(KindGit, g.source, err)
		}
	}

	// The project gets a fresh history of its own later.
	if err := os.RemoveAll(filepath.Join(dst, git.GitDirName)); err != nil {
		return fetchError(KindGit, g.source, err)
	}
	return nil
}

func (g *gitFetcher) clone(ctx context.Context, dst string, ref plumbing.ReferenceName) error {
	_, err := git.PlainCloneContext(ctx, dst, false, &git.CloneOptions{
		URL:           g.url,
		ReferenceName: ref,
		Depth:         1,
		SingleBranch:  true,
		Tags:          git.NoTags,
		Progress:      g.progress,
	})
	return err
}

func isMissingRef(err error) bool {
	return goerrors.Is(err, git.NoMatchingRefSpecError{}) ||
		goerrors.Is(err, plumbing.ErrReferenceNotFound)
}
