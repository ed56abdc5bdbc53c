package fetch

import (
	"context"
	"os"

	"github.com/otiai10/copy"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// localFetcher copies a template directory from disk, without its .git.
type localFetcher struct {
	dir    string
	source string
}

func (l *localFetcher) Kind() Kind     { return KindLocal }
func (l *localFetcher) Source() string { return l.source }

func (l *localFetcher) Fetch(ctx context.Context, dst string) error {
	if err := CheckDestination(dst); err != nil {
		return err
	}

	info, err := os.Stat(l.dir)
	if err != nil {
		return fetchError(KindLocal, l.source, err)
	}
	if !info.IsDir() {
		return errors.New("E111").
			WithDetail("'" + l.dir + "' is not a directory")
	}

	opts := copy.Options{
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			if err := ctx.Err(); err != nil {
				return true, err
			}
			return info.IsDir() && (info.Name() == ".git" || info.Name() == "node_modules"), nil
		},
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
	}
	if err := copy.Copy(l.dir, dst, opts); err != nil {
		return fetchError(KindLocal, l.source, err)
	}
	return nil
}
