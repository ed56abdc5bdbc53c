package fetch

import (
	"context"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
)

// archiveFetcher downloads and unpacks an archive (or anything else go-getter
// understands) into the destination.
type archiveFetcher struct {
	src    string
	source string
}

func (a *archiveFetcher) Kind() Kind     { return KindArchive }
func (a *archiveFetcher) Source() string { return a.source }

func (a *archiveFetcher) Fetch(ctx context.Context, dst string) error {
	if err := CheckDestination(dst); err != nil {
		return err
	}

	pwd, _ := os.Getwd()
	client := &getter.Client{
		Ctx:  ctx,
		Src:  a.src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return fetchError(KindArchive, a.source, err)
	}

	// go-getter keeps .git when the forced source was git::
	if err := os.RemoveAll(filepath.Join(dst, ".git")); err != nil {
		return fetchError(KindArchive, a.source, err)
	}
	return nil
}
