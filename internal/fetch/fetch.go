// Package fetch materializes a starter template into a fresh directory.
//
// A template source is resolved to one of four backends:
//
//	https://github.com/owner/repo     git (shallow clone, history removed)
//	github:owner/repo#branch          git
//	https://host/starter.tar.gz       archive (go-getter, also "getter::<src>")
//	s3://bucket/prefix                s3
//	file:///path, ./path              local directory copy
//
// Every backend writes a plain file tree with no version-control metadata and
// never reuses a local cache.
package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// Kind is the backend a source resolves to.
type Kind string

const (
	KindGit     Kind = "git"
	KindArchive Kind = "archive"
	KindS3      Kind = "s3"
	KindLocal   Kind = "local"
)

// Fetcher materializes a template into a directory.
type Fetcher interface {
	// Fetch writes the template tree into dst. dst must not exist or be empty.
	Fetch(ctx context.Context, dst string) error

	// Kind reports the backend.
	Kind() Kind

	// Source returns the source the fetcher was created for.
	Source() string
}

// Options configures backend construction.
type Options struct {
	// S3Client overrides the S3 client. If nil one is built from the default
	// AWS configuration when the first s3 fetch runs.
	S3Client S3API

	// Progress receives git clone progress. May be nil.
	Progress io.Writer
}

// Option configures a Fetcher.
type Option func(*Options)

// WithS3Client sets the S3 client used by s3:// sources.
func WithS3Client(c S3API) Option {
	return func(o *Options) {
		o.S3Client = c
	}
}

// WithProgress sets the writer git progress is written to.
func WithProgress(w io.Writer) Option {
	return func(o *Options) {
		o.Progress = w
	}
}

var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".zip"}

// New resolves source to a Fetcher.
func New(source string, opts ...Option) (Fetcher, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	source = strings.TrimSpace(source)
	lower := strings.ToLower(source)

	switch {
	case source == "":
		return nil, errors.New("E110").WithDetail("Template source is empty")

	case strings.HasPrefix(source, "getter::"):
		return &archiveFetcher{src: strings.TrimPrefix(source, "getter::"), source: source}, nil

	case strings.HasPrefix(lower, "s3://"):
		bucket, prefix, err := parseS3(source)
		if err != nil {
			return nil, err
		}
		return &s3Fetcher{bucket: bucket, prefix: prefix, client: o.S3Client, source: source}, nil

	case strings.HasPrefix(lower, "github:"):
		url, ref, err := parseGitHub(strings.TrimPrefix(source, source[:len("github:")]))
		if err != nil {
			return nil, err
		}
		return &gitFetcher{url: url, ref: ref, progress: o.Progress, source: source}, nil

	case strings.HasPrefix(lower, "file://"):
		return &localFetcher{dir: strings.TrimPrefix(source, source[:len("file://")]), source: source}, nil

	case isRemote(lower) && hasArchiveSuffix(lower):
		return &archiveFetcher{src: source, source: source}, nil

	case isRemote(lower) || strings.HasPrefix(lower, "git@") || strings.HasSuffix(lower, ".git"):
		url, ref := splitRef(source)
		return &gitFetcher{url: url, ref: ref, progress: o.Progress, source: source}, nil
	}

	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return &localFetcher{dir: source, source: source}, nil
	}

	return nil, errors.New("E110").
		WithDetail("Cannot use '" + source + "' as a template source").
		WithSuggestion("Use a git URL, github:owner/repo, an archive URL, s3://bucket/prefix or a local directory")
}

// CheckDestination returns E112 when dst exists and is not an empty directory.
func CheckDestination(dst string) error {
	info, err := os.Stat(dst)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.New("E112").Wrap(err)
	}
	if !info.IsDir() {
		return errors.New("E112").
			WithDetail("'" + dst + "' exists and is not a directory").
			WithSuggestion("Choose a different project name or remove the existing file")
	}
	entries, err := os.ReadDir(dst)
	if err != nil {
		return errors.New("E112").Wrap(err)
	}
	if len(entries) > 0 {
		return errors.New("E112").
			WithDetail("Directory '" + filepath.Base(dst) + "' already exists and is not empty").
			WithSuggestion("Choose a different project name or remove the existing directory")
	}
	return nil
}

func isRemote(lower string) bool {
	return strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "ssh://")
}

func hasArchiveSuffix(lower string) bool {
	// Ignore query strings such as ?token=...
	if i := strings.IndexByte(lower, '?'); i >= 0 {
		lower = lower[:i]
	}
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// splitRef splits "url#ref" into its parts.
func splitRef(source string) (string, string) {
	if i := strings.LastIndexByte(source, '#'); i >= 0 {
		return source[:i], source[i+1:]
	}
	return source, ""
}

// parseGitHub turns "owner/repo[#ref]" into a clone URL.
func parseGitHub(src string) (string, string, error) {
	repo, ref := splitRef(src)
	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New("E110").
			WithDetail("Expected github:owner/repo, got 'github:" + src + "'")
	}
	return "https://github.com/" + parts[0] + "/" + strings.TrimSuffix(parts[1], ".git") + ".git", ref, nil
}

// parseS3 splits "s3://bucket/prefix" into bucket and key prefix.
func parseS3(source string) (string, string, error) {
	rest := source[len("s3://"):]
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", errors.New("E110").
			WithDetail("Expected s3://bucket/prefix, got '" + source + "'")
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return bucket, prefix, nil
}

// fetchError wraps a backend failure into E111.
func fetchError(kind Kind, source string, err error) error {
	if se, ok := errors.As(err); ok {
		return se
	}
	return errors.New("E111").
		WithDetail("Could not fetch " + string(kind) + " template '" + source + "'").
		Wrap(err)
}
