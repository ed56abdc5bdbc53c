package fetch

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// S3API is the subset of the S3 client the s3 backend uses.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Fetcher downloads every object under bucket/prefix.
type s3Fetcher struct {
	bucket string
	prefix string
	client S3API
	source string
}

func (f *s3Fetcher) Kind() Kind     { return KindS3 }
func (f *s3Fetcher) Source() string { return f.source }

func (f *s3Fetcher) Fetch(ctx context.Context, dst string) error {
	if err := CheckDestination(dst); err != nil {
		return err
	}

	client := f.client
	if client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fetchError(KindS3, f.source, err)
		}
		client = s3.NewFromConfig(cfg)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fetchError(KindS3, f.source, err)
	}

	count := 0
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(f.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fetchError(KindS3, f.source, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, f.prefix)
			// Directory placeholder objects
			if rel == "" || strings.HasSuffix(rel, "/") {
				continue
			}
			target, err := objectPath(dst, rel)
			if err != nil {
				return err
			}
			if err := f.download(ctx, client, key, target); err != nil {
				return fetchError(KindS3, f.source, err)
			}
			count++
		}
	}

	if count == 0 {
		return errors.New("E111").
			WithDetail("No objects found under '" + f.source + "'").
			WithSuggestion("Check the bucket name and prefix")
	}
	return nil
}

func (f *s3Fetcher) download(ctx context.Context, client S3API, key, target string) error {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	file, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, out.Body); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// objectPath maps an object key relative to the prefix onto dst. Keys are
// cleaned as rooted paths so ".." segments cannot leave dst.
func objectPath(dst, rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", errors.New("E111").WithDetail("Invalid object key '" + rel + "'")
	}
	return filepath.Join(dst, filepath.FromSlash(clean[1:])), nil
}
