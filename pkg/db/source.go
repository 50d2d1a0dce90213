package db

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yumyai/omicsatlas/internal/util"
)

// Defining possible error
var ErrSourceNotExists = errors.New("source file does not exist")

// SourceStore resolves ingestion inputs (FASTA, GenBank, GFF3, manifests).
// Plain paths are read from disk; s3://bucket/key is fetched from object storage.
type SourceStore struct {
	S3 *S3Source
}

// Open returns a reader for a local path or an s3:// URI. Names ending in
// .gz are decompressed on the fly.
func (ss *SourceStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	rc, err := ss.open(ctx, location)
	if err != nil || !strings.HasSuffix(location, ".gz") {
		return rc, err
	}
	gz, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return gzipReadCloser{Reader: gz, raw: rc}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	raw io.Closer
}

func (g gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.raw.Close(); err == nil {
		err = cerr
	}
	return err
}

func (ss *SourceStore) open(ctx context.Context, location string) (io.ReadCloser, error) {

	if strings.HasPrefix(location, "s3://") {
		if ss == nil || ss.S3 == nil {
			return nil, fmt.Errorf("%s: s3 source is not configured (set OMICS_S3_BUCKET)", location)
		}
		bucket, key, err := ParseS3URI(location)
		if err != nil {
			return nil, err
		}
		return ss.S3.Get(ctx, bucket, key)
	}

	if !util.FileExists(location) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotExists, location)
	}
	return os.Open(location)
}

// Expand lists the files under a local directory or an s3:// prefix ending
// in "/". Any other location is returned unchanged.
func (ss *SourceStore) Expand(ctx context.Context, location string) ([]string, error) {

	if strings.HasPrefix(location, "s3://") {
		if !strings.HasSuffix(location, "/") {
			return []string{location}, nil
		}
		if ss == nil || ss.S3 == nil {
			return nil, fmt.Errorf("%s: s3 source is not configured (set OMICS_S3_BUCKET)", location)
		}
		bucket, prefix, err := ParseS3URI(location)
		if err != nil {
			return nil, err
		}
		keys, err := ss.S3.List(ctx, bucket, prefix)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, key := range keys {
			if !strings.HasSuffix(key, "/") {
				out = append(out, "s3://"+bucket+"/"+key)
			}
		}
		return out, nil
	}

	if !util.DirExists(location) {
		return []string{location}, nil
	}
	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, filepath.Join(location, e.Name()))
		}
	}
	return out, nil
}

// ParseS3URI splits s3://bucket/some/key into bucket and key.
func ParseS3URI(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse %s: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q (want s3://bucket/key)", location)
	}
	return u.Host, key, nil
}
