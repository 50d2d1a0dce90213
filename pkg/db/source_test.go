package db

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves GetObject for the keys it holds and a NoSuchKey error otherwise.
type fakeS3 struct{ objects map[string]string }

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	key := strings.TrimPrefix(req.URL.Path, "/")
	if req.URL.Query().Get("list-type") == "2" {
		return f.list(strings.Trim(key, "/"), req.URL.Query().Get("prefix")), nil
	}
	if body, ok := f.objects[key]; ok && req.Method == http.MethodGet {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": {"text/plain"}},
		}, nil
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(bytes.NewReader([]byte(xml))),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}, nil
}

func (f *fakeS3) list(bucket, prefix string) *http.Response {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, bucket+"/"+prefix) {
			keys = append(keys, strings.TrimPrefix(k, bucket+"/"))
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
	fmt.Fprintf(&b, "<Name>%s</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>", bucket, prefix, len(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>1</Size></Contents>", k)
	}
	b.WriteString(`</ListBucketResult>`)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(b.String())),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

func newFakeS3Source(t *testing.T, objects map[string]string) *S3Source {
	t.Helper()
	src, err := NewS3Source(context.Background(), S3Config{
		Bucket:          "raw-genomes",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: &fakeS3{objects: objects}}
	})
	require.NoError(t, err)
	return src
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://raw-genomes/ko461/proteins.faa")
	require.NoError(t, err)
	assert.Equal(t, "raw-genomes", bucket)
	assert.Equal(t, "ko461/proteins.faa", key)

	for _, bad := range []string{"s3://bucket-only", "s3:///key", "http://x/y"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}

func TestSourceStoreLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.gff3")
	require.NoError(t, os.WriteFile(path, []byte("##gff-version 3\n"), 0o644))

	var ss SourceStore
	rc, err := ss.Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "##gff-version 3\n", string(body))

	_, err = ss.Open(context.Background(), path+".missing")
	assert.True(t, errors.Is(err, ErrSourceNotExists))
}

func TestSourceStoreS3(t *testing.T) {
	src := newFakeS3Source(t, map[string]string{"raw-genomes/ko461/proteins.faa": ">p1\nMKV\n"})
	ss := &SourceStore{S3: src}

	rc, err := ss.Open(context.Background(), "s3://raw-genomes/ko461/proteins.faa")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, ">p1\nMKV\n", string(body))

	_, err = ss.Open(context.Background(), "s3://raw-genomes/ko461/absent.faa")
	assert.True(t, errors.Is(err, ErrSourceNotExists))
}

func TestSourceStoreS3NotConfigured(t *testing.T) {
	var ss SourceStore
	_, err := ss.Open(context.Background(), "s3://raw-genomes/x.faa")
	assert.Error(t, err)
}

func TestSourceStoreOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proteins.faa.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(">p1\nMKV\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	var ss *SourceStore
	rc, err := ss.Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, ">p1\nMKV\n", string(body))
}

func TestSourceStoreExpand(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"b.gff3", "a.faa", ".hidden"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	var ss *SourceStore
	files, err := ss.Expand(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.faa"), filepath.Join(dir, "b.gff3")}, files)

	single, err := ss.Expand(ctx, filepath.Join(dir, "a.faa"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.faa")}, single)

	_, err = ss.Expand(ctx, "s3://raw-genomes/ko461/")
	assert.Error(t, err)

	src := newFakeS3Source(t, map[string]string{
		"raw-genomes/ko461/proteins.faa": ">p1\nMKV\n",
		"raw-genomes/ko461/genes.gff3":   "##gff-version 3\n",
		"raw-genomes/other/x.faa":        ">x\nM\n",
	})
	keys, err := (&SourceStore{S3: src}).Expand(ctx, "s3://raw-genomes/ko461/")
	require.NoError(t, err)
	assert.Equal(t, []string{"s3://raw-genomes/ko461/genes.gff3", "s3://raw-genomes/ko461/proteins.faa"}, keys)
}
