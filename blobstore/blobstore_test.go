package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/internal/hash"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw  string
		want Location
	}{
		{"s3://bucket/datasets/a.embr", Location{Scheme: SchemeS3, Bucket: "bucket", Key: "datasets/a.embr"}},
		{"s3://bucket", Location{Scheme: SchemeS3, Bucket: "bucket"}},
		{"minio://localhost:9000/bench/a.embr", Location{Scheme: SchemeMinio, Endpoint: "localhost:9000", Bucket: "bench", Key: "a.embr"}},
		{"file:///data/a.embr", Location{Scheme: SchemeFile, Key: "/data/a.embr"}},
		{"out/a.embr", Location{Scheme: SchemeFile, Key: "out/a.embr"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURLErrors(t *testing.T) {
	for _, raw := range []string{"", "s3:///key", "minio://host/", "gs://bucket/key", "file://"} {
		_, err := ParseURL(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestLocationHelpers(t *testing.T) {
	loc, err := ParseURL("s3://bucket/datasets/")
	require.NoError(t, err)
	assert.True(t, loc.IsPrefix())

	obj := loc.Join("a.embr")
	assert.False(t, obj.IsPrefix())
	assert.Equal(t, "datasets/a.embr", obj.Key)
	assert.Equal(t, "a.embr", obj.Base())
	assert.Equal(t, "s3://bucket/datasets/a.embr", obj.String())

	m := Location{Scheme: SchemeMinio, Endpoint: "h:9000", Bucket: "b", Key: "k"}
	assert.Equal(t, "minio://h:9000/b/k", m.String())

	f := Location{Scheme: SchemeFile, Key: "/data"}.Join("x.embr")
	assert.Equal(t, "/data/x.embr", f.String())
}

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := s.Create(ctx, "sets/a.embr")
			require.NoError(t, err)
			_, err = w.Write([]byte("hello dataset"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			b, err := s.Open(ctx, "sets/a.embr")
			require.NoError(t, err)
			assert.Equal(t, int64(13), b.Size())

			buf := make([]byte, 5)
			_, err = b.ReadAt(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(buf))

			rc, err := b.ReadRange(ctx, 6, 100)
			require.NoError(t, err)
			rest, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "dataset", string(rest))
			require.NoError(t, rc.Close())
			require.NoError(t, b.Close())

			aborted, err := s.Create(ctx, "sets/b.embr")
			require.NoError(t, err)
			_, err = aborted.Write([]byte("partial"))
			require.NoError(t, err)
			require.NoError(t, aborted.Abort())
			require.NoError(t, aborted.Close())

			names, err := s.List(ctx, "sets/")
			require.NoError(t, err)
			assert.Equal(t, []string{"sets/a.embr"}, names)

			_, err = s.Open(ctx, "sets/b.embr")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Delete(ctx, "sets/a.embr"))
			require.NoError(t, s.Delete(ctx, "sets/a.embr"))
			_, err = s.Open(ctx, "sets/a.embr")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLocalStoreListMissingRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestUploadDownload(t *testing.T) {
	ctx := context.Background()
	data := bytes.Repeat([]byte("EMBR_DST"), 10_000)

	src := filepath.Join(t.TempDir(), "src.embr")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			up, err := Upload(ctx, s, "d/src.embr", src)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), up.Bytes)
			assert.Equal(t, hash.CRC32C(data), up.CRC32C)

			dst := filepath.Join(t.TempDir(), "nested", "dst.embr")
			down, err := Download(ctx, s, "d/src.embr", dst)
			require.NoError(t, err)
			assert.Equal(t, up, Transfer{Name: "d/src.embr", Bytes: down.Bytes, CRC32C: down.CRC32C})

			got, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			entries, err := os.ReadDir(filepath.Dir(dst))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestDownloadMissing(t *testing.T) {
	_, err := Download(context.Background(), NewMemoryStore(), "nope", filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadMissingFile(t *testing.T) {
	_, err := Upload(context.Background(), NewMemoryStore(), "x", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
