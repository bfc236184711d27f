package minio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/blobstore"
)

func TestDialRejectsBadEndpoint(t *testing.T) {
	_, err := Dial("http://not-a-host-port/with/path", "a", "b", false, "bucket", "")
	assert.Error(t, err)
}

func TestDialReadsCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY", "env-access")
	t.Setenv("MINIO_SECRET_KEY", "env-secret")

	s, err := Dial("localhost:9000", "", "", false, "bucket", "p/")
	require.NoError(t, err)
	assert.Equal(t, "p/x.embr", s.key("x.embr"))
}

// TestMinioStore_Integration requires a running MinIO instance at
// MINIO_ENDPOINT.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT not set")
	}

	ctx := context.Background()
	store, err := Dial(endpoint, "", "", false, "test-vsabench", fmt.Sprintf("run-%d/", time.Now().UnixNano()))
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(ctx))

	data := bytes.Repeat([]byte("minio dataset "), 1000)
	src := filepath.Join(t.TempDir(), "src.embr")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	up, err := blobstore.Upload(ctx, store, "src.embr", src)
	require.NoError(t, err)

	b, err := store.Open(ctx, "src.embr")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), b.Size())

	buf := make([]byte, 5)
	_, err = b.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(buf))
	require.NoError(t, b.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"src.embr"}, names)

	down, err := blobstore.Download(ctx, store, "src.embr", filepath.Join(t.TempDir(), "dst.embr"))
	require.NoError(t, err)
	assert.Equal(t, up.CRC32C, down.CRC32C)

	require.NoError(t, store.Delete(ctx, "src.embr"))
	_, err = store.Open(ctx, "src.embr")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
