package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/blobstore"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test-vsabench-%d/", time.Now().UnixNano())
	store, err := New(ctx, bucket, WithPrefix(prefix))
	require.NoError(t, err)

	data := make([]byte, 1024*1024)
	_, _ = rand.Read(data)
	src := filepath.Join(t.TempDir(), "src.embr")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	up, err := blobstore.Upload(ctx, store, "src.embr", src)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), up.Bytes)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "src.embr")

	dst := filepath.Join(t.TempDir(), "dst.embr")
	down, err := blobstore.Download(ctx, store, "src.embr", dst)
	require.NoError(t, err)
	assert.Equal(t, up.CRC32C, down.CRC32C)

	require.NoError(t, store.Delete(ctx, "src.embr"))
	_, err = store.Open(ctx, "src.embr")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
