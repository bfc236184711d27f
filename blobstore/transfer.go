package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/vsabench/internal/hash"
)

// Transfer summarises one Upload or Download.
type Transfer struct {
	Name   string
	Bytes  int64
	CRC32C uint32
}

// Upload streams the file at path into store under name.
func Upload(ctx context.Context, store BlobStore, name, path string) (Transfer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Transfer{}, err
	}
	defer f.Close()

	w, err := store.Create(ctx, name)
	if err != nil {
		return Transfer{}, fmt.Errorf("blobstore: create %s: %w", name, err)
	}

	sum := hash.NewCRC32C()
	n, err := io.Copy(io.MultiWriter(w, sum), f)
	if err != nil {
		_ = w.Abort()
		return Transfer{}, fmt.Errorf("blobstore: upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return Transfer{}, fmt.Errorf("blobstore: upload %s: %w", name, err)
	}
	return Transfer{Name: name, Bytes: n, CRC32C: sum.Sum32()}, nil
}

// Download copies blob name from store to path. The file is written to a
// temporary sibling and renamed, so path never holds a partial download.
func Download(ctx context.Context, store BlobStore, name, path string) (Transfer, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return Transfer{}, err
	}
	defer b.Close()

	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return Transfer{}, fmt.Errorf("blobstore: read %s: %w", name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Transfer{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return Transfer{}, err
	}
	defer os.Remove(tmp.Name())

	sum := hash.NewCRC32C()
	n, err := io.Copy(io.MultiWriter(tmp, sum), rc)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Transfer{}, fmt.Errorf("blobstore: download %s: %w", name, err)
	}
	if n != b.Size() {
		return Transfer{}, fmt.Errorf("blobstore: download %s: got %d of %d bytes: %w", name, n, b.Size(), io.ErrUnexpectedEOF)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Transfer{}, err
	}
	return Transfer{Name: name, Bytes: n, CRC32C: sum.Sum32()}, nil
}
