// Package minio stores datasets on MinIO or any other S3-compatible server
// through the MinIO client.
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "bench", "datasets/")
//	if err != nil {
//	    return err
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    return err
//	}
//	_, err = blobstore.Upload(ctx, store, name, path)
//
// Credentials fall back to MINIO_ACCESS_KEY and MINIO_SECRET_KEY when the
// arguments are empty.
package minio
