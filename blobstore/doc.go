// Package blobstore moves dataset files to and from object storage.
//
// Datasets are immutable once written, so the store interface only needs
// whole-object writes, ranged reads, listing and deletion. Backends:
//
//   - LocalStore: a directory on the local file system
//   - MemoryStore: in-process, for tests
//   - s3.Store: Amazon S3 via aws-sdk-go-v2 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Locations are written as URLs:
//
//	s3://bucket/prefix/sparsevec_1m_10000_seed42.embr
//	minio://localhost:9000/bucket/prefix/sparsevec_1m_10000_seed42.embr
//	file:///data/datasets/sparsevec_1m_10000_seed42.embr
//
// Upload and Download stream a file through a CRC32C so both ends can be
// compared without a second pass.
package blobstore
