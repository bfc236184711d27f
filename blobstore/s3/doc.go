// Package s3 stores datasets in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	if err != nil {
//	    return err
//	}
//	_, err = blobstore.Upload(ctx, store, "sparsevec_1m_10000_seed42.embr", path)
//
// Credentials come from the default AWS chain (environment, shared config,
// instance role). Uploads go through the multipart uploader with CRC32C
// checksums; reads are ranged GETs.
package s3
