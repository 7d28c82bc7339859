// Package minio provides a BlobStore backed by MinIO or any S3-compatible
// object store (Ceph, Garage, SeaweedFS) through the MinIO client.
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "my-bucket",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("sets/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	err = snapshot.Save(ctx, store, "visited", set)
//
// Without WithCredentials the client reads MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY from the environment. NewStore wraps an existing
// *minio.Client.
//
// Create streams through a pipe into a background PutObject; the object
// becomes visible when the writer is closed.
package minio
