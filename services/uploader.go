package services

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"

	"github.com/ateliermistral/site-backend/errs"
)

// BlobStore uploads binary payloads and returns durable public URLs. Keys
// must be unique per object; the store silently overwrites on collision.
type BlobStore interface {
	Upload(ctx context.Context, key string, content io.Reader) (string, error)
}

// BucketUploader implements BlobStore on a Cloud Storage bucket.
type BucketUploader struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewBucketUploader(bucket *storage.BucketHandle, bucketName string) *BucketUploader {
	return &BucketUploader{bucket: bucket, bucketName: bucketName}
}

func (u *BucketUploader) Upload(ctx context.Context, key string, content io.Reader) (string, error) {
	w := u.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, content); err != nil {
		w.Close()
		return "", errs.NewUploadError(key, err)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewUploadError(key, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, url.PathEscape(key)), nil
}
