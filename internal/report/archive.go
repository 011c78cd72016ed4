package report

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// ObjectStore is the part of an S3 client the archive needs.
// Implemented by internal/platform/s3.Client.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

// Archive uploads runs to object storage.
type Archive struct {
	Store  ObjectStore
	Bucket string
	Prefix string
}

// Key is the object key of run: prefix/environment/file name.
func (a *Archive) Key(run *Run) string {
	return path.Join(strings.Trim(a.Prefix, "/"), envSlug(run.Environment), FileName(run))
}

// Upload stores run under Key, creating the bucket if needed, and returns
// the s3:// URL.
func (a *Archive) Upload(ctx context.Context, run *Run) (string, error) {
	data, err := Marshal(run)
	if err != nil {
		return "", err
	}
	if err := a.Store.EnsureBucket(ctx, a.Bucket); err != nil {
		return "", fmt.Errorf("failed to archive run: %w", err)
	}

	key := a.Key(run)
	if err := a.Store.PutObject(ctx, a.Bucket, key, "application/json", data); err != nil {
		return "", fmt.Errorf("failed to archive run: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.Bucket, key), nil
}
