package service

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrBucketNotFound is returned (possibly wrapped) by ObjectStorage when the
// addressed bucket does not exist.
var ErrBucketNotFound = errors.New("bucket does not exist")

type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url,omitempty"`
}

type BucketInfo struct {
	Name      string
	CreatedAt time.Time
}

type ObjectStorage interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// CreateBucket succeeds when the bucket already exists and is ours.
	CreateBucket(ctx context.Context, bucket string) error
	DeleteBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	DeleteObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	ListBuckets(ctx context.Context, prefix string) ([]BucketInfo, error)
}
