package service

import "context"

type BucketCleanupRequest struct {
	Bucket string `json:"bucket"`
	TagID  int64  `json:"tag_id"`
	Reason string `json:"reason"`
}

// CleanupQueue hands leaked buckets to the background worker.
type CleanupQueue interface {
	EnqueueBucketCleanup(ctx context.Context, req BucketCleanupRequest) error
}
