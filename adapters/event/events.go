package event

import "time"

const EventTypeBucketCleanup = "bucket.cleanup.requested"

type BucketCleanupPayload struct {
	EventType   string    `json:"event_type"`
	Bucket      string    `json:"bucket"`
	TagID       int64     `json:"tag_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}
