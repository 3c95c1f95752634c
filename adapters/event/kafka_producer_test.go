package event

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestEnqueueBucketCleanup_RoundTrip(t *testing.T) {
	w := &fakeWriter{}
	client := &KafkaProducerClient{CleanupWriter: w, logger: logger.NewNopLogger()}
	req := service.BucketCleanupRequest{Bucket: "tag-1", TagID: 7, Reason: "delete_failed"}

	require.NoError(t, client.EnqueueBucketCleanup(context.Background(), req))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "tag-1", string(w.msgs[0].Key))

	decoded, err := DecodeBucketCleanup(w.msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestEnqueueBucketCleanup_WriterError(t *testing.T) {
	boom := errors.New("broker down")
	client := &KafkaProducerClient{CleanupWriter: &fakeWriter{err: boom}, logger: logger.NewNopLogger()}

	err := client.EnqueueBucketCleanup(context.Background(), service.BucketCleanupRequest{Bucket: "tag-1"})

	assert.ErrorIs(t, err, boom)
}

func TestDecodeBucketCleanup_Invalid(t *testing.T) {
	_, err := DecodeBucketCleanup([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeBucketCleanup([]byte(`{"tag_id": 3}`))
	assert.Error(t, err)
}

func TestNewKafkaProducerClient_NoBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(configWithBrokers(nil), logger.NewNopLogger())
	assert.Error(t, err)
}
