package object_storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/config"
	"github.com/khoahotran/tag-service/pkg/logger"
	"github.com/khoahotran/tag-service/pkg/metrics"
)

const (
	codeNoSuchBucket            = "NoSuchBucket"
	codeNoSuchKey               = "NoSuchKey"
	codeBucketAlreadyOwnedByYou = "BucketAlreadyOwnedByYou"
)

type minioAdapter struct {
	client     *minio.Client
	region     string
	presignTTL time.Duration
	logger     logger.Logger
}

func NewMinioAdapter(cfg config.Config, log logger.Logger) (service.ObjectStorage, error) {
	if cfg.Storage.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint has not config")
	}

	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot init object storage client: %w", err)
	}

	log.Info("Object storage client initialized", zap.String("endpoint", cfg.Storage.Endpoint))
	return newMinioAdapter(client, cfg.Storage.Region, cfg.Storage.PresignTTL, log), nil
}

func newMinioAdapter(client *minio.Client, region string, presignTTL time.Duration, log logger.Logger) *minioAdapter {
	return &minioAdapter{client: client, region: region, presignTTL: presignTTL, logger: log}
}

// translate maps a missing bucket onto service.ErrBucketNotFound and keeps the
// original error as the cause.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == codeNoSuchBucket {
		return fmt.Errorf("%w: %w", service.ErrBucketNotFound, err)
	}
	return err
}

func (a *minioAdapter) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ok, err := a.client.BucketExists(ctx, bucket)
	metrics.ObserveStorage("bucket_exists", err)
	if err != nil {
		return false, fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	return ok, nil
}

func (a *minioAdapter) CreateBucket(ctx context.Context, bucket string) error {
	err := a.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: a.region})
	if err != nil && minio.ToErrorResponse(err).Code == codeBucketAlreadyOwnedByYou {
		a.logger.Debug("Bucket already owned, treating create as success", zap.String("bucket", bucket))
		err = nil
	}
	metrics.ObserveStorage("create_bucket", err)
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

func (a *minioAdapter) DeleteBucket(ctx context.Context, bucket string) error {
	err := translate(a.client.RemoveBucket(ctx, bucket))
	metrics.ObserveStorage("delete_bucket", err)
	if err != nil {
		return fmt.Errorf("delete bucket %s: %w", bucket, err)
	}
	return nil
}

func (a *minioAdapter) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	if size <= 0 {
		size = -1
	}
	_, err := a.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	err = translate(err)
	metrics.ObserveStorage("put_object", err)
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (a *minioAdapter) DeleteObject(ctx context.Context, bucket, key string) error {
	err := a.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code == codeNoSuchKey {
		err = nil
	}
	err = translate(err)
	metrics.ObserveStorage("delete_object", err)
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (a *minioAdapter) ListObjects(ctx context.Context, bucket, prefix string) ([]service.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := make([]service.ObjectInfo, 0, 1)
	for obj := range a.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, WithMetadata: true}) {
		if obj.Err != nil {
			err := translate(obj.Err)
			metrics.ObserveStorage("list_objects", err)
			return nil, fmt.Errorf("list objects %s: %w", bucket, err)
		}
		info := service.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  contentTypeOf(obj),
			ETag:         strings.Trim(obj.ETag, `"`),
			LastModified: obj.LastModified,
		}
		if a.presignTTL > 0 {
			u, err := a.client.PresignedGetObject(ctx, bucket, obj.Key, a.presignTTL, nil)
			if err != nil {
				a.logger.Warn("Failed to presign object URL", zap.String("bucket", bucket), zap.String("key", obj.Key), zap.Error(err))
			} else {
				info.URL = u.String()
			}
		}
		objects = append(objects, info)
	}
	metrics.ObserveStorage("list_objects", nil)
	return objects, nil
}

func (a *minioAdapter) ListBuckets(ctx context.Context, prefix string) ([]service.BucketInfo, error) {
	buckets, err := a.client.ListBuckets(ctx)
	metrics.ObserveStorage("list_buckets", err)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	out := make([]service.BucketInfo, 0, len(buckets))
	for _, b := range buckets {
		if strings.HasPrefix(b.Name, prefix) {
			out = append(out, service.BucketInfo{Name: b.Name, CreatedAt: b.CreationDate})
		}
	}
	return out, nil
}

// ListObjects only returns the content type when the server supports
// metadata listings, so fall back to the user metadata header.
func contentTypeOf(obj minio.ObjectInfo) string {
	if obj.ContentType != "" {
		return obj.ContentType
	}
	if v := obj.UserMetadata["Content-Type"]; v != "" {
		return v
	}
	return obj.Metadata.Get("Content-Type")
}
