package tag

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// PictureKey is the only object key ever written to a tag bucket.
	PictureKey = "tagpicture"
	// BucketPrefix prefixes every bucket owned by a tag.
	BucketPrefix = "tag"

	MaxNameLength = 100
)

type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BucketRef *string   `json:"bucket_ref"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tag) HasBucket() bool {
	return t.BucketRef != nil && *t.BucketRef != ""
}

// Bucket returns the bucket reference or "" when none was provisioned.
func (t *Tag) Bucket() string {
	if t.BucketRef == nil {
		return ""
	}
	return *t.BucketRef
}

var (
	ErrEmptyName   = errors.New("tag name must not be empty")
	ErrNameTooLong = errors.New("tag name is too long")
	ErrInvalidName = errors.New("tag name contains control characters")
)

// NewBucketRef returns a fresh, globally unique bucket name that is also a
// valid S3 bucket name (lowercase, 3-63 chars).
func NewBucketRef() string {
	return BucketPrefix + uuid.NewString()
}

// IsBucketRef reports whether name looks like a bucket created by NewBucketRef.
func IsBucketRef(name string) bool {
	if !strings.HasPrefix(name, BucketPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(name, BucketPrefix))
	return err == nil
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func ValidateName(name string) error {
	name = NormalizeName(name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ErrInvalidName
		}
	}
	return nil
}

type Repository interface {
	FindByName(ctx context.Context, name string) (*Tag, error)
	FindByID(ctx context.Context, id int64) (*Tag, error)
	// Insert stores t if no tag with the same name exists, atomically, and
	// fills in the generated ID and timestamps. It returns a Conflict error
	// otherwise.
	Insert(ctx context.Context, t *Tag) error
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*Tag, error)
	ListBucketRefs(ctx context.Context) ([]string, error)
}
