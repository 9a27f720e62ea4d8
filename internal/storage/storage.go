package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultPresignTTL is how long a presigned photo URL stays valid.
const DefaultPresignTTL = time.Hour

// Service hands out time-limited read URLs for objects in remote storage.
type Service interface {
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// PhotoResolver maps catalog photo references onto fetchable URLs. Absolute
// http(s) references pass through; anything else is an object key in Bucket.
type PhotoResolver struct {
	store   Service
	bucket  string
	prefix  string
	expires time.Duration
}

func NewPhotoResolver(store Service, bucket, keyPrefix string, expires time.Duration) (*PhotoResolver, error) {
	if store == nil {
		return nil, errors.New("storage service is required")
	}
	if bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if expires <= 0 {
		expires = DefaultPresignTTL
	}
	return &PhotoResolver{
		store:   store,
		bucket:  bucket,
		prefix:  strings.Trim(keyPrefix, "/"),
		expires: expires,
	}, nil
}

func (r *PhotoResolver) Resolve(ctx context.Context, ref string) (string, error) {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref, nil
	}
	key := strings.TrimPrefix(ref, "/")
	if r.prefix != "" {
		key = r.prefix + "/" + key
	}
	return r.store.GetObjectURL(ctx, r.bucket, key, r.expires)
}
