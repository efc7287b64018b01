package types

import (
	"context"
	"time"
)

// Client is the storage collaborator of the filesystem adapter. Each method is
// a single request/response against one bucket.
type Client interface {
	PutObject(ctx context.Context, key string, data []byte, opts *PutOptions) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	GetObjectMeta(ctx context.Context, key string) (*ObjectMeta, error)
	CopyObject(ctx context.Context, src, dst string) error
	DeleteObject(ctx context.Context, key string) error

	// ListObjects returns every matching key, paging internally.
	ListObjects(ctx context.Context, opts ListOptions) (*ListResult, error)

	// GetObjectACL fails with an OBJECT_NOT_FOUND error when the object has
	// no ACL of its own.
	GetObjectACL(ctx context.Context, key string) (*ACL, error)
	PutObjectACL(ctx context.Context, key string, acl CannedACL) error
	GetBucketACL(ctx context.Context) (*ACL, error)
}

// MetricsCollector records per-operation outcomes.
type MetricsCollector interface {
	RecordOperation(operation string, duration time.Duration, size int64, success bool)
	RecordError(operation string, err error)
	GetMetrics() map[string]interface{}
}
