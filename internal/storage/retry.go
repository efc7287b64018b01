package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/objectfs/bosfs/pkg/retry"
	"github.com/objectfs/bosfs/pkg/types"
)

// retryingClient repeats client calls that fail with retryable errors.
type retryingClient struct {
	next    types.Client
	retryer *retry.Retryer
}

var _ types.Client = (*retryingClient)(nil)

// WithRetry wraps client so that throttled, server-side and transport
// failures are retried with exponential backoff.
func WithRetry(client types.Client, cfg retry.Config, logger *slog.Logger) types.Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "retry")

	retryer := retry.New(cfg).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Warn("Retrying storage request", "attempt", attempt, "delay", delay, "error", err)
	})
	return &retryingClient{next: client, retryer: retryer}
}

func (c *retryingClient) PutObject(ctx context.Context, key string, data []byte, opts *types.PutOptions) error {
	return c.retryer.Do(ctx, func(ctx context.Context) error {
		return c.next.PutObject(ctx, key, data, opts)
	})
}

func (c *retryingClient) GetObject(ctx context.Context, key string) (data []byte, err error) {
	err = c.retryer.Do(ctx, func(ctx context.Context) error {
		data, err = c.next.GetObject(ctx, key)
		return err
	})
	return data, err
}

func (c *retryingClient) GetObjectMeta(ctx context.Context, key string) (meta *types.ObjectMeta, err error) {
	err = c.retryer.Do(ctx, func(ctx context.Context) error {
		meta, err = c.next.GetObjectMeta(ctx, key)
		return err
	})
	return meta, err
}

func (c *retryingClient) CopyObject(ctx context.Context, src, dst string) error {
	return c.retryer.Do(ctx, func(ctx context.Context) error {
		return c.next.CopyObject(ctx, src, dst)
	})
}

func (c *retryingClient) DeleteObject(ctx context.Context, key string) error {
	return c.retryer.Do(ctx, func(ctx context.Context) error {
		return c.next.DeleteObject(ctx, key)
	})
}

func (c *retryingClient) ListObjects(ctx context.Context, opts types.ListOptions) (result *types.ListResult, err error) {
	err = c.retryer.Do(ctx, func(ctx context.Context) error {
		result, err = c.next.ListObjects(ctx, opts)
		return err
	})
	return result, err
}

func (c *retryingClient) GetObjectACL(ctx context.Context, key string) (acl *types.ACL, err error) {
	err = c.retryer.Do(ctx, func(ctx context.Context) error {
		acl, err = c.next.GetObjectACL(ctx, key)
		return err
	})
	return acl, err
}

func (c *retryingClient) PutObjectACL(ctx context.Context, key string, acl types.CannedACL) error {
	return c.retryer.Do(ctx, func(ctx context.Context) error {
		return c.next.PutObjectACL(ctx, key, acl)
	})
}

func (c *retryingClient) GetBucketACL(ctx context.Context) (acl *types.ACL, err error) {
	err = c.retryer.Do(ctx, func(ctx context.Context) error {
		acl, err = c.next.GetBucketACL(ctx)
		return err
	})
	return acl, err
}
