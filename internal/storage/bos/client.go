// Package bos implements types.Client with the Baidu Cloud Go SDK.
package bos

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/baidubce/bce-sdk-go/bce"
	"github.com/baidubce/bce-sdk-go/services/bos"
	"github.com/baidubce/bce-sdk-go/services/bos/api"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
)

// Client implements types.Client over a *bos.Client
type Client struct {
	client *bos.Client
	bucket string
	config *Config
	logger *slog.Logger
}

var _ types.Client = (*Client)(nil)

// NewClient creates a client for cfg.Bucket. The SDK's own retries are
// disabled; wrap the client with storage.WithRetry to retry requests.
func NewClient(cfg *Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.NewError(errors.ErrCodeMissingConfig, "bucket name cannot be empty").
			WithComponent("bos-client")
	}

	endpoint := cfg.ResolvedEndpoint()
	client, err := bos.NewClient(cfg.AccessKeyID, cfg.SecretAccessKey, endpoint)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "failed to create BOS client").
			WithComponent("bos-client").
			WithContext("endpoint", endpoint).
			WithCause(err)
	}
	client.Config.Retry = bce.NewNoRetryPolicy()
	if cfg.RequestTimeout > 0 {
		client.Config.ConnectionTimeoutInMillis = int(cfg.RequestTimeout.Milliseconds())
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
		logger: logger.With("component", "bos-client", "bucket", cfg.Bucket),
	}, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// SDK exposes the underlying SDK client.
func (c *Client) SDK() *bos.Client {
	return c.client
}

func (c *Client) String() string {
	return fmt.Sprintf("bos://%s/", c.bucket)
}

// PutObject uploads data under key.
func (c *Client) PutObject(ctx context.Context, key string, data []byte, opts *types.PutOptions) error {
	if err := ctx.Err(); err != nil {
		return c.translateError(err, "PutObject", key)
	}

	args := putObjectArgs(opts)
	for name := range opts.Resolved().Headers {
		c.logger.Debug("Dropping unsupported request header", "key", key, "header", name)
	}

	if _, err := c.client.PutObjectFromBytes(c.bucket, key, data, args); err != nil {
		return c.translateError(err, "PutObject", key)
	}
	return nil
}

// GetObject downloads the object stored under key.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.translateError(err, "GetObject", key)
	}

	result, err := c.client.BasicGetObject(c.bucket, key)
	if err != nil {
		return nil, c.translateError(err, "GetObject", key)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, c.translateError(err, "GetObject", key)
	}
	return data, nil
}

// GetObjectMeta returns the object's headers.
func (c *Client) GetObjectMeta(ctx context.Context, key string) (*types.ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.translateError(err, "GetObjectMeta", key)
	}

	result, err := c.client.GetObjectMeta(c.bucket, key)
	if err != nil {
		return nil, c.translateError(err, "GetObjectMeta", key)
	}

	return &types.ObjectMeta{
		ContentLength: result.ContentLength,
		ContentType:   result.ContentType,
		LastModified:  result.LastModified,
		ETag:          result.ETag,
		StorageClass:  result.StorageClass,
		UserMeta:      result.UserMeta,
	}, nil
}

// CopyObject copies src to dst within the bucket.
func (c *Client) CopyObject(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return c.translateError(err, "CopyObject", src)
	}

	if _, err := c.client.BasicCopyObject(c.bucket, dst, c.bucket, src); err != nil {
		return c.translateError(err, "CopyObject", src)
	}
	return nil
}

// DeleteObject removes key.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return c.translateError(err, "DeleteObject", key)
	}

	if err := c.client.DeleteObject(c.bucket, key); err != nil {
		return c.translateError(err, "DeleteObject", key)
	}
	return nil
}

// ListObjects follows NextMarker until the listing is complete or
// opts.MaxKeys entries were collected.
func (c *Client) ListObjects(ctx context.Context, opts types.ListOptions) (*types.ListResult, error) {
	args := &api.ListObjectsArgs{
		Delimiter: opts.Delimiter,
		Marker:    opts.Marker,
		Prefix:    opts.Prefix,
		MaxKeys:   pageSize(opts.MaxKeys),
	}

	result := &types.ListResult{Contents: []types.ObjectSummary{}}
	for {
		if err := ctx.Err(); err != nil {
			return nil, c.translateError(err, "ListObjects", opts.Prefix)
		}

		page, err := c.client.ListObjects(c.bucket, args)
		if err != nil {
			return nil, c.translateError(err, "ListObjects", opts.Prefix)
		}

		for _, obj := range page.Contents {
			result.Contents = append(result.Contents, types.ObjectSummary{
				Key:          obj.Key,
				Size:         int64(obj.Size),
				LastModified: obj.LastModified,
			})
		}
		for _, p := range page.CommonPrefixes {
			result.CommonPrefixes = append(result.CommonPrefixes, p.Prefix)
		}

		if opts.MaxKeys > 0 && len(result.Contents) >= opts.MaxKeys {
			result.Contents = result.Contents[:opts.MaxKeys]
			break
		}
		if !page.IsTruncated || page.NextMarker == "" {
			break
		}
		args.Marker = page.NextMarker
	}

	c.logger.Debug("Listed objects",
		"prefix", opts.Prefix,
		"delimiter", opts.Delimiter,
		"contents", len(result.Contents),
		"common_prefixes", len(result.CommonPrefixes))
	return result, nil
}

// GetObjectACL returns the object's own ACL.
func (c *Client) GetObjectACL(ctx context.Context, key string) (*types.ACL, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.translateError(err, "GetObjectAcl", key)
	}

	result, err := c.client.GetObjectAcl(c.bucket, key)
	if err != nil {
		return nil, c.translateError(err, "GetObjectAcl", key)
	}
	return convertGrants(result.AccessControlList), nil
}

// PutObjectACL applies a canned ACL to key.
func (c *Client) PutObjectACL(ctx context.Context, key string, acl types.CannedACL) error {
	if err := ctx.Err(); err != nil {
		return c.translateError(err, "PutObjectAcl", key)
	}

	if err := c.client.PutObjectAclFromCanned(c.bucket, key, string(acl)); err != nil {
		return c.translateError(err, "PutObjectAcl", key)
	}
	return nil
}

// GetBucketACL returns the bucket ACL.
func (c *Client) GetBucketACL(ctx context.Context) (*types.ACL, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.translateError(err, "GetBucketAcl", "")
	}

	result, err := c.client.GetBucketAcl(c.bucket)
	if err != nil {
		return nil, c.translateError(err, "GetBucketAcl", "")
	}
	return convertGrants(result.AccessControlList), nil
}

// maxPageSize is the largest page BOS serves per list request.
const maxPageSize = 1000

func pageSize(maxKeys int) int {
	if maxKeys <= 0 || maxKeys > maxPageSize {
		return maxPageSize
	}
	return maxKeys
}

func putObjectArgs(opts *types.PutOptions) *api.PutObjectArgs {
	resolved := opts.Resolved()
	return &api.PutObjectArgs{
		CacheControl:       resolved.CacheControl,
		ContentDisposition: resolved.ContentDisposition,
		ContentType:        resolved.ContentType,
		ContentMD5:         resolved.ContentMD5,
		ContentSha256:      resolved.ContentSHA256,
		ContentCrc32:       resolved.ContentCRC32,
		Expires:            resolved.Expires,
		StorageClass:       resolved.StorageClass,
		UserMeta:           resolved.UserMeta,
	}
}

func convertGrants(grants []api.GrantType) *types.ACL {
	acl := &types.ACL{Grants: make([]types.Grant, 0, len(grants))}
	for _, g := range grants {
		grant := types.Grant{Permissions: append([]string(nil), g.Permission...)}
		for _, grantee := range g.Grantee {
			grant.Grantees = append(grant.Grantees, grantee.Id)
		}
		acl.Grants = append(acl.Grants, grant)
	}
	return acl
}
