package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
)

// AllUsersURI is the S3 group granting anonymous access.
const AllUsersURI = "http://acs.amazonaws.com/groups/global/AllUsers"

const listTimeFormat = "2006-01-02T15:04:05Z"

// api is the subset of *s3.Client used here.
type api interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObjectAcl(ctx context.Context, params *s3.GetObjectAclInput, optFns ...func(*s3.Options)) (*s3.GetObjectAclOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
	GetBucketAcl(ctx context.Context, params *s3.GetBucketAclInput, optFns ...func(*s3.Options)) (*s3.GetBucketAclOutput, error)
}

// Client implements types.Client on the S3-compatible BOS endpoint
type Client struct {
	api    api
	bucket string
	config *Config
	logger *slog.Logger
}

var _ types.Client = (*Client)(nil)

// NewClient creates a client for cfg.Bucket.
func NewClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if cfg.Bucket == "" {
		return nil, errors.NewError(errors.ErrCodeMissingConfig, "bucket name cannot be empty").
			WithComponent("s3-client")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(cfg.MaxRetries))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "failed to load AWS config").
			WithComponent("s3-client").
			WithCause(err)
	}

	endpoint := cfg.ResolvedEndpoint()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return newClient(client, cfg, logger), nil
}

func newClient(a api, cfg *Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:    a,
		bucket: cfg.Bucket,
		config: cfg,
		logger: logger.With("component", "s3-client", "bucket", cfg.Bucket),
	}
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// PutObject uploads data under key.
func (c *Client) PutObject(ctx context.Context, key string, data []byte, opts *types.PutOptions) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resolved := opts.Resolved()
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      resolved.UserMeta,
	}
	if resolved.ContentType != "" {
		input.ContentType = aws.String(resolved.ContentType)
	}
	if resolved.CacheControl != "" {
		input.CacheControl = aws.String(resolved.CacheControl)
	}
	if resolved.ContentDisposition != "" {
		input.ContentDisposition = aws.String(resolved.ContentDisposition)
	}
	if resolved.Expires != "" {
		if t, err := http.ParseTime(resolved.Expires); err == nil {
			input.Expires = aws.Time(t)
		} else {
			c.logger.Warn("Ignoring unparseable Expires header", "key", key, "expires", resolved.Expires)
		}
	}
	if resolved.StorageClass != "" {
		input.StorageClass = s3types.StorageClass(resolved.StorageClass)
	}
	if resolved.ContentMD5 != "" {
		input.ContentMD5 = aws.String(resolved.ContentMD5)
	}
	for name := range resolved.Headers {
		c.logger.Debug("Dropping unsupported request header", "key", key, "header", name)
	}

	_, err := c.api.PutObject(ctx, input)
	if err != nil {
		return c.translateError(err, "PutObject", key)
	}
	return nil
}

// GetObject downloads the object stored under key.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	result, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.translateError(err, "GetObject", key)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeStorageRequest, "failed to read object body").
			WithComponent("s3-client").
			WithOperation("GetObject").
			WithPath(key).
			WithCause(err)
	}
	return data, nil
}

// GetObjectMeta returns the object's headers.
func (c *Client) GetObjectMeta(ctx context.Context, key string) (*types.ObjectMeta, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	result, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.translateError(err, "HeadObject", key)
	}

	meta := &types.ObjectMeta{
		ContentLength: aws.ToInt64(result.ContentLength),
		ContentType:   aws.ToString(result.ContentType),
		ETag:          aws.ToString(result.ETag),
		StorageClass:  string(result.StorageClass),
		UserMeta:      result.Metadata,
	}
	if result.LastModified != nil {
		meta.LastModified = result.LastModified.UTC().Format(http.TimeFormat)
	}
	return meta, nil
}

// CopyObject copies src to dst within the bucket.
func (c *Client) CopyObject(ctx context.Context, src, dst string) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(dst),
		CopySource: aws.String(copySource(c.bucket, src)),
	})
	if err != nil {
		return c.translateError(err, "CopyObject", src)
	}
	return nil
}

// DeleteObject removes key.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return c.translateError(err, "DeleteObject", key)
	}
	return nil
}

// ListObjects pages through ListObjectsV2 and returns the whole listing.
func (c *Client) ListObjects(ctx context.Context, opts types.ListOptions) (*types.ListResult, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		input.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.Marker != "" {
		input.StartAfter = aws.String(opts.Marker)
	}

	result := &types.ListResult{Contents: []types.ObjectSummary{}}
	paginator := s3.NewListObjectsV2Paginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, c.translateError(err, "ListObjects", opts.Prefix)
		}

		for _, obj := range page.Contents {
			summary := types.ObjectSummary{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				summary.LastModified = obj.LastModified.UTC().Format(listTimeFormat)
			}
			result.Contents = append(result.Contents, summary)
		}
		for _, p := range page.CommonPrefixes {
			result.CommonPrefixes = append(result.CommonPrefixes, aws.ToString(p.Prefix))
		}

		if opts.MaxKeys > 0 && len(result.Contents) >= opts.MaxKeys {
			result.Contents = result.Contents[:opts.MaxKeys]
			break
		}
	}

	return result, nil
}

// GetObjectACL returns the object's ACL.
func (c *Client) GetObjectACL(ctx context.Context, key string) (*types.ACL, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	result, err := c.api.GetObjectAcl(ctx, &s3.GetObjectAclInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.translateError(err, "GetObjectAcl", key)
	}
	return convertGrants(result.Grants), nil
}

// PutObjectACL applies a canned ACL to key.
func (c *Client) PutObjectACL(ctx context.Context, key string, acl types.CannedACL) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	_, err := c.api.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		ACL:    s3types.ObjectCannedACL(acl),
	})
	if err != nil {
		return c.translateError(err, "PutObjectAcl", key)
	}
	return nil
}

// GetBucketACL returns the bucket ACL.
func (c *Client) GetBucketACL(ctx context.Context) (*types.ACL, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	result, err := c.api.GetBucketAcl(ctx, &s3.GetBucketAclInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return nil, c.translateError(err, "GetBucketAcl", "")
	}
	return convertGrants(result.Grants), nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.config.RequestTimeout)
	}
	return ctx, func() {}
}

// convertGrants merges per-permission S3 grants into one grant per grantee,
// keeping the order in which grantees first appear.
func convertGrants(grants []s3types.Grant) *types.ACL {
	acl := &types.ACL{}
	index := make(map[string]int)

	for _, g := range grants {
		grantee := granteeID(g.Grantee)
		if grantee == "" {
			continue
		}
		i, ok := index[grantee]
		if !ok {
			i = len(acl.Grants)
			index[grantee] = i
			acl.Grants = append(acl.Grants, types.Grant{Grantees: []string{grantee}})
		}
		acl.Grants[i].Permissions = append(acl.Grants[i].Permissions, string(g.Permission))
	}
	return acl
}

func granteeID(g *s3types.Grantee) string {
	if g == nil {
		return ""
	}
	if uri := aws.ToString(g.URI); uri != "" {
		if uri == AllUsersURI {
			return types.WildcardGrantee
		}
		return uri
	}
	return aws.ToString(g.ID)
}

func copySource(bucket, key string) string {
	return (&url.URL{Path: bucket + "/" + key}).EscapedPath()
}

// String returns a short description for logs.
func (c *Client) String() string {
	return fmt.Sprintf("s3://%s@%s", c.bucket, c.config.ResolvedEndpoint())
}
