// Package memory implements types.Client on top of an in-process map. It
// follows BOS listing and ACL semantics closely enough to exercise the
// filesystem adapter without a network.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baidubce/bce-sdk-go/util"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
)

// Method names accepted by FailOn.
const (
	MethodPutObject     = "PutObject"
	MethodGetObject     = "GetObject"
	MethodGetObjectMeta = "GetObjectMeta"
	MethodCopyObject    = "CopyObject"
	MethodDeleteObject  = "DeleteObject"
	MethodListObjects   = "ListObjects"
	MethodGetObjectACL  = "GetObjectACL"
	MethodPutObjectACL  = "PutObjectACL"
	MethodGetBucketACL  = "GetBucketACL"
)

// OwnerID is the grantee id of the bucket owner.
const OwnerID = "owner"

const defaultContentType = "application/octet-stream"

const listTimeFormat = "2006-01-02T15:04:05Z"

type object struct {
	data     []byte
	meta     types.ObjectMeta
	modified time.Time
	acl      *types.ACL
}

// Client is an in-memory bucket.
type Client struct {
	mu        sync.Mutex
	objects   map[string]*object
	bucketACL types.ACL
	failures  map[string]error
	calls     []string
	now       func() time.Time
}

// New returns an empty bucket whose ACL is private.
func New() *Client {
	return &Client{
		objects:   make(map[string]*object),
		bucketACL: cannedToACL(types.ACLPrivate),
		failures:  make(map[string]error),
		now:       time.Now,
	}
}

var _ types.Client = (*Client)(nil)

// SetBucketACL replaces the bucket ACL with a canned one.
func (c *Client) SetBucketACL(acl types.CannedACL) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bucketACL = cannedToACL(acl)
}

// SetClock overrides the time source used for Last-Modified values.
func (c *Client) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// FailOn makes every subsequent call of method return err. A nil err clears
// the injected failure.
func (c *Client) FailOn(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, method)
		return
	}
	c.failures[method] = err
}

// Calls returns the methods invoked so far, in order.
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Keys returns every stored key in lexical order.
func (c *Client) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedKeys()
}

// PutObject stores a copy of data under key.
func (c *Client) PutObject(ctx context.Context, key string, data []byte, opts *types.PutOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodPutObject); err != nil {
		return err
	}

	resolved := opts.Resolved()
	contentType := resolved.ContentType
	if contentType == "" {
		contentType = detectContentType(key)
	}

	modified := c.now().UTC().Truncate(time.Second)
	c.objects[key] = &object{
		data: bytes.Clone(data),
		meta: types.ObjectMeta{
			ContentLength: int64(len(data)),
			ContentType:   contentType,
			LastModified:  modified.Format(http.TimeFormat),
			ETag:          fmt.Sprintf("%x", len(data)),
			StorageClass:  resolved.StorageClass,
			UserMeta:      resolved.UserMeta,
		},
		modified: modified,
	}
	return nil
}

// GetObject returns a copy of the bytes stored under key.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodGetObject); err != nil {
		return nil, err
	}

	obj, ok := c.objects[key]
	if !ok {
		return nil, notFound(MethodGetObject, key)
	}
	return bytes.Clone(obj.data), nil
}

// GetObjectMeta returns the stored metadata of key.
func (c *Client) GetObjectMeta(ctx context.Context, key string) (*types.ObjectMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodGetObjectMeta); err != nil {
		return nil, err
	}

	obj, ok := c.objects[key]
	if !ok {
		return nil, notFound(MethodGetObjectMeta, key)
	}
	meta := obj.meta
	return &meta, nil
}

// CopyObject duplicates src at dst. The ACL is not copied.
func (c *Client) CopyObject(ctx context.Context, src, dst string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodCopyObject); err != nil {
		return err
	}

	obj, ok := c.objects[src]
	if !ok {
		return notFound(MethodCopyObject, src)
	}

	modified := c.now().UTC().Truncate(time.Second)
	meta := obj.meta
	meta.LastModified = modified.Format(http.TimeFormat)
	c.objects[dst] = &object{
		data:     bytes.Clone(obj.data),
		meta:     meta,
		modified: modified,
	}
	return nil
}

// DeleteObject removes key. Missing keys fail, as they do on BOS.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodDeleteObject); err != nil {
		return err
	}

	if _, ok := c.objects[key]; !ok {
		return notFound(MethodDeleteObject, key)
	}
	delete(c.objects, key)
	return nil
}

// ListObjects lists keys under opts.Prefix. With a delimiter, keys that
// continue past the next delimiter are rolled up into common prefixes.
func (c *Client) ListObjects(ctx context.Context, opts types.ListOptions) (*types.ListResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodListObjects); err != nil {
		return nil, err
	}

	result := &types.ListResult{Contents: []types.ObjectSummary{}}
	seen := make(map[string]bool)

	for _, key := range c.sortedKeys() {
		if !strings.HasPrefix(key, opts.Prefix) {
			continue
		}
		if opts.Marker != "" && key <= opts.Marker {
			continue
		}

		if opts.Delimiter != "" {
			rest := key[len(opts.Prefix):]
			if idx := strings.Index(rest, opts.Delimiter); idx >= 0 {
				prefix := opts.Prefix + rest[:idx+len(opts.Delimiter)]
				if !seen[prefix] {
					seen[prefix] = true
					result.CommonPrefixes = append(result.CommonPrefixes, prefix)
				}
				continue
			}
		}

		obj := c.objects[key]
		result.Contents = append(result.Contents, types.ObjectSummary{
			Key:          key,
			Size:         obj.meta.ContentLength,
			LastModified: obj.modified.Format(listTimeFormat),
		})

		if opts.MaxKeys > 0 && len(result.Contents) >= opts.MaxKeys {
			break
		}
	}

	return result, nil
}

// GetObjectACL returns the object's own ACL. Objects that never had one set
// report OBJECT_NOT_FOUND, like BOS does.
func (c *Client) GetObjectACL(ctx context.Context, key string) (*types.ACL, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodGetObjectACL); err != nil {
		return nil, err
	}

	obj, ok := c.objects[key]
	if !ok || obj.acl == nil {
		return nil, notFound(MethodGetObjectACL, key)
	}
	acl := *obj.acl
	return &acl, nil
}

// PutObjectACL applies a canned ACL to an existing object.
func (c *Client) PutObjectACL(ctx context.Context, key string, acl types.CannedACL) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodPutObjectACL); err != nil {
		return err
	}

	obj, ok := c.objects[key]
	if !ok {
		return notFound(MethodPutObjectACL, key)
	}
	switch acl {
	case types.ACLPrivate, types.ACLPublicRead, types.ACLPublicReadWrite:
	default:
		return errors.NewError(errors.ErrCodeStorageRequest, fmt.Sprintf("invalid canned acl %q", acl)).
			WithComponent("memory-client").
			WithOperation(MethodPutObjectACL)
	}

	converted := cannedToACL(acl)
	obj.acl = &converted
	return nil
}

// GetBucketACL returns the bucket ACL.
func (c *Client) GetBucketACL(ctx context.Context) (*types.ACL, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(ctx, MethodGetBucketACL); err != nil {
		return nil, err
	}

	acl := c.bucketACL
	return &acl, nil
}

// begin records the call and returns any injected failure. Callers hold mu.
func (c *Client) begin(ctx context.Context, method string) error {
	c.calls = append(c.calls, method)
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.failures[method]
}

func (c *Client) sortedKeys() []string {
	keys := make([]string, 0, len(c.objects))
	for k := range c.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func notFound(operation, key string) error {
	return errors.NewError(errors.ErrCodeObjectNotFound, fmt.Sprintf("object not found: %s", key)).
		WithComponent("memory-client").
		WithOperation(operation).
		WithPath(key)
}

func cannedToACL(acl types.CannedACL) types.ACL {
	grants := []types.Grant{{
		Grantees:    []string{OwnerID},
		Permissions: []string{types.PermissionFullControl},
	}}

	switch acl {
	case types.ACLPublicRead:
		grants = append(grants, types.Grant{
			Grantees:    []string{types.WildcardGrantee},
			Permissions: []string{types.PermissionRead},
		})
	case types.ACLPublicReadWrite:
		grants = append(grants, types.Grant{
			Grantees:    []string{types.WildcardGrantee},
			Permissions: []string{types.PermissionRead, types.PermissionWrite},
		})
	}

	return types.ACL{Grants: grants}
}

// detectContentType picks the type BOS assigns to an upload without a
// Content-Type header. Extensions unknown to BOS fall back to the mime
// package, with media type parameters dropped.
func detectContentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return defaultContentType
	}
	if ct, ok := util.GetMimeMap()[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
	}
	return defaultContentType
}
