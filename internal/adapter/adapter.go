package adapter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
	"github.com/objectfs/bosfs/pkg/utils"
)

// Operation names used for logging and metrics
const (
	OpWrite           = "write"
	OpRead            = "read"
	OpCopy            = "copy"
	OpMove            = "move"
	OpDelete          = "delete"
	OpCreateDirectory = "create_directory"
	OpDeleteDirectory = "delete_directory"
	OpFileExists      = "file_exists"
	OpDirectoryExists = "directory_exists"
	OpListContents    = "list_contents"
	OpGetMetadata     = "get_metadata"
	OpMimeType        = "mime_type"
	OpLastModified    = "last_modified"
	OpFileSize        = "file_size"
	OpVisibility      = "visibility"
	OpSetVisibility   = "set_visibility"
)

// Config configures an Adapter. The zero value is usable.
type Config struct {
	Logger  *slog.Logger
	Metrics types.MetricsCollector

	// DefaultOptions apply to every write; per-call options win.
	DefaultOptions types.PutOptions

	// DefaultVisibility is applied after writes that do not set one.
	DefaultVisibility types.Visibility
}

// WriteOptions are the per-call options of Write and CreateDirectory.
type WriteOptions struct {
	types.PutOptions

	// Visibility, when set, is applied to the object after it is stored.
	Visibility types.Visibility

	// Timeout bounds the client calls of the write.
	Timeout time.Duration
}

// Adapter exposes filesystem verbs over a BOS bucket
type Adapter struct {
	client  types.Client
	config  Config
	logger  *slog.Logger
	metrics types.MetricsCollector
}

// New creates an adapter over client.
func New(client types.Client, cfg *Config) (*Adapter, error) {
	if client == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "storage client is required").
			WithComponent("adapter")
	}

	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.DefaultVisibility != "" && !c.DefaultVisibility.Valid() {
		return nil, errors.InvalidVisibility(string(c.DefaultVisibility)).
			WithComponent("adapter")
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := c.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Adapter{
		client:  client,
		config:  c,
		logger:  logger.With("component", "adapter"),
		metrics: metrics,
	}, nil
}

// Client returns the underlying storage client.
func (a *Adapter) Client() types.Client {
	return a.client
}

// Write stores contents at path, replacing any existing object.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte, opts *WriteOptions) (err error) {
	start := time.Now()
	defer func() { a.observe(OpWrite, path, start, int64(len(contents)), err) }()

	if err := a.put(ctx, path, contents, opts); err != nil {
		return a.fail(OpWrite, errors.UnableToWriteFile(path, err))
	}
	return nil
}

// WriteStream reads r to completion and stores the bytes at path.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, opts *WriteOptions) error {
	contents, err := io.ReadAll(r)
	if err != nil {
		werr := a.fail(OpWrite, errors.UnableToWriteFile(path, err))
		a.observe(OpWrite, path, time.Now(), 0, werr)
		return werr
	}
	return a.Write(ctx, path, contents, opts)
}

// Update is Write; objects are always replaced whole.
func (a *Adapter) Update(ctx context.Context, path string, contents []byte, opts *WriteOptions) error {
	return a.Write(ctx, path, contents, opts)
}

// UpdateStream is WriteStream.
func (a *Adapter) UpdateStream(ctx context.Context, path string, r io.Reader, opts *WriteOptions) error {
	return a.WriteStream(ctx, path, r, opts)
}

// Read returns the bytes stored at path.
func (a *Adapter) Read(ctx context.Context, path string) (contents []byte, err error) {
	start := time.Now()
	defer func() { a.observe(OpRead, path, start, int64(len(contents)), err) }()

	data, err := a.client.GetObject(ctx, path)
	if err != nil {
		return nil, a.fail(OpRead, errors.UnableToReadFile(path, err))
	}
	return data, nil
}

// ReadStream returns a reader over the bytes stored at path. The object is
// downloaded completely before ReadStream returns.
func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := a.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Copy copies source to destination inside the bucket.
func (a *Adapter) Copy(ctx context.Context, source, destination string) (err error) {
	start := time.Now()
	defer func() { a.observe(OpCopy, source, start, 0, err) }()

	if err := a.client.CopyObject(ctx, source, destination); err != nil {
		return a.fail(OpCopy, errors.UnableToCopyFile(source, destination, err))
	}
	return nil
}

// Move copies source to destination, then deletes source. A failed delete
// leaves the copy in place.
func (a *Adapter) Move(ctx context.Context, source, destination string) (err error) {
	start := time.Now()
	defer func() { a.observe(OpMove, source, start, 0, err) }()

	if err := a.client.CopyObject(ctx, source, destination); err != nil {
		return a.fail(OpMove, errors.UnableToMoveFile(source, destination, err))
	}
	if err := a.client.DeleteObject(ctx, source); err != nil {
		return a.fail(OpMove, errors.UnableToMoveFile(source, destination, err))
	}
	return nil
}

// Delete removes the object at path.
func (a *Adapter) Delete(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() { a.observe(OpDelete, path, start, 0, err) }()

	if err := a.client.DeleteObject(ctx, path); err != nil {
		return a.fail(OpDelete, errors.UnableToDeleteFile(path, err))
	}
	return nil
}

// CreateDirectory stores an empty directory marker for path.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts *WriteOptions) (err error) {
	start := time.Now()
	defer func() { a.observe(OpCreateDirectory, path, start, 0, err) }()

	if err := a.put(ctx, utils.DirectoryMarker(path), []byte{}, opts); err != nil {
		return a.fail(OpCreateDirectory, errors.UnableToCreateDirectory(path, err))
	}
	return nil
}

// DeleteDirectory removes the directory marker of path. Objects below the
// directory are left alone.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() { a.observe(OpDeleteDirectory, path, start, 0, err) }()

	if err := a.client.DeleteObject(ctx, utils.DirectoryMarker(path)); err != nil {
		return a.fail(OpDeleteDirectory, errors.UnableToDeleteDirectory(path, err))
	}
	return nil
}

// FileExists reports whether an object is stored at path. Any failure
// counts as absent.
func (a *Adapter) FileExists(ctx context.Context, path string) bool {
	start := time.Now()

	_, err := a.client.GetObjectMeta(ctx, path)
	a.metrics.RecordOperation(OpFileExists, time.Since(start), 0, true)
	if err != nil {
		a.logger.Debug("Object metadata unavailable", "path", path, "error", err)
		return false
	}
	return true
}

// DirectoryExists reports whether anything is stored below path. Any
// failure counts as absent.
func (a *Adapter) DirectoryExists(ctx context.Context, path string) bool {
	start := time.Now()

	result, err := a.client.ListObjects(ctx, buildListOptions(path, false))
	a.metrics.RecordOperation(OpDirectoryExists, time.Since(start), 0, true)
	if err != nil {
		a.logger.Debug("Directory listing unavailable", "path", path, "error", err)
		return false
	}
	return len(result.Contents) > 0 || len(result.CommonPrefixes) > 0
}

// ListContents lists the entries below directory. Without recursive only
// direct children are returned, with subdirectories rolled up into dir
// entries. The marker of directory itself is never included.
func (a *Adapter) ListContents(ctx context.Context, directory string, recursive bool) (entries []types.Metadata, err error) {
	start := time.Now()
	defer func() { a.observe(OpListContents, directory, start, 0, err) }()

	opts := buildListOptions(directory, recursive)
	result, err := a.client.ListObjects(ctx, opts)
	if err != nil {
		return nil, a.fail(OpListContents, errors.UnableToListContents(directory, recursive, err))
	}

	entries = make([]types.Metadata, 0, len(result.Contents)+len(result.CommonPrefixes))
	for _, summary := range result.Contents {
		if summary.Key == opts.Prefix {
			continue
		}
		entries = append(entries, normalizeEntry(summary))
	}
	for _, prefix := range result.CommonPrefixes {
		if prefix == opts.Prefix {
			continue
		}
		entries = append(entries, normalizePrefix(prefix))
	}
	return entries, nil
}

// GetMetadata returns the normalized metadata of the object at path.
func (a *Adapter) GetMetadata(ctx context.Context, path string) (*types.Metadata, error) {
	return a.metadata(ctx, OpGetMetadata, path, "metadata")
}

// MimeType returns the content type of the object at path.
func (a *Adapter) MimeType(ctx context.Context, path string) (string, error) {
	md, err := a.metadata(ctx, OpMimeType, path, errors.MetadataMimeType)
	if err != nil {
		return "", err
	}
	if md.MimeType == "" {
		return "", a.fail(OpMimeType, errors.UnableToRetrieveMetadata(path, errors.MetadataMimeType, nil))
	}
	return md.MimeType, nil
}

// LastModified returns the modification time of the object at path in
// seconds since the epoch.
func (a *Adapter) LastModified(ctx context.Context, path string) (int64, error) {
	md, err := a.metadata(ctx, OpLastModified, path, errors.MetadataLastModified)
	if err != nil {
		return 0, err
	}
	if md.LastModified == 0 {
		return 0, a.fail(OpLastModified, errors.UnableToRetrieveMetadata(path, errors.MetadataLastModified, nil))
	}
	return md.LastModified, nil
}

// FileSize returns the size in bytes of the object at path.
func (a *Adapter) FileSize(ctx context.Context, path string) (int64, error) {
	md, err := a.metadata(ctx, OpFileSize, path, errors.MetadataFileSize)
	if err != nil {
		return 0, err
	}
	return md.Size, nil
}

// Visibility reports whether the object at path is publicly readable.
// Objects without an ACL of their own inherit the bucket ACL.
func (a *Adapter) Visibility(ctx context.Context, path string) (visibility types.Visibility, err error) {
	start := time.Now()
	defer func() { a.observe(OpVisibility, path, start, 0, err) }()

	acl, err := a.client.GetObjectACL(ctx, path)
	if errors.IsNotFound(err) {
		a.logger.Debug("Object has no ACL, using bucket ACL", "path", path)
		acl, err = a.client.GetBucketACL(ctx)
	}
	if err != nil {
		return "", a.fail(OpVisibility, errors.UnableToRetrieveMetadata(path, errors.MetadataVisibility, err))
	}

	return visibilityOf(extractPermissions(acl)), nil
}

// SetVisibility applies the canned ACL matching visibility to path.
func (a *Adapter) SetVisibility(ctx context.Context, path string, visibility types.Visibility) (err error) {
	start := time.Now()
	defer func() { a.observe(OpSetVisibility, path, start, 0, err) }()

	acl, ok := cannedACL(visibility)
	if !ok {
		return a.fail(OpSetVisibility, errors.UnableToSetVisibility(path, errors.InvalidVisibility(string(visibility))))
	}
	if err := a.client.PutObjectACL(ctx, path, acl); err != nil {
		return a.fail(OpSetVisibility, errors.UnableToSetVisibility(path, err))
	}
	return nil
}

// put stores data under key and applies the requested visibility. It
// returns the raw client error.
func (a *Adapter) put(ctx context.Context, key string, data []byte, opts *WriteOptions) error {
	visibility := a.config.DefaultVisibility
	var timeout time.Duration
	if opts != nil {
		if opts.Visibility != "" {
			visibility = opts.Visibility
		}
		timeout = opts.Timeout
	}

	acl, ok := cannedACL(visibility)
	if visibility != "" && !ok {
		return errors.InvalidVisibility(string(visibility))
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	putOpts := mergePutOptions(a.config.DefaultOptions, opts)
	if err := a.client.PutObject(ctx, key, data, &putOpts); err != nil {
		return err
	}
	if visibility != "" {
		return a.client.PutObjectACL(ctx, key, acl)
	}
	return nil
}

func (a *Adapter) metadata(ctx context.Context, op, path, field string) (md *types.Metadata, err error) {
	start := time.Now()
	defer func() { a.observe(op, path, start, 0, err) }()

	meta, err := a.client.GetObjectMeta(ctx, path)
	if err != nil {
		return nil, a.fail(op, errors.UnableToRetrieveMetadata(path, field, err))
	}

	md, err = normalizeMeta(meta, path)
	if err != nil {
		return nil, a.fail(op, errors.UnableToRetrieveMetadata(path, field, err))
	}
	return md, nil
}

func (a *Adapter) fail(op string, e *errors.Error) error {
	return e.WithComponent("adapter").WithOperation(op)
}

func (a *Adapter) observe(op, path string, start time.Time, size int64, err error) {
	duration := time.Since(start)
	a.metrics.RecordOperation(op, duration, size, err == nil)
	if err != nil {
		a.metrics.RecordError(op, err)
		a.logger.Debug("Operation failed", "operation", op, "path", path, "duration", duration, "error", err)
		return
	}
	a.logger.Debug("Operation completed", "operation", op, "path", path, "duration", duration, "bytes", size)
}

type nopMetrics struct{}

func (nopMetrics) RecordOperation(string, time.Duration, int64, bool) {}
func (nopMetrics) RecordError(string, error)                          {}
func (nopMetrics) GetMetrics() map[string]interface{}                 { return nil }
