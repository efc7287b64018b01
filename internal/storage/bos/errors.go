package bos

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/baidubce/bce-sdk-go/bce"

	"github.com/objectfs/bosfs/pkg/errors"
)

// BOS service error codes
const (
	codeNoSuchKey    = "NoSuchKey"
	codeNoSuchBucket = "NoSuchBucket"
	codeAccessDenied = "AccessDenied"
)

// translateError maps SDK failures onto storage error codes.
func (c *Client) translateError(err error, operation, key string) error {
	code, message := classify(err, operation, key, c.bucket)

	c.logger.Debug("Request failed", "operation", operation, "key", key, "code", code, "error", err)

	e := errors.NewError(code, message).
		WithComponent("bos-client").
		WithOperation(operation).
		WithCause(err).
		WithRetryable(retryable(err))
	if key != "" {
		e.WithPath(key)
	}

	var svcErr *bce.BceServiceError
	if stderrors.As(err, &svcErr) && svcErr.RequestId != "" {
		e.WithContext("request_id", svcErr.RequestId)
	}
	return e
}

func classify(err error, operation, key, bucket string) (errors.ErrorCode, string) {
	var svcErr *bce.BceServiceError
	if !stderrors.As(err, &svcErr) {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return errors.ErrCodeStorageRequest, fmt.Sprintf("%s aborted for %s", operation, key)
		}
		return errors.ErrCodeStorageRequest, fmt.Sprintf("%s failed for %s", operation, key)
	}

	switch {
	case svcErr.Code == codeNoSuchBucket:
		return errors.ErrCodeBucketNotFound, fmt.Sprintf("bucket not found: %s", bucket)
	case svcErr.Code == codeNoSuchKey, svcErr.StatusCode == http.StatusNotFound:
		return errors.ErrCodeObjectNotFound, fmt.Sprintf("object not found: %s", key)
	case svcErr.Code == codeAccessDenied, svcErr.StatusCode == http.StatusForbidden:
		return errors.ErrCodeAccessDenied, fmt.Sprintf("access denied: %s", key)
	default:
		return errors.ErrCodeStorageRequest, fmt.Sprintf("%s failed for %s: %s", operation, key, svcErr.Code)
	}
}

// retryable reports whether err is a throttling, server-side or transport
// failure. Canceled requests are never retried.
func retryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var svcErr *bce.BceServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr.StatusCode == http.StatusTooManyRequests || svcErr.StatusCode >= http.StatusInternalServerError
	}

	var clientErr *bce.BceClientError
	return stderrors.As(err, &clientErr)
}
