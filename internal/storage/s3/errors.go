package s3

import (
	stderrors "errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/objectfs/bosfs/pkg/errors"
)

// translateError maps SDK failures onto storage error codes.
func (c *Client) translateError(err error, operation, key string) error {
	var (
		code    errors.ErrorCode
		message string
	)

	switch {
	case isErrorType[*s3types.NoSuchKey](err), isErrorType[*s3types.NotFound](err),
		apiErrorCode(err) == "NoSuchKey", apiErrorCode(err) == "NotFound":
		code, message = errors.ErrCodeObjectNotFound, fmt.Sprintf("object not found: %s", key)
	case isErrorType[*s3types.NoSuchBucket](err), apiErrorCode(err) == "NoSuchBucket":
		code, message = errors.ErrCodeBucketNotFound, fmt.Sprintf("bucket not found: %s", c.bucket)
	case apiErrorCode(err) == "AccessDenied", httpStatus(err) == http.StatusForbidden:
		code, message = errors.ErrCodeAccessDenied, fmt.Sprintf("access denied: %s", key)
	case httpStatus(err) == http.StatusNotFound:
		code, message = errors.ErrCodeObjectNotFound, fmt.Sprintf("object not found: %s", key)
	default:
		code, message = errors.ErrCodeStorageRequest, fmt.Sprintf("%s failed for %s", operation, key)
	}

	c.logger.Debug("Request failed", "operation", operation, "key", key, "code", code, "error", err)

	status := httpStatus(err)
	e := errors.NewError(code, message).
		WithComponent("s3-client").
		WithOperation(operation).
		WithCause(err).
		WithRetryable(status == http.StatusTooManyRequests || status >= http.StatusInternalServerError)
	if key != "" {
		e.WithPath(key)
	}
	return e
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func httpStatus(err error) int {
	var respErr *awshttp.ResponseError
	if stderrors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

// isErrorType checks if an error is of a specific type
func isErrorType[T error](err error) bool {
	var target T
	return stderrors.As(err, &target)
}
