package bos

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/baidubce/bce-sdk-go/bce"
	"github.com/baidubce/bce-sdk-go/services/bos/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
)

func testClient() *Client {
	return &Client{
		bucket: "test-bucket",
		config: &Config{Bucket: "test-bucket"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestConfig_ResolvedEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{"default region", Config{}, "https://bj.bcebos.com"},
		{"region", Config{Region: "gz"}, "https://gz.bcebos.com"},
		{"explicit", Config{Region: "gz", Endpoint: "http://localhost:8080"}, "http://localhost:8080"},
		{"bare host", Config{Endpoint: "su.bcebos.com"}, "https://su.bcebos.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.ResolvedEndpoint())
		})
	}
}

func TestNewClient_EmptyBucket(t *testing.T) {
	client, err := NewClient(&Config{Region: "bj"}, nil)
	assert.Nil(t, client)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingConfig))

	client, err = NewClient(nil, nil)
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(&Config{Bucket: "b", AccessKeyID: "ak", SecretAccessKey: "sk"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", client.Bucket())
	assert.Equal(t, "bos://b/", client.String())
	assert.NotNil(t, client.SDK())
}

func TestTranslateError(t *testing.T) {
	c := testClient()

	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		retryable bool
	}{
		{"no such key", &bce.BceServiceError{Code: "NoSuchKey", StatusCode: 404}, errors.ErrCodeObjectNotFound, false},
		{"bare 404", &bce.BceServiceError{StatusCode: 404}, errors.ErrCodeObjectNotFound, false},
		{"no such bucket", &bce.BceServiceError{Code: "NoSuchBucket", StatusCode: 404}, errors.ErrCodeBucketNotFound, false},
		{"access denied", &bce.BceServiceError{Code: "AccessDenied", StatusCode: 403}, errors.ErrCodeAccessDenied, false},
		{"server error", &bce.BceServiceError{Code: "InternalError", StatusCode: 500}, errors.ErrCodeStorageRequest, true},
		{"throttled", &bce.BceServiceError{Code: "RequestRateLimitExceeded", StatusCode: 429}, errors.ErrCodeStorageRequest, true},
		{"client error", bce.NewBceClientError("connection reset"), errors.ErrCodeStorageRequest, true},
		{"canceled", context.Canceled, errors.ErrCodeStorageRequest, false},
		{"transport", io.ErrUnexpectedEOF, errors.ErrCodeStorageRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.translateError(tt.err, "GetObject", "a.txt")
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Equal(t, tt.retryable, errors.IsRetryable(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranslateError_RequestID(t *testing.T) {
	c := testClient()

	err := c.translateError(&bce.BceServiceError{Code: "NoSuchKey", StatusCode: 404, RequestId: "req-1"}, "GetObjectAcl", "k")

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "req-1", e.Context["request_id"])
	assert.Equal(t, "k", e.Path)
	assert.Equal(t, "bos-client", e.Component)
	assert.True(t, errors.IsNotFound(err))
}

func TestClient_CanceledContext(t *testing.T) {
	c := testClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetObject(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.PutObject(ctx, "k", nil, nil), context.Canceled)

	_, err = c.ListObjects(ctx, types.ListOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPutObjectArgs(t *testing.T) {
	args := putObjectArgs(&types.PutOptions{
		ContentType: "text/plain",
		Headers: map[string]string{
			"Cache-Control":       "max-age=60",
			"x-bce-storage-class": "COLD",
			"x-bce-meta-team":     "infra",
		},
	})

	assert.Equal(t, "text/plain", args.ContentType)
	assert.Equal(t, "max-age=60", args.CacheControl)
	assert.Equal(t, "COLD", args.StorageClass)
	assert.Equal(t, map[string]string{"team": "infra"}, args.UserMeta)

	empty := putObjectArgs(nil)
	assert.Empty(t, empty.ContentType)
}

func TestConvertGrants(t *testing.T) {
	acl := convertGrants([]api.GrantType{
		{
			Grantee:    []api.GranteeType{{Id: "owner"}},
			Permission: []string{"FULL_CONTROL"},
		},
		{
			Grantee:    []api.GranteeType{{Id: "*"}, {Id: "other"}},
			Permission: []string{"READ"},
		},
	})

	require.Len(t, acl.Grants, 2)
	assert.Equal(t, []string{"owner"}, acl.Grants[0].Grantees)
	assert.Equal(t, []string{"*", "other"}, acl.Grants[1].Grantees)
	assert.Equal(t, []string{"READ"}, acl.Grants[1].Permissions)
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, 1000, pageSize(0))
	assert.Equal(t, 10, pageSize(10))
	assert.Equal(t, 1000, pageSize(5000))
}
