package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/bosfs/internal/config"
	"github.com/objectfs/bosfs/internal/storage/bos"
	"github.com/objectfs/bosfs/internal/storage/memory"
	"github.com/objectfs/bosfs/internal/storage/s3"
	"github.com/objectfs/bosfs/pkg/errors"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		client, err := NewClient(ctx, config.StorageConfig{Driver: config.DriverMemory}, nil)
		require.NoError(t, err)
		assert.IsType(t, &memory.Client{}, client)
	})

	t.Run("bos", func(t *testing.T) {
		client, err := NewClient(ctx, config.StorageConfig{
			Driver:          config.DriverBOS,
			Bucket:          "b",
			AccessKeyID:     "ak",
			SecretAccessKey: "sk",
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &bos.Client{}, client)
	})

	t.Run("bos with retries", func(t *testing.T) {
		client, err := NewClient(ctx, config.StorageConfig{
			Driver:     config.DriverBOS,
			Bucket:     "b",
			MaxRetries: 2,
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &retryingClient{}, client)
	})

	t.Run("s3", func(t *testing.T) {
		client, err := NewClient(ctx, config.StorageConfig{
			Driver:          config.DriverS3,
			Bucket:          "b",
			Region:          "bj",
			AccessKeyID:     "ak",
			SecretAccessKey: "sk",
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &s3.Client{}, client)
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewClient(ctx, config.StorageConfig{Driver: config.DriverBOS}, nil)
		assert.True(t, errors.IsCode(err, errors.ErrCodeMissingConfig))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewClient(ctx, config.StorageConfig{Driver: "ftp"}, nil)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))
	})
}

func TestConfigMapping(t *testing.T) {
	cfg := config.StorageConfig{
		Region:          "gz",
		Endpoint:        "https://gz.bcebos.com",
		Bucket:          "b",
		AccessKeyID:     "ak",
		SecretAccessKey: "sk",
		ForcePathStyle:  true,
		MaxRetries:      5,
		RequestTimeout:  time.Minute,
	}

	b := BOSConfig(cfg)
	assert.Equal(t, "gz", b.Region)
	assert.Equal(t, "https://gz.bcebos.com", b.ResolvedEndpoint())
	assert.Equal(t, "ak", b.AccessKeyID)
	assert.Equal(t, time.Minute, b.RequestTimeout)

	assert.Equal(t, 6, RetryConfig(cfg).MaxAttempts)

	s := S3Config(cfg)
	assert.True(t, s.ForcePathStyle)
	assert.Equal(t, 5, s.MaxRetries)
	assert.Equal(t, time.Minute, s.RequestTimeout)
}
