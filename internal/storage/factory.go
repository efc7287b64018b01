// Package storage builds the types.Client selected by configuration.
package storage

import (
	"context"
	"log/slog"

	"github.com/objectfs/bosfs/internal/config"
	"github.com/objectfs/bosfs/internal/storage/bos"
	"github.com/objectfs/bosfs/internal/storage/memory"
	"github.com/objectfs/bosfs/internal/storage/s3"
	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/retry"
	"github.com/objectfs/bosfs/pkg/types"
)

// NewClient creates a storage client based on the configuration
func NewClient(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (types.Client, error) {
	switch cfg.Driver {
	case config.DriverBOS, "":
		client, err := bos.NewClient(BOSConfig(cfg), logger)
		if err != nil {
			return nil, err
		}
		if cfg.MaxRetries > 0 {
			return WithRetry(client, RetryConfig(cfg), logger), nil
		}
		return client, nil
	case config.DriverS3:
		client, err := s3.NewClient(ctx, S3Config(cfg), logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "unknown storage driver: "+cfg.Driver).
			WithComponent("storage").
			WithContext("field", "driver")
	}
}

// BOSConfig maps storage settings onto the native BOS client configuration.
func BOSConfig(cfg config.StorageConfig) *bos.Config {
	return &bos.Config{
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		RequestTimeout:  cfg.RequestTimeout,
	}
}

// RetryConfig maps storage settings onto the retry policy of the BOS driver.
// The S3 driver retries inside the AWS SDK instead.
func RetryConfig(cfg config.StorageConfig) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.MaxRetries + 1
	return rc
}

// S3Config maps storage settings onto the S3-compatible client configuration.
func S3Config(cfg config.StorageConfig) *s3.Config {
	return &s3.Config{
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		SessionToken:    cfg.SessionToken,
		ForcePathStyle:  cfg.ForcePathStyle,
		MaxRetries:      cfg.MaxRetries,
		RequestTimeout:  cfg.RequestTimeout,
	}
}
