package s3

import (
	"fmt"
	"time"
)

// Config represents the S3-compatible client configuration
type Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	ForcePathStyle  bool   `yaml:"force_path_style"`

	MaxRetries     int           `yaml:"max_retries"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// NewDefaultConfig returns a configuration for the bj region.
func NewDefaultConfig() *Config {
	return &Config{
		Region:         "bj",
		MaxRetries:     3,
		RequestTimeout: 30 * time.Second,
	}
}

// DefaultEndpoint returns the S3-compatible BOS endpoint of region.
func DefaultEndpoint(region string) string {
	return fmt.Sprintf("https://s3.%s.bcebos.com", region)
}

// ResolvedEndpoint returns Endpoint, falling back to the region default.
func (c *Config) ResolvedEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint(c.Region)
}
