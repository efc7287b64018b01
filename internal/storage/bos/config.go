package bos

import (
	"fmt"
	"strings"
	"time"
)

// DefaultRegion is used when neither an endpoint nor a region is configured.
const DefaultRegion = "bj"

// Config represents the native BOS client configuration
type Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// RequestTimeout bounds the connection of each request; zero keeps the
	// SDK default.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultEndpoint returns the BOS endpoint of region.
func DefaultEndpoint(region string) string {
	if region == "" {
		region = DefaultRegion
	}
	return fmt.Sprintf("https://%s.bcebos.com", region)
}

// ResolvedEndpoint returns Endpoint, falling back to the region default. A
// bare host gets an https scheme.
func (c *Config) ResolvedEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint(c.Region)
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return "https://" + c.Endpoint
	}
	return c.Endpoint
}
