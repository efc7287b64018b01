package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
)

// Storage drivers
const (
	DriverBOS    = "bos"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

// Configuration represents the complete application configuration
type Configuration struct {
	Global     GlobalConfig     `yaml:"global"`
	Storage    StorageConfig    `yaml:"storage"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// GlobalConfig represents global application settings
type GlobalConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`
	LogFormat string `yaml:"log_format"`
}

// StorageConfig selects and configures the storage client
type StorageConfig struct {
	Driver          string        `yaml:"driver"`
	Bucket          string        `yaml:"bucket"`
	Region          string        `yaml:"region"`
	Endpoint        string        `yaml:"endpoint"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	SessionToken    string        `yaml:"session_token"`
	ForcePathStyle  bool          `yaml:"force_path_style"`
	MaxRetries      int           `yaml:"max_retries"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// DefaultsConfig holds the options applied to every write
type DefaultsConfig struct {
	Visibility   string            `yaml:"visibility"`
	ContentType  string            `yaml:"content_type"`
	CacheControl string            `yaml:"cache_control"`
	StorageClass string            `yaml:"storage_class"`
	Headers      map[string]string `yaml:"headers"`
	Timeout      time.Duration     `yaml:"timeout"`
}

// MonitoringConfig represents monitoring settings
type MonitoringConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig represents metrics settings
type MetricsConfig struct {
	Enabled      bool              `yaml:"enabled"`
	Namespace    string            `yaml:"namespace"`
	CustomLabels map[string]string `yaml:"custom_labels"`
}

// NewDefault returns a configuration with sensible defaults
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel:  "INFO",
			LogFile:   "",
			LogFormat: "text",
		},
		Storage: StorageConfig{
			Driver:         DriverBOS,
			Region:         "bj",
			MaxRetries:     3,
			RequestTimeout: 30 * time.Second,
		},
		Defaults: DefaultsConfig{},
		Monitoring: MonitoringConfig{
			Metrics: MetricsConfig{
				Enabled:   true,
				Namespace: "bosfs",
				CustomLabels: map[string]string{
					"service": "bosfs",
				},
			},
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.NewError(errors.ErrCodeConfigLoad, "failed to read config file").
			WithComponent("config").
			WithContext("file", filename).
			WithCause(err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.NewError(errors.ErrCodeConfigLoad, "failed to parse config file").
			WithComponent("config").
			WithContext("file", filename).
			WithCause(err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables. The
// BDCLOUD_* variables used by other Baidu Cloud tools are read first, so
// BOSFS_* values take precedence.
func (c *Configuration) LoadFromEnv() error {
	// Baidu Cloud credentials
	if val := os.Getenv("BDCLOUD_ACCESS_KEY"); val != "" {
		c.Storage.AccessKeyID = val
	}
	if val := os.Getenv("BDCLOUD_SECRET_KEY"); val != "" {
		c.Storage.SecretAccessKey = val
	}
	if val := os.Getenv("BDCLOUD_DEFAULT_REGION"); val != "" {
		c.Storage.Region = val
	}

	// Global settings
	if val := os.Getenv("BOSFS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = strings.ToUpper(val)
	}
	if val := os.Getenv("BOSFS_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}
	if val := os.Getenv("BOSFS_LOG_FORMAT"); val != "" {
		c.Global.LogFormat = val
	}
	if val := os.Getenv("BOSFS_METRICS_ENABLED"); val != "" {
		c.Monitoring.Metrics.Enabled = strings.ToLower(val) == "true"
	}

	// Storage settings
	if val := os.Getenv("BOSFS_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := os.Getenv("BOSFS_BUCKET"); val != "" {
		c.Storage.Bucket = val
	}
	if val := os.Getenv("BOSFS_REGION"); val != "" {
		c.Storage.Region = val
	}
	if val := os.Getenv("BOSFS_ENDPOINT"); val != "" {
		c.Storage.Endpoint = val
	}
	if val := os.Getenv("BOSFS_ACCESS_KEY_ID"); val != "" {
		c.Storage.AccessKeyID = val
	}
	if val := os.Getenv("BOSFS_SECRET_ACCESS_KEY"); val != "" {
		c.Storage.SecretAccessKey = val
	}
	if val := os.Getenv("BOSFS_FORCE_PATH_STYLE"); val != "" {
		c.Storage.ForcePathStyle = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("BOSFS_MAX_RETRIES"); val != "" {
		retries, err := strconv.Atoi(val)
		if err != nil {
			return envError("BOSFS_MAX_RETRIES", val, err)
		}
		c.Storage.MaxRetries = retries
	}
	if val := os.Getenv("BOSFS_REQUEST_TIMEOUT"); val != "" {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return envError("BOSFS_REQUEST_TIMEOUT", val, err)
		}
		c.Storage.RequestTimeout = duration
	}

	// Write defaults
	if val := os.Getenv("BOSFS_DEFAULT_VISIBILITY"); val != "" {
		c.Defaults.Visibility = val
	}
	if val := os.Getenv("BOSFS_DEFAULT_STORAGE_CLASS"); val != "" {
		c.Defaults.StorageClass = val
	}

	return nil
}

func envError(name, value string, cause error) error {
	return errors.NewError(errors.ErrCodeInvalidConfig, "invalid value for "+name).
		WithComponent("config").
		WithContext("variable", name).
		WithContext("value", value).
		WithCause(cause)
}

// SaveToFile saves the configuration to a YAML file
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	switch c.Storage.Driver {
	case DriverBOS, DriverS3, DriverMemory:
	default:
		return invalid("driver", "invalid driver: %s (must be one of: %s, %s, %s)",
			c.Storage.Driver, DriverBOS, DriverS3, DriverMemory)
	}

	if c.Storage.Bucket == "" && c.Storage.Driver != DriverMemory {
		return errors.NewError(errors.ErrCodeMissingConfig, "bucket is required").
			WithComponent("config").
			WithContext("field", "bucket")
	}

	if c.Storage.MaxRetries < 0 {
		return invalid("max_retries", "max_retries cannot be negative")
	}

	if c.Storage.RequestTimeout < 0 {
		return invalid("request_timeout", "request_timeout cannot be negative")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if c.Global.LogLevel == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return invalid("log_level", "invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Defaults.Visibility != "" && !types.Visibility(c.Defaults.Visibility).Valid() {
		return invalid("visibility", "invalid default visibility: %s (must be %s or %s)",
			c.Defaults.Visibility, types.VisibilityPublic, types.VisibilityPrivate)
	}

	return nil
}

// PutOptions returns the write defaults as client put options.
func (d DefaultsConfig) PutOptions() types.PutOptions {
	opts := types.PutOptions{
		ContentType:  d.ContentType,
		CacheControl: d.CacheControl,
		StorageClass: d.StorageClass,
	}
	if len(d.Headers) > 0 {
		opts.Headers = make(map[string]string, len(d.Headers))
		for k, v := range d.Headers {
			opts.Headers[k] = v
		}
	}
	return opts
}

func invalid(field, format string, args ...interface{}) error {
	return errors.NewError(errors.ErrCodeInvalidConfig, fmt.Sprintf(format, args...)).
		WithComponent("config").
		WithContext("field", field)
}
