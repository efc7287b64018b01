/*
Package config provides configuration management for bosfs.

Configuration is assembled from three sources, later ones overriding earlier
ones:

 1. Compiled-in defaults (NewDefault)
 2. A YAML file (LoadFromFile)
 3. Environment variables (LoadFromEnv)

The command line applies its own flag overrides on top before calling
Validate.

# File Format

	global:
	  log_level: INFO
	  log_format: text
	storage:
	  driver: bos            # bos, s3 or memory
	  bucket: my-bucket
	  region: bj
	  endpoint: ""           # defaults to https://<region>.bcebos.com
	  access_key_id: ak
	  secret_access_key: sk
	  request_timeout: 30s
	defaults:
	  visibility: private
	  storage_class: STANDARD
	  headers:
	    x-bce-meta-owner: ops
	monitoring:
	  metrics:
	    enabled: true

# Environment Variables

BDCLOUD_ACCESS_KEY, BDCLOUD_SECRET_KEY and BDCLOUD_DEFAULT_REGION are honored
for compatibility with other Baidu Cloud tooling. Every BOSFS_* variable
(BOSFS_BUCKET, BOSFS_DRIVER, BOSFS_ENDPOINT, BOSFS_LOG_LEVEL, ...) overrides
them.

# Validation

Validate reports problems as *errors.Error values with code INVALID_CONFIG or
MISSING_CONFIG and the offending field in the "field" context key.
*/
package config
