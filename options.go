// Package blobcheck provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package blobcheck

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/blobcheck/checktypes"
)

// WithRegion sets the storage region.
// If not specified, uses the default region from the credential chain.
func WithRegion(region string) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed
// SDK requests. Default is 3 retries.
func WithMaxRetries(maxRetries int) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual probe requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the ceiling on in-flight existence probes.
// Default is 100 concurrent probes.
func WithConcurrency(concurrency int) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithEndpoint sets a custom storage endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithUsePathStyle forces path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
func WithUsePathStyle(usePathStyle bool) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.UsePathStyle = usePathStyle
	}
}

// WithConnectionString configures credentials, endpoint and region from
// a semicolon-delimited Key=Value string. See ParseConnectionString for
// the accepted keys.
func WithConnectionString(connectionString string) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.ConnectionString = connectionString
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithFilesystem sets the filesystem used for reading input files and
// writing exports. Defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithReporter sets the reporter that receives progress and result
// rendering callbacks. Defaults to a reporter that discards everything.
func WithReporter(reporter checktypes.Reporter) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Reporter = reporter
	}
}

// WithExport enables the result export in the given format.
func WithExport(format checktypes.ExportFormat) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Export = format
	}
}

// WithLogger configures the client with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) checktypes.Option {
	return func(c *checktypes.ClientConfig) {
		c.Logger = logger
	}
}
