package checktypes

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// DefaultConcurrency is the ceiling on concurrent in-flight probes.
// A fixed cap keeps a large input from exhausting sockets or hammering
// the storage backend; it is deliberately not derived from input size.
const DefaultConcurrency = 100

// ExportFormat selects the optional result export encoding.
type ExportFormat string

// Supported export formats
const (
	// ExportNone disables the export (default)
	ExportNone ExportFormat = ""

	// ExportCSV writes the full result set as delimited text
	ExportCSV ExportFormat = "csv"
)

// ClientConfig holds the configuration for a blobcheck client.
type ClientConfig struct {
	// Region is the storage region
	Region string

	// MaxRetries is the retry count for SDK operations
	MaxRetries int

	// Timeout is the per-request timeout (0 means no timeout)
	Timeout time.Duration

	// Concurrency is the ceiling on in-flight probes
	Concurrency int

	// Endpoint is a custom storage endpoint (S3-compatible services)
	Endpoint string

	// UsePathStyle forces path-style addressing instead of virtual hosting
	UsePathStyle bool

	// ConnectionString is a semicolon-delimited Key=Value credential string.
	// When empty the SDK default credential chain is used.
	ConnectionString string

	// CustomAWSConfig overrides the default configuration loading
	CustomAWSConfig *aws.Config

	// Filesystem is the filesystem abstraction for reading input and
	// writing exports; defaults to the OS filesystem
	Filesystem fs.Filesystem

	// Reporter receives progress and result rendering callbacks
	Reporter Reporter

	// Export selects the optional result export format
	Export ExportFormat

	// Logger is used for structured logging of operations.
	// When nil, logging is disabled.
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*ClientConfig)

// Reporter receives console-facing side effects from the pipeline so the
// pipeline logic itself stays testable without capturing output.
type Reporter interface {
	// Start is called once before probing begins
	Start(container, inputPath string, total int)

	// Progress is called after each completion with the true completion
	// count, monotonically increasing up to total
	Progress(completed, total int)

	// Missing renders the subset of rows whose objects do not exist
	Missing(rows []Merged)

	// Summary renders the final tally
	Summary(s Summary)

	// Exported is called after the export file has been written
	Exported(path string)
}

// NopReporter is a Reporter that discards everything. It is the default
// for library use and keeps tests quiet.
type NopReporter struct{}

// Start implements Reporter.
func (NopReporter) Start(container, inputPath string, total int) {}

// Progress implements Reporter.
func (NopReporter) Progress(completed, total int) {}

// Missing implements Reporter.
func (NopReporter) Missing(rows []Merged) {}

// Summary implements Reporter.
func (NopReporter) Summary(s Summary) {}

// Exported implements Reporter.
func (NopReporter) Exported(path string) {}

// Verify NopReporter satisfies the interface
var _ Reporter = NopReporter{}
