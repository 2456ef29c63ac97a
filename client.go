// Package blobcheck provides client initialization and existence probing.
package blobcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/blobcheck/checktypes"
	bcerrors "github.com/input-output-hk/blobcheck/errors"
	"github.com/input-output-hk/blobcheck/internal/s3api"
)

// Client probes object existence against a storage backend. It is safe
// for concurrent use; the underlying SDK client is shared read-only
// across all probe workers.
type Client struct {
	// s3Client is the storage client behind the mockable interface
	s3Client s3api.S3API

	// config holds the AWS configuration
	config aws.Config

	// concurrency is the ceiling on in-flight probes
	concurrency int

	// reporter receives console-facing callbacks
	reporter checktypes.Reporter

	// export selects the optional result export
	export checktypes.ExportFormat

	// mu protects the filesystem swap in SetFilesystem
	mu sync.RWMutex

	// fs is the filesystem abstraction for input and export files
	fs fs.Filesystem

	// logger is used for structured logging of operations (thread-safe)
	logger *slog.Logger
}

// New creates a new blobcheck client with the provided options.
// Credentials come from a connection string when one is configured,
// otherwise from the SDK default credential chain.
//
// Example:
//
//	client, err := blobcheck.New(
//	    blobcheck.WithConnectionString(connStr),
//	    blobcheck.WithConcurrency(50),
//	)
func New(opts ...checktypes.Option) (*Client, error) {
	clientCfg := &checktypes.ClientConfig{
		MaxRetries:  3,
		Concurrency: checktypes.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	if clientCfg.Export != checktypes.ExportNone && clientCfg.Export != checktypes.ExportCSV {
		return nil, bcerrors.NewError("new", bcerrors.ErrInvalidExportFormat).
			WithMessage(string(clientCfg.Export))
	}

	var params *ConnectionParams
	if clientCfg.ConnectionString != "" {
		var err error
		params, err = ParseConnectionString(clientCfg.ConnectionString)
		if err != nil {
			return nil, err
		}
		if params.Region != "" {
			clientCfg.Region = params.Region
		}
		if params.Endpoint != "" {
			clientCfg.Endpoint = params.Endpoint
		}
		if params.UsePathStyle {
			clientCfg.UsePathStyle = true
		}
	}

	var cfg aws.Config
	var err error

	switch {
	case clientCfg.CustomAWSConfig != nil:
		cfg = *clientCfg.CustomAWSConfig
	default:
		var loadOpts []func(*config.LoadOptions) error
		if params != nil && params.AccessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(params.AccessKey, params.SecretKey, ""),
			))
		}
		cfg, err = config.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, bcerrors.NewError("new", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if clientCfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{Timeout: clientCfg.Timeout}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	client := &Client{
		s3Client:    s3Client,
		config:      cfg,
		concurrency: clientCfg.Concurrency,
		reporter:    clientCfg.Reporter,
		export:      clientCfg.Export,
		fs:          clientCfg.Filesystem,
		logger:      clientCfg.Logger,
	}
	client.applyDefaults()

	return client, nil
}

// NewWithClient creates a client around a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...checktypes.Option) *Client {
	clientCfg := &checktypes.ClientConfig{
		Concurrency: checktypes.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	client := &Client{
		s3Client:    s3Client,
		config:      aws.Config{},
		concurrency: clientCfg.Concurrency,
		reporter:    clientCfg.Reporter,
		export:      clientCfg.Export,
		fs:          clientCfg.Filesystem,
		logger:      clientCfg.Logger,
	}
	client.applyDefaults()

	return client
}

func (c *Client) applyDefaults() {
	if c.fs == nil {
		c.fs = billy.NewOSFS("/")
	}
	if c.reporter == nil {
		c.reporter = checktypes.NopReporter{}
	}
	if c.concurrency <= 0 {
		c.concurrency = checktypes.DefaultConcurrency
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Future: close any connection pools, cleanup resources
	return nil
}

// Exists checks whether an object exists in the container using a HEAD
// request. It returns true if the object exists, false if it does not,
// and an error only for other failures (network, permissions, missing
// container).
func (c *Client) Exists(ctx context.Context, container, key string) (bool, error) {
	if container == "" {
		return false, bcerrors.NewError("exists", bcerrors.ErrInvalidInput).
			WithKey(key).
			WithMessage("container name cannot be empty")
	}
	if key == "" {
		return false, bcerrors.NewError("exists", bcerrors.ErrInvalidInput).
			WithContainer(container).
			WithMessage("object key cannot be empty")
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	}

	_, err := c.s3Client.HeadObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, bcerrors.NewError("exists", classifyAPIError(err)).
			WithContainer(container).
			WithKey(key)
	}

	return true, nil
}

// Probe runs one existence check and maps the outcome onto a verdict.
// Probe never returns an error: one failing probe must not abort the
// batch, so failures surface as the Error verdict with the message
// captured.
func (c *Client) Probe(ctx context.Context, container, filename string) checktypes.Result {
	exists, err := c.Exists(ctx, container, filename)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "probe failed",
				"container", container,
				"key", filename,
				"error", err)
		}
		return checktypes.Result{
			Filename: filename,
			Verdict:  checktypes.VerdictError,
			Err:      err.Error(),
		}
	}

	verdict := checktypes.VerdictNo
	if exists {
		verdict = checktypes.VerdictYes
	}
	return checktypes.Result{Filename: filename, Verdict: verdict}
}

// isNotFound reports whether err is the backend's way of saying the
// object does not exist, as opposed to the probe itself failing.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	// HEAD responses carry no body, so some SDK paths surface the status
	// text only.
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}

// classifyAPIError maps well-known API error codes onto the package
// sentinels so callers can use errors.Is.
func classifyAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", bcerrors.ErrAccessDenied, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", bcerrors.ErrContainerNotFound, err)
		}
	}
	return err
}
