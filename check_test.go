// Package blobcheck provides tests for the end-to-end pipeline.
package blobcheck

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/blobcheck/checktypes"
	bcerrors "github.com/input-output-hk/blobcheck/errors"
	"github.com/input-output-hk/blobcheck/internal/testutil"
)

// headForBackend fakes a backend that contains exactly the given keys.
func headForBackend(existing map[string]bool) func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return func(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		if existing[aws.ToString(params.Key)] {
			return &s3.HeadObjectOutput{}, nil
		}
		return nil, testutil.NotFoundError()
	}
}

func writeInput(t *testing.T, fsys *billy.FS, path, content string) {
	t.Helper()
	require.NoError(t, fsys.WriteFile(path, []byte(content), 0o644))
}

// TestClient_Check_Scenario tests the full pipeline against a mixed
// batch of existing, missing and failing objects.
func TestClient_Check_Scenario(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\na.txt\nb.txt\nmissing.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{"a.txt": true, "b.txt": true}),
	}
	client := NewWithClient(mock, WithFilesystem(fsys))

	report, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Existing)
	assert.Equal(t, 1, report.Summary.Missing)
	assert.Equal(t, 0, report.Summary.Errors)

	missing := report.Missing()
	require.Len(t, missing, 1)
	assert.Equal(t, "missing.txt", missing[0].Result.Filename)
}

// TestClient_Check_ResultsSortedByFilename tests that report rows come
// back sorted by filename regardless of completion order.
func TestClient_Check_ResultsSortedByFilename(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\nzebra.txt\napple.txt\nmango.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{
			"zebra.txt": true, "apple.txt": true, "mango.txt": true,
		}),
	}
	client := NewWithClient(mock, WithFilesystem(fsys))

	report, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	got := make([]string, 0, len(report.Rows))
	for _, m := range report.Rows {
		got = append(got, m.Result.Filename)
	}
	assert.Equal(t, []string{"apple.txt", "mango.txt", "zebra.txt"}, got)
}

// TestClient_Check_DuplicateFilenames tests that rows sharing a
// filename each receive their own verdict.
func TestClient_Check_DuplicateFilenames(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "ID,FILENAME\n1,dup.txt\n2,dup.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{"dup.txt": true}),
	}
	client := NewWithClient(mock, WithFilesystem(fsys))

	report, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	// One result per row, each merged with the row it was submitted
	// with, even though the filenames collide.
	require.Len(t, report.Rows, 2)
	ids := map[string]bool{}
	for _, m := range report.Rows {
		assert.Equal(t, "dup.txt", m.Result.Filename)
		assert.Equal(t, checktypes.VerdictYes, m.Result.Verdict)
		ids[m.Row["ID"]] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true}, ids)
}

// TestClient_Check_PermissionErrorIsolatedToRow tests that a
// permission failure on one object does not disturb the other rows.
func TestClient_Check_PermissionErrorIsolatedToRow(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\na.txt\nsecret.txt\nb.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			if aws.ToString(params.Key) == "secret.txt" {
				return nil, testutil.AccessDeniedError()
			}
			return &s3.HeadObjectOutput{}, nil
		},
	}
	client := NewWithClient(mock, WithFilesystem(fsys))

	report, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err, "one failing probe must not abort the batch")

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Existing)
	assert.Equal(t, 0, report.Summary.Missing)
	assert.Equal(t, 1, report.Summary.Errors)

	for _, m := range report.Rows {
		if m.Result.Filename == "secret.txt" {
			assert.Equal(t, checktypes.VerdictError, m.Result.Verdict)
			assert.NotEmpty(t, m.Result.Err)
		}
	}
}

// TestClient_Check_EmptyInputProducesNoExport tests that a header-only
// input yields an empty report and no export file.
func TestClient_Check_EmptyInputProducesNoExport(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\n")

	client := NewWithClient(&testutil.MockS3Client{},
		WithFilesystem(fsys),
		WithExport(checktypes.ExportCSV),
	)

	report, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)
	assert.Equal(t, checktypes.Summary{Total: 0, Elapsed: report.Summary.Elapsed}, report.Summary)

	exists, err := fsys.Exists("/objects_blob_check.csv")
	require.NoError(t, err)
	assert.False(t, exists, "empty result set must not produce an export file")
}

// TestClient_Check_ExportWritesFullResultSet tests that the export file
// carries every row with its verdict columns, not just the missing ones.
func TestClient_Check_ExportWritesFullResultSet(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "ID,FILENAME\n1,a.txt\n2,missing.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{"a.txt": true}),
	}
	client := NewWithClient(mock,
		WithFilesystem(fsys),
		WithExport(checktypes.ExportCSV),
	)

	_, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	data, err := fsys.ReadFile("/objects_blob_check.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"ID,FILENAME,Exists,Error\n"+
			"1,a.txt,Yes,\n"+
			"2,missing.txt,No,\n",
		string(data))
}

// TestClient_Check_FatalInputErrors tests that input problems abort the
// run before any probe is issued.
func TestClient_Check_FatalInputErrors(t *testing.T) {
	tests := []struct {
		name      string
		container string
		path      string
		content   string
		errCheck  func(error) bool
	}{
		{
			name:      "missing FILENAME column",
			container: "assets",
			path:      "/objects.csv",
			content:   "NAME\na.txt\n",
			errCheck:  bcerrors.IsMissingFilenameColumn,
		},
		{
			name:      "empty container name",
			container: "",
			path:      "/objects.csv",
			content:   "FILENAME\na.txt\n",
			errCheck:  bcerrors.IsInvalidInput,
		},
		{
			name:      "empty input path",
			container: "assets",
			path:      "",
			content:   "",
			errCheck:  bcerrors.IsInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := billy.NewInMemoryFS()
			if tt.content != "" {
				writeInput(t, fsys, "/objects.csv", tt.content)
			}

			var headCalls int64
			mock := &testutil.MockS3Client{
				HeadObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
					atomic.AddInt64(&headCalls, 1)
					return &s3.HeadObjectOutput{}, nil
				},
			}
			client := NewWithClient(mock, WithFilesystem(fsys))

			_, err := client.Check(context.Background(), tt.container, tt.path)
			require.Error(t, err)
			assert.True(t, tt.errCheck(err), "unexpected error kind: %v", err)
			assert.Zero(t, atomic.LoadInt64(&headCalls), "fatal input errors must abort before probing")
		})
	}
}

// TestClient_Check_ConcurrencyCeiling tests that in-flight probes never
// exceed the configured ceiling.
func TestClient_Check_ConcurrencyCeiling(t *testing.T) {
	const total = 500
	const limit = 100

	var sb strings.Builder
	sb.WriteString("FILENAME\n")
	for i := 0; i < total; i++ {
		fmt.Fprintf(&sb, "file-%03d.txt\n", i)
	}

	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", sb.String())

	var inFlight, peak int64
	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			current := atomic.AddInt64(&inFlight, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if current <= old || atomic.CompareAndSwapInt64(&peak, old, current) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return &s3.HeadObjectOutput{}, nil
		},
	}
	client := NewWithClient(mock, WithFilesystem(fsys), WithConcurrency(limit))

	report, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	assert.Equal(t, total, report.Summary.Total)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(limit))
}

// recordingReporter captures reporter callbacks for assertions.
type recordingReporter struct {
	mu       sync.Mutex
	started  bool
	total    int
	progress []int
	missing  []string
	summary  *checktypes.Summary
	exported string
}

func (r *recordingReporter) Start(_, _ string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	r.total = total
}

func (r *recordingReporter) Progress(completed, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, completed)
}

func (r *recordingReporter) Missing(rows []checktypes.Merged) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range rows {
		r.missing = append(r.missing, m.Result.Filename)
	}
}

func (r *recordingReporter) Summary(s checktypes.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = &s
}

func (r *recordingReporter) Exported(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exported = path
}

// TestClient_Check_ReporterCallbacks tests that the reporter receives
// every callback in pipeline order.
func TestClient_Check_ReporterCallbacks(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\na.txt\nmissing.txt\n")

	reporter := &recordingReporter{}
	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{"a.txt": true}),
	}
	client := NewWithClient(mock,
		WithFilesystem(fsys),
		WithReporter(reporter),
		WithExport(checktypes.ExportCSV),
	)

	_, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	assert.True(t, reporter.started)
	assert.Equal(t, 2, reporter.total)
	assert.Equal(t, []int{1, 2}, reporter.progress)
	assert.Equal(t, []string{"missing.txt"}, reporter.missing)
	require.NotNil(t, reporter.summary)
	assert.Equal(t, 1, reporter.summary.Existing)
	assert.Equal(t, 1, reporter.summary.Missing)
	assert.Equal(t, "/objects_blob_check.csv", reporter.exported)
}

// TestClient_Check_Idempotent runs the pipeline twice against the same
// backend state and expects identical verdict sets.
func TestClient_Check_Idempotent(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\na.txt\nb.txt\nmissing.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{"a.txt": true, "b.txt": true}),
	}
	client := NewWithClient(mock, WithFilesystem(fsys))

	first, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)
	second, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Result, second.Rows[i].Result)
	}
}

// TestClient_Check_LogsWhenConfigured tests that a configured logger
// receives the pipeline milestones.
func TestClient_Check_LogsWhenConfigured(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	writeInput(t, fsys, "/objects.csv", "FILENAME\na.txt\nmissing.txt\n")

	mock := &testutil.MockS3Client{
		HeadObjectFunc: headForBackend(map[string]bool{"a.txt": true}),
	}

	var logs bytes.Buffer
	client := NewWithClient(mock,
		WithFilesystem(fsys),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	_, err := client.Check(context.Background(), "assets", "/objects.csv")
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "input parsed")
	assert.Contains(t, logs.String(), "probing container")
	assert.Contains(t, logs.String(), "concurrency="+strconv.Itoa(checktypes.DefaultConcurrency))
	assert.Contains(t, logs.String(), "probes complete")
}
