// Package blobcheck provides the end-to-end existence check pipeline.
package blobcheck

import (
	"context"
	"time"

	"github.com/input-output-hk/blobcheck/checktypes"
	bcerrors "github.com/input-output-hk/blobcheck/errors"
	"github.com/input-output-hk/blobcheck/internal/csvio"
	"github.com/input-output-hk/blobcheck/internal/executor"
)

// Check runs the full pipeline against one input file: parse the input,
// probe every FILENAME with bounded concurrency, sort the merged
// results by filename, tally the summary, render through the reporter,
// and export when configured.
//
// Input problems (unreadable file, missing FILENAME column) abort
// before any probe is issued. Once probing starts the batch always runs
// to completion: per-object failures become Error-verdict rows, never
// errors from Check.
func (c *Client) Check(ctx context.Context, container, inputPath string) (*checktypes.Report, error) {
	if container == "" {
		return nil, bcerrors.NewError("check", bcerrors.ErrInvalidInput).
			WithMessage("container name cannot be empty")
	}
	if inputPath == "" {
		return nil, bcerrors.NewError("check", bcerrors.ErrInvalidInput).
			WithMessage("input path cannot be empty")
	}

	start := time.Now()

	input, err := csvio.ReadInput(c.filesystem(), inputPath)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to read input",
				"path", inputPath,
				"error", err)
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "input parsed",
			"path", inputPath,
			"rows", len(input.Rows),
			"columns", len(input.Header))
	}
	c.reporter.Start(container, inputPath, len(input.Rows))

	if c.logger != nil {
		c.logger.InfoContext(ctx, "probing container",
			"container", container,
			"rows", len(input.Rows),
			"concurrency", c.concurrency)
	}

	merged := executor.Run(ctx, input.Rows, c.concurrency,
		func(ctx context.Context, row checktypes.Row) checktypes.Result {
			return c.Probe(ctx, container, row.Filename())
		},
		c.reporter.Progress,
	)

	summary := checktypes.Summarize(merged, time.Since(start))
	report := &checktypes.Report{
		Header:  input.Header,
		Rows:    merged,
		Summary: summary,
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "probes complete",
			"total", summary.Total,
			"existing", summary.Existing,
			"missing", summary.Missing,
			"errors", summary.Errors,
			"elapsed", summary.Elapsed)
	}

	c.reporter.Missing(report.Missing())
	c.reporter.Summary(summary)

	if c.export == checktypes.ExportCSV && len(report.Rows) > 0 {
		exportPath := csvio.ExportPath(inputPath)
		if err := csvio.WriteReport(c.filesystem(), exportPath, report); err != nil {
			if c.logger != nil {
				c.logger.ErrorContext(ctx, "failed to write export",
					"path", exportPath,
					"error", err)
			}
			return nil, bcerrors.NewError("export", err)
		}
		if c.logger != nil {
			c.logger.InfoContext(ctx, "export written",
				"path", exportPath,
				"rows", len(report.Rows))
		}
		c.reporter.Exported(exportPath)
	}

	return report, nil
}
