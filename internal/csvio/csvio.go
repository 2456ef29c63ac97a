// Package csvio reads check input files and writes result exports.
// All file access goes through the fs.Filesystem abstraction so tests
// can run against an in-memory filesystem.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/blobcheck/checktypes"
	bcerrors "github.com/input-output-hk/blobcheck/errors"
)

// ExportSuffix is inserted before the extension when deriving the
// export path from the input path.
const ExportSuffix = "_blob_check"

// Verdict columns appended to the original header on export.
const (
	existsColumn = "Exists"
	errorColumn  = "Error"
)

// ReadInput parses a delimited input file with a header row. The header
// must contain the FILENAME column; extra columns pass through untouched.
// Records shorter than the header get empty strings for the missing
// columns, and fields beyond the header are dropped.
func ReadInput(fsys fs.Filesystem, path string) (*checktypes.Input, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		// An empty file has no header, so the FILENAME column is missing.
		return nil, bcerrors.NewError("read", bcerrors.ErrMissingFilenameColumn).
			WithMessage(fmt.Sprintf("input file %s is empty", path))
	}
	if err != nil {
		return nil, fmt.Errorf("read input header: %w", err)
	}

	// A UTF-8 BOM on the first column name would break the lookup.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	hasFilename := false
	for _, col := range header {
		if col == checktypes.FilenameColumn {
			hasFilename = true
			break
		}
	}
	if !hasFilename {
		return nil, bcerrors.NewError("read", bcerrors.ErrMissingFilenameColumn).
			WithMessage(fmt.Sprintf("input file %s has columns %v", path, header))
	}

	input := &checktypes.Input{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input record: %w", err)
		}

		row := make(checktypes.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		input.Rows = append(input.Rows, row)
	}

	return input, nil
}

// ExportPath derives the export file location from the input path: the
// stem gains a fixed suffix before the extension. Invoking the tool
// twice on the same input silently overwrites the previous export.
func ExportPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ExportSuffix + ext
}

// WriteReport serializes every merged row to path: the original columns
// in input order plus the verdict columns. Nothing is written for an
// empty result set; the caller is expected to gate on that, and this
// function guards it as well so no malformed header-only file appears.
func WriteReport(fsys fs.Filesystem, path string, report *checktypes.Report) error {
	if len(report.Rows) == 0 {
		return nil
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	header := exportHeader(report.Header)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, m := range report.Rows {
		record := make([]string, 0, len(header))
		for _, col := range header {
			record = append(record, exportValue(m, col))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write export record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	return nil
}

// exportHeader appends the verdict columns to the original header.
// If the input already carried columns with those names, the probe
// results override them rather than duplicating the column.
func exportHeader(original []string) []string {
	header := make([]string, 0, len(original)+2)
	header = append(header, original...)
	for _, col := range []string{existsColumn, errorColumn} {
		if !contains(original, col) {
			header = append(header, col)
		}
	}
	return header
}

func exportValue(m checktypes.Merged, col string) string {
	switch col {
	case existsColumn:
		return string(m.Result.Verdict)
	case errorColumn:
		return m.Result.Err
	default:
		return m.Row[col]
	}
}

func contains(cols []string, name string) bool {
	for _, col := range cols {
		if col == name {
			return true
		}
	}
	return false
}
