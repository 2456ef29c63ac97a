// Package checktypes provides shared type definitions for the blobcheck module.
package checktypes

import "time"

// Verdict classifies the outcome of a single existence probe.
type Verdict string

// Probe verdicts
const (
	// VerdictYes means the object exists in the container
	VerdictYes Verdict = "Yes"

	// VerdictNo means the object does not exist in the container
	VerdictNo Verdict = "No"

	// VerdictError means the probe itself failed (network, permissions, etc.)
	VerdictError Verdict = "Error"
)

// FilenameColumn is the input column that holds the object key to probe.
// Input files without this column are rejected before any probing starts.
const FilenameColumn = "FILENAME"

// Row is a single input record keyed by header column name.
// Rows are immutable after parsing; column order is a property of the
// file, not the row, and lives on Input.Header.
type Row map[string]string

// Filename returns the object key this row asks to be probed.
func (r Row) Filename() string {
	return r[FilenameColumn]
}

// Input is a parsed input file: the header in original column order plus
// one Row per record. Extra columns pass through the pipeline untouched.
type Input struct {
	// Header is the column names in file order
	Header []string

	// Rows is the parsed records, one per input line
	Rows []Row
}

// Result is the outcome of one existence probe.
type Result struct {
	// Filename is the object key that was probed
	Filename string

	// Verdict is the probe classification
	Verdict Verdict

	// Err holds the error text when Verdict is VerdictError, empty otherwise
	Err string
}

// Merged pairs an input row with the result of the probe submitted for it.
// The pairing is by submission identity, never by filename lookup, so
// duplicate filenames in the input stay correct.
type Merged struct {
	// Row is the original input record
	Row Row

	// Result is the probe outcome for this specific submission
	Result Result
}

// Summary is the per-verdict tally for one pipeline run.
type Summary struct {
	// Total is the number of input rows processed
	Total int

	// Existing is the number of rows with VerdictYes
	Existing int

	// Missing is the number of rows with VerdictNo
	Missing int

	// Errors is the number of rows with VerdictError
	Errors int

	// Elapsed is the wall-clock time from pipeline start to aggregation
	Elapsed time.Duration
}

// Report is the full outcome of a pipeline run: every merged row sorted
// by filename, plus the derived summary.
type Report struct {
	// Header is the input column order, needed to reproduce export columns
	Header []string

	// Rows is one Merged per input row, sorted by filename ascending
	Rows []Merged

	// Summary is the per-verdict tally
	Summary Summary
}

// Missing returns the subset of rows whose objects do not exist.
// This is the actionable output of a run.
func (r *Report) Missing() []Merged {
	var missing []Merged
	for _, m := range r.Rows {
		if m.Result.Verdict == VerdictNo {
			missing = append(missing, m)
		}
	}
	return missing
}

// Summarize tallies merged rows by verdict.
func Summarize(rows []Merged, elapsed time.Duration) Summary {
	s := Summary{
		Total:   len(rows),
		Elapsed: elapsed,
	}
	for _, m := range rows {
		switch m.Result.Verdict {
		case VerdictYes:
			s.Existing++
		case VerdictNo:
			s.Missing++
		case VerdictError:
			s.Errors++
		}
	}
	return s
}
