package checktypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestSummarize tests tallying verdicts into a summary.
func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		rows []Merged
		want Summary
	}{
		{
			name: "empty",
			rows: nil,
			want: Summary{},
		},
		{
			name: "mixed verdicts",
			rows: []Merged{
				{Result: Result{Filename: "a.txt", Verdict: VerdictYes}},
				{Result: Result{Filename: "b.txt", Verdict: VerdictYes}},
				{Result: Result{Filename: "c.txt", Verdict: VerdictNo}},
				{Result: Result{Filename: "d.txt", Verdict: VerdictError, Err: "boom"}},
			},
			want: Summary{Total: 4, Existing: 2, Missing: 1, Errors: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.rows, 0)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSummarize_KeepsElapsed tests that the measured duration is
// carried into the summary unchanged.
func TestSummarize_KeepsElapsed(t *testing.T) {
	got := Summarize(nil, 1500*time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, got.Elapsed)
}

// TestReport_Missing tests filtering a report down to its missing rows.
func TestReport_Missing(t *testing.T) {
	report := &Report{
		Rows: []Merged{
			{Result: Result{Filename: "a.txt", Verdict: VerdictYes}},
			{Result: Result{Filename: "b.txt", Verdict: VerdictNo}},
			{Result: Result{Filename: "c.txt", Verdict: VerdictError}},
			{Result: Result{Filename: "d.txt", Verdict: VerdictNo}},
		},
	}

	missing := report.Missing()
	assert.Len(t, missing, 2)
	assert.Equal(t, "b.txt", missing[0].Result.Filename)
	assert.Equal(t, "d.txt", missing[1].Result.Filename)
}

// TestRow_Filename tests extracting the FILENAME value from a row.
func TestRow_Filename(t *testing.T) {
	row := Row{FilenameColumn: "a.txt", "OWNER": "alice"}
	assert.Equal(t, "a.txt", row.Filename())

	assert.Empty(t, Row{"OWNER": "alice"}.Filename())
}
