// Package blobcheck verifies that object names listed in a delimited
// input file exist in a remote storage container and reports the results.
// It wraps AWS SDK v2 behind a small probing interface and runs the
// existence checks as a bounded-concurrency fan-out/fan-in pipeline.
//
// Key features:
//   - One HEAD-request existence probe per input row
//   - Fixed concurrency ceiling (100 in-flight probes by default)
//   - Per-object failures surface as Error-verdict rows; the batch never aborts
//   - Deterministic output: results sorted by filename after completion
//   - Optional full-result CSV export next to the input file
//   - Pluggable reporting so the pipeline stays testable without a console
//
// Example usage:
//
//	client, err := blobcheck.New(
//	    blobcheck.WithConnectionString(connStr),
//	    blobcheck.WithExport(checktypes.ExportCSV),
//	)
//	if err != nil {
//	    return err
//	}
//
//	report, err := client.Check(ctx, "my-container", "objects.csv")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("missing: %d\n", report.Summary.Missing)
package blobcheck
