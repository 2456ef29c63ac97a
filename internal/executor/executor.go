// Package executor runs existence probes with bounded concurrency.
// It fans one task out per input row, caps the number of in-flight
// probes, and fans results back in as they complete.
package executor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/input-output-hk/blobcheck/checktypes"
)

// ProbeFunc issues one existence probe for a single input row.
// Implementations must not return errors; failures are reported through
// the VerdictError result shape so one bad probe cannot abort the batch.
type ProbeFunc func(ctx context.Context, row checktypes.Row) checktypes.Result

// CompletionFunc is invoked after each completed probe with the true
// completion count, never the submission count.
type CompletionFunc func(completed, total int)

// completion carries one finished probe back to the draining goroutine.
// The index is the submission identity; merging by it keeps duplicate
// filenames correct.
type completion struct {
	index  int
	result checktypes.Result
}

// Run probes every row with at most limit in-flight probes and returns
// exactly one Merged per row, sorted by filename ascending. Rows that
// share a filename keep their relative completion order.
//
// Workers hand results back over a channel; the caller's goroutine is
// the only one that touches the output slice and the completion
// counter, so no locking is needed on either.
func Run(
	ctx context.Context,
	rows []checktypes.Row,
	limit int,
	probe ProbeFunc,
	onComplete CompletionFunc,
) []checktypes.Merged {
	total := len(rows)
	if total == 0 {
		return nil
	}
	if limit <= 0 {
		limit = checktypes.DefaultConcurrency
	}

	sem := make(chan struct{}, limit)
	// Buffered for the whole batch so workers never block on send and
	// submission cannot deadlock against the drain below.
	results := make(chan completion, total)

	var wg sync.WaitGroup
	wg.Add(total)
	// Submit from a separate goroutine so the drain loop below reports
	// completions while later rows are still waiting on the semaphore.
	go func() {
		for i, row := range rows {
			sem <- struct{}{}
			go func(index int, row checktypes.Row) {
				defer func() {
					<-sem
					wg.Done()
				}()
				results <- completion{index: index, result: safeProbe(ctx, row, probe)}
			}(i, row)
		}
	}()

	merged := make([]checktypes.Merged, 0, total)
	for completed := 1; completed <= total; completed++ {
		c := <-results
		merged = append(merged, checktypes.Merged{
			Row:    rows[c.index],
			Result: c.result,
		})
		if onComplete != nil {
			onComplete(completed, total)
		}
	}
	wg.Wait()

	// Completion order is nondeterministic; impose a total order for
	// reporting. The stable sort keeps duplicate filenames in their
	// relative completion order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Result.Filename < merged[j].Result.Filename
	})

	return merged
}

// safeProbe converts a panicking probe into an Error-verdict result.
// A task-level failure and a probe-reported failure collapse to the
// same verdict shape.
func safeProbe(ctx context.Context, row checktypes.Row, probe ProbeFunc) (res checktypes.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = checktypes.Result{
				Filename: row.Filename(),
				Verdict:  checktypes.VerdictError,
				Err:      fmt.Sprintf("probe task failed: %v", r),
			}
		}
	}()
	return probe(ctx, row)
}
