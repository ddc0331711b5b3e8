package executor

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/modulrcloud/sputnik-rpc/metrics"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"
)

// Recorder persists one record per executor run.
type Recorder interface {
	Record(rec *structures.InvocationRecord) error
}

// WithMetrics counts and times every run of next.
func WithMetrics(next Invoker) Invoker {
	return InvokerFunc(func(ctx context.Context, inv structures.EngineInvocation) error {

		metrics.InvocationStarted()
		defer metrics.InvocationFinished()

		started := time.Now()
		err := next.Invoke(ctx, inv)

		metrics.ObserveInvocation(string(inv.Mode), string(statusOf(err)), time.Since(started).Seconds())

		return err

	})
}

// WithJournal writes an InvocationRecord for every run of next, successful or not. A journal
// failure is logged and never changes the outcome of the call.
func WithJournal(next Invoker, recorder Recorder) Invoker {

	if recorder == nil {
		return next
	}

	return InvokerFunc(func(ctx context.Context, inv structures.EngineInvocation) error {

		started := time.Now()
		err := next.Invoke(ctx, inv)

		rec := &structures.InvocationRecord{
			Method:     inv.Method,
			Mode:       inv.Mode,
			Argument:   string(inv.Argument),
			StartedAt:  started.UnixMilli(),
			DurationMs: time.Since(started).Milliseconds(),
			Status:     statusOf(err),
		}

		rec.Id = utils.Blake3(inv.Method + ":" + string(inv.Mode) + ":" + rec.Argument + ":" + strconv.FormatInt(started.UnixNano(), 10))

		var procErr *ProcessError
		if errors.As(err, &procErr) {
			rec.ExitCode = procErr.ExitCode
		}
		if err != nil {
			rec.Error = err.Error()
		}

		if err == nil && inv.OutputPath != "" {
			if info, statErr := os.Stat(inv.OutputPath); statErr == nil {
				rec.OutputBytes = int(info.Size())
			}
		}

		if recErr := recorder.Record(rec); recErr != nil {
			utils.LogWithTimeThrottled("journal-write", 10*time.Second, "Failed to journal invocation: "+recErr.Error(), utils.RED_COLOR)
		}

		return err

	})

}

func statusOf(err error) structures.InvocationStatus {
	if err == nil {
		return structures.StatusOk
	}
	var procErr *ProcessError
	if errors.As(err, &procErr) && procErr.TimedOut {
		return structures.StatusTimeout
	}
	return structures.StatusFailed
}
