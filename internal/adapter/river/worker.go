package river

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"
)

// EventWorker processes forwarded domain events from the River queue.
// It logs each event with its identifying payload fields; notification
// side effects such as tenant onboarding mail hang off this worker.
type EventWorker struct {
	river.WorkerDefaults[EventJobArgs]
}

// Work processes a single event job.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[EventJobArgs]) error {
	var payload map[string]any
	if err := json.Unmarshal(job.Args.Payload, &payload); err != nil {
		// A payload that cannot be decoded will not decode on retry either.
		return river.JobCancel(fmt.Errorf("decoding %s payload: %w", job.Args.Event, err))
	}

	attrs := []any{
		"event", job.Args.Event,
		"occurred_at", job.Args.OccurredAt,
		"job_id", job.ID,
		"attempt", job.Attempt,
	}
	for _, key := range []string{"tenant_id", "slug", "course_id", "student_id"} {
		if v, ok := payload[key]; ok {
			attrs = append(attrs, key, v)
		}
	}

	slog.InfoContext(ctx, "processing event", attrs...)
	return nil
}
