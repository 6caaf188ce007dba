package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/devmarket/devmarket/internal/audit"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDenialAudit records a refused authorization check.
	TaskDenialAudit = "access:denial.audit"
)

// DenialAuditPayload is the task body for TaskDenialAudit.
type DenialAuditPayload struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Role      string    `json:"role"`
	Check     string    `json:"check"`
	Target    string    `json:"target"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

// NewDenialAuditTask constructs an Asynq task. The payload id doubles as the
// task id so a retried enqueue does not duplicate the entry.
func NewDenialAuditTask(payload DenialAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDenialAudit, data, asynq.TaskID(payload.ID), asynq.MaxRetry(5)), nil
}

// DenialRecorder persists decoded denials.
type DenialRecorder interface {
	Record(ctx context.Context, d audit.Denial) error
}

// NewDenialAuditHandler returns the processor for TaskDenialAudit.
func NewDenialAuditHandler(recorder DenialRecorder, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DenialAuditPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("jobs: decode denial audit: %v: %w", err, asynq.SkipRetry)
		}
		err := recorder.Record(ctx, audit.Denial{
			ID:         payload.ID,
			ActorID:    payload.ActorID,
			Role:       payload.Role,
			Check:      payload.Check,
			Target:     payload.Target,
			Method:     payload.Method,
			Path:       payload.Path,
			RequestID:  payload.RequestID,
			OccurredAt: payload.At,
		})
		if err != nil {
			if logger != nil {
				logger.Warn("record denial", slog.String("id", payload.ID), slog.Any("error", err))
			}
			return err
		}
		return nil
	}
}
