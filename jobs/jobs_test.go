package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmarket/devmarket/internal/audit"
	"github.com/devmarket/devmarket/internal/rbac"
)

type fakeEnqueuer struct {
	tasks chan *asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks <- task
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "t", Queue: QueueDefault}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type auditResults struct {
	results chan error
}

func (a *auditResults) ObserveAudit(err error) { a.results <- err }

type recorder struct {
	got []audit.Denial
	err error
}

func (r *recorder) Record(_ context.Context, d audit.Denial) error {
	r.got = append(r.got, d)
	return r.err
}

func TestDenialPublisherEnqueuesAsync(t *testing.T) {
	enq := &fakeEnqueuer{tasks: make(chan *asynq.Task, 1)}
	obs := &auditResults{results: make(chan error, 1)}
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	pub := &DenialPublisher{Client: NewClientWith(enq), Observer: obs, now: func() time.Time { return at }}

	ctx, cancel := context.WithCancel(context.Background())
	pub.RecordDenial(ctx, rbac.Denial{ActorID: "u1", Role: "developer", Check: "action", Target: "manage_users", Method: "GET", Path: "/v1/admin/users"})
	cancel()

	var task *asynq.Task
	select {
	case task = <-enq.tasks:
	case <-time.After(time.Second):
		t.Fatal("task was not enqueued")
	}
	assert.Equal(t, TaskDenialAudit, task.Type())

	var payload DenialAuditPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, "u1", payload.ActorID)
	assert.Equal(t, "manage_users", payload.Target)
	assert.Equal(t, at, payload.At)

	select {
	case err := <-obs.results:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("audit outcome not observed")
	}
}

func TestDenialPublisherReportsEnqueueFailure(t *testing.T) {
	enq := &fakeEnqueuer{tasks: make(chan *asynq.Task, 1), err: errors.New("redis down")}
	obs := &auditResults{results: make(chan error, 1)}
	pub := &DenialPublisher{Client: NewClientWith(enq), Observer: obs}

	pub.RecordDenial(context.Background(), rbac.Denial{Check: "route"})
	select {
	case err := <-obs.results:
		assert.EqualError(t, err, "redis down")
	case <-time.After(time.Second):
		t.Fatal("audit outcome not observed")
	}

	var nilPublisher *DenialPublisher
	assert.NotPanics(t, func() { nilPublisher.RecordDenial(context.Background(), rbac.Denial{}) })
}

func TestDenialAuditHandler(t *testing.T) {
	rec := &recorder{}
	handler := NewDenialAuditHandler(rec, nil)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	task, err := NewDenialAuditTask(DenialAuditPayload{ID: "d1", Role: "anonymous", Check: "route", Target: "admin", At: at})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, rec.got, 1)
	assert.Equal(t, "d1", rec.got[0].ID)
	assert.Equal(t, at, rec.got[0].OccurredAt)

	rec.err = errors.New("insert failed")
	assert.EqualError(t, handler(context.Background(), task), "insert failed")

	err = handler(context.Background(), asynq.NewTask(TaskDenialAudit, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{})
	assert.Error(t, err)

	var w *Worker
	assert.Error(t, w.Run(context.Background()))
}

func TestHealthWithoutLoggerReportsUnavailableQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: addr})
	t.Cleanup(func() { _ = inspector.Close() })

	r := chi.NewRouter()
	NewHandler(inspector, nil).MountRoutes(r)

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
