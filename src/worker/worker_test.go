package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rimborso/src/infrastructure/job"
	"rimborso/src/pipeline"
	"rimborso/src/worker"
)

type mockRunner struct {
	runFn func(ctx context.Context, input job.Input) (*pipeline.Result, error)
}

func (m *mockRunner) Run(ctx context.Context, input job.Input) (*pipeline.Result, error) {
	return m.runFn(ctx, input)
}

func submitJob(t *testing.T, store job.Store, id string) {
	t.Helper()
	j := &job.Job{
		ID:        id,
		Status:    job.StatusPending,
		Payload:   json.RawMessage(`{"contract":{"key":"c"},"statement":{"key":"s"},"template":{"key":"t"}}`),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Submit(context.Background(), j); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestRunOnceCompletesJob(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()
	submitJob(t, store, "j1")

	w := worker.New(store, &mockRunner{
		runFn: func(ctx context.Context, input job.Input) (*pipeline.Result, error) {
			return &pipeline.Result{Letter: "lettera"}, nil
		},
	})

	worked, err := w.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !worked {
		t.Fatal("RunOnce should have processed the job")
	}

	j, err := store.Get(ctx, "j1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if j.Status != job.StatusCompleted {
		t.Errorf("Status = %q, want completed", j.Status)
	}
	if j.CompletedAt == nil || j.FailedAt != nil {
		t.Errorf("exactly CompletedAt must be set, got %+v", j)
	}
	if j.Result == nil || j.Error != nil {
		t.Errorf("completed job carries a result and no error, got %+v", j)
	}
}

func TestRunOnceRecordsPipelineFailure(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()
	submitJob(t, store, "j1")

	w := worker.New(store, &mockRunner{
		runFn: func(ctx context.Context, input job.Input) (*pipeline.Result, error) {
			return nil, errors.New("analysis chat failed: timeout")
		},
	})

	worked, err := w.RunOnce(ctx)
	if err != nil {
		t.Fatalf("pipeline failure must not surface as a worker error, got %v", err)
	}
	if !worked {
		t.Fatal("RunOnce should have processed the job")
	}

	j, _ := store.Get(ctx, "j1")
	if j.Status != job.StatusFailed {
		t.Errorf("Status = %q, want failed", j.Status)
	}
	if j.Error == nil || *j.Error != "analysis chat failed: timeout" {
		t.Errorf("raw error message must be preserved, got %v", j.Error)
	}
	if j.FailedAt == nil || j.CompletedAt != nil {
		t.Errorf("exactly FailedAt must be set, got %+v", j)
	}
}

func TestFailedJobIsNeverRetried(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()
	submitJob(t, store, "j1")

	calls := 0
	w := worker.New(store, &mockRunner{
		runFn: func(ctx context.Context, input job.Input) (*pipeline.Result, error) {
			calls++
			return nil, errors.New("boom")
		},
	})

	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	// The queue is drained; nothing left to process.
	worked, err := w.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if worked {
		t.Error("a failed job must stay failed, not be requeued")
	}
	if calls != 1 {
		t.Errorf("pipeline ran %d times, want 1", calls)
	}

	j, _ := store.Get(ctx, "j1")
	if j.Status != job.StatusFailed {
		t.Errorf("terminal status reverted to %q", j.Status)
	}
}

func TestRunOnceEmptyQueue(t *testing.T) {
	w := worker.New(job.NewMemoryStore(), &mockRunner{
		runFn: func(ctx context.Context, input job.Input) (*pipeline.Result, error) {
			t.Fatal("runner must not be called on an empty queue")
			return nil, nil
		},
	})

	worked, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if worked {
		t.Error("empty queue must report no work")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := job.NewMemoryStore()
	w := worker.New(store, &mockRunner{
		runFn: func(ctx context.Context, input job.Input) (*pipeline.Result, error) {
			return &pipeline.Result{}, nil
		},
	}, worker.WithIdleInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestRunProcessesUntilQueueDrained(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := job.NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		submitJob(t, store, id)
	}

	w := worker.New(store, &mockRunner{
		runFn: func(ctx context.Context, input job.Input) (*pipeline.Result, error) {
			return &pipeline.Result{}, nil
		},
	}, worker.WithIdleInterval(5*time.Millisecond))

	go w.Run(ctx)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("jobs were not processed in time")
		default:
		}

		done := true
		for _, id := range []string{"a", "b", "c"} {
			j, err := store.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !j.Status.Terminal() {
				done = false
			}
		}
		if done {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}
