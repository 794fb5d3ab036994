package job_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"rimborso/src/infrastructure/job"
)

func newTestJob(id string) *job.Job {
	return &job.Job{
		ID:        id,
		Status:    job.StatusPending,
		Payload:   json.RawMessage(`{}`),
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStoreSubmitAndGet(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()

	if err := store.Submit(ctx, newTestJob("a")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != job.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}

	// Read-idempotent: repeated gets before processing are identical.
	again, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("repeated Get returned a different record: %+v vs %+v", got, again)
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := job.NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, job.ErrNotFound) {
		t.Errorf("Get unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDequeueFIFO(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()

	for _, id := range []string{"first", "second", "third"} {
		if err := store.Submit(ctx, newTestJob(id)); err != nil {
			t.Fatalf("Submit(%s): %v", id, err)
		}
	}

	for _, want := range []string{"first", "second", "third"} {
		id, ok, err := store.Dequeue(ctx)
		if err != nil || !ok {
			t.Fatalf("Dequeue: ok=%v err=%v", ok, err)
		}
		if id != want {
			t.Errorf("Dequeue = %q, want %q", id, want)
		}
	}

	if _, ok, _ := store.Dequeue(ctx); ok {
		t.Error("Dequeue on empty queue should report not ok")
	}
}

func TestMemoryStoreConcurrentDequeue(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()

	if err := store.Submit(ctx, newTestJob("only")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	const callers = 2
	results := make([]bool, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, ok, err := store.Dequeue(ctx)
			if err != nil {
				t.Errorf("Dequeue: %v", err)
			}
			results[i] = ok
		}(i)
	}
	close(start)
	wg.Wait()

	won := 0
	for _, ok := range results {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Errorf("exactly one concurrent caller must receive the id, got %d", won)
	}
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()

	j := newTestJob("a")
	if err := store.Submit(ctx, j); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	now := time.Now().UTC()
	j.Status = job.StatusCompleted
	j.CompletedAt = &now
	j.Result = json.RawMessage(`{"refund":480}`)

	if err := store.Save(ctx, j); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, j); err != nil {
		t.Fatalf("Save (repeat): %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != job.StatusCompleted || got.CompletedAt == nil {
		t.Errorf("saved record not visible: %+v", got)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := job.NewMemoryStore()

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		j := newTestJob(id)
		j.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Submit(ctx, j); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	jobs, err := store.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "new" || jobs[1].ID != "mid" {
		t.Errorf("List = %v, want [new mid]", jobs)
	}
}
