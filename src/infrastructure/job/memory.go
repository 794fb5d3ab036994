package job

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store: a keyed map plus one FIFO slice,
// both guarded by a single mutex. Suitable for single-binary deployments
// and tests; the Postgres store covers multi-process workers.
type MemoryStore struct {
	mu    sync.Mutex
	jobs  map[string]Job
	queue []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]Job),
	}
}

func (s *MemoryStore) Submit(ctx context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[j.ID] = *j
	s.queue = append(s.queue, j.ID)
	return nil
}

func (s *MemoryStore) Dequeue(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return "", false, nil
	}
	id := s.queue[0]
	s.queue = s.queue[1:]
	return id, true, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := j
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[j.ID] = *j
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit, offset int) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(i, k int) bool {
		return all[i].CreatedAt.After(all[k].CreatedAt)
	})

	if offset >= len(all) {
		return []Job{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
