package ingest

import (
	"sort"
	"sync"
)

// inflight tracks the batch numbers currently being processed.
type inflight struct {
	mu      sync.Mutex
	batches map[int]struct{}
}

func newInflight() *inflight {
	return &inflight{batches: make(map[int]struct{})}
}

// acquire marks batch as running. It returns false if the batch is already
// running; otherwise the returned func must be called to release it.
func (f *inflight) acquire(batch int) (func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, running := f.batches[batch]; running {
		return nil, false
	}
	f.batches[batch] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.batches, batch)
			f.mu.Unlock()
		})
	}, true
}

// list returns the running batch numbers in ascending order.
func (f *inflight) list() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]int, 0, len(f.batches))
	for b := range f.batches {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}
