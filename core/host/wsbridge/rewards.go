package wsbridge

import "sync"

// Rewards is the in-memory reward counter shared by every session of a
// server. Nothing is persisted.
type Rewards struct {
	mu    sync.Mutex
	total int
}

// Add credits tokens and returns the new total. Non-positive amounts only
// read the total.
func (r *Rewards) Add(tokens int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tokens > 0 {
		r.total += tokens
	}
	return r.total
}

func (r *Rewards) Total() int {
	return r.Add(0)
}
