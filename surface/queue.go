package surface

import "sync"

// UIQueue holds functions posted from background goroutines until the
// presentation goroutine drains them.
type UIQueue struct {
	mu       sync.Mutex
	fns      []func()
	maxDepth int
}

// Post queues fn. Safe from any goroutine.
func (q *UIQueue) Post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	if len(q.fns) > q.maxDepth {
		q.maxDepth = len(q.fns)
	}
	q.mu.Unlock()
}

// Drain runs every queued function in post order and returns how many ran.
// Functions posted while draining wait for the next call.
func (q *UIQueue) Drain() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Len returns the number of queued functions.
func (q *UIQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

// MaxDepth returns the deepest the queue has been since the last reset, and resets it.
func (q *UIQueue) MaxDepth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := q.maxDepth
	q.maxDepth = len(q.fns)
	return d
}
