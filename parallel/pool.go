// Package parallel provides the persistent worker pool used by the software paint
// kernel and the image filters.
package parallel

import (
	"runtime"
	"sync"
)

// Threshold is the minimum item count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const Threshold = 64

// workChunk represents a range of items for a worker to process.
type workChunk struct {
	start, end int
	fn         func(start, end int)
	done       *sync.WaitGroup
}

// Pool is a fixed set of worker goroutines that process index ranges.
// Run may be called concurrently from several goroutines; each call waits only
// for its own chunks.
type Pool struct {
	numWorkers int

	mu       sync.Mutex
	workChan chan workChunk // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool with the given worker count (GOMAXPROCS when <= 0).
// Workers start lazily on the first parallel Run.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the worker count.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// start launches persistent worker goroutines.
func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopChan)
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			chunk.fn(chunk.start, chunk.end)
			chunk.done.Done()
		}
	}
}

// Run calls fn over [0, n) split into contiguous ranges. Small inputs and stopped
// pools run on the calling goroutine.
func (p *Pool) Run(n int, fn func(start, end int)) {
	p.RunChunked(n, 0, fn)
}

// RunChunked is like Run but keeps every range boundary on a multiple of align,
// so callers can hand out whole thread groups. align <= 1 means no constraint.
func (p *Pool) RunChunked(n, align int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < Threshold || p.numWorkers <= 1 {
		fn(0, n)
		return
	}
	p.start()

	if align < 1 {
		align = 1
	}
	units := (n + align - 1) / align
	perWorker := (units + p.numWorkers - 1) / p.numWorkers
	chunkSize := perWorker * align

	var done sync.WaitGroup
	p.mu.Lock()
	work := p.workChan
	running := p.running
	p.mu.Unlock()
	if !running {
		fn(0, n)
		return
	}

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		done.Add(1)
		work <- workChunk{start: start, end: end, fn: fn, done: &done}
	}
	done.Wait()
}
