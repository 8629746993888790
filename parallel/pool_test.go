package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunCoversRangeOnce(t *testing.T) {
	p := NewPool(4)
	defer p.Stop()

	for _, n := range []int{1, 63, 64, 1000, 2048} {
		hits := make([]int32, n)
		p.Run(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestRunChunkedAlignsBoundaries(t *testing.T) {
	p := NewPool(3)
	defer p.Stop()

	var mu sync.Mutex
	var starts []int
	p.RunChunked(2048, 32, func(start, end int) {
		mu.Lock()
		starts = append(starts, start)
		mu.Unlock()
	})

	for _, s := range starts {
		if s%32 != 0 {
			t.Errorf("chunk start %d is not a multiple of 32", s)
		}
	}
}

func TestRunConcurrentCallers(t *testing.T) {
	p := NewPool(2)
	defer p.Stop()

	var total int64
	var wg sync.WaitGroup
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(500, func(start, end int) {
				atomic.AddInt64(&total, int64(end-start))
			})
		}()
	}
	wg.Wait()

	if total != 2000 {
		t.Errorf("expected 2000 items processed, got %d", total)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p := NewPool(2)
	p.Run(200, func(int, int) {})
	p.Stop()
	p.Stop()

	// A stopped pool restarts on demand
	var n int64
	p.Run(200, func(start, end int) { atomic.AddInt64(&n, int64(end-start)) })
	p.Stop()
	if n != 200 {
		t.Errorf("expected 200 after restart, got %d", n)
	}
}
