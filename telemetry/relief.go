package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"
)

// ReliefPass is one completed relief shading pass, as written to relief.csv.
type ReliefPass struct {
	Pass       uint64  `csv:"pass"`
	Rerun      bool    `csv:"rerun"`
	DurationUS int64   `csv:"duration_us"`
	Width      int     `csv:"width"`
	Height     int     `csv:"height"`
	Coverage   float64 `csv:"coverage"` // Share of mask texels set
	Error      string  `csv:"error"`
}

// ReliefLog collects relief passes reported by the background worker.
// It is safe for concurrent use.
type ReliefLog struct {
	mu        sync.Mutex
	pending   []ReliefPass
	durations []float64 // microseconds, every pass so far
	reruns    int
	failures  int
}

// NewReliefLog creates an empty log.
func NewReliefLog() *ReliefLog {
	return &ReliefLog{}
}

// Record appends a completed pass.
func (l *ReliefLog) Record(p ReliefPass) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, p)
	l.durations = append(l.durations, float64(p.DurationUS))
	if p.Rerun {
		l.reruns++
	}
	if p.Error != "" {
		l.failures++
	}
}

// Flush returns and forgets the passes recorded since the last flush.
func (l *ReliefLog) Flush() []ReliefPass {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}

// ReliefSummary aggregates every recorded pass.
type ReliefSummary struct {
	Passes   int
	Reruns   int
	Failures int
	MeanPass time.Duration
	P50Pass  time.Duration
	P90Pass  time.Duration
}

// Summary computes the aggregate over every recorded pass.
func (l *ReliefLog) Summary() ReliefSummary {
	l.mu.Lock()
	sorted := append([]float64(nil), l.durations...)
	s := ReliefSummary{Passes: len(sorted), Reruns: l.reruns, Failures: l.failures}
	l.mu.Unlock()

	if len(sorted) == 0 {
		return s
	}
	sort.Float64s(sorted)
	s.MeanPass = time.Duration(mean(sorted)) * time.Microsecond
	s.P50Pass = time.Duration(Percentile(sorted, 0.5)) * time.Microsecond
	s.P90Pass = time.Duration(Percentile(sorted, 0.9)) * time.Microsecond
	return s
}

// LogStats logs the summary as one "relief" line.
func (s ReliefSummary) LogStats() {
	slog.Info("relief",
		"passes", s.Passes,
		"reruns", s.Reruns,
		"failures", s.Failures,
		"mean_ms", s.MeanPass.Milliseconds(),
		"p50_ms", s.P50Pass.Milliseconds(),
		"p90_ms", s.P90Pass.Milliseconds(),
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
