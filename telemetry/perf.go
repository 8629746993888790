package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a presented frame.
type Phase int

// Frame phases in pipeline order.
const (
	PhaseDrain    Phase = iota // UI queue drain
	PhaseEncode                // Command buffer encode
	PhaseCommit                // Paint, blur and threshold execution
	PhasePresent               // Drawable swap
	PhaseReseed                // Particle noise redraw
	PhaseSnapshot              // Display upload of the presented image
	PhaseDraw                  // Panel, HUD and overlays
	numPhases
)

var phaseNames = [numPhases]string{"drain", "encode", "commit", "present", "reseed", "snapshot", "draw"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases returns every phase in pipeline order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

type frameSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times frame phases over a ring of the last N frames. The caller
// brackets each frame with StartTick and EndTick; phases in between run until the
// next StartPhase or EndTick. It is owned by the presentation goroutine.
type PerfCollector struct {
	ring  []frameSample
	next  int
	count int

	cur        frameSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frameGap  time.Duration
}

// NewPerfCollector keeps the last window frames. A window below 1 means 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]frameSample, window)}
}

// StartTick begins a frame.
func (p *PerfCollector) StartTick() {
	p.cur = frameSample{}
	p.tickStart = time.Now()
	p.inPhase = false
}

// StartPhase closes the running phase and opens ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the frame and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame measures the wall-clock gap between displayed frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameGap = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the frames in the window.
type PerfStats struct {
	Frames int

	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	P95Tick time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // Share of the average tick

	FrameGap time.Duration
	FPS      float64
}

// Stats summarises the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Frames: p.count, FrameGap: p.frameGap}
	if p.frameGap > 0 {
		s.FPS = float64(time.Second) / float64(p.frameGap)
	}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.count; i++ {
		f := p.ring[i]
		totals[i] = float64(f.total)
		for ph, d := range f.phases {
			phaseSum[ph] += d
		}
	}
	sort.Float64s(totals)

	s.MinTick = time.Duration(totals[0])
	s.MaxTick = time.Duration(totals[len(totals)-1])
	s.AvgTick = time.Duration(stat.Mean(totals, nil))
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / time.Duration(p.count)
		if s.AvgTick > 0 {
			s.PhasePct[ph] = 100 * float64(s.PhaseAvg[ph]) / float64(s.AvgTick)
		}
	}
	return s
}

// TicksPerSecond is the frame rate the pipeline alone could sustain.
func (s PerfStats) TicksPerSecond() float64 {
	if s.AvgTick <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgTick)
}

// LogStats emits the window as one "perf" line. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"frames", s.Frames,
		"avg_tick_us", s.AvgTick.Microseconds(),
		"p95_tick_us", s.P95Tick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases() {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Frame       uint64  `csv:"frame"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	DrainPct    float64 `csv:"drain_pct"`
	EncodePct   float64 `csv:"encode_pct"`
	CommitPct   float64 `csv:"commit_pct"`
	PresentPct  float64 `csv:"present_pct"`
	ReseedPct   float64 `csv:"reseed_pct"`
	SnapshotPct float64 `csv:"snapshot_pct"`
	DrawPct     float64 `csv:"draw_pct"`
}

// ToCSV flattens the stats for the window ending at frame.
func (s PerfStats) ToCSV(frame uint64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:       frame,
		AvgTickUS:   s.AvgTick.Microseconds(),
		MinTickUS:   s.MinTick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		P95TickUS:   s.P95Tick.Microseconds(),
		TicksPerSec: s.TicksPerSecond(),
		FPS:         s.FPS,
		DrainPct:    s.PhasePct[PhaseDrain],
		EncodePct:   s.PhasePct[PhaseEncode],
		CommitPct:   s.PhasePct[PhaseCommit],
		PresentPct:  s.PhasePct[PhasePresent],
		ReseedPct:   s.PhasePct[PhaseReseed],
		SnapshotPct: s.PhasePct[PhaseSnapshot],
		DrawPct:     s.PhasePct[PhaseDraw],
	}
}
