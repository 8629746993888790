package relief

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/mercurial/lightrig"
)

// State is the scheduler's position in its state machine.
type State int

const (
	Idle           State = iota // No pass running
	Running                     // One pass running, nothing queued
	RunningPending              // One pass running, one rerun queued
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case RunningPending:
		return "running_pending"
	}
	return "unknown"
}

// Inputs are what a pass shades.
type Inputs struct {
	Mask    *image.Gray
	Shading image.Image
	Lights  lightrig.Snapshot
}

// Source provides the current inputs. ReliefInputs is called on the worker
// goroutine at the start of every pass.
type Source interface {
	HasShadingImage() bool
	ReliefInputs() Inputs
}

// Poster queues a function to run on the presentation goroutine.
type Poster interface {
	Post(fn func())
}

// Result is a completed pass.
type Result struct {
	Image    *image.RGBA
	Mask     *image.Gray // The mask the pass shaded
	Pass     uint64
	Rerun    bool
	Duration time.Duration
	Err      error
}

// SchedulerConfig wires a scheduler.
type SchedulerConfig struct {
	Shader *Shader
	Source Source
	Queue  Poster
	// Deliver receives every result on the presentation goroutine.
	Deliver func(Result)
	// Observe receives every result on the worker goroutine. May be nil.
	Observe func(Result)
}

// Scheduler runs at most one shading pass at a time and coalesces any number of
// requests made during a pass into exactly one rerun.
type Scheduler struct {
	cfg SchedulerConfig

	mu     sync.Mutex
	idle   *sync.Cond
	state  State
	passes uint64
}

// NewScheduler creates an idle scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{cfg: cfg}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Request asks for a shading pass. Without a shading image it does nothing.
// It never blocks on a running pass.
func (s *Scheduler) Request() {
	if !s.cfg.Source.HasShadingImage() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Idle:
		s.state = Running
		go s.run()
	case Running:
		s.state = RunningPending
	case RunningPending:
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Passes returns the number of passes started.
func (s *Scheduler) Passes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// Wait blocks until the scheduler is idle.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.state != Idle {
		s.idle.Wait()
	}
}

func (s *Scheduler) run() {
	rerun := false
	for {
		s.mu.Lock()
		s.passes++
		pass := s.passes
		s.mu.Unlock()

		result := s.pass(pass, rerun)
		if s.cfg.Observe != nil {
			s.cfg.Observe(result)
		}
		if s.cfg.Deliver != nil {
			s.cfg.Queue.Post(func() { s.cfg.Deliver(result) })
		}

		s.mu.Lock()
		if s.state == RunningPending {
			s.state = Running
			s.mu.Unlock()
			rerun = true
			continue
		}
		s.state = Idle
		s.idle.Broadcast()
		s.mu.Unlock()
		return
	}
}

func (s *Scheduler) pass(pass uint64, rerun bool) Result {
	start := time.Now()
	in := s.cfg.Source.ReliefInputs()
	img, err := s.cfg.Shader.Apply(in.Mask, in.Shading, in.Lights)
	r := Result{
		Image:    img,
		Mask:     in.Mask,
		Pass:     pass,
		Rerun:    rerun,
		Duration: time.Since(start),
		Err:      err,
	}
	slog.Debug("relief pass", "pass", pass, "rerun", rerun, "duration_ms", r.Duration.Milliseconds(), "error", err)
	return r
}
