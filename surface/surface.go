// Package surface owns the painting frame loop: it turns pointer events into kernel
// input, drives the device every tick while drawing, and switches to the shaded
// relief image when the stroke is released.
package surface

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/pthm-cable/mercurial/lightrig"
	"github.com/pthm-cable/mercurial/paint"
	"github.com/pthm-cable/mercurial/particles"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/relief"
	"github.com/pthm-cable/mercurial/renderer"
	"github.com/pthm-cable/mercurial/telemetry"
)

// Mode is what the surface currently displays.
type Mode int

const (
	ModeLive   Mode = iota // Thresholded mask, updated every tick
	ModeShaded             // Relief-shaded image of the last stroke
)

func (m Mode) String() string {
	if m == ModeShaded {
		return "shaded"
	}
	return "live"
}

// LightSource provides the light rig state read by relief passes.
type LightSource interface {
	Snapshot() lightrig.Snapshot
}

// Options wires a surface. Perf and OnRelief may be nil. Tick only records phases
// into Perf; the caller brackets frames with StartTick and EndTick.
type Options struct {
	Device  renderer.Device
	Field   *particles.Field
	Tracker *pointer.Tracker
	Shader  *relief.Shader
	Lights  LightSource
	Perf    *telemetry.PerfCollector
	// OnRelief observes every relief result on the worker goroutine.
	OnRelief func(relief.Result)
}

// Stats are cumulative surface counters.
type Stats struct {
	Ticks     uint64
	Presented uint64
	Skipped   uint64
	Reseeds   uint64
	Strokes   uint64
	Mode      Mode
}

// Surface is the presentation state machine. Every method except the ones the
// relief worker calls through relief.Source must run on the presentation goroutine.
type Surface struct {
	dev     renderer.Device
	field   *particles.Field
	tracker *pointer.Tracker
	lights  LightSource
	perf    *telemetry.PerfCollector

	queue     *UIQueue
	scheduler *relief.Scheduler

	mode          Mode
	lastPresented renderer.Drawable
	stats         Stats

	// Shared with the relief worker
	mu      sync.Mutex
	mask    *image.Gray // Snapshot of the last presented frame at release
	shading image.Image

	shaded *image.RGBA // Written only by Drain
}

// New creates a surface in live mode.
func New(opts Options) (*Surface, error) {
	switch {
	case opts.Device == nil:
		return nil, fmt.Errorf("surface: %w", renderer.ErrDeviceUnavailable)
	case opts.Field == nil, opts.Tracker == nil, opts.Shader == nil, opts.Lights == nil:
		return nil, errors.New("surface: field, tracker, shader and lights are required")
	}

	s := &Surface{
		dev:     opts.Device,
		field:   opts.Field,
		tracker: opts.Tracker,
		lights:  opts.Lights,
		perf:    opts.Perf,
		queue:   &UIQueue{},
		mode:    ModeLive,
	}
	s.scheduler = relief.NewScheduler(relief.SchedulerConfig{
		Shader:  opts.Shader,
		Source:  s,
		Queue:   s.queue,
		Deliver: s.deliver,
		Observe: opts.OnRelief,
	})
	return s, nil
}

// PointerDown adds contacts and returns to live drawing. A PointerDown while other
// contacts are down keeps them and fills free slots.
func (s *Surface) PointerDown(ev pointer.Event) {
	s.tracker.Begin(ev)
	s.goLive()
}

// PointerMove updates the contacts of the current gesture.
func (s *Surface) PointerMove(ev pointer.Event) {
	if !s.tracker.Touching() {
		return
	}
	s.tracker.Move(ev)
	s.goLive()
}

// PointerUp lifts one contact. When the last contact lifts, the most recently
// presented frame is captured and shading is requested. It does nothing when no
// contact is down.
func (s *Surface) PointerUp() {
	if !s.tracker.Touching() {
		return
	}
	if !s.tracker.End() {
		return
	}
	s.stats.Strokes++
	s.mode = ModeShaded
	s.shaded = nil

	if s.lastPresented == nil {
		slog.Debug("released before any frame was presented")
		return
	}
	mask := s.lastPresented.Snapshot()
	s.mu.Lock()
	s.mask = mask
	s.mu.Unlock()
	s.scheduler.Request()
}

func (s *Surface) goLive() {
	s.mode = ModeLive
	s.shaded = nil
}

// Tick drains the UI queue and, while live, runs one frame: encode paint, blur
// and threshold into a drawable, commit, present, then reseed the particles.
// When no drawable is free the frame is skipped without reseeding and an error
// wrapping renderer.ErrNoDrawable is returned.
func (s *Surface) Tick() error {
	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseDrain)
	}
	s.queue.Drain()
	if s.mode == ModeShaded {
		return nil
	}
	s.stats.Ticks++

	drawable := s.dev.NextDrawable()
	if drawable == nil {
		s.stats.Skipped++
		slog.Warn("no drawable available", "frame", s.stats.Ticks)
		return fmt.Errorf("tick %d: %w", s.stats.Ticks, renderer.ErrNoDrawable)
	}

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseEncode)
	}
	cb := s.dev.NewCommandBuffer()
	cb.EncodePaint(paint.Args{
		Noise:      s.field.Values(),
		UpperBound: s.field.UpperBound(),
		Sample:     s.tracker.Sample(),
	})
	cb.EncodeBlur()
	cb.EncodeThreshold(drawable)

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseCommit)
	}
	if err := cb.Commit(); err != nil {
		drawable.Discard()
		return fmt.Errorf("tick %d: commit: %w", s.stats.Ticks, err)
	}

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhasePresent)
	}
	drawable.Present()
	s.lastPresented = drawable
	s.stats.Presented++

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseReseed)
	}
	s.field.Reseed()
	s.stats.Reseeds++
	return nil
}

// Drain runs pending relief completions. Tick calls it first.
func (s *Surface) Drain() int {
	return s.queue.Drain()
}

func (s *Surface) deliver(r relief.Result) {
	if r.Err != nil {
		slog.Warn("relief pass failed", "pass", r.Pass, "error", r.Err)
		return
	}
	s.mu.Lock()
	current := s.mask
	s.mu.Unlock()
	// Results for an earlier stroke are stale once a newer mask was captured.
	if r.Mask != current || s.mode != ModeShaded {
		return
	}
	s.shaded = r.Image
}

// SetShadingImage replaces the sphere-mapped material and reshades the current mask.
func (s *Surface) SetShadingImage(img image.Image) {
	s.mu.Lock()
	s.shading = img
	hasMask := s.mask != nil
	s.mu.Unlock()
	if hasMask {
		s.scheduler.Request()
	}
}

// HasShadingImage implements relief.Source.
func (s *Surface) HasShadingImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shading != nil
}

// ReliefInputs implements relief.Source.
func (s *Surface) ReliefInputs() relief.Inputs {
	s.mu.Lock()
	in := relief.Inputs{Mask: s.mask, Shading: s.shading}
	s.mu.Unlock()
	in.Lights = s.lights.Snapshot()
	return in
}

// DisplayedImage returns the live mask while drawing, and the shaded image after
// release. Until the first shaded result arrives the captured mask is shown.
// It returns nil before anything was presented.
func (s *Surface) DisplayedImage() image.Image {
	if s.mode == ModeShaded {
		if s.shaded != nil {
			return s.shaded
		}
		s.mu.Lock()
		mask := s.mask
		s.mu.Unlock()
		if mask != nil {
			return mask
		}
	}
	if s.lastPresented == nil {
		return nil
	}
	return s.lastPresented.Snapshot()
}

// Shaded returns the current shaded image, or nil.
func (s *Surface) Shaded() *image.RGBA {
	return s.shaded
}

// LastPresented returns the most recently presented drawable, or nil.
func (s *Surface) LastPresented() renderer.Drawable {
	return s.lastPresented
}

// Clear wipes the canvas and returns to live mode with no strokes.
func (s *Surface) Clear() {
	s.dev.ClearCanvas()
	s.tracker.Cancel()
	s.goLive()
}

// Mode returns the current mode.
func (s *Surface) Mode() Mode {
	return s.mode
}

// Stats returns the cumulative counters.
func (s *Surface) Stats() Stats {
	st := s.stats
	st.Mode = s.mode
	return st
}

// QueueDepthMax returns and resets the deepest UI queue depth observed.
func (s *Surface) QueueDepthMax() int {
	return s.queue.MaxDepth()
}

// Sample returns the contact sample the next tick will paint with.
func (s *Surface) Sample() pointer.Sample {
	return s.tracker.Sample()
}

// ReliefState names the relief scheduler's state.
func (s *Surface) ReliefState() string {
	return s.scheduler.State().String()
}

// Wait blocks until no relief pass is running or queued. Completed results still
// need a Drain.
func (s *Surface) Wait() {
	s.scheduler.Wait()
}

// Close waits for relief work and releases the device.
func (s *Surface) Close() error {
	s.scheduler.Wait()
	return s.dev.Close()
}
