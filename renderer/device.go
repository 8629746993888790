// Package renderer abstracts the device that runs the per-frame pipeline: the paint
// compute pass, the blur and threshold passes, and the ring of drawables they are
// presented through.
package renderer

import (
	"errors"
	"image"

	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/paint"
)

var (
	// ErrDeviceUnavailable is returned when no device can be created.
	ErrDeviceUnavailable = errors.New("renderer: device unavailable")
	// ErrNoDrawable is returned when the drawable ring is exhausted for a frame.
	ErrNoDrawable = errors.New("renderer: no drawable available")
	// ErrCommitted is returned when a command buffer is committed twice.
	ErrCommitted = errors.New("renderer: command buffer already committed")
)

// Drawable is one presentable target of the ring.
type Drawable interface {
	// Present makes this drawable the displayed frame and returns the previously
	// displayed one to the ring.
	Present()
	// Snapshot reads the drawable's current contents back into a grayscale image.
	Snapshot() *image.Gray
	// Discard returns an acquired drawable to the ring without presenting it.
	// It does nothing to the displayed drawable.
	Discard()
}

// CommandBuffer records the passes of one frame. Nothing runs before Commit.
type CommandBuffer interface {
	EncodePaint(args paint.Args)
	EncodeBlur()
	EncodeThreshold(dst Drawable)
	Commit() error
}

// Device runs the pipeline over fixed simulation and intermediate textures.
type Device interface {
	Name() string
	ExecutionWidth() int
	ThreadGroups() int
	NewCommandBuffer() CommandBuffer
	// NextDrawable returns a free drawable, or nil when every drawable is in use.
	NextDrawable() Drawable
	// ClearCanvas wipes the accumulated paint.
	ClearCanvas()
	Close() error
}

// Options holds the pipeline parameters shared by every device.
type Options struct {
	CanvasSize     int
	ParticleCount  int
	ExecutionWidth int
	MaxRadius      float32
	Ink            float32
	BlurSigma      float64
	Cutoff         float32
	Maximum        float32
	Drawables      int
}

// OptionsFromConfig builds device options from the global configuration.
func OptionsFromConfig() Options {
	cfg := config.Cfg()
	return Options{
		CanvasSize:     cfg.Canvas.Size,
		ParticleCount:  cfg.Particles.Count,
		ExecutionWidth: cfg.GPU.ExecutionWidth,
		MaxRadius:      cfg.Derived.MaxRadius32,
		Ink:            cfg.Derived.Ink32,
		BlurSigma:      cfg.PostProc.BlurSigma,
		Cutoff:         float32(cfg.PostProc.Threshold),
		Maximum:        float32(cfg.PostProc.Maximum),
		Drawables:      cfg.GPU.Drawables,
	}
}

func (o Options) drawables() int {
	if o.Drawables < 2 {
		return 2
	}
	return o.Drawables
}

// commandList records encoded passes and runs them in order at Commit.
type commandList struct {
	commands  []func()
	committed bool
}

func (l *commandList) record(fn func()) {
	l.commands = append(l.commands, fn)
}

// Commit runs every recorded pass.
func (l *commandList) Commit() error {
	if l.committed {
		return ErrCommitted
	}
	l.committed = true
	for _, cmd := range l.commands {
		cmd()
	}
	l.commands = nil
	return nil
}
