package renderer

import (
	"fmt"
	"image"
	"sync"

	"github.com/pthm-cable/mercurial/paint"
	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/postproc"
	"github.com/pthm-cable/mercurial/texture"
)

type drawableState int

const (
	drawableFree drawableState = iota
	drawableAcquired
	drawableDisplayed
)

// SoftwareDevice runs the pipeline on the CPU using the paint kernel and the
// post-process chain. Commands execute synchronously at Commit.
type SoftwareDevice struct {
	opts   Options
	kernel *paint.Kernel
	chain  *postproc.Chain

	sim          *texture.Texture
	intermediate *texture.Texture

	mu        sync.Mutex
	ring      []*softDrawable
	displayed *softDrawable
}

// NewSoftwareDevice creates a CPU device. pool may be nil.
func NewSoftwareDevice(opts Options, pool *parallel.Pool) (*SoftwareDevice, error) {
	if opts.CanvasSize <= 0 {
		return nil, fmt.Errorf("%w: canvas size %d", ErrDeviceUnavailable, opts.CanvasSize)
	}
	kernel, err := paint.NewKernel(opts.ParticleCount, opts.ExecutionWidth, opts.MaxRadius, opts.Ink, pool)
	if err != nil {
		return nil, fmt.Errorf("creating paint pipeline: %w", err)
	}

	d := &SoftwareDevice{
		opts:         opts,
		kernel:       kernel,
		chain:        postproc.NewChain(opts.BlurSigma, opts.Cutoff, opts.Maximum, pool),
		sim:          texture.New(opts.CanvasSize, opts.CanvasSize),
		intermediate: texture.New(opts.CanvasSize, opts.CanvasSize),
	}
	for i := 0; i < opts.drawables(); i++ {
		d.ring = append(d.ring, &softDrawable{
			dev: d,
			tex: texture.New(opts.CanvasSize, opts.CanvasSize),
		})
	}
	return d, nil
}

// Name implements Device.
func (d *SoftwareDevice) Name() string { return "software" }

// ExecutionWidth implements Device.
func (d *SoftwareDevice) ExecutionWidth() int { return d.kernel.ExecutionWidth() }

// ThreadGroups implements Device.
func (d *SoftwareDevice) ThreadGroups() int { return d.kernel.ThreadGroups() }

// Simulation exposes the accumulated paint texture.
func (d *SoftwareDevice) Simulation() *texture.Texture { return d.sim }

// NewCommandBuffer implements Device.
func (d *SoftwareDevice) NewCommandBuffer() CommandBuffer {
	return &softCommandBuffer{dev: d}
}

// NextDrawable implements Device.
func (d *SoftwareDevice) NextDrawable() Drawable {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, dr := range d.ring {
		if dr.state == drawableFree {
			dr.state = drawableAcquired
			return dr
		}
	}
	return nil
}

// ClearCanvas implements Device.
func (d *SoftwareDevice) ClearCanvas() {
	d.sim.Clear()
}

// Close implements Device.
func (d *SoftwareDevice) Close() error { return nil }

type softDrawable struct {
	dev   *SoftwareDevice
	tex   *texture.Texture
	state drawableState
}

func (s *softDrawable) Present() {
	d := s.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.displayed != nil && d.displayed != s {
		d.displayed.state = drawableFree
	}
	s.state = drawableDisplayed
	d.displayed = s
}

func (s *softDrawable) Discard() {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if s.state == drawableAcquired {
		s.state = drawableFree
	}
}

func (s *softDrawable) Snapshot() *image.Gray {
	return s.tex.Gray()
}

// Texture returns the drawable's mask plane.
func (s *softDrawable) Texture() *texture.Texture {
	return s.tex
}

type softCommandBuffer struct {
	commandList
	dev *SoftwareDevice
}

func (c *softCommandBuffer) EncodePaint(args paint.Args) {
	// Noise is captured by value so the field can be reseeded after commit.
	noise := append([]int32(nil), args.Noise...)
	args.Noise = noise
	c.record(func() {
		c.dev.kernel.Dispatch(args, c.dev.sim)
	})
}

func (c *softCommandBuffer) EncodeBlur() {
	c.record(func() {
		c.dev.chain.Blur(c.dev.sim, c.dev.intermediate)
	})
}

func (c *softCommandBuffer) EncodeThreshold(dst Drawable) {
	target := dst.(*softDrawable)
	c.record(func() {
		c.dev.chain.Threshold(c.dev.intermediate, target.tex)
	})
}
