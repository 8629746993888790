// Package paint implements the mercury paint kernel on the CPU: one lane per
// particle, grouped into thread groups of the device's execution width.
package paint

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/texture"
)

// ErrLaneGeometry is returned when the particle count is not an exact multiple of
// the execution width; dispatching anyway would silently drop lanes.
var ErrLaneGeometry = errors.New("paint: particle count is not a multiple of the execution width")

// CheckGeometry validates the dispatch geometry and returns the thread group count.
func CheckGeometry(particleCount, executionWidth int) (int, error) {
	if executionWidth <= 0 {
		return 0, fmt.Errorf("%w: execution width %d", ErrLaneGeometry, executionWidth)
	}
	if particleCount%executionWidth != 0 {
		return 0, fmt.Errorf("%w: %d particles, width %d", ErrLaneGeometry, particleCount, executionWidth)
	}
	return particleCount / executionWidth, nil
}

// Args are the per-frame kernel inputs.
type Args struct {
	Noise      []int32 // particle slots, one per lane
	UpperBound int     // exclusive bound of the noise values
	Sample     pointer.Sample
}

// Kernel deposits ink into a texture around each live contact.
type Kernel struct {
	laneCount      int
	executionWidth int
	groups         int
	maxRadius      float32
	ink            float32

	pool     *parallel.Pool
	deposits []int32 // texel index per lane and contact, -1 for none
}

// NewKernel creates a kernel for a fixed lane count. It fails with ErrLaneGeometry
// when laneCount is not divisible by executionWidth.
func NewKernel(laneCount, executionWidth int, maxRadius, ink float32, pool *parallel.Pool) (*Kernel, error) {
	groups, err := CheckGeometry(laneCount, executionWidth)
	if err != nil {
		return nil, err
	}
	return &Kernel{
		laneCount:      laneCount,
		executionWidth: executionWidth,
		groups:         groups,
		maxRadius:      maxRadius,
		ink:            ink,
		pool:           pool,
		deposits:       make([]int32, laneCount*pointer.MaxContacts),
	}, nil
}

// ExecutionWidth returns lanes per thread group.
func (k *Kernel) ExecutionWidth() int {
	return k.executionWidth
}

// ThreadGroups returns the grid size.
func (k *Kernel) ThreadGroups() int {
	return k.groups
}

// Dispatch runs every thread group over args and accumulates into dst.
// Lanes compute their deposit positions in parallel; the writes are resolved
// afterwards in lane order so overlapping deposits never race.
func (k *Kernel) Dispatch(args Args, dst *texture.Texture) {
	if len(args.Noise) != k.laneCount {
		panic(fmt.Sprintf("paint: noise length %d does not match lane count %d", len(args.Noise), k.laneCount))
	}
	if args.Sample.Active() == 0 {
		return
	}

	lanes := func(start, end int) {
		for id := start; id < end; id++ {
			k.lane(id, args, dst.Width, dst.Height)
		}
	}
	if k.pool != nil {
		k.pool.RunChunked(k.laneCount, k.executionWidth, lanes)
	} else {
		lanes(0, k.laneCount)
	}

	for _, idx := range k.deposits {
		if idx >= 0 && dst.Pix[idx] < k.ink {
			dst.Pix[idx] = k.ink
		}
	}
}

// lane computes one lane's deposit for every contact slot.
func (k *Kernel) lane(id int, args Args, width, height int) {
	angle := 2 * math.Pi * float64(id) / float64(k.laneCount)
	sin, cos := math.Sincos(angle)
	noise := float32(args.Noise[id]) / float32(args.UpperBound)
	radius := noise * k.maxRadius * args.Sample.Force

	base := id * pointer.MaxContacts
	for c, p := range args.Sample.Points {
		k.deposits[base+c] = -1
		if p.IsSentinel() {
			continue
		}
		x := int(math.Floor(float64(p.X + radius*float32(cos))))
		y := int(math.Floor(float64(p.Y + radius*float32(sin))))
		if x < 0 || y < 0 || x >= width || y >= height {
			continue
		}
		k.deposits[base+c] = int32(y*width + x)
	}
}
