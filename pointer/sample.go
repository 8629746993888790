// Package pointer turns platform touch/stylus events into the fixed-slot contact
// sample consumed by the paint kernel.
package pointer

// MaxContacts is the number of contact slots passed to the kernel every frame.
const MaxContacts = 4

// Point is a position in surface space.
type Point struct {
	X, Y float32
}

// Sentinel marks an empty contact slot. The kernel deposits nothing for it.
var Sentinel = Point{X: -1, Y: -1}

// IsSentinel reports whether p encodes "no contact".
func (p Point) IsSentinel() bool {
	return p.X < 0 && p.Y < 0
}

// Sample is the contact set for one frame: every slot is either a live contact or
// the sentinel, and Force is shared by all contacts.
type Sample struct {
	Points [MaxContacts]Point
	Force  float32
}

// Released returns a sample with every slot set to the sentinel.
func Released() Sample {
	var s Sample
	for i := range s.Points {
		s.Points[i] = Sentinel
	}
	return s
}

// Active returns the number of non-sentinel slots.
func (s Sample) Active() int {
	n := 0
	for _, p := range s.Points {
		if !p.IsSentinel() {
			n++
		}
	}
	return n
}

// Floats flattens the points as x0, y0, x1, y1, ... for uniform uploads.
func (s Sample) Floats() []float32 {
	out := make([]float32, 0, MaxContacts*2)
	for _, p := range s.Points {
		out = append(out, p.X, p.Y)
	}
	return out
}
