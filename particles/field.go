package particles

import (
	"fmt"
	"math/rand"
)

// Field is the per-frame particle noise: every slot holds an index in [0, upperBound)
// that is redrawn after each presented frame. The values are not persistent state,
// only jitter that drives stochastic paint deposition.
//
// A Field has a single writer, the goroutine running the frame loop.
type Field struct {
	arena      *Arena
	upperBound int
	rng        *rand.Rand
	generation uint64
}

// NewField wraps arena and performs the initial reseed.
func NewField(arena *Arena, upperBound int, rng *rand.Rand) (*Field, error) {
	if upperBound <= 0 {
		return nil, fmt.Errorf("particles: upper bound must be positive, got %d", upperBound)
	}
	if arena.Released() {
		return nil, ErrReleased
	}
	f := &Field{
		arena:      arena,
		upperBound: upperBound,
		rng:        rng,
	}
	f.Reseed()
	return f, nil
}

// Reseed overwrites every slot with an independent uniform integer in [0, upperBound).
func (f *Field) Reseed() {
	values := f.arena.Int32s()
	bound := int32(f.upperBound)
	for i := range values {
		values[i] = f.rng.Int31n(bound)
	}
	f.generation++
}

// Values returns the typed view for kernel reads and uploads. Callers must not write.
func (f *Field) Values() []int32 {
	return f.arena.Int32s()
}

// Bytes returns the raw slot memory for device uploads.
func (f *Field) Bytes() []byte {
	return f.arena.Bytes()
}

// Len returns the particle count.
func (f *Field) Len() int {
	return f.arena.Len()
}

// UpperBound returns the exclusive noise bound.
func (f *Field) UpperBound() int {
	return f.upperBound
}

// Generation returns how many times the field has been reseeded, including the
// initial reseed performed by NewField.
func (f *Field) Generation() uint64 {
	return f.generation
}

// Release frees the underlying arena.
func (f *Field) Release() {
	f.arena.Release()
}
