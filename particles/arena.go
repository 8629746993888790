// Package particles owns the fixed-size particle noise buffer consumed by the paint kernel.
package particles

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrReleased is returned when an arena is used after Release.
var ErrReleased = errors.New("particles: arena released")

// int32Size is the byte width of one particle slot.
const int32Size = int(unsafe.Sizeof(int32(0)))

// Arena is an alignment-specified block of memory holding one int32 per particle.
// It is allocated once at setup and has a single owner until Release; the typed
// view returned by Int32s aliases the aligned region so it can be uploaded to a
// device buffer without copying.
type Arena struct {
	backing   []byte
	view      []int32
	alignment int
	released  bool
}

// NewArena allocates room for count int32 slots starting at an address that is a
// multiple of alignment. Alignment must be a power of two no smaller than 4.
func NewArena(count, alignment int) (*Arena, error) {
	if count <= 0 {
		return nil, fmt.Errorf("particles: count must be positive, got %d", count)
	}
	if alignment < int32Size || alignment&(alignment-1) != 0 {
		return nil, fmt.Errorf("particles: alignment must be a power of two >= %d, got %d", int32Size, alignment)
	}

	size := count * int32Size
	backing := make([]byte, size+alignment)
	base := uintptr(unsafe.Pointer(&backing[0]))
	offset := int((uintptr(alignment) - base%uintptr(alignment)) % uintptr(alignment))

	region := backing[offset : offset+size]
	view := unsafe.Slice((*int32)(unsafe.Pointer(&region[0])), count)

	return &Arena{
		backing:   backing,
		view:      view,
		alignment: alignment,
	}, nil
}

// Int32s returns the typed view over the aligned region. Panics after Release.
func (a *Arena) Int32s() []int32 {
	if a.released {
		panic(ErrReleased)
	}
	return a.view
}

// Bytes returns the aligned region as raw bytes for device uploads. Panics after Release.
func (a *Arena) Bytes() []byte {
	if a.released {
		panic(ErrReleased)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&a.view[0])), len(a.view)*int32Size)
}

// Len returns the number of slots.
func (a *Arena) Len() int {
	return len(a.view)
}

// Alignment returns the alignment the arena was created with.
func (a *Arena) Alignment() int {
	return a.alignment
}

// Aligned reports whether the view starts on the requested boundary.
func (a *Arena) Aligned() bool {
	return uintptr(unsafe.Pointer(&a.view[0]))%uintptr(a.alignment) == 0
}

// Release ends the arena's lifetime. Safe to call more than once.
func (a *Arena) Release() {
	if a.released {
		return
	}
	a.released = true
	a.view = nil
	a.backing = nil
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool {
	return a.released
}
