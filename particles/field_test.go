package particles

import (
	"math/rand"
	"testing"
)

func TestArenaAlignment(t *testing.T) {
	for _, alignment := range []int{4, 64, 4096, 0x4000} {
		a, err := NewArena(1024, alignment)
		if err != nil {
			t.Fatalf("alignment %d: %v", alignment, err)
		}
		if !a.Aligned() {
			t.Errorf("alignment %d: view not aligned", alignment)
		}
		if a.Len() != 1024 {
			t.Errorf("alignment %d: expected 1024 slots, got %d", alignment, a.Len())
		}
		if len(a.Bytes()) != 1024*4 {
			t.Errorf("alignment %d: expected %d bytes, got %d", alignment, 1024*4, len(a.Bytes()))
		}
	}
}

func TestArenaRejectsBadAlignment(t *testing.T) {
	for _, alignment := range []int{0, 3, 100, 2} {
		if _, err := NewArena(16, alignment); err == nil {
			t.Errorf("expected error for alignment %d", alignment)
		}
	}
}

func TestArenaBytesAliasView(t *testing.T) {
	a, err := NewArena(4, 16)
	if err != nil {
		t.Fatal(err)
	}
	a.Int32s()[1] = 0x01020304
	b := a.Bytes()
	if b[4] == 0 && b[5] == 0 && b[6] == 0 && b[7] == 0 {
		t.Error("expected byte view to alias the typed view")
	}
}

func TestArenaUseAfterRelease(t *testing.T) {
	a, err := NewArena(8, 16)
	if err != nil {
		t.Fatal(err)
	}
	a.Release()
	a.Release() // idempotent

	defer func() {
		if recover() == nil {
			t.Error("expected panic on use after release")
		}
	}()
	a.Int32s()
}

func TestFieldReseedBounds(t *testing.T) {
	tests := []struct {
		count, bound int
	}{
		{1024, 1024},
		{2048, 2048},
		{2048, 7},
	}

	for _, tt := range tests {
		a, err := NewArena(tt.count, 0x4000)
		if err != nil {
			t.Fatal(err)
		}
		f, err := NewField(a, tt.bound, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatal(err)
		}

		for frame := 0; frame < 5; frame++ {
			f.Reseed()
			if f.Len() != tt.count {
				t.Fatalf("length changed: %d != %d", f.Len(), tt.count)
			}
			for i, v := range f.Values() {
				if v < 0 || int(v) >= tt.bound {
					t.Fatalf("slot %d out of range: %d not in [0,%d)", i, v, tt.bound)
				}
			}
		}
		if f.Generation() != 6 {
			t.Errorf("expected generation 6 (init + 5), got %d", f.Generation())
		}
	}
}

func TestFieldReseedChangesValues(t *testing.T) {
	a, _ := NewArena(2048, 64)
	f, err := NewField(a, 2048, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}

	before := append([]int32(nil), f.Values()...)
	f.Reseed()

	same := 0
	for i, v := range f.Values() {
		if v == before[i] {
			same++
		}
	}
	// Expected collisions ~1 per slot bound; anything close to all-equal means no reseed
	if same > 64 {
		t.Errorf("expected fresh noise after reseed, %d of %d slots unchanged", same, len(before))
	}
}

func TestFieldRejectsBadBound(t *testing.T) {
	a, _ := NewArena(16, 16)
	if _, err := NewField(a, 0, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for zero upper bound")
	}
}
