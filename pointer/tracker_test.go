package pointer

import "testing"

func TestReleasedIsAllSentinels(t *testing.T) {
	s := Released()
	for i, p := range s.Points {
		if p != Sentinel {
			t.Errorf("slot %d: expected sentinel, got %+v", i, p)
		}
	}
	if s.Active() != 0 {
		t.Errorf("expected no active contacts, got %d", s.Active())
	}
}

func TestTrackerScalesToSurface(t *testing.T) {
	tr := NewTracker(2, 0.5, MaxContacts)
	tr.Begin(Event{Positions: []Point{{X: 100, Y: 100}}, Force: 0.8, HasForce: true})

	s := tr.Sample()
	if s.Points[0] != (Point{X: 200, Y: 200}) {
		t.Errorf("expected (200,200), got %+v", s.Points[0])
	}
	if s.Force != 0.8 {
		t.Errorf("expected force 0.8, got %f", s.Force)
	}
	for i := 1; i < MaxContacts; i++ {
		if s.Points[i] != Sentinel {
			t.Errorf("slot %d: expected sentinel, got %+v", i, s.Points[i])
		}
	}
}

func TestTrackerDefaultForce(t *testing.T) {
	tr := NewTracker(1, 0.5, MaxContacts)
	tr.Begin(Event{Positions: []Point{{X: 1, Y: 1}}})

	if f := tr.Sample().Force; f != 0.5 {
		t.Errorf("expected default force 0.5, got %f", f)
	}
}

func TestTrackerClampsForce(t *testing.T) {
	tr := NewTracker(1, 0.5, MaxContacts)
	tr.Begin(Event{Positions: []Point{{X: 1, Y: 1}}, Force: 3, HasForce: true})
	if f := tr.Sample().Force; f != 1 {
		t.Errorf("expected clamped force 1, got %f", f)
	}
}

func TestTrackerFlattensCoalescedSamples(t *testing.T) {
	tr := NewTracker(1, 0.5, MaxContacts)
	var positions []Point
	for i := 0; i < 7; i++ {
		positions = append(positions, Point{X: float32(i), Y: float32(i)})
	}
	tr.Begin(Event{Positions: positions})

	s := tr.Sample()
	if s.Active() != MaxContacts {
		t.Fatalf("expected %d active slots, got %d", MaxContacts, s.Active())
	}
	// Most recent samples win
	if s.Points[0].X != 3 || s.Points[3].X != 6 {
		t.Errorf("expected samples 3..6, got %+v", s.Points)
	}
}

func TestTrackerSentinelsAfterRelease(t *testing.T) {
	tr := NewTracker(2, 0.5, MaxContacts)
	tr.Begin(Event{Positions: []Point{{X: 10, Y: 10}}})
	tr.Begin(Event{Positions: []Point{{X: 20, Y: 20}}})
	tr.Move(Event{Positions: []Point{{X: 11, Y: 11}, {X: 21, Y: 21}}})

	if tr.End() {
		t.Fatal("expected gesture to continue while one contact remains")
	}
	if !tr.Touching() {
		t.Fatal("expected tracker to still be touching")
	}
	if !tr.End() {
		t.Fatal("expected last lift to end the gesture")
	}

	s := tr.Sample()
	if s != Released() {
		t.Errorf("expected 4 sentinels after release, got %+v", s.Points)
	}
}

func TestTrackerSecondBeginKeepsFirstContact(t *testing.T) {
	tr := NewTracker(1, 0.5, 3)
	tr.Begin(Event{Positions: []Point{{X: 10, Y: 10}}})
	tr.Begin(Event{Positions: []Point{{X: 20, Y: 20}}, Force: 0.9, HasForce: true})

	s := tr.Sample()
	if s.Points[0] != (Point{X: 10, Y: 10}) || s.Points[1] != (Point{X: 20, Y: 20}) {
		t.Errorf("expected both contacts kept, got %+v", s.Points)
	}
	if s.Active() != 2 {
		t.Errorf("expected 2 active contacts, got %d", s.Active())
	}
	if s.Force != 0.9 {
		t.Errorf("expected the latest force 0.9, got %f", s.Force)
	}

	// Only one slot is left under the limit of 3.
	tr.Begin(Event{Positions: []Point{{X: 30, Y: 30}, {X: 40, Y: 40}}})
	s = tr.Sample()
	if s.Points[2] != (Point{X: 30, Y: 30}) || s.Points[3] != Sentinel {
		t.Errorf("expected one more contact within the limit, got %+v", s.Points)
	}
}

func TestTrackerIgnoresMoveWithoutBegin(t *testing.T) {
	tr := NewTracker(1, 0.5, MaxContacts)
	tr.Move(Event{Positions: []Point{{X: 5, Y: 5}}})
	if tr.Sample().Active() != 0 {
		t.Error("expected move without begin to be ignored")
	}
}

func TestSampleFloats(t *testing.T) {
	s := Released()
	s.Points[0] = Point{X: 1, Y: 2}
	f := s.Floats()
	if len(f) != MaxContacts*2 {
		t.Fatalf("expected %d floats, got %d", MaxContacts*2, len(f))
	}
	if f[0] != 1 || f[1] != 2 || f[2] != -1 || f[3] != -1 {
		t.Errorf("unexpected flattening: %v", f)
	}
}
