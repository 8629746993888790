package pointer

// Event is one begin/move delivery from the input layer. Positions are in view
// coordinates and may hold several coalesced samples; HasForce is false for inputs
// that cannot report pressure.
type Event struct {
	Positions []Point
	Force     float32
	HasForce  bool
}

// Tracker maintains the current contact sample across begin/move/end events.
type Tracker struct {
	scale        float32
	defaultForce float32
	limit        int

	sample  Sample
	touches int
}

// NewTracker creates a tracker that scales view coordinates by scale into surface
// space and uses defaultForce for inputs without pressure. limit caps the number of
// slots in use and is itself capped at MaxContacts.
func NewTracker(scale, defaultForce float32, limit int) *Tracker {
	if limit <= 0 || limit > MaxContacts {
		limit = MaxContacts
	}
	return &Tracker{
		scale:        scale,
		defaultForce: clampForce(defaultForce),
		limit:        limit,
		sample:       Released(),
	}
}

// Begin records new contacts. The first Begin of a gesture replaces the sample;
// later ones add their positions to free slots and keep the contacts already down.
// Positions that find no free slot are dropped.
func (t *Tracker) Begin(ev Event) {
	t.touches++
	if t.touches == 1 {
		t.apply(ev)
		return
	}
	t.merge(ev)
}

// Move updates the contact set while touching.
func (t *Tracker) Move(ev Event) {
	if t.touches == 0 {
		return
	}
	t.apply(ev)
}

// End lifts one contact. When the last contact lifts every slot becomes the
// sentinel and End returns true.
func (t *Tracker) End() bool {
	if t.touches > 0 {
		t.touches--
	}
	if t.touches > 0 {
		return false
	}
	t.sample = Released()
	return true
}

// Cancel drops all contacts at once.
func (t *Tracker) Cancel() {
	t.touches = 0
	t.sample = Released()
}

// Touching reports whether any contact is down.
func (t *Tracker) Touching() bool {
	return t.touches > 0
}

// Sample returns the current contact set.
func (t *Tracker) Sample() Sample {
	return t.sample
}

// apply flattens the event's coalesced positions into the slots. When more
// positions arrive than there are slots the most recent ones win.
func (t *Tracker) apply(ev Event) {
	s := Released()

	positions := ev.Positions
	if len(positions) > t.limit {
		positions = positions[len(positions)-t.limit:]
	}
	for i, p := range positions {
		s.Points[i] = Point{X: p.X * t.scale, Y: p.Y * t.scale}
	}

	s.Force = t.force(ev)
	t.sample = s
}

func (t *Tracker) merge(ev Event) {
	next := 0
	for i := 0; i < t.limit && next < len(ev.Positions); i++ {
		if !t.sample.Points[i].IsSentinel() {
			continue
		}
		p := ev.Positions[next]
		t.sample.Points[i] = Point{X: p.X * t.scale, Y: p.Y * t.scale}
		next++
	}
	t.sample.Force = t.force(ev)
}

func (t *Tracker) force(ev Event) float32 {
	if ev.HasForce {
		return clampForce(ev.Force)
	}
	return t.defaultForce
}

func clampForce(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
