package bot

import (
	"testing"

	"github.com/Seednode/chomparty/internal/grid"
)

// fixedSource always returns the same sample.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// seqSource cycles through a list of samples.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

var testSlots = grid.Slots{Horizontal: 20, Vertical: 20}

func TestTriggerBoundaryWithoutJitter(t *testing.T) {
	p := NewPlanner(testSlots, WithSource(fixedSource(0.5)))

	steps := []struct {
		now  int64
		want bool
	}{
		{0, false},   // delta 0 is not above 200
		{150, false}, // delta 150
		{250, true},  // delta 250
		{400, false}, // delta 150 since last fire
		{451, true},  // delta 201
	}

	for _, s := range steps {
		if got := p.Trigger(s.now, Chomp, 200, 0); got != s.want {
			t.Fatalf("Trigger at t=%d = %v, want %v", s.now, got, s.want)
		}
	}

	if got := p.LastFired(Chomp); got != 451 {
		t.Errorf("LastFired = %d, want 451", got)
	}
}

func TestTriggerFuncCallsBackOnlyOnFire(t *testing.T) {
	p := NewPlanner(testSlots, WithSource(fixedSource(0.5)))

	calls := 0
	fire := func() { calls++ }

	p.TriggerFunc(100, FleeDirectionChange, 200, 0, fire)
	if calls != 0 {
		t.Fatalf("callback ran without firing")
	}

	p.TriggerFunc(300, FleeDirectionChange, 200, 0, fire)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestTriggerBehaviorsKeepSeparateTimers(t *testing.T) {
	p := NewPlanner(testSlots, WithSource(fixedSource(0.5)))

	if !p.Trigger(1000, Chomp, 200, 0) {
		t.Fatal("chomp should fire")
	}
	if !p.Trigger(1001, FleeDirectionChange, 200, 0) {
		t.Fatal("flee timer should be independent of chomp")
	}
	if p.Trigger(1100, Chomp, 200, 0) {
		t.Fatal("chomp fired again too soon")
	}
}

func TestTriggerJitterSwingsThreshold(t *testing.T) {
	// sin(3.142) is roughly 0, so only the uniform term moves the threshold
	// inside [target*(1-j/2), target*(1+j/2)).
	const now = 3142

	if !NewPlanner(testSlots, WithSource(fixedSource(0.5))).Trigger(now, Chomp, 3000, 0.25) {
		t.Error("neutral sample: threshold 3000, delta 3142 should fire")
	}
	if !NewPlanner(testSlots, WithSource(fixedSource(0))).Trigger(now, Chomp, 3000, 0.25) {
		t.Error("low sample: threshold about 2625 should fire")
	}
	if NewPlanner(testSlots, WithSource(fixedSource(0.999))).Trigger(now, Chomp, 3000, 0.25) {
		t.Error("high sample: threshold about 3374 should not fire")
	}
}

func TestTriggerRejectsUnknownBehavior(t *testing.T) {
	p := NewPlanner(testSlots, WithSource(fixedSource(0.5)))

	if p.Trigger(10_000, Behavior(42), 1, 0) {
		t.Error("unknown behavior fired")
	}
	if p.LastFired(Behavior(-1)) != 0 {
		t.Error("unknown behavior has a timer")
	}
}
