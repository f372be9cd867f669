package bot

import "math"

// Behavior names a periodic action driven by the smoothed-random trigger.
type Behavior int

const (
	Chomp Behavior = iota
	FleeDirectionChange

	behaviorCount
)

func (b Behavior) String() string {
	switch b {
	case Chomp:
		return "chomp"
	case FleeDirectionChange:
		return "flee_direction"
	}
	return "behavior"
}

// DefaultJitter is the jitter factor used when a behavior has no better one.
const DefaultJitter = 0.25

// Trigger reports whether behavior b should fire at now, aiming for one fire
// every targetFrequencyMs. A slow sine wave shared by every caller bends the
// threshold so activity comes in waves, and uniform noise keeps it from
// looking periodic. When it fires, now becomes b's last fire time.
func (p *Planner) Trigger(now int64, b Behavior, targetFrequencyMs, jitterFactor float64) bool {
	return p.TriggerFunc(now, b, targetFrequencyMs, jitterFactor, nil)
}

// TriggerFunc is Trigger with a callback invoked only when it fires.
func (p *Planner) TriggerFunc(now int64, b Behavior, targetFrequencyMs, jitterFactor float64, onFire func()) bool {
	if b < 0 || b >= behaviorCount {
		return false
	}

	delta := float64(now - p.timers[b])

	smoothVariation := math.Sin(float64(now)/1000) * jitterFactor
	randomVariation := signed(p.rng) * jitterFactor
	threshold := targetFrequencyMs * (1 + (smoothVariation+randomVariation)/2)

	if delta <= threshold {
		return false
	}

	p.timers[b] = now
	if onFire != nil {
		onFire()
	}

	return true
}

// LastFired returns the last time b fired, or 0 if it never has.
func (p *Planner) LastFired(b Behavior) int64 {
	if b < 0 || b >= behaviorCount {
		return 0
	}
	return p.timers[b]
}
