// Package bot drives computer-controlled chompers.
//
// A Planner thinks slowly and acts continuously. Its plan (what the bot is
// trying to do) is reconsidered on a jittered cadence of a few hundred
// milliseconds, while the plan is executed on every tick to produce a facing
// direction and a mouth state. Timing noise is deliberate: bots should look
// like people with reaction latency, not like metronomes.
//
// A Planner is not safe for concurrent use. Callers that tick bots from
// several goroutines must give each goroutine its own planners and hand them
// copies of the shared player snapshot.
package bot

import "fmt"

// PlanState is the bot's high-level intent.
type PlanState int

const (
	PlanWaitingForStart PlanState = iota
	PlanEatingDots
	PlanFleeing
	PlanHunting
	PlanMovingRandomly
	PlanIdle
)

func (p PlanState) String() string {
	switch p {
	case PlanWaitingForStart:
		return "waiting_for_start"
	case PlanEatingDots:
		return "eating_dots"
	case PlanFleeing:
		return "fleeing"
	case PlanHunting:
		return "hunting"
	case PlanMovingRandomly:
		return "moving_randomly"
	case PlanIdle:
		return "idle"
	}
	return fmt.Sprintf("plan(%d)", int(p))
}

// GameState mirrors the round lifecycle. It is set from outside the planner.
type GameState int

const (
	GameWaitingForStart GameState = iota
	GameRunning
	GameOver
)

func (g GameState) String() string {
	switch g {
	case GameWaitingForStart:
		return "waiting_for_start"
	case GameRunning:
		return "running"
	case GameOver:
		return "over"
	}
	return fmt.Sprintf("game(%d)", int(g))
}

// SuperState says who, if anyone, currently holds the power buff.
type SuperState int

const (
	NotSuper SuperState = iota
	AmSuper
	OtherIsSuper
)

func (s SuperState) String() string {
	switch s {
	case NotSuper:
		return "not_super"
	case AmSuper:
		return "am_super"
	case OtherIsSuper:
		return "other_is_super"
	}
	return fmt.Sprintf("super(%d)", int(s))
}

// DeriveSuperState collapses the host's super flags into a SuperState.
func DeriveSuperState(thisBotIsSuper, superIsActive bool) SuperState {
	switch {
	case thisBotIsSuper:
		return AmSuper
	case superIsActive:
		return OtherIsSuper
	default:
		return NotSuper
	}
}
