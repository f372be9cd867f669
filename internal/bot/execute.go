package bot

import "github.com/Seednode/chomparty/internal/grid"

// ExecuteInterval returns the jittered execution delay used when the
// execution throttle is enabled.
func ExecuteInterval(plan PlanState, src Source) float64 {
	switch plan {
	case PlanWaitingForStart:
		return jittered(src, 400, 0.5)
	default:
		return jittered(src, 50, 0.2)
	}
}

// MaybeExecutePlan turns the current plan into a direction and mouth state.
// Without the throttle it runs on every call.
func (p *Planner) MaybeExecutePlan(now int64, position grid.Position, players map[int]PlayerSnapshot, superPlayerNum int) {
	if p.throttle {
		if p.executed && float64(now-p.lastExecuted) <= ExecuteInterval(p.plan, p.rng) {
			return
		}
		p.executed = true
		p.lastExecuted = now
	}

	switch p.plan {
	case PlanWaitingForStart, PlanMovingRandomly, PlanEatingDots:
		p.maybeChomp(now)

	case PlanFleeing:
		p.maybeChomp(now)
		p.TriggerFunc(now, FleeDirectionChange, FleeDirectionIntervalMs, DefaultJitter, func() {
			p.flee(now, position, players, superPlayerNum)
		})

	case PlanHunting, PlanIdle:
		// Hunting keeps the last heading; bots do not path toward prey.

	default:
		p.report(now, UnhandledPlanExecution, NotSuper)
	}
}

func (p *Planner) maybeChomp(now int64) {
	p.TriggerFunc(now, Chomp, p.chompInterval, DefaultJitter, func() {
		p.mouthOpen = !p.mouthOpen
	})
}

func (p *Planner) flee(now int64, position grid.Position, players map[int]PlayerSnapshot, superPlayerNum int) {
	hunter, ok := players[superPlayerNum]
	if !ok {
		p.report(now, MissingSuperPlayer, OtherIsSuper)
		return
	}

	d, ok := FleeDirection(position, hunter, p.slots, p.rng)
	if !ok {
		p.report(now, DegenerateFleeGeometry, OtherIsSuper)
	}
	p.direction = d
}
