package bot

// UpdateInterval returns a jittered delay, in milliseconds, before a bot in
// the given plan reconsiders it.
func UpdateInterval(plan PlanState, src Source) float64 {
	switch plan {
	case PlanWaitingForStart:
		return jittered(src, 800, 0.5)
	case PlanFleeing:
		return jittered(src, 600, 0.4)
	default:
		return jittered(src, 100, 0.05)
	}
}

// MaybeUpdatePlan reconsiders the plan if enough time has passed since the
// last update. The first call always updates.
func (p *Planner) MaybeUpdatePlan(now int64, super SuperState) {
	if p.planned && float64(now-p.lastPlanUpdate) <= UpdateInterval(p.plan, p.rng) {
		return
	}

	p.lastPlanUpdate = now
	p.planned = true

	switch {
	case p.game == GameWaitingForStart:
		p.plan = PlanWaitingForStart

	case p.game == GameOver:
		p.plan = PlanIdle

	case super == AmSuper:
		// Small mercy chance so a super bot does not always hunt.
		p.plan = p.pick(0.95, PlanHunting, PlanMovingRandomly)

	case super == OtherIsSuper:
		p.plan = PlanFleeing

	case super == NotSuper && p.plan == PlanHunting:
		p.plan = p.pick(0.8, PlanEatingDots, PlanMovingRandomly)

	case super == NotSuper && p.plan == PlanFleeing:
		p.plan = p.pick(0.5, PlanEatingDots, PlanMovingRandomly)

	case p.plan == PlanMovingRandomly:
		p.plan = p.pick(0.95, PlanEatingDots, PlanMovingRandomly)

	case p.plan == PlanEatingDots:
		p.plan = p.pick(0.9, PlanEatingDots, PlanMovingRandomly)

	default:
		p.report(now, UnhandledPlanTransition, super)
	}
}

func (p *Planner) pick(prob float64, likely, otherwise PlanState) PlanState {
	if chance(p.rng, prob) {
		return likely
	}
	return otherwise
}
