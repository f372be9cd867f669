package bot

import "github.com/Seednode/chomparty/internal/grid"

// Mouth movements a human makes per second to earn the full speed bonus.
const MouthMovesPerSecondForFullBonus = 3.5

// Chomp intervals in milliseconds. Bots use the relaxed interval unless they
// are built with WithAggressiveChomp; neither is as fast as the ideal.
const (
	ChompIntervalIdeal      = 1000 / MouthMovesPerSecondForFullBonus
	ChompIntervalRelaxed    = 1000 / (MouthMovesPerSecondForFullBonus / 1.25)
	ChompIntervalAggressive = 1000 / (MouthMovesPerSecondForFullBonus / 1.1)
)

// FleeDirectionIntervalMs is how often a fleeing bot reconsiders its heading.
const FleeDirectionIntervalMs = 510

// PlayerSnapshot is the read-only view of one player handed to a bot.
type PlayerSnapshot struct {
	Position  grid.Position
	Direction grid.Direction
}

// State is the committed output of a planner.
type State struct {
	Direction grid.Direction
	MouthOpen bool
}

// Tick carries everything a planner needs for one frame.
type Tick struct {
	Now            int64
	ThisBotIsSuper bool
	SuperIsActive  bool
	SuperPlayerNum int
	Position       grid.Position
	Players        map[int]PlayerSnapshot
}

type Planner struct {
	name     string
	slots    grid.Slots
	rng      Source
	reporter Reporter

	plan PlanState
	game GameState

	direction grid.Direction
	mouthOpen bool

	planned        bool
	lastPlanUpdate int64

	timers [behaviorCount]int64

	chompInterval float64

	throttle     bool
	executed     bool
	lastExecuted int64
}

type Option func(*Planner)

// WithSource replaces the random source. Tests pass a deterministic one.
func WithSource(src Source) Option {
	return func(p *Planner) {
		if src != nil {
			p.rng = src
		}
	}
}

func WithReporter(r Reporter) Option {
	return func(p *Planner) {
		if r != nil {
			p.reporter = r
		}
	}
}

// WithName labels diagnostics from this planner.
func WithName(name string) Option {
	return func(p *Planner) {
		p.name = name
	}
}

// WithDirection sets the facing direction before the first tick.
func WithDirection(d grid.Direction) Option {
	return func(p *Planner) {
		p.direction = d
	}
}

// WithAggressiveChomp makes the bot chomp closer to the ideal rate.
func WithAggressiveChomp(aggressive bool) Option {
	return func(p *Planner) {
		if aggressive {
			p.chompInterval = ChompIntervalAggressive
		} else {
			p.chompInterval = ChompIntervalRelaxed
		}
	}
}

// WithExecutionThrottle gates plan execution behind its own jittered
// interval instead of running it on every tick.
func WithExecutionThrottle(enabled bool) Option {
	return func(p *Planner) {
		p.throttle = enabled
	}
}

// NewPlanner returns a planner for a bot on a grid of the given size. The
// slots are fixed for the planner's lifetime.
func NewPlanner(slots grid.Slots, opts ...Option) *Planner {
	p := &Planner{
		slots:         slots,
		reporter:      NopReporter(),
		plan:          PlanWaitingForStart,
		game:          GameWaitingForStart,
		direction:     grid.Left,
		chompInterval: ChompIntervalRelaxed,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.rng == nil {
		p.rng = newDefaultSource()
	}

	return p
}

func (p *Planner) Name() string { return p.name }
func (p *Planner) Plan() PlanState { return p.plan }
func (p *Planner) GameState() GameState { return p.game }
func (p *Planner) Slots() grid.Slots { return p.slots }
func (p *Planner) ChompInterval() float64 { return p.chompInterval }

// LastPlanUpdate returns when the plan was last reconsidered; ok is false
// before the first update.
func (p *Planner) LastPlanUpdate() (ms int64, ok bool) {
	return p.lastPlanUpdate, p.planned
}

// State returns the latest committed direction and mouth state.
func (p *Planner) State() State {
	return State{
		Direction: p.direction,
		MouthOpen: p.mouthOpen,
	}
}

// SetGameState records a round lifecycle transition. It does not touch the
// plan; the next plan update reacts to it.
func (p *Planner) SetGameState(g GameState) {
	p.game = g
}

// AdvanceToGameStart marks the round as running and picks an opening plan.
func (p *Planner) AdvanceToGameStart() {
	p.game = GameRunning
	if chance(p.rng, 0.2) {
		p.plan = PlanMovingRandomly
	} else {
		p.plan = PlanEatingDots
	}
}

// MaybeUpdateAndExecutePlan is the per-tick entry point.
func (p *Planner) MaybeUpdateAndExecutePlan(t Tick) {
	p.MaybeUpdatePlan(t.Now, DeriveSuperState(t.ThisBotIsSuper, t.SuperIsActive))
	p.MaybeExecutePlan(t.Now, t.Position, t.Players, t.SuperPlayerNum)
}

func (p *Planner) report(now int64, kind Kind, super SuperState) {
	p.reporter.Report(Diagnostic{
		Kind:  kind,
		Bot:   p.name,
		Now:   now,
		Plan:  p.plan,
		Game:  p.game,
		Super: super,
	})
}
