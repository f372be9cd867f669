package bot

import "fmt"

// Kind classifies a planner diagnostic.
type Kind int

const (
	// UnhandledPlanTransition means no transition rule matched the current
	// plan, game and super states. The plan is left unchanged.
	UnhandledPlanTransition Kind = iota
	// UnhandledPlanExecution means the current plan has no execution step.
	UnhandledPlanExecution
	// MissingSuperPlayer means the bot is fleeing but the super player is
	// absent from the snapshot.
	MissingSuperPlayer
	// DegenerateFleeGeometry means every flee weight was zero and a uniform
	// direction was chosen instead.
	DegenerateFleeGeometry
)

func (k Kind) String() string {
	switch k {
	case UnhandledPlanTransition:
		return "unhandled_plan_transition"
	case UnhandledPlanExecution:
		return "unhandled_plan_execution"
	case MissingSuperPlayer:
		return "missing_super_player"
	case DegenerateFleeGeometry:
		return "degenerate_flee_geometry"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Diagnostic describes a recoverable oddity the planner ran into.
type Diagnostic struct {
	Kind  Kind
	Bot   string
	Now   int64
	Plan  PlanState
	Game  GameState
	Super SuperState
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s bot=%q now=%d plan=%s game=%s super=%s",
		d.Kind, d.Bot, d.Now, d.Plan, d.Game, d.Super)
}

// Reporter receives planner diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) {
	if f == nil {
		return
	}
	f(d)
}

type nopReporter struct{}

func (nopReporter) Report(Diagnostic) {}

func NopReporter() Reporter {
	return nopReporter{}
}
