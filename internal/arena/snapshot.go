package arena

import (
	"sort"
	"strings"

	"github.com/Seednode/chomparty/internal/grid"
)

type PlayerView struct {
	Num       int           `json:"num"`
	Name      string        `json:"name"`
	Bot       bool          `json:"bot"`
	Plan      string        `json:"plan,omitempty"`
	Position  grid.Position `json:"position"`
	Direction string        `json:"direction"`
	MouthOpen bool          `json:"mouth_open"`
	Super     bool          `json:"super"`
	Points    int           `json:"points"`
	Eaten     int           `json:"eaten"`
	Deaths    int           `json:"deaths"`
}

// Snapshot is an immutable copy of a match, safe to hand to other goroutines.
type Snapshot struct {
	Status     string          `json:"status"`
	Slots      grid.Slots      `json:"slots"`
	Players    []PlayerView    `json:"players"`
	Dots       string          `json:"dots"` // one '1' or '0' per slot, row-major
	DotsLeft   int             `json:"dots_left"`
	Pellets    []grid.Position `json:"pellets"`
	SuperNum   int             `json:"super_num,omitempty"`
	TimeLeftMs int64           `json:"time_left_ms"`
}

func (m *Match) Snapshot(now int64) Snapshot {
	s := m.settings.Slots

	var dots strings.Builder
	dots.Grow(len(m.dots))
	for _, d := range m.dots {
		if d {
			dots.WriteByte('1')
		} else {
			dots.WriteByte('0')
		}
	}

	pellets := make([]grid.Position, 0, len(m.pellets))
	for idx := range m.pellets {
		pellets = append(pellets, grid.Position{X: idx % s.Horizontal, Y: idx / s.Horizontal})
	}
	sort.Slice(pellets, func(i, j int) bool {
		return s.Index(pellets[i]) < s.Index(pellets[j])
	})

	players := make([]PlayerView, 0, len(m.players))
	for _, num := range m.nums() {
		entry := m.world.Entry(m.players[num])
		av := Avatar.Get(entry)
		score := Score.Get(entry)

		view := PlayerView{
			Num:       num,
			Name:      av.Name,
			Position:  *Position.Get(entry),
			Direction: Motion.Get(entry).Direction.String(),
			MouthOpen: Mouth.Get(entry).Open,
			Super:     num == m.superNum,
			Points:    score.Points,
			Eaten:     score.Eaten,
			Deaths:    score.Deaths,
		}
		if entry.HasComponent(Bot) {
			view.Bot = true
			view.Plan = Bot.Get(entry).Planner.Plan().String()
		}

		players = append(players, view)
	}

	return Snapshot{
		Status:     m.status.String(),
		Slots:      s,
		Players:    players,
		Dots:       dots.String(),
		DotsLeft:   m.dotsLeft,
		Pellets:    pellets,
		SuperNum:   m.superNum,
		TimeLeftMs: m.timeLeft(now),
	}
}

func (m *Match) timeLeft(now int64) int64 {
	total := m.settings.RoundDuration.Milliseconds()
	switch m.status {
	case StatusWaiting:
		return total
	case StatusOver:
		return 0
	}

	left := total - (now - m.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Leaders returns player views ordered by points, best first.
func (s Snapshot) Leaders() []PlayerView {
	out := append([]PlayerView(nil), s.Players...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}
