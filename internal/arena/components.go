package arena

import (
	"github.com/Seednode/chomparty/internal/bot"
	"github.com/Seednode/chomparty/internal/grid"
	"github.com/yohamta/donburi"
)

type AvatarData struct {
	Num   int
	Name  string
	Spawn grid.Position
}

var Avatar = donburi.NewComponentType[AvatarData]()

var Position = donburi.NewComponentType[grid.Position]()

type MotionData struct {
	Direction grid.Direction
	Progress  float64 // fraction of the next slot already travelled
}

var Motion = donburi.NewComponentType[MotionData]()

type MouthData struct {
	Open  bool
	Moves []int64 // times the mouth changed state within the last second
}

var Mouth = donburi.NewComponentType[MouthData]()

type ScoreData struct {
	Points int
	Eaten  int
	Deaths int
}

var Score = donburi.NewComponentType[ScoreData]()

type BotData struct {
	Planner *bot.Planner
}

var Bot = donburi.NewComponentType[BotData]()

var Human = donburi.NewTag().SetName("Human")

// setMouth records a mouth movement when the state actually changes.
func setMouth(m *MouthData, open bool, now int64) {
	if m.Open == open {
		return
	}
	m.Open = open
	m.Moves = append(m.Moves, now)
}

// recentMoves drops movements older than a second and returns how many remain.
func recentMoves(m *MouthData, now int64) int {
	keep := m.Moves[:0]
	for _, t := range m.Moves {
		if now-t < 1000 {
			keep = append(keep, t)
		}
	}
	m.Moves = keep
	return len(keep)
}
