// Package arena runs a single chomper match on a wrap-around grid.
//
// A Match is not safe for concurrent use; the hub that owns it drives every
// call from one goroutine.
package arena

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/Seednode/chomparty/internal/bot"
	"github.com/Seednode/chomparty/internal/grid"
	"github.com/yohamta/donburi"
)

type Status int

const (
	StatusWaiting Status = iota
	StatusRunning
	StatusOver
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusRunning:
		return "running"
	case StatusOver:
		return "over"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

const (
	dotPoints    = 1
	pelletPoints = 5
	eatPoints    = 10
)

type Settings struct {
	Slots               grid.Slots
	MaxPlayers          int
	PowerPellets        int
	RoundDuration       time.Duration
	SuperDuration       time.Duration
	BaseSlotsPerSecond  float64
	BonusSlotsPerSecond float64
	AggressiveBots      bool
	ThrottleBots        bool
	Reporter            bot.Reporter
}

func DefaultSettings() Settings {
	return Settings{
		Slots:               grid.Slots{Horizontal: 20, Vertical: 15},
		MaxPlayers:          6,
		PowerPellets:        4,
		RoundDuration:       3 * time.Minute,
		SuperDuration:       8 * time.Second,
		BaseSlotsPerSecond:  4,
		BonusSlotsPerSecond: 3,
	}
}

type Match struct {
	settings Settings
	world    donburi.World
	rng      *rand.Rand

	players map[int]donburi.Entity
	nextNum int

	dots     []bool
	dotsLeft int
	pellets  map[int]bool

	status    Status
	startedAt int64
	lastTick  int64

	superNum   int
	superUntil int64
}

func NewMatch(settings Settings, seed int64) (*Match, error) {
	if err := settings.Slots.Validate(); err != nil {
		return nil, err
	}
	if settings.MaxPlayers < 1 {
		return nil, fmt.Errorf("invalid player limit %d", settings.MaxPlayers)
	}
	if settings.Reporter == nil {
		settings.Reporter = bot.NopReporter()
	}

	m := &Match{
		settings: settings,
		world:    donburi.NewWorld(),
		rng:      rand.New(rand.NewSource(seed)),
		players:  make(map[int]donburi.Entity),
		nextNum:  1,
		dots:     make([]bool, settings.Slots.Count()),
		pellets:  make(map[int]bool),
	}

	for i := range m.dots {
		m.dots[i] = true
	}
	m.dotsLeft = len(m.dots)

	pellets := settings.PowerPellets
	if pellets > len(m.dots) {
		pellets = len(m.dots)
	}
	for _, idx := range m.rng.Perm(len(m.dots))[:pellets] {
		m.pellets[idx] = true
	}

	return m, nil
}

func (m *Match) Status() Status { return m.status }
func (m *Match) Settings() Settings { return m.settings }
func (m *Match) DotsLeft() int { return m.dotsLeft }
func (m *Match) SuperPlayer() int { return m.superNum }
func (m *Match) PlayerCount() int { return len(m.players) }

func (m *Match) AddHuman(name string) (int, error) {
	return m.add(name, false)
}

func (m *Match) AddBot(name string) (int, error) {
	return m.add(name, true)
}

func (m *Match) add(name string, isBot bool) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	if m.status != StatusWaiting {
		return 0, ErrAlreadyStarted
	}
	if len(m.players) >= m.settings.MaxPlayers {
		return 0, ErrMatchFull
	}
	for _, e := range m.players {
		if Avatar.Get(m.world.Entry(e)).Name == name {
			return 0, fmt.Errorf("%w: %q", ErrNameTaken, name)
		}
	}

	num := m.nextNum
	m.nextNum++

	spawn := m.freeSpawn()
	facing := grid.Directions[m.rng.Intn(len(grid.Directions))]

	var entity donburi.Entity
	if isBot {
		entity = m.world.Create(Avatar, Position, Motion, Mouth, Score, Bot)
	} else {
		entity = m.world.Create(Avatar, Position, Motion, Mouth, Score, Human)
	}
	entry := m.world.Entry(entity)

	Avatar.SetValue(entry, AvatarData{Num: num, Name: name, Spawn: spawn})
	Position.SetValue(entry, spawn)
	Motion.SetValue(entry, MotionData{Direction: facing})

	if isBot {
		Bot.SetValue(entry, BotData{
			Planner: bot.NewPlanner(m.settings.Slots,
				bot.WithSource(rand.New(rand.NewSource(m.rng.Int63()))),
				bot.WithReporter(m.settings.Reporter),
				bot.WithName(name),
				bot.WithDirection(facing),
				bot.WithAggressiveChomp(m.settings.AggressiveBots),
				bot.WithExecutionThrottle(m.settings.ThrottleBots),
			),
		})
	}

	m.players[num] = entity

	return num, nil
}

// freeSpawn picks a random slot no other player spawns on, if one exists.
func (m *Match) freeSpawn() grid.Position {
	taken := make(map[grid.Position]bool, len(m.players))
	for _, e := range m.players {
		taken[Avatar.Get(m.world.Entry(e)).Spawn] = true
	}

	s := m.settings.Slots
	for tries := 0; tries < 64; tries++ {
		p := grid.Position{X: m.rng.Intn(s.Horizontal), Y: m.rng.Intn(s.Vertical)}
		if !taken[p] {
			return p
		}
	}
	return grid.Position{X: m.rng.Intn(s.Horizontal), Y: m.rng.Intn(s.Vertical)}
}

func (m *Match) Remove(num int) error {
	e, ok := m.players[num]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, num)
	}

	delete(m.players, num)
	if m.world.Valid(e) {
		m.world.Remove(e)
	}

	if m.superNum == num {
		m.superNum = 0
	}

	return nil
}

// SetInput applies the face-derived signals of a human player.
func (m *Match) SetInput(num int, d grid.Direction, jawOpen bool, now int64) error {
	e, ok := m.players[num]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, num)
	}

	entry := m.world.Entry(e)
	if !entry.HasComponent(Human) {
		return ErrNotHuman
	}

	Motion.Get(entry).Direction = d
	setMouth(Mouth.Get(entry), jawOpen, now)

	return nil
}

// Start begins the round and hands every bot its opening plan.
func (m *Match) Start(now int64) error {
	if m.status != StatusWaiting {
		return ErrAlreadyStarted
	}
	if len(m.players) == 0 {
		return ErrNoPlayers
	}

	m.status = StatusRunning
	m.startedAt = now
	m.lastTick = now

	m.eachBot(func(p *bot.Planner) {
		p.AdvanceToGameStart()
	})

	for _, num := range m.nums() {
		m.eat(m.world.Entry(m.players[num]), now)
	}

	return nil
}

// Tick advances the match to now. Bots keep thinking after the round ends
// so they settle into idle; nothing moves unless the round is running.
func (m *Match) Tick(now int64) {
	if m.status == StatusWaiting {
		return
	}

	if m.superNum != 0 && now >= m.superUntil {
		m.superNum = 0
	}

	m.think(now)

	if m.status != StatusRunning {
		return
	}

	elapsed := now - m.lastTick
	if elapsed < 0 {
		elapsed = 0
	}
	m.lastTick = now

	m.advance(elapsed, now)

	if m.dotsLeft == 0 || (m.settings.RoundDuration > 0 && now-m.startedAt >= m.settings.RoundDuration.Milliseconds()) {
		m.end()
	}
}

func (m *Match) think(now int64) {
	snapshot := m.snapshotPositions()

	for _, num := range m.nums() {
		entry := m.world.Entry(m.players[num])
		if !entry.HasComponent(Bot) {
			continue
		}

		planner := Bot.Get(entry).Planner
		planner.MaybeUpdateAndExecutePlan(bot.Tick{
			Now:            now,
			ThisBotIsSuper: m.superNum == num,
			SuperIsActive:  m.superNum != 0,
			SuperPlayerNum: m.superNum,
			Position:       *Position.Get(entry),
			Players:        snapshot,
		})

		state := planner.State()
		Motion.Get(entry).Direction = state.Direction
		setMouth(Mouth.Get(entry), state.MouthOpen, now)
	}
}

// snapshotPositions copies every player's position and heading so all bots
// in a tick see the same picture.
func (m *Match) snapshotPositions() map[int]bot.PlayerSnapshot {
	out := make(map[int]bot.PlayerSnapshot, len(m.players))
	for num, e := range m.players {
		entry := m.world.Entry(e)
		out[num] = bot.PlayerSnapshot{
			Position:  *Position.Get(entry),
			Direction: Motion.Get(entry).Direction,
		}
	}
	return out
}

// Speed returns slots per second for a mouth with the given recent movements.
func (m *Match) Speed(moves int) float64 {
	bonus := math.Min(1, float64(moves)/bot.MouthMovesPerSecondForFullBonus)
	return m.settings.BaseSlotsPerSecond + bonus*m.settings.BonusSlotsPerSecond
}

// advance moves every avatar one slot at a time, checking collisions after
// each step so nobody passes through the super player unnoticed.
func (m *Match) advance(elapsedMs, now int64) {
	nums := m.nums()
	steps := make(map[int]int, len(nums))
	most := 0

	for _, num := range nums {
		entry := m.world.Entry(m.players[num])
		motion := Motion.Get(entry)

		motion.Progress += m.Speed(recentMoves(Mouth.Get(entry), now)) * float64(elapsedMs) / 1000
		n := int(motion.Progress)
		motion.Progress -= float64(n)

		steps[num] = n
		most = max(most, n)
	}

	if most == 0 {
		m.collide(nil)
		return
	}

	for i := 0; i < most; i++ {
		from := make(map[int]grid.Position, len(nums))
		for _, num := range nums {
			entry := m.world.Entry(m.players[num])
			from[num] = *Position.Get(entry)
			if steps[num] > i {
				m.step(entry, now)
			}
		}
		m.collide(from)
	}
}

func (m *Match) step(entry *donburi.Entry, now int64) {
	pos := Position.Get(entry)
	*pos = m.settings.Slots.Step(*pos, Motion.Get(entry).Direction)
	m.eat(entry, now)
}

func (m *Match) eat(entry *donburi.Entry, now int64) {
	idx := m.settings.Slots.Index(*Position.Get(entry))
	score := Score.Get(entry)

	if m.dots[idx] {
		m.dots[idx] = false
		m.dotsLeft--
		score.Points += dotPoints
	}

	if m.pellets[idx] {
		delete(m.pellets, idx)
		score.Points += pelletPoints
		m.superNum = Avatar.Get(entry).Num
		m.superUntil = now + m.settings.SuperDuration.Milliseconds()
	}
}

// collide lets the super player eat anyone sharing its slot, or anyone it
// swapped slots with since from was recorded.
func (m *Match) collide(from map[int]grid.Position) {
	if m.superNum == 0 {
		return
	}
	e, ok := m.players[m.superNum]
	if !ok {
		m.superNum = 0
		return
	}

	hunter := m.world.Entry(e)
	at := *Position.Get(hunter)

	for _, num := range m.nums() {
		if num == m.superNum {
			continue
		}
		victim := m.world.Entry(m.players[num])
		pos := *Position.Get(victim)
		swapped := from != nil && from[num] == at && from[m.superNum] == pos
		if pos != at && !swapped {
			continue
		}

		Score.Get(hunter).Points += eatPoints
		Score.Get(hunter).Eaten++
		Score.Get(victim).Deaths++

		Position.SetValue(victim, Avatar.Get(victim).Spawn)
		Motion.Get(victim).Progress = 0
	}
}

func (m *Match) end() {
	m.status = StatusOver
	m.superNum = 0

	m.eachBot(func(p *bot.Planner) {
		p.SetGameState(bot.GameOver)
	})
}

// Stop ends a running round early.
func (m *Match) Stop() {
	if m.status == StatusRunning {
		m.end()
	}
}

// eachBot visits bot planners in player order.
func (m *Match) eachBot(fn func(*bot.Planner)) {
	for _, num := range m.nums() {
		entry := m.world.Entry(m.players[num])
		if entry.HasComponent(Bot) {
			fn(Bot.Get(entry).Planner)
		}
	}
}

func (m *Match) nums() []int {
	nums := make([]int, 0, len(m.players))
	for num := range m.players {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	return nums
}

// RunVirtual starts the match at start and ticks it every step until the
// round ends or limit passes, returning the final virtual time.
func (m *Match) RunVirtual(start int64, step, limit time.Duration) (int64, error) {
	if step < time.Millisecond {
		return start, fmt.Errorf("invalid tick step %s", step)
	}
	if err := m.Start(start); err != nil {
		return start, err
	}

	now := start
	end := start + limit.Milliseconds()
	for m.status == StatusRunning && now < end {
		now += step.Milliseconds()
		m.Tick(now)
	}

	return now, nil
}
