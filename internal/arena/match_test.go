package arena

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Seednode/chomparty/internal/bot"
	"github.com/Seednode/chomparty/internal/grid"
	"github.com/yohamta/donburi"
)

func testSettings(h, v int) Settings {
	s := DefaultSettings()
	s.Slots = grid.Slots{Horizontal: h, Vertical: v}
	s.PowerPellets = 0
	s.BonusSlotsPerSecond = 0
	return s
}

func mustMatch(t *testing.T, s Settings) *Match {
	t.Helper()

	m, err := NewMatch(s, 1)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func TestNewMatchRejectsBadSettings(t *testing.T) {
	if _, err := NewMatch(testSettings(0, 5), 1); err == nil {
		t.Error("expected error for zero-width grid")
	}

	s := testSettings(5, 5)
	s.MaxPlayers = 0
	if _, err := NewMatch(s, 1); err == nil {
		t.Error("expected error for zero player limit")
	}
}

func TestAddPlayerValidation(t *testing.T) {
	s := testSettings(10, 10)
	s.MaxPlayers = 2
	m := mustMatch(t, s)

	if _, err := m.AddHuman("  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: got %v", err)
	}

	first, err := m.AddHuman("pinky")
	if err != nil || first != 1 {
		t.Fatalf("AddHuman = %d, %v", first, err)
	}

	if _, err := m.AddBot("pinky"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate name: got %v", err)
	}

	if _, err := m.AddBot("inky"); err != nil {
		t.Fatalf("AddBot: %v", err)
	}

	if _, err := m.AddBot("clyde"); !errors.Is(err, ErrMatchFull) {
		t.Errorf("full match: got %v", err)
	}

	if err := m.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.AddBot("clyde"); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("join after start: got %v", err)
	}
}

func TestStartRequiresPlayers(t *testing.T) {
	m := mustMatch(t, testSettings(5, 5))

	if err := m.Start(0); !errors.Is(err, ErrNoPlayers) {
		t.Errorf("got %v, want ErrNoPlayers", err)
	}
}

func TestHumanMovesAndEatsDots(t *testing.T) {
	m := mustMatch(t, testSettings(10, 1))

	num, _ := m.AddHuman("pac")
	if err := m.SetInput(num, grid.Right, false, 0); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if m.DotsLeft() != 9 {
		t.Fatalf("spawn dot not eaten: %d left", m.DotsLeft())
	}

	m.Tick(1000)

	if m.DotsLeft() != 5 {
		t.Errorf("dots left = %d, want 5", m.DotsLeft())
	}

	view := m.Snapshot(1000).Players[0]
	if view.Points != 5 {
		t.Errorf("points = %d, want 5", view.Points)
	}
}

func TestSpeedRewardsMouthMovement(t *testing.T) {
	s := testSettings(5, 5)
	s.BaseSlotsPerSecond = 4
	s.BonusSlotsPerSecond = 3.5
	m := mustMatch(t, s)

	if got := m.Speed(0); got != 4 {
		t.Errorf("Speed(0) = %v, want 4", got)
	}
	if got := m.Speed(1); math.Abs(got-5) > 1e-9 {
		t.Errorf("Speed(1) = %v, want 5", got)
	}
	if got := m.Speed(20); got != 7.5 {
		t.Errorf("Speed(20) = %v, want capped 7.5", got)
	}
}

func TestMouthMovesAgeOut(t *testing.T) {
	var mouth MouthData

	setMouth(&mouth, true, 0)
	setMouth(&mouth, true, 100) // no change, not a movement
	setMouth(&mouth, false, 200)
	setMouth(&mouth, true, 900)

	if got := recentMoves(&mouth, 950); got != 3 {
		t.Errorf("recent moves = %d, want 3", got)
	}
	if got := recentMoves(&mouth, 1150); got != 2 {
		t.Errorf("recent moves = %d, want 2", got)
	}
}

func TestPowerPelletGrantsSuperUntilExpiry(t *testing.T) {
	s := testSettings(5, 1)
	s.PowerPellets = 5
	s.BaseSlotsPerSecond = 0
	s.SuperDuration = 2 * time.Second
	m := mustMatch(t, s)

	num, _ := m.AddHuman("pac")
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if m.SuperPlayer() != num {
		t.Fatalf("super = %d, want %d", m.SuperPlayer(), num)
	}
	if got := m.Snapshot(0).Players[0].Points; got != dotPoints+pelletPoints {
		t.Errorf("points = %d, want %d", got, dotPoints+pelletPoints)
	}

	m.Tick(1000)
	if m.SuperPlayer() != num {
		t.Fatal("super expired early")
	}

	m.Tick(2000)
	if m.SuperPlayer() != 0 {
		t.Errorf("super should expire at 2s, still %d", m.SuperPlayer())
	}
}

func TestSuperEatsPlayerOnSameSlot(t *testing.T) {
	s := testSettings(10, 10)
	s.BaseSlotsPerSecond = 0
	m := mustMatch(t, s)

	hunter, _ := m.AddHuman("hunter")
	victim, _ := m.AddHuman("victim")
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	hunterEntry := m.world.Entry(m.players[hunter])
	victimEntry := m.world.Entry(m.players[victim])

	spot := grid.Position{X: 3, Y: 3}
	Position.SetValue(hunterEntry, spot)
	Position.SetValue(victimEntry, spot)
	m.superNum = hunter
	m.superUntil = 60_000

	before := Score.Get(hunterEntry).Points
	m.Tick(100)

	if got := Score.Get(hunterEntry).Points - before; got != eatPoints {
		t.Errorf("hunter gained %d points, want %d", got, eatPoints)
	}
	if Score.Get(hunterEntry).Eaten != 1 || Score.Get(victimEntry).Deaths != 1 {
		t.Errorf("eaten/deaths not recorded")
	}
	if *Position.Get(victimEntry) != Avatar.Get(victimEntry).Spawn {
		t.Errorf("victim not sent back to spawn")
	}
}

func TestSuperEatsPlayerItSwapsWith(t *testing.T) {
	s := testSettings(10, 1)
	s.BaseSlotsPerSecond = 1
	m := mustMatch(t, s)

	hunter, _ := m.AddHuman("hunter")
	victim, _ := m.AddHuman("victim")
	_ = m.SetInput(hunter, grid.Right, false, 0)
	_ = m.SetInput(victim, grid.Left, false, 0)
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	hunterEntry := m.world.Entry(m.players[hunter])
	victimEntry := m.world.Entry(m.players[victim])

	Position.SetValue(hunterEntry, grid.Position{X: 3})
	Position.SetValue(victimEntry, grid.Position{X: 4})
	m.superNum = hunter
	m.superUntil = 60_000

	m.Tick(1000)

	if Score.Get(hunterEntry).Eaten != 1 || Score.Get(victimEntry).Deaths != 1 {
		t.Errorf("head-on swap not caught: eaten=%d deaths=%d",
			Score.Get(hunterEntry).Eaten, Score.Get(victimEntry).Deaths)
	}
}

func TestFastSuperCannotSkipOverPlayers(t *testing.T) {
	s := testSettings(10, 1)
	s.BaseSlotsPerSecond = 4
	m := mustMatch(t, s)

	hunter, _ := m.AddHuman("hunter")
	victim, _ := m.AddHuman("victim")
	_ = m.SetInput(hunter, grid.Right, false, 0)
	// Up on a one-row grid wraps back onto the same slot.
	_ = m.SetInput(victim, grid.Up, false, 0)
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	hunterEntry := m.world.Entry(m.players[hunter])
	victimEntry := m.world.Entry(m.players[victim])

	Position.SetValue(hunterEntry, grid.Position{X: 0})
	Position.SetValue(victimEntry, grid.Position{X: 2})
	m.superNum = hunter
	m.superUntil = 60_000

	m.Tick(1000)

	if got := *Position.Get(hunterEntry); got.X != 4 {
		t.Fatalf("hunter at %v, want x=4", got)
	}
	if Score.Get(hunterEntry).Eaten == 0 {
		t.Error("hunter passed over a player without eating it")
	}
}

func TestRoundEndsWhenDotsRunOut(t *testing.T) {
	m := mustMatch(t, testSettings(4, 1))

	num, _ := m.AddHuman("pac")
	_ = m.SetInput(num, grid.Left, true, 0)
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	m.Tick(1000)

	if m.Status() != StatusOver {
		t.Errorf("status = %v, want over", m.Status())
	}
	if snap := m.Snapshot(1000); snap.TimeLeftMs != 0 || snap.DotsLeft != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStartGivesBotsOpeningPlans(t *testing.T) {
	m := mustMatch(t, testSettings(12, 12))

	for _, name := range []string{"blinky", "pinky", "inky"} {
		if _, err := m.AddBot(name); err != nil {
			t.Fatalf("AddBot(%s): %v", name, err)
		}
	}
	if err := m.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	Bot.Each(m.world, func(entry *donburi.Entry) {
		p := Bot.Get(entry).Planner
		if p.GameState() != bot.GameRunning {
			t.Errorf("%s game state = %v", p.Name(), p.GameState())
		}
		if p.Plan() != bot.PlanEatingDots && p.Plan() != bot.PlanMovingRandomly {
			t.Errorf("%s opening plan = %v", p.Name(), p.Plan())
		}
	})
}

func TestBotsIdleAfterTimeout(t *testing.T) {
	s := testSettings(30, 30)
	s.PowerPellets = 4
	s.RoundDuration = 2 * time.Second
	m := mustMatch(t, s)

	for _, name := range []string{"blinky", "pinky", "inky", "clyde"} {
		_, _ = m.AddBot(name)
	}

	end, err := m.RunVirtual(0, 16*time.Millisecond, 10*time.Second)
	if err != nil {
		t.Fatalf("RunVirtual: %v", err)
	}
	if m.Status() != StatusOver {
		t.Fatalf("status = %v, want over", m.Status())
	}
	if end < 2000 || end > 2016 {
		t.Errorf("round ended at %d, want about 2000", end)
	}

	m.Tick(end + 2000)

	for _, p := range m.Snapshot(end + 2000).Players {
		if p.Plan != bot.PlanIdle.String() {
			t.Errorf("%s plan = %s, want idle", p.Name, p.Plan)
		}
	}
}

func TestSeededMatchesAreReproducible(t *testing.T) {
	run := func() Snapshot {
		s := DefaultSettings()
		s.RoundDuration = 5 * time.Second
		m, err := NewMatch(s, 42)
		if err != nil {
			t.Fatalf("NewMatch: %v", err)
		}
		for _, name := range []string{"a", "b", "c", "d"} {
			_, _ = m.AddBot(name)
		}
		end, err := m.RunVirtual(0, 20*time.Millisecond, time.Minute)
		if err != nil {
			t.Fatalf("RunVirtual: %v", err)
		}
		return m.Snapshot(end)
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("seeded runs differ:\n%+v\n%+v", a, b)
	}
}

func TestSetInputRejectsBotsAndStrangers(t *testing.T) {
	m := mustMatch(t, testSettings(5, 5))
	num, _ := m.AddBot("blinky")

	if err := m.SetInput(num, grid.Up, true, 0); !errors.Is(err, ErrNotHuman) {
		t.Errorf("bot input: got %v", err)
	}
	if err := m.SetInput(99, grid.Up, true, 0); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown player: got %v", err)
	}
}

func TestRemoveClearsSuper(t *testing.T) {
	m := mustMatch(t, testSettings(5, 5))
	num, _ := m.AddHuman("pac")
	m.superNum = num

	if err := m.Remove(num); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if m.SuperPlayer() != 0 {
		t.Error("super not cleared")
	}
	if err := m.Remove(num); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("second remove: got %v", err)
	}
}

func TestSnapshotLayout(t *testing.T) {
	s := testSettings(6, 4)
	s.PowerPellets = 3
	m := mustMatch(t, s)
	_, _ = m.AddHuman("pac")

	snap := m.Snapshot(0)
	if len(snap.Dots) != 24 || snap.DotsLeft != 24 {
		t.Errorf("dots = %q (%d left)", snap.Dots, snap.DotsLeft)
	}
	if len(snap.Pellets) != 3 {
		t.Errorf("pellets = %v", snap.Pellets)
	}
	if snap.Status != "waiting" || snap.TimeLeftMs != s.RoundDuration.Milliseconds() {
		t.Errorf("status = %s, time left = %d", snap.Status, snap.TimeLeftMs)
	}
}
