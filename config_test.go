package main

import (
	"bytes"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, false},
		{"both tls files", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, false},
		{"port too high", func(c *Config) { c.port = 70000 }, false},
		{"flat grid", func(c *Config) { c.gridHeight = 0 }, false},
		{"no ticks", func(c *Config) { c.tickRate = 0 }, false},
		{"more bots than seats", func(c *Config) { c.bots = 5 }, false},
		{"negative pellets", func(c *Config) { c.powerPellets = -1 }, false},
		{"instant round", func(c *Config) { c.roundDuration = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfigDerivedValues(t *testing.T) {
	cfg := testConfig()

	if got := cfg.tickInterval(); got != 20*time.Millisecond {
		t.Errorf("tickInterval = %s, want 20ms", got)
	}
	if got := cfg.matchSeed(); got != 7 {
		t.Errorf("matchSeed = %d, want 7", got)
	}
	if cfg.scheme() != "http" {
		t.Errorf("scheme = %s", cfg.scheme())
	}

	s := cfg.matchSettings(nil)
	if s.Slots.Horizontal != 8 || s.Slots.Vertical != 8 || s.MaxPlayers != 4 || s.PowerPellets != 1 {
		t.Errorf("matchSettings = %+v", s)
	}
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer

	cmd := newCmd(&Config{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := out.String(); got != "chomparty v"+releaseVersion+"\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestEnvironmentFillsUnsetFlags(t *testing.T) {
	t.Setenv("CHOMPARTY_BOTS", "2")
	t.Setenv("CHOMPARTY_ROUND_DURATION", "2s")
	t.Setenv("CHOMPARTY_SEED", "11")

	var out bytes.Buffer
	cfg := &Config{}

	cmd := newCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"simulate", "--seed", "12"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if cfg.bots != 2 || cfg.roundDuration != 2*time.Second {
		t.Errorf("environment ignored: bots=%d round=%s", cfg.bots, cfg.roundDuration)
	}
	if cfg.seed != 12 {
		t.Errorf("seed = %d, command line should win over environment", cfg.seed)
	}
	if got := scoreboardValue(out.String(), "seed"); got != "12" {
		t.Errorf("scoreboard missing seed:\n%s", out.String())
	}
}

func TestUnderscoreFlagsAreNormalized(t *testing.T) {
	var out bytes.Buffer
	cfg := &Config{}

	cmd := newCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"simulate", "--round_duration", "1s", "--grid_width", "6", "--seed", "3"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if cfg.roundDuration != time.Second || cfg.gridWidth != 6 {
		t.Errorf("round=%s width=%d", cfg.roundDuration, cfg.gridWidth)
	}
}
