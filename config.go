package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/chomparty/internal/arena"
	"github.com/Seednode/chomparty/internal/bot"
	"github.com/Seednode/chomparty/internal/grid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	playerTimeout  time.Duration
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	aggressiveBots bool
	bots           int
	gridHeight     int
	gridWidth      int
	maxPlayers     int
	powerPellets   int
	roundDuration  time.Duration
	seed           int64
	superDuration  time.Duration
	throttleBots   bool
	tickRate       int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return c.validateMatch()
}

func (c *Config) validateMatch() error {
	if err := c.slots().Validate(); err != nil {
		return err
	}
	if c.tickRate < 1 || c.tickRate > 240 {
		return fmt.Errorf("invalid tick rate (must be between 1-240 inclusive): %d", c.tickRate)
	}
	if c.maxPlayers < 1 {
		return fmt.Errorf("invalid max players (must be at least 1): %d", c.maxPlayers)
	}
	if c.bots < 0 || c.bots > c.maxPlayers {
		return fmt.Errorf("invalid bot count (must be between 0-%d inclusive): %d", c.maxPlayers, c.bots)
	}
	if c.powerPellets < 0 {
		return fmt.Errorf("invalid power pellet count: %d", c.powerPellets)
	}
	if c.roundDuration <= 0 || c.superDuration <= 0 {
		return errors.New("--round-duration and --super-duration must be positive")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) slots() grid.Slots {
	return grid.Slots{Horizontal: c.gridWidth, Vertical: c.gridHeight}
}

func (c *Config) tickInterval() time.Duration {
	return time.Second / time.Duration(c.tickRate)
}

func (c *Config) matchSeed() int64 {
	if c.seed != 0 {
		return c.seed
	}
	return time.Now().UnixNano()
}

func (c *Config) matchSettings(reporter bot.Reporter) arena.Settings {
	s := arena.DefaultSettings()

	s.Slots = c.slots()
	s.MaxPlayers = c.maxPlayers
	s.PowerPellets = c.powerPellets
	s.RoundDuration = c.roundDuration
	s.SuperDuration = c.superDuration
	s.AggressiveBots = c.aggressiveBots
	s.ThrottleBots = c.throttleBots
	s.Reporter = reporter

	return s
}

func normalizeFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// bindEnv lets CHOMPARTY_* environment variables fill in any flag the user
// did not set on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CHOMPARTY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func newCmd(cfg *Config) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:           "chomparty",
		Short:         "Face-controlled multiplayer chomper matches, with bots to fill the board.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnv(v, cmd.Flags())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()
	normalizeFlags(fs)

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CHOMPARTY_BIND)")
	fs.DurationVar(&cfg.playerTimeout, "player-timeout", 2*time.Minute, "time before disconnected players are removed (env: CHOMPARTY_PLAYER_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: CHOMPARTY_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: CHOMPARTY_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: CHOMPARTY_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle matches are ended (env: CHOMPARTY_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: CHOMPARTY_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: CHOMPARTY_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CHOMPARTY_VERSION)")

	pfs := cmd.PersistentFlags()
	normalizeFlags(pfs)

	pfs.BoolVar(&cfg.aggressiveBots, "aggressive-bots", false, "let bots chomp closer to the ideal rate (env: CHOMPARTY_AGGRESSIVE_BOTS)")
	pfs.IntVar(&cfg.bots, "bots", 3, "bots added to each new match (env: CHOMPARTY_BOTS)")
	pfs.IntVar(&cfg.gridHeight, "grid-height", 15, "vertical slots on the board (env: CHOMPARTY_GRID_HEIGHT)")
	pfs.IntVar(&cfg.gridWidth, "grid-width", 20, "horizontal slots on the board (env: CHOMPARTY_GRID_WIDTH)")
	pfs.IntVar(&cfg.maxPlayers, "max-players", 6, "players per match, bots included (env: CHOMPARTY_MAX_PLAYERS)")
	pfs.IntVar(&cfg.powerPellets, "power-pellets", 4, "power pellets placed on the board (env: CHOMPARTY_POWER_PELLETS)")
	pfs.DurationVar(&cfg.roundDuration, "round-duration", 3*time.Minute, "length of a round (env: CHOMPARTY_ROUND_DURATION)")
	pfs.Int64Var(&cfg.seed, "seed", 0, "random seed for matches, 0 for time-based (env: CHOMPARTY_SEED)")
	pfs.DurationVar(&cfg.superDuration, "super-duration", 8*time.Second, "how long a power pellet lasts (env: CHOMPARTY_SUPER_DURATION)")
	pfs.BoolVar(&cfg.throttleBots, "throttle-bots", false, "run bot plans on their own jittered cadence instead of every tick (env: CHOMPARTY_THROTTLE_BOTS)")
	pfs.IntVar(&cfg.tickRate, "tick-rate", 30, "simulation ticks per second (env: CHOMPARTY_TICK_RATE)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CHOMPARTY_VERBOSE)")

	cmd.AddCommand(newSimulateCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("chomparty v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
