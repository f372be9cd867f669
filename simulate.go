/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Seednode/chomparty/internal/arena"
	"github.com/Seednode/chomparty/internal/bot"
	"github.com/spf13/cobra"
)

func newSimulateCmd(cfg *Config) *cobra.Command {
	var limit time.Duration

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a headless bot-only match on a virtual clock and print the scoreboard.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateMatch(); err != nil {
				return err
			}
			if cfg.bots < 1 {
				return fmt.Errorf("simulate needs at least one bot, got %d", cfg.bots)
			}
			return runSimulation(cmd.OutOrStdout(), cfg, limit)
		},
	}

	fs := cmd.Flags()
	normalizeFlags(fs)

	fs.DurationVar(&limit, "limit", 10*time.Minute, "virtual time after which the simulation gives up (env: CHOMPARTY_LIMIT)")

	return cmd
}

func runSimulation(w io.Writer, cfg *Config, limit time.Duration) error {
	diagnostics := 0
	reporter := bot.ReporterFunc(func(d bot.Diagnostic) {
		diagnostics++
		logf(cfg, "BOTS: %s", d)
	})

	seed := cfg.matchSeed()

	m, err := arena.NewMatch(cfg.matchSettings(reporter), seed)
	if err != nil {
		return err
	}

	for i := 0; i < cfg.bots; i++ {
		if _, err := m.AddBot(botName(i)); err != nil {
			return fmt.Errorf("adding bot %d: %w", i+1, err)
		}
	}

	startTime := time.Now()

	end, err := m.RunVirtual(0, cfg.tickInterval(), limit)
	if err != nil {
		return err
	}

	logf(cfg, "SIMULATE: Played %s of virtual time in %s", time.Duration(end)*time.Millisecond, time.Since(startTime).Round(time.Microsecond))

	return printScoreboard(w, m.Snapshot(end), seed, diagnostics)
}

func printScoreboard(w io.Writer, snap arena.Snapshot, seed int64, diagnostics int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "seed\t%d\n", seed)
	fmt.Fprintf(tw, "status\t%s\n", snap.Status)
	fmt.Fprintf(tw, "dots left\t%d\n", snap.DotsLeft)
	fmt.Fprintf(tw, "diagnostics\t%d\n\n", diagnostics)

	fmt.Fprintln(tw, "RANK\tNAME\tPOINTS\tEATEN\tDEATHS\tPLAN")
	for i, p := range snap.Leaders() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", i+1, p.Name, p.Points, p.Eaten, p.Deaths, p.Plan)
	}

	return tw.Flush()
}

var botNames = []string{"Blinky", "Pinky", "Inky", "Clyde", "Sue", "Funky", "Spunky", "Tim"}

func botName(i int) string {
	if i < len(botNames) {
		return botNames[i]
	}
	return fmt.Sprintf("Bot %d", i+1)
}
