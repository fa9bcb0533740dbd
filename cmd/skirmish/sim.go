package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/persist"
	"github.com/l1jgo/skirmish/internal/system"
)

var (
	flagTicks int
	flagDT    float64
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the simulation headless and print a summary",
	Long: `Advance the simulation a fixed number of ticks with no terminal and
no input, then print collision and damage totals and the state checksum.
When database.dsn is set the summary is also stored as a session.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagTicks, "ticks", 600, "Number of ticks to run")
	simCmd.Flags().Float64Var(&flagDT, "dt", 0, "Seconds per tick (0 = sim.tick_rate)")
}

func runSim(cmd *cobra.Command, _ []string) error {
	e, err := newEnv("")
	if err != nil {
		return err
	}
	defer e.close()

	dt := float32(flagDT)
	if dt <= 0 {
		dt = float32(e.cfg.Sim.TickRate.Seconds())
	}

	row := persist.NewSessionRow(e.scenario.Name, e.cfg.Sim.TickRate, time.Now())
	for i := 0; i < flagTicks; i++ {
		if err := e.sim.AdvanceTick(dt); err != nil {
			e.log.Fatal("simulation aborted", zap.Error(err))
		}
	}
	row.FinishedAt = time.Now()

	stats := e.sim.Stats()
	fillRow(&row, e.sim.Tick(), e.sim.EntityCount(), e.sim.Checksum(), stats)
	printSummary(cmd.OutOrStdout(), &row)

	if e.cfg.Database.DSN == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	return saveSession(ctx, e, row)
}

func fillRow(row *persist.SessionRow, ticks uint64, entities int, checksum uint64, stats system.Stats) {
	row.Ticks = ticks
	row.Entities = entities
	row.Checksum = checksum
	row.Collisions = stats.Collisions
	row.Damage = stats.Damage
	for k, v := range stats.Reactions {
		row.Reactions[k] = v
	}
	for k, v := range stats.Destroyed {
		row.Destroyed[k] = v
	}
}

func printSummary(w io.Writer, row *persist.SessionRow) {
	fmt.Fprintf(w, "scenario    %s\n", row.Scenario)
	fmt.Fprintf(w, "ticks       %d\n", row.Ticks)
	fmt.Fprintf(w, "entities    %d\n", row.Entities)
	fmt.Fprintf(w, "collisions  %d\n", row.Collisions)
	fmt.Fprintf(w, "damage      %d\n", row.Damage)
	printCounts(w, "reaction", row.Reactions)
	printCounts(w, "destroyed", row.Destroyed)
	fmt.Fprintf(w, "checksum    %016x\n", row.Checksum)
	fmt.Fprintf(w, "elapsed     %s\n", row.Duration().Round(time.Millisecond))
}

func printCounts(w io.Writer, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-9s %-14s %d\n", label, k, counts[k])
	}
}

func saveSession(ctx context.Context, e *env, row persist.SessionRow) error {
	db, err := persist.NewDB(ctx, e.cfg.Database, e.log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := persist.NewSessionRepo(db).Save(ctx, row); err != nil {
		return err
	}
	e.log.Info("session stored", zap.Stringer("id", row.ID))
	return nil
}
