package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/persist"
)

var flagLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored simulation runs",
	Args:  cobra.NoArgs,
	RunE:  listSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of sessions to show")
}

func listSessions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is not set")
	}
	log, err := newLogger(cfg.Logging, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if err := persist.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	rows, err := persist.NewSessionRepo(db).Recent(ctx, flagLimit)
	if err != nil {
		return err
	}
	log.Debug("sessions listed", zap.Int("count", len(rows)))

	out := cmd.OutOrStdout()
	for _, r := range rows {
		fmt.Fprintf(out, "%s  %-12s %6d ticks  %4d collisions  %016x  %s\n",
			r.ID, r.Scenario, r.Ticks, r.Collisions, r.Checksum, r.StartedAt.Format(time.RFC3339))
	}
	return nil
}
