package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/db"
)

// migrateCmd manages the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate <up|down>",
	Short: "Apply or roll back database migrations",
	Long: `Apply (up) or roll back (down) every migration against DATABASE_URL.
The api applies pending migrations at start-up; use this for manual rollbacks.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := args[0]
	if direction != "up" && direction != "down" {
		return fmt.Errorf("unknown direction %q (want up or down)", direction)
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	conn, dialect, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if direction == "up" {
		err = db.MigrateUp(ctx, conn, dialect, logger)
	} else {
		err = db.MigrateDown(ctx, conn, dialect, logger)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done (%s)\n", direction, db.Redact(cfg.DB.URL))
	return nil
}
