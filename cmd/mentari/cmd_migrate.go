package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mentari-platform/mentari/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up [steps]",
	Short: "Apply pending migrations (all by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := stepsArg(args, 0)
		if err != nil {
			return err
		}
		return migrate(cmd, steps)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := stepsArg(args, 1)
		if err != nil {
			return err
		}
		return migrate(cmd, -steps)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := database.MigrationVersion(cfg.DB.DSN(), cfg.DB.MigrationsPath)
		if err != nil {
			return err
		}
		printStatus(cmd, st)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func migrate(cmd *cobra.Command, steps int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := database.Migrate(cfg.DB.DSN(), cfg.DB.MigrationsPath, steps)
	if err != nil {
		return err
	}
	printStatus(cmd, st)
	return nil
}

func stepsArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return n, nil
}

func printStatus(cmd *cobra.Command, st database.MigrationStatus) {
	dirty := ""
	if st.Dirty {
		dirty = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d%s\n", st.Version, dirty)
}
