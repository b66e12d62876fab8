package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentari-platform/mentari/internal/database"
	"github.com/mentari-platform/mentari/internal/questionbank"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load a YAML question bank into PostgreSQL",
	Long: `Load a YAML question bank into PostgreSQL.

The file defaults to BRAIN_QUESTION_FILE. Pending migrations are applied
first. Existing topics are matched by title and their questions replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Brain.QuestionFile
	if len(args) == 1 {
		path = args[0]
	}

	bank, err := questionbank.LoadYAML(path)
	if err != nil {
		return err
	}

	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	res, err := questionbank.Seed(ctx, pool, bank)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d topics and %d questions from %s\n", res.Topics, res.Questions, path)
	return nil
}
