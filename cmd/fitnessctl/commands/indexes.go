package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fitnesshub/fitness-api/internal/repository/mongo"

	"github.com/spf13/cobra"
)

var indexTimeout time.Duration

// ensureIndexesCmd creates the collection indexes the server relies on
var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create database indexes",
	Long: `Create the indexes of every collection the API uses. Existing indexes
are left in place, so the command is safe to run repeatedly.

Examples:
  fitnessctl ensure-indexes --db mongodb://localhost:27017
  fitnessctl ensure-indexes --timeout 5m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnsureIndexes(cmd)
	},
}

func init() {
	rootCmd.AddCommand(ensureIndexesCmd)

	ensureIndexesCmd.Flags().DurationVar(&indexTimeout, "timeout", time.Minute, "Maximum time to spend creating indexes")
}

func runEnsureIndexes(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, db, closeFn, err := connect(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	failures := mongo.EnsureIndexes(ctx, db)
	if len(failures) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Indexes are up to date.")
		return nil
	}

	collections := make([]string, 0, len(failures))
	for name := range failures {
		collections = append(collections, name)
	}
	sort.Strings(collections)
	for _, name := range collections {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, failures[name])
	}
	return fmt.Errorf("index creation failed for %d collection(s)", len(failures))
}
