package commands

import (
	"errors"
	"fmt"
	"os"

	"fitnesshub/fitness-api/internal/config"
	"fitnesshub/fitness-api/internal/repository/mongo"

	"github.com/spf13/cobra"
	driver "go.mongodb.org/mongo-driver/mongo"
)

var (
	// Global flags
	configDir string
	dbURI     string
	dbName    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fitnessctl",
	Short: "Operator tasks for the fitness API database",
	Long: `fitnessctl runs maintenance tasks against the MongoDB database used
by the fitness API server. It reads the same configuration as the server
(config.yaml, .env and environment variables); flags override it.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&dbURI, "db", "", "MongoDB connection URI (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbName, "db-name", "", "Database name (overrides config)")
}

// loadConfig applies flag overrides on top of the server configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	// A missing URI or secret may still be supplied by flags.
	if err != nil && !isMissingValue(err) {
		return cfg, err
	}
	if dbURI != "" {
		cfg.Database.URI = dbURI
	}
	if dbName != "" {
		cfg.Database.Name = dbName
	}
	if cfg.Database.URI == "" {
		return cfg, fmt.Errorf("--db flag or database uri is required")
	}
	return cfg, nil
}

func isMissingValue(err error) bool {
	return errors.Is(err, config.ErrMissingDatabaseURI) || errors.Is(err, config.ErrMissingJWTSecret)
}

// connect opens the configured database. The caller must invoke the returned func.
func connect(cfg config.Config) (*driver.Client, *driver.Database, func(), error) {
	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := mongo.DisconnectDB(client); err != nil {
			fmt.Fprintf(os.Stderr, "disconnect: %v\n", err)
		}
	}
	return client, client.Database(cfg.Database.Name), closeFn, nil
}
