package commands

import (
	"context"
	"fmt"
	"time"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository/mongo"
	"fitnesshub/fitness-api/internal/service"

	"github.com/spf13/cobra"
)

var (
	// create-user flags
	userName     string
	userEmail    string
	userPassword string
	userRole     string
)

// createUserCmd registers an account without going through the public signup route
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Register an account",
	Long: `Register an account directly in the database. Useful for creating the
first Admin of a fresh deployment.

Examples:
  fitnessctl create-user --name Root --email root@example.com --password s3cret --role Admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateUser(cmd)
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)

	createUserCmd.Flags().StringVar(&userName, "name", "", "Display name")
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "Login email")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "Initial password")
	createUserCmd.Flags().StringVar(&userRole, "role", string(domain.RoleAdmin), "Admin, Trainer or User")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, db, closeFn, err := connect(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	role, ok := domain.ParseRole(userRole)
	if !ok {
		return fmt.Errorf("invalid role %q", userRole)
	}
	name := userName
	if name == "" {
		name = string(role)
	}

	store := mongo.NewStore(client, db, cfg.Database.Transactions)
	// Only Register is used; the signing secret is irrelevant here.
	auth := service.NewAuthService(store.Users, "fitnessctl", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := auth.Register(ctx, name, userEmail, userPassword, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", user.Role, user.Email, user.ID.Hex())
	return nil
}
