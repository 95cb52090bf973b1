package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portalteam/auth-api/internal/auth"
	"github.com/portalteam/auth-api/internal/config"
	"github.com/portalteam/auth-api/internal/database"
	"github.com/portalteam/auth-api/internal/models"
	"github.com/portalteam/auth-api/internal/validation"
)

// NewUserCmd creates the user management command with create and set-password
// subcommands.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
		Long:  "Create users and reset passwords. Passwords are hashed before they reach the database.",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserSetPasswordCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var email, name, role, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(strings.ToLower(email))
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			if err := validation.ValidateUserRole(role); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			hash, err := auth.NewPasswordVerifier(cfg.BcryptCost).Hash(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			repo := database.NewUserRepository(db)
			user := &models.User{
				Email:        email,
				Name:         name,
				Role:         role,
				PasswordHash: hash,
			}
			if err := repo.Create(context.Background(), user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Printf("Created user %s (%s) with role %s.\n", user.Email, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", models.RoleUser, "Role (user or admin)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (required)")
	return cmd
}

func newUserSetPasswordCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Reset a user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(strings.ToLower(email))
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			repo := database.NewUserRepository(db)
			user, err := repo.FindByEmail(context.Background(), email)
			if err != nil {
				return fmt.Errorf("look up user: %w", err)
			}
			if user == nil {
				return fmt.Errorf("no user with email %s", email)
			}

			hash, err := auth.NewPasswordVerifier(cfg.BcryptCost).Hash(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err := repo.UpdatePassword(context.Background(), user.Email, hash); err != nil {
				return fmt.Errorf("update password: %w", err)
			}

			fmt.Printf("Password updated for %s.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password (required)")
	return cmd
}
