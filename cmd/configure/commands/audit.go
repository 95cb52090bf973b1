package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalteam/auth-api/internal/config"
	"github.com/portalteam/auth-api/internal/database"
)

// NewAuditCmd creates the audit command for inspecting the login audit trail.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the login audit trail",
	}
	cmd.AddCommand(newAuditFailuresCmd())
	return cmd
}

func newAuditFailuresCmd() *cobra.Command {
	var email string
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "failures",
		Short: "Count recent failed login attempts for an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(strings.ToLower(email))
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()
			repo := database.NewLoginAuditRepository(db)
			count, err := repo.RecentFailures(context.Background(), email, window)
			if err != nil {
				return fmt.Errorf("count recent failures: %w", err)
			}
			fmt.Printf("%d failed login attempts for %s in the last %s.\n", count, email, window)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().DurationVar(&window, "window", time.Hour, "Lookback window")
	return cmd
}
