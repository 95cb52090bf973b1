package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portalteam/auth-api/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "auth-configure",
		Short: "Configuration tool for the auth API",
		Long:  "CLI tool for managing users, CORS, rate limits, and signing secrets",
	}

	rootCmd.AddCommand(commands.NewUserCmd())
	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewSecretCmd())
	rootCmd.AddCommand(commands.NewAuditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
