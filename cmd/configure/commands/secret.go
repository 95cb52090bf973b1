package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portalteam/auth-api/internal/config"
)

// NewSecretCmd creates the signing secret command with generate and check
// subcommands.
func NewSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the token signing secret",
		Long:  "Generate a new signing secret or check the strength of the configured one. The secret itself is never printed to logs or stored in the database.",
	}
	cmd.AddCommand(newSecretGenerateCmd())
	cmd.AddCommand(newSecretCheckCmd())
	return cmd
}

func newSecretGenerateCmd() *cobra.Command {
	var numBytes int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random signing secret",
		Long:  "Print a fresh base64-encoded secret to stdout, suitable for JWT_SECRET.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if numBytes < config.MinSecretBytes {
				return fmt.Errorf("secret must be at least %d bytes", config.MinSecretBytes)
			}
			buf := make([]byte, numBytes)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("read random bytes: %w", err)
			}
			fmt.Println(base64.StdEncoding.EncodeToString(buf))
			return nil
		},
	}
	cmd.Flags().IntVar(&numBytes, "bytes", config.MinSecretBytes, "Secret length in bytes")
	return cmd
}

func newSecretCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the configured signing secret",
		Long:  "Verify that JWT_SECRET is set and meets the minimum length.",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			if len(secret) < config.MinSecretBytes {
				return fmt.Errorf("JWT_SECRET is %d bytes; minimum is %d", len(secret), config.MinSecretBytes)
			}
			fmt.Printf("JWT_SECRET is set (%d bytes).\n", len(secret))
			return nil
		},
	}
}
