package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/semi-dlc/flowt-bb/internal/config"
	"github.com/semi-dlc/flowt-bb/internal/factory"
	"github.com/semi-dlc/flowt-bb/internal/prompt"
	"github.com/semi-dlc/flowt-bb/internal/services"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

func init() {
	// grant-developer writes the role straight to the store; there is no HTTP route for it.
	rootCmd.AddCommand(&cobra.Command{
		Use:   "grant-developer USER_ID",
		Short: "Grant the developer role (uses FREIGHT_AGENT_* store settings)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := factory.NewStore(ctx, cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			if c, ok := st.(io.Closer); ok {
				defer func() { _ = c.Close() }()
			}
			return runGrantDeveloper(ctx, st, args[0], os.Stdout)
		},
	})

	promptCmd := &cobra.Command{Use: "prompt", Short: "System prompt operations"}
	promptCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the default system prompt with an empty market context",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPromptShow(os.Stdout)
		},
	})
	rootCmd.AddCommand(promptCmd)
}

func runGrantDeveloper(ctx context.Context, st store.Store, userID string, out io.Writer) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	if err := services.NewCapabilityService(st).GrantDeveloper(ctx, userID); err != nil {
		return fmt.Errorf("grant developer: %w", err)
	}
	_, _ = fmt.Fprintf(out, "granted developer role to %s\n", userID)
	return nil
}

func runPromptShow(out io.Writer) error {
	text, err := prompt.Default(prompt.Data{})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
