// Package cli wires the buzzline commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootConfig carries the global flags shared by subcommands.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "buzzline",
		Short: "buzzline — topic engagement bot",
		Long: `Buzzline polls the platform's live search for posts mentioning a
tracked topic, classifies each new post's sentiment with an LLM, and
places paid engagement orders through an SMM panel. Every processed
post is recorded in a ledger so it is never handled twice.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.AddCommand(
		newRunCmd(rc),
		newLedgerCmd(),
		newConfigCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("buzzline (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
