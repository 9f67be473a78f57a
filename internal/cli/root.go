// Package cli provides the Cobra command structure for goxmlint.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxmlint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root goxmlint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "goxmlint",
		Short: "A fast, self-fixing linter for XML and WiX installer sources",
		Long: `goxmlint is a fast, self-fixing linter for XML documents, built for
WiX installer sources (.wxs, .wxi, .wxl) and extensible to any XML
dialect through plugin manifests.

It validates schema placement, GUIDs, naming conventions, security
practices and cross-file references, and can automatically fix many
issues while ensuring safety through dry-run mode, unsafe-fix gating,
and optional backups.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
