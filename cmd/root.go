package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flywheel-dev/flywheel-hooks/internal/config"
	"github.com/flywheel-dev/flywheel-hooks/internal/logging"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "flywheel-hooks",
	Short: "flywheel hooks - subtask reminders for AI coding assistants",
	Long: `flywheel-hooks runs as a hook for AI coding assistants. It makes sure the
optional subtask CLI is installed and reminds the agent to load the subtask
skill after a context compaction or a subtask command.

Supported hosts:
  - opencode
  - claude-code

Get started:
  1. Install hooks: flywheel-hooks install claude-code
  2. Use your AI assistant as normal - reminders are injected automatically`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ensureCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateOpenCodeCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("flywheel-hooks %s\n", Version)
	},
}

// loadRuntime returns the effective config and a logger for it. A broken
// config file falls back to defaults so hooks keep working.
func loadRuntime() (*config.Config, *zap.Logger) {
	cfg := config.LoadOrDefault()
	return cfg, logging.New(cfg)
}
