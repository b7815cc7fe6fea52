package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flywheel-dev/flywheel-hooks/internal/adapters"
	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <host>",
	Short: "Uninstall flywheel hooks from an AI host",
	Long: `Remove flywheel hooks from the specified AI coding assistant.

Supported hosts:
  - claude-code: Claude Code CLI (also accepts "claude")`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	if !adapters.IsValidHost(args[0]) {
		return fmt.Errorf("unknown host: %s. Supported: %v", args[0], adapters.SupportedHosts())
	}
	host := adapters.NormalizeHost(args[0])
	if host != schema.HostClaudeCode {
		return fmt.Errorf("uninstallation not implemented for: %s", host)
	}

	settingsPath, err := claudeSettingsPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(settingsPath); errors.Is(err, os.ErrNotExist) {
		cmd.Println("No Claude Code settings file found - nothing to uninstall")
		return nil
	}

	removed, err := uninstallClaudeCode(settingsPath)
	if err != nil {
		return err
	}

	if removed == 0 {
		cmd.Println("No flywheel hooks found in Claude Code settings")
		return nil
	}
	cmd.Printf("Removed %d flywheel hook groups from Claude Code\n", removed)
	return nil
}

func uninstallClaudeCode(settingsPath string) (int, error) {
	settings, err := readSettings(settingsPath)
	if err != nil {
		return 0, err
	}

	removed := removeClaudeHooks(settings)
	if removed == 0 {
		return 0, nil
	}
	return removed, writeSettings(settingsPath, settings)
}
