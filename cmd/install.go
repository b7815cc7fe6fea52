package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flywheel-dev/flywheel-hooks/internal/adapters"
	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
)

var installCmd = &cobra.Command{
	Use:   "install <host>",
	Short: "Install flywheel hooks for an AI host",
	Long: `Install flywheel hooks for the specified AI coding assistant.

Supported hosts:
  - claude-code: Claude Code CLI (also accepts "claude")

OpenCode loads plugins itself; point its plugin at "flywheel-hooks hook".`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	if !adapters.IsValidHost(args[0]) {
		return fmt.Errorf("unknown host: %s. Supported: %v", args[0], adapters.SupportedHosts())
	}
	host := adapters.NormalizeHost(args[0])
	if host != schema.HostClaudeCode {
		return fmt.Errorf("installation not implemented for: %s", host)
	}

	// Get the executable path for hook commands
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get actual binary path
	exePath, err = filepath.EvalSymlinks(exePath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	settingsPath, err := claudeSettingsPath()
	if err != nil {
		return err
	}
	if err := installClaudeCode(settingsPath, exePath); err != nil {
		return err
	}

	cmd.Println("Successfully installed flywheel hooks for Claude Code")
	cmd.Printf("Settings file: %s\n", settingsPath)
	return nil
}

func installClaudeCode(settingsPath, exePath string) error {
	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hookCmd := fmt.Sprintf("%s hook --dialect %s", exePath, schema.HostClaudeCode)
	mergeClaudeHooks(settings, hookCmd)

	return writeSettings(settingsPath, settings)
}
