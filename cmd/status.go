package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flywheel-dev/flywheel-hooks/internal/config"
	"github.com/flywheel-dev/flywheel-hooks/internal/plugin"
	"github.com/flywheel-dev/flywheel-hooks/internal/shell"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show flywheel hooks installation status",
	Long:  `Display the configuration, subtask availability and installation status of flywheel hooks.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cmd.Printf("flywheel-hooks %s\n\n", Version)

	cfg, err := config.Load()
	if err != nil {
		cmd.Printf("Config:       %s (invalid: %v)\n", config.ConfigPath(), err)
		cfg = config.Default()
	} else {
		cmd.Printf("Config:       %s\n", config.ConfigPath())
	}
	cmd.Printf("Debug:        %v\n", cfg.Debug)
	cmd.Printf("Auto install: %v\n", cfg.AutoInstall)
	cmd.Println()

	cwd, _ := os.Getwd()

	ctx, cancel := context.WithTimeout(cmdContext(cmd), cfg.ProbeTimeout)
	defer cancel()
	if err := shell.NewInterp(cwd).Quiet(ctx, plugin.ProbeCommand); err == nil {
		cmd.Printf("%-13s found on PATH\n", plugin.CompanionCLI+":")
	} else {
		cmd.Printf("%-13s not found\n", plugin.CompanionCLI+":")
	}

	if _, err := os.Stat(filepath.Join(cwd, plugin.MarkerName)); err == nil {
		cmd.Printf("Marker:       %s present in %s\n", plugin.MarkerName, cwd)
	} else {
		cmd.Printf("Marker:       no %s in %s\n", plugin.MarkerName, cwd)
	}
	cmd.Println()

	cmd.Println("Host Installations:")
	checkClaudeCodeInstallation(cmd)
	return nil
}

func checkClaudeCodeInstallation(cmd *cobra.Command) {
	settingsPath, err := claudeSettingsPath()
	if err != nil {
		cmd.Println("  Claude Code: Unknown (no home directory)")
		return
	}

	if _, err := os.Stat(settingsPath); err != nil {
		cmd.Println("  Claude Code: Not installed (no settings file)")
		return
	}

	settings, err := readSettings(settingsPath)
	if err != nil {
		cmd.Println("  Claude Code: Error reading settings")
		return
	}

	if count := countInstalledEvents(settings); count > 0 {
		cmd.Printf("  Claude Code: Installed (%d hook events)\n", count)
	} else {
		cmd.Println("  Claude Code: Not installed")
	}
}

// cmdContext returns the command's context, which is nil when a command is
// run without ExecuteContext
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

