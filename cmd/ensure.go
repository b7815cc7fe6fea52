package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flywheel-dev/flywheel-hooks/internal/plugin"
	"github.com/flywheel-dev/flywheel-hooks/internal/shell"
)

var ensureNoInstall bool

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Make sure the subtask CLI is installed",
	Long: `Probe for the subtask CLI and, when it is missing, run its installer.

This is the same check every hook invocation performs. Failures are reported
but never turn into a non-zero exit.`,
	RunE: runEnsure,
}

func init() {
	ensureCmd.Flags().BoolVar(&ensureNoInstall, "no-install", false, "Only probe, never run the installer")
}

func runEnsure(cmd *cobra.Command, args []string) error {
	cfg, logger := loadRuntime()
	defer logger.Sync() //nolint:errcheck

	cwd, _ := os.Getwd()
	report := plugin.Ensure(cmdContext(cmd), shell.NewInterp(cwd), plugin.EnsureOptions{
		AutoInstall:    cfg.AutoInstall && !ensureNoInstall,
		ProbeTimeout:   cfg.ProbeTimeout,
		InstallTimeout: cfg.InstallTimeout,
		Logger:         logger,
	})

	printEnsureReport(cmd, report)
	return nil
}

func printEnsureReport(cmd *cobra.Command, report plugin.EnsureReport) {
	switch {
	case report.Present:
		cmd.Printf("%s is installed\n", plugin.CompanionCLI)
	case report.Installed:
		cmd.Printf("%s was missing and has been installed\n", plugin.CompanionCLI)
	case report.InstallAttempted:
		cmd.Printf("%s is missing and the installer failed: %v\n", plugin.CompanionCLI, report.InstallErr)
	default:
		cmd.Printf("%s is missing (auto install disabled)\n", plugin.CompanionCLI)
		cmd.Printf("  Install with: %s\n", plugin.InstallCommand)
	}
}
