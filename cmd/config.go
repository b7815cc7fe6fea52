package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flywheel-dev/flywheel-hooks/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage flywheel hooks configuration",
	Long: `Manage configuration stored in $XDG_CONFIG_HOME/flywheel/config.yaml
(~/.config/flywheel/config.yaml when XDG_CONFIG_HOME is unset).

Hooks are spawned by the host as subprocesses, so the config file is the
easiest way to change their behaviour.

Priority order: environment variables (FLYWHEEL_*) > config file > defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		cmd.Printf("debug:           %v\n", cfg.Debug)
		cmd.Printf("log_file:        %s\n", cfg.LogFile)
		cmd.Printf("auto_install:    %v\n", cfg.AutoInstall)
		cmd.Printf("install_timeout: %s\n", cfg.InstallTimeout)
		cmd.Printf("probe_timeout:   %s\n", cfg.ProbeTimeout)
		cmd.Println()
		cmd.Printf("Config: %s\n", config.ConfigPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: fmt.Sprintf(`Set a configuration value in the config file.

Keys: %v

Examples:
  flywheel-hooks config set debug true
  flywheel-hooks config set install_timeout 2m
  flywheel-hooks config set auto_install false`, config.Keys()),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		value, err := config.ParseValue(key, raw)
		if err != nil {
			return err
		}

		path := config.ConfigPath()
		if path == "" {
			return fmt.Errorf("could not determine config path")
		}
		if err := config.Set(path, key, value); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		cmd.Printf("Configuration saved: %s = %v\n", key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(config.ConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
