package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flywheel-dev/flywheel-hooks/internal/opencode"
)

var (
	genSource string
	genOutput string
	genDryRun bool
)

var generateOpenCodeCmd = &cobra.Command{
	Use:   "generate-opencode",
	Short: "Generate OpenCode commands, agents and skills from the flywheel marketplace",
	Long: `Transform a flywheel marketplace tree into OpenCode's config layout.

The agents, commands and skills directories under the output are replaced;
anything else there is left alone.`,
	Args: cobra.NoArgs,
	RunE: runGenerateOpenCode,
}

func init() {
	generateOpenCodeCmd.Flags().StringVar(&genSource, "source", filepath.Join("local-marketplace", "flywheel"), "Marketplace source directory")
	generateOpenCodeCmd.Flags().StringVar(&genOutput, "output", "", "Output directory (default ~/.config/opencode)")
	generateOpenCodeCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Show planned actions without writing")
}

func runGenerateOpenCode(cmd *cobra.Command, args []string) error {
	_, logger := loadRuntime()
	defer logger.Sync() //nolint:errcheck

	output := genOutput
	if output == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		output = filepath.Join(homeDir, ".config", "opencode")
	}

	counts, err := opencode.Generate(opencode.Options{
		Source: genSource,
		Output: output,
		DryRun: genDryRun,
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if genDryRun {
		cmd.Printf("Dry run: %s\n", counts)
		return nil
	}
	cmd.Printf("Generated into %s: %s\n", output, counts)
	return nil
}
