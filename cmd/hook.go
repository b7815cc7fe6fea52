package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/flywheel-dev/flywheel-hooks/internal/adapters"
	"github.com/flywheel-dev/flywheel-hooks/internal/config"
	"github.com/flywheel-dev/flywheel-hooks/internal/plugin"
	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
	"github.com/flywheel-dev/flywheel-hooks/internal/shell"
)

var (
	hookDialect string
)

var hookCmd = &cobra.Command{
	Use:    "hook",
	Short:  "Process hook events from AI hosts",
	Long:   `Internal command called by host hooks. Reads one JSON event from stdin and writes the host's response to stdout.`,
	Hidden: true,
	RunE:   runHook,
}

func init() {
	hookCmd.Flags().StringVar(&hookDialect, "dialect", "", fmt.Sprintf("Force the host dialect %v instead of detecting it", adapters.SupportedHosts()))
}

func runHook(cmd *cobra.Command, args []string) error {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("hook expects a JSON event on stdin; it is meant to be run by a host, not interactively")
	}

	var dialect schema.Host
	if hookDialect != "" {
		dialect = adapters.NormalizeHost(hookDialect)
		if dialect == "" {
			return fmt.Errorf("%w: %s. Supported: %v", adapters.ErrUnknownHost, hookDialect, adapters.SupportedHosts())
		}
	}

	cfg, logger := loadRuntime()
	defer logger.Sync() //nolint:errcheck

	h := &hookHandler{
		cfg:     cfg,
		logger:  logger,
		dialect: dialect,
		newShell: func(dir string) shell.Runner {
			return shell.NewInterp(dir)
		},
	}
	return h.run(cmdContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
}

// hookHandler processes a single hook invocation
type hookHandler struct {
	cfg      *config.Config
	logger   *zap.Logger
	dialect  schema.Host
	newShell func(dir string) shell.Runner

	// skipEnsure leaves out the subtask probe, for dry runs
	skipEnsure bool
}

// run reads one event from in and writes the response to out. Malformed
// input is logged and answered with the host's no-op response; it is never
// an error, so a broken payload cannot block the host.
func (h *hookHandler) run(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := h.logger.With(zap.String("invocation_id", uuid.NewString()))

	rawInput, err := io.ReadAll(in)
	if err != nil {
		logger.Debug("failed to read stdin", zap.Error(err))
		return h.writeNoResult(out, h.dialect)
	}
	if len(rawInput) == 0 {
		logger.Debug("empty input, skipping")
		return h.writeNoResult(out, h.dialect)
	}

	var nativeEvent map[string]interface{}
	if err := json.Unmarshal(rawInput, &nativeEvent); err != nil {
		logger.Debug("failed to parse JSON", zap.Error(err), zap.Int("bytes", len(rawInput)))
		return h.writeNoResult(out, h.dialect)
	}

	host := h.dialect
	if host == "" {
		host = adapters.DetectHost(nativeEvent)
	}
	logger = logger.With(zap.String("host", string(host)))

	adapter, err := adapters.GetAdapter(host)
	if err != nil {
		logger.Debug("no adapter for payload", zap.Error(err))
		return nil
	}

	inv, err := adapter.Translate(nativeEvent)
	if err != nil {
		logger.Debug("ignoring event", zap.Error(err))
		return h.write(out, adapter, nil, nil)
	}
	logger = logger.With(zap.String("native_event", inv.NativeEvent), zap.String("directory", inv.Directory))

	opts := []plugin.Option{
		plugin.WithLogger(logger),
		plugin.WithAutoInstall(h.cfg.AutoInstall),
		plugin.WithTimeouts(h.cfg.ProbeTimeout, h.cfg.InstallTimeout),
	}
	// Only session events check for subtask, so tool calls never wait on the installer
	if h.skipEnsure || inv.Event == nil {
		opts = append(opts, plugin.WithoutEnsure())
	}

	p := plugin.New(ctx, plugin.InvocationContext{
		Shell:     h.newShell(inv.Directory),
		Directory: inv.Directory,
	}, opts...)

	result := p.Dispatch(*inv)
	logger.Debug("dispatched", zap.Bool("context_injected", result != nil))

	return h.write(out, adapter, inv, result)
}

func (h *hookHandler) write(out io.Writer, adapter adapters.Adapter, inv *schema.Invocation, result *schema.HookResult) error {
	data, err := adapter.Render(inv, result)
	if err != nil {
		return fmt.Errorf("failed to render response: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// writeNoResult answers a payload that could not be read. Without a forced
// dialect the host is unknown and nothing is written.
func (h *hookHandler) writeNoResult(out io.Writer, host schema.Host) error {
	if host == "" {
		return nil
	}
	adapter, err := adapters.GetAdapter(host)
	if err != nil {
		return nil
	}
	return h.write(out, adapter, nil, nil)
}
