// Package plugin implements the flywheel hook handlers.
//
// A Plugin is built once per host invocation. Construction makes sure the
// optional subtask CLI is available (best effort), and the two handlers turn
// host events into reminder text for the agent's context.
package plugin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
	"github.com/flywheel-dev/flywheel-hooks/internal/shell"
)

const (
	// CompanionCLI is the optional workflow tool this plugin supports
	CompanionCLI = "subtask"

	// MarkerName is created by subtask in projects that use it
	MarkerName = ".subtask"

	ProbeCommand   = "command -v subtask"
	InstallCommand = "curl -fsSL https://subtask.dev/install.sh | bash"

	CompactionReminder = `Context was compacted. If using subtask, load the skill first: skill({ name: "subtask" }).`
	SkillReminder      = "If not already loaded, consider loading the subtask skill for workflow guidance."

	commandPrefix = CompanionCLI + " "
)

// InvocationContext is what the host hands the plugin at load time
type InvocationContext struct {
	Shell     shell.Runner
	Directory string
}

// Plugin holds the handlers exposed to the host
type Plugin struct {
	directory string
	logger    *zap.Logger
	report    EnsureReport
}

type options struct {
	logger         *zap.Logger
	autoInstall    bool
	skipEnsure     bool
	probeTimeout   time.Duration
	installTimeout time.Duration
}

// Option configures New
type Option func(*options)

// WithLogger sets the logger used for ensure diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAutoInstall toggles the remote install fallback. The probe always runs.
func WithAutoInstall(enabled bool) Option {
	return func(o *options) { o.autoInstall = enabled }
}

// WithTimeouts bounds the probe and install steps; zero keeps the default
func WithTimeouts(probe, install time.Duration) Option {
	return func(o *options) {
		if probe > 0 {
			o.probeTimeout = probe
		}
		if install > 0 {
			o.installTimeout = install
		}
	}
}

// WithoutEnsure skips the companion CLI check entirely
func WithoutEnsure() Option {
	return func(o *options) { o.skipEnsure = true }
}

// New builds the plugin. It never fails: the companion CLI check is best
// effort and its outcome is only recorded in Report.
func New(ctx context.Context, ic InvocationContext, opts ...Option) *Plugin {
	o := options{
		logger:         zap.NewNop(),
		autoInstall:    true,
		probeTimeout:   5 * time.Second,
		installTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Plugin{
		directory: ic.Directory,
		logger:    o.logger,
	}

	if !o.skipEnsure && ic.Shell != nil {
		p.report = Ensure(ctx, ic.Shell, EnsureOptions{
			AutoInstall:    o.autoInstall,
			ProbeTimeout:   o.probeTimeout,
			InstallTimeout: o.installTimeout,
			Logger:         o.logger,
		})
	}

	return p
}

// Report describes what the construction-time ensure step did
func (p *Plugin) Report() EnsureReport {
	return p.report
}

// Directory is the working directory captured at construction
func (p *Plugin) Directory() string {
	return p.directory
}

// MarkerPath returns the path whose existence gates the compaction reminder
func (p *Plugin) MarkerPath() string {
	return filepath.Join(p.directory, MarkerName)
}

// Handle is the lifecycle event handler. Only session.compacted in a
// directory containing the subtask marker produces context.
func (p *Plugin) Handle(event schema.Event) *schema.HookResult {
	if event.ID != schema.EventSessionCompacted {
		return nil
	}
	if !pathExists(p.MarkerPath()) {
		p.logger.Debug("compaction without subtask marker", zap.String("marker", p.MarkerPath()))
		return nil
	}
	return &schema.HookResult{AdditionalContext: CompactionReminder}
}

// AfterToolExecution is the tool.execute.after handler. A bash invocation
// of "subtask <args>" produces the skill reminder; anything else is ignored.
func (p *Plugin) AfterToolExecution(record schema.ToolExecutionRecord) *schema.HookResult {
	if record.Tool != schema.ToolBash {
		return nil
	}
	command, ok := record.Command()
	if !ok || !strings.HasPrefix(command, commandPrefix) {
		return nil
	}
	return &schema.HookResult{AdditionalContext: SkillReminder}
}

// Dispatch routes a translated invocation to the matching handler
func (p *Plugin) Dispatch(inv schema.Invocation) *schema.HookResult {
	switch {
	case inv.Event != nil:
		return p.Handle(*inv.Event)
	case inv.Tool != nil:
		return p.AfterToolExecution(*inv.Tool)
	default:
		return nil
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
