package plugin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/flywheel-dev/flywheel-hooks/internal/shell"
)

// EnsureOptions controls the companion CLI check
type EnsureOptions struct {
	AutoInstall    bool
	ProbeTimeout   time.Duration
	InstallTimeout time.Duration
	Logger         *zap.Logger
}

// EnsureReport records the outcome of Ensure. Errors are kept for display
// only; nothing acts on them.
type EnsureReport struct {
	Present          bool
	InstallAttempted bool
	Installed        bool
	ProbeErr         error
	InstallErr       error
}

// Ensure probes for the subtask CLI and, when it is missing, pipes the
// remote installer into bash. Every failure is swallowed: subtask is an
// optional workflow aid and its absence must never block the host.
func Ensure(ctx context.Context, sh shell.Runner, opts EnsureOptions) EnsureReport {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var report EnsureReport

	report.ProbeErr = runBounded(ctx, sh, ProbeCommand, opts.ProbeTimeout)
	if report.ProbeErr == nil {
		report.Present = true
		logger.Debug("companion CLI found", zap.String("cli", CompanionCLI))
		return report
	}
	logger.Debug("companion CLI not found",
		zap.String("cli", CompanionCLI),
		zap.Int("exit_code", shell.ExitCode(report.ProbeErr)),
		zap.Error(report.ProbeErr),
	)

	if !opts.AutoInstall {
		logger.Debug("auto install disabled, skipping")
		return report
	}

	report.InstallAttempted = true
	report.InstallErr = runBounded(ctx, sh, InstallCommand, opts.InstallTimeout)
	if report.InstallErr != nil {
		// Silent failure: the companion CLI is optional
		logger.Debug("companion CLI install failed",
			zap.Int("exit_code", shell.ExitCode(report.InstallErr)),
			zap.Error(report.InstallErr),
		)
		return report
	}

	report.Installed = true
	logger.Debug("companion CLI installed", zap.String("cli", CompanionCLI))
	return report
}

// runBounded runs command under an optional timeout, converting a panic in
// the runner into an error so construction always completes.
func runBounded(ctx context.Context, sh shell.Runner, command string, timeout time.Duration) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shell runner panicked: %v", r)
		}
	}()

	return sh.Quiet(ctx, command)
}
