package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"
)

func TestInterpQuiet(t *testing.T) {
	ctx := context.Background()
	sh := NewInterp(t.TempDir())

	tests := []struct {
		name     string
		command  string
		wantCode int
	}{
		{name: "success", command: "true", wantCode: 0},
		{name: "output is discarded", command: "echo hello; echo oops >&2", wantCode: 0},
		{name: "explicit exit", command: "exit 3", wantCode: 3},
		{name: "missing command probe", command: "command -v flywheel-definitely-missing-xyz", wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sh.Quiet(ctx, tt.command)
			assert.Equal(t, tt.wantCode, ExitCode(err))
		})
	}
}

func TestInterpQuiet_ParseError(t *testing.T) {
	err := NewInterp("").Quiet(context.Background(), "if then fi (")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse shell command")
	assert.Equal(t, -1, ExitCode(err))
}

func TestInterpQuiet_MissingDir(t *testing.T) {
	err := NewInterp("/nonexistent/flywheel/dir").Quiet(context.Background(), "true")
	require.Error(t, err)
}

func TestInterpQuiet_Env(t *testing.T) {
	sh := &Interp{Env: []string{"FLYWHEEL_PROBE=yes"}}
	require.NoError(t, sh.Quiet(context.Background(), `test "$FLYWHEEL_PROBE" = yes`))
	assert.Equal(t, 1, ExitCode(sh.Quiet(context.Background(), `test "$FLYWHEEL_PROBE" = no`)))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, -1, ExitCode(errors.New("boom")))
	assert.Equal(t, 4, ExitCode(interp.NewExitStatus(4)))
}
