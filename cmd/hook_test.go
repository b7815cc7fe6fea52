package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"mvdan.cc/sh/v3/interp"

	"github.com/flywheel-dev/flywheel-hooks/internal/config"
	"github.com/flywheel-dev/flywheel-hooks/internal/plugin"
	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
	"github.com/flywheel-dev/flywheel-hooks/internal/shell"
)

// recordingShell remembers every command and fails the probe when missing is set
type recordingShell struct {
	commands []string
	missing  bool
}

func (r *recordingShell) Quiet(_ context.Context, command string) error {
	r.commands = append(r.commands, command)
	if r.missing && command == plugin.ProbeCommand {
		return interp.NewExitStatus(1)
	}
	return nil
}

func newTestHandler(dialect schema.Host, sh *recordingShell) *hookHandler {
	return &hookHandler{
		cfg:      config.Default(),
		logger:   zap.NewNop(),
		dialect:  dialect,
		newShell: func(string) shell.Runner { return sh },
	}
}

func markedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, plugin.MarkerName), 0755))
	return dir
}

func payload(t *testing.T, v map[string]interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func runHandler(t *testing.T, h *hookHandler, in *bytes.Reader) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, h.run(context.Background(), in, &out))
	return out.String()
}

func TestHook_OpenCodeCompaction(t *testing.T) {
	t.Setenv(config.EnvHost, "")
	sh := &recordingShell{}

	out := runHandler(t, newTestHandler("", sh), payload(t, map[string]interface{}{
		"event":     schema.EventSessionCompacted,
		"directory": markedDir(t),
	}))

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, plugin.CompactionReminder, resp["additionalContext"])
	assert.Equal(t, []string{plugin.ProbeCommand}, sh.commands)
}

func TestHook_OpenCodeNoMarker(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	out := runHandler(t, newTestHandler("", &recordingShell{}), payload(t, map[string]interface{}{
		"event":     schema.EventSessionCompacted,
		"directory": t.TempDir(),
	}))
	assert.Empty(t, out)
}

func TestHook_OpenCodeSubtaskCommand(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	out := runHandler(t, newTestHandler("", &recordingShell{}), payload(t, map[string]interface{}{
		"tool": "bash",
		"args": map[string]interface{}{"command": "subtask list"},
	}))

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, plugin.SkillReminder, resp["additionalContext"])
}

func TestHook_ClaudeCode(t *testing.T) {
	t.Setenv(config.EnvHost, "")
	dir := markedDir(t)

	tests := []struct {
		name      string
		payload   map[string]interface{}
		wantEvent string
		want      string
	}{
		{
			name: "compaction",
			payload: map[string]interface{}{
				"hook_event_name": "SessionStart", "source": "compact", "cwd": dir,
			},
			wantEvent: "SessionStart",
			want:      plugin.CompactionReminder,
		},
		{
			name: "subtask bash",
			payload: map[string]interface{}{
				"hook_event_name": "PostToolUse", "tool_name": "Bash", "cwd": dir,
				"tool_input": map[string]interface{}{"command": "subtask new feature"},
			},
			wantEvent: "PostToolUse",
			want:      plugin.SkillReminder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runHandler(t, newTestHandler("", &recordingShell{}), payload(t, tt.payload))

			var resp struct {
				HookSpecificOutput struct {
					HookEventName     string `json:"hookEventName"`
					AdditionalContext string `json:"additionalContext"`
				} `json:"hookSpecificOutput"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, tt.wantEvent, resp.HookSpecificOutput.HookEventName)
			assert.Equal(t, tt.want, resp.HookSpecificOutput.AdditionalContext)
		})
	}
}

func TestHook_ClaudeCodeNoResult(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "startup", payload: map[string]interface{}{"hook_event_name": "SessionStart", "source": "startup", "cwd": markedDir(t)}},
		{name: "other command", payload: map[string]interface{}{"hook_event_name": "PostToolUse", "tool_name": "Bash", "tool_input": map[string]interface{}{"command": "ls"}}},
		{name: "unhandled event", payload: map[string]interface{}{"hook_event_name": "UserPromptSubmit", "prompt": "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runHandler(t, newTestHandler("", &recordingShell{}), payload(t, tt.payload))
			assert.Equal(t, "{\"continue\":true}\n", out)
		})
	}
}

func TestHook_MalformedInput(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	tests := []struct {
		name    string
		dialect schema.Host
		input   string
		want    string
	}{
		{name: "empty", input: "", want: ""},
		{name: "invalid json", input: "{not json", want: ""},
		{name: "unknown payload", input: `{"foo":1}`, want: ""},
		{name: "invalid json claude", dialect: schema.HostClaudeCode, input: "{not json", want: "{\"continue\":true}\n"},
		{name: "empty claude", dialect: schema.HostClaudeCode, input: "", want: "{\"continue\":true}\n"},
		{name: "invalid json opencode", dialect: schema.HostOpenCode, input: "[]", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := &recordingShell{}
			out := runHandler(t, newTestHandler(tt.dialect, sh), bytes.NewReader([]byte(tt.input)))
			assert.Equal(t, tt.want, out)
			assert.Empty(t, sh.commands, "ensure must not run for unreadable payloads")
		})
	}
}

func TestHook_InstallsMissingCompanion(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	sh := &recordingShell{missing: true}
	runHandler(t, newTestHandler("", sh), payload(t, map[string]interface{}{"event": "session.idle"}))
	assert.Equal(t, []string{plugin.ProbeCommand, plugin.InstallCommand}, sh.commands)

	sh = &recordingShell{missing: true}
	h := newTestHandler("", sh)
	h.cfg.AutoInstall = false
	runHandler(t, h, payload(t, map[string]interface{}{"event": "session.idle"}))
	assert.Equal(t, []string{plugin.ProbeCommand}, sh.commands)
}

func TestHook_ToolCallSkipsEnsure(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "opencode", payload: map[string]interface{}{
			"tool": "bash", "args": map[string]interface{}{"command": "subtask list"},
		}},
		{name: "claude-code", payload: map[string]interface{}{
			"hook_event_name": "PostToolUse", "tool_name": "Bash",
			"tool_input": map[string]interface{}{"command": "subtask list"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := &recordingShell{missing: true}
			out := runHandler(t, newTestHandler("", sh), payload(t, tt.payload))
			assert.Contains(t, out, "consider loading the subtask skill")
			assert.Empty(t, sh.commands)
		})
	}
}

func TestHook_SkipEnsure(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	sh := &recordingShell{}
	h := newTestHandler("", sh)
	h.skipEnsure = true
	runHandler(t, h, payload(t, map[string]interface{}{"event": "session.idle"}))
	assert.Empty(t, sh.commands)
}

func TestHook_LogsInvocation(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	core, logs := observer.New(zapcore.DebugLevel)
	h := newTestHandler("", &recordingShell{})
	h.logger = zap.New(core)

	runHandler(t, h, payload(t, map[string]interface{}{"tool": "bash", "args": map[string]interface{}{"command": "subtask x"}}))

	entries := logs.FilterMessage("dispatched").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["invocation_id"])
	assert.Equal(t, "opencode", fields["host"])
	assert.Equal(t, true, fields["context_injected"])
}

func TestTestCommand(t *testing.T) {
	t.Setenv(config.EnvHost, "")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"test", "opencode"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "opencode:\n"))
	assert.Contains(t, out, "additionalContext")
	assert.Contains(t, out, "(no output)")
}
