package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/flywheel-dev/flywheel-hooks/internal/adapters"
)

// hookMarker identifies our entries in a host settings file
const hookMarker = "flywheel-hooks"

// claudeSettingsPath returns ~/.claude/settings.json
func claudeSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude", "settings.json"), nil
}

// readSettings loads a JSON settings file. A missing file yields an empty map.
func readSettings(path string) (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse existing settings: %w", err)
	}
	if settings == nil {
		settings = make(map[string]interface{})
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// buildClaudeCodeHooks returns one matcher group per handled event
func buildClaudeCodeHooks(hookCmd string) map[string]interface{} {
	makeGroup := func(matcher string) map[string]interface{} {
		return map[string]interface{}{
			"matcher": matcher,
			"hooks": []interface{}{
				map[string]interface{}{
					"type":    "command",
					"command": hookCmd,
					"timeout": 90,
				},
			},
		}
	}

	return map[string]interface{}{
		adapters.ClaudeSessionStart: makeGroup("compact"),
		adapters.ClaudePostToolUse:  makeGroup("Bash"),
	}
}

// mergeClaudeHooks adds our groups to settings, replacing any previous
// flywheel-hooks group and keeping everything else.
func mergeClaudeHooks(settings map[string]interface{}, hookCmd string) {
	hooks, ok := settings["hooks"].(map[string]interface{})
	if !ok {
		hooks = make(map[string]interface{})
		settings["hooks"] = hooks
	}

	for event, group := range buildClaudeCodeHooks(hookCmd) {
		existing, _ := hooks[event].([]interface{})
		hooks[event] = append(withoutOurGroups(existing), group)
	}
}

// removeClaudeHooks strips our groups from settings and returns how many
// were removed. Emptied event lists and an empty hooks object are dropped.
func removeClaudeHooks(settings map[string]interface{}) int {
	hooks, ok := settings["hooks"].(map[string]interface{})
	if !ok {
		return 0
	}

	removed := 0
	for event, raw := range hooks {
		groups, ok := raw.([]interface{})
		if !ok {
			continue
		}
		kept := withoutOurGroups(groups)
		removed += len(groups) - len(kept)
		if len(kept) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = kept
		}
	}

	if len(hooks) == 0 {
		delete(settings, "hooks")
	}
	return removed
}

// countInstalledEvents reports how many events have a flywheel-hooks group
func countInstalledEvents(settings map[string]interface{}) int {
	hooks, ok := settings["hooks"].(map[string]interface{})
	if !ok {
		return 0
	}
	return lo.CountBy(lo.Values(hooks), containsHookMarker)
}

func withoutOurGroups(groups []interface{}) []interface{} {
	return lo.Reject(groups, func(group interface{}, _ int) bool {
		return containsHookMarker(group)
	})
}

// containsHookMarker checks if a value contains the flywheel-hooks string
func containsHookMarker(v interface{}) bool {
	switch val := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(val), hookMarker)
	case map[string]interface{}:
		for _, v := range val {
			if containsHookMarker(v) {
				return true
			}
		}
	case []interface{}:
		for _, item := range val {
			if containsHookMarker(item) {
				return true
			}
		}
	}
	return false
}
