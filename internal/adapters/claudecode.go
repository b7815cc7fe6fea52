package adapters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
)

// Claude Code hook event names
const (
	ClaudeSessionStart = "SessionStart"
	ClaudePostToolUse  = "PostToolUse"

	// claudeCompactSource is the SessionStart source after an auto or manual compaction
	claudeCompactSource = "compact"
)

// ClaudeCodeAdapter translates Claude Code hook events
type ClaudeCodeAdapter struct {
	BaseAdapter
}

// NewClaudeCodeAdapter creates a new Claude Code adapter
func NewClaudeCodeAdapter() *ClaudeCodeAdapter {
	return &ClaudeCodeAdapter{BaseAdapter: BaseAdapter{host: schema.HostClaudeCode}}
}

type claudeResponse struct {
	Continue           *bool                     `json:"continue,omitempty"`
	HookSpecificOutput *claudeHookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

type claudeHookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Translate converts a Claude Code native event
func (a *ClaudeCodeAdapter) Translate(nativeEvent map[string]interface{}) (*schema.Invocation, error) {
	eventName := GetString(nativeEvent, "hook_event_name")

	switch eventName {
	case ClaudeSessionStart:
		inv := a.newInvocation(nativeEvent, eventName)
		id := schema.EventSessionStarted
		if GetString(nativeEvent, "source") == claudeCompactSource {
			id = schema.EventSessionCompacted
		}
		inv.Event = &schema.Event{ID: id}
		return inv, nil

	case ClaudePostToolUse:
		inv := a.newInvocation(nativeEvent, eventName)
		inv.Tool = &schema.ToolExecutionRecord{
			// Claude Code names its shell tool "Bash"
			Tool: strings.ToLower(GetString(nativeEvent, "tool_name")),
			Args: GetMap(nativeEvent, "tool_input"),
		}
		return inv, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, eventName)
	}
}

// Render wraps the result in hookSpecificOutput, or tells Claude Code to continue
func (a *ClaudeCodeAdapter) Render(inv *schema.Invocation, result *schema.HookResult) ([]byte, error) {
	if result == nil {
		return ContinueResponse(), nil
	}

	eventName := ""
	if inv != nil {
		eventName = inv.NativeEvent
	}
	return json.Marshal(claudeResponse{
		HookSpecificOutput: &claudeHookSpecificOutput{
			HookEventName:     eventName,
			AdditionalContext: result.AdditionalContext,
		},
	})
}

// ContinueResponse is the no-op answer Claude Code expects on stdout
func ContinueResponse() []byte {
	cont := true
	data, _ := json.Marshal(claudeResponse{Continue: &cont})
	return data
}
