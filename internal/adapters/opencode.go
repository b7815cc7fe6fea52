package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
)

// OpenCodeToolHook is the native name of the post tool execution hook
const OpenCodeToolHook = "tool.execute.after"

// OpenCodeAdapter speaks the plugin's native contract:
//
//	{"event": "session.compacted"}                      -> event handler
//	{"tool": "bash", "args": {"command": "subtask x"}}  -> tool.execute.after
//
// and answers {"additionalContext": "..."} or nothing at all.
type OpenCodeAdapter struct {
	BaseAdapter
}

// NewOpenCodeAdapter creates a new OpenCode adapter
func NewOpenCodeAdapter() *OpenCodeAdapter {
	return &OpenCodeAdapter{BaseAdapter: BaseAdapter{host: schema.HostOpenCode}}
}

type openCodeResponse struct {
	AdditionalContext string `json:"additionalContext"`
}

// Translate converts an OpenCode payload
func (a *OpenCodeAdapter) Translate(nativeEvent map[string]interface{}) (*schema.Invocation, error) {
	if raw, ok := nativeEvent["event"]; ok {
		inv := a.newInvocation(nativeEvent, "event")
		inv.Event = &schema.Event{ID: eventID(raw)}
		return inv, nil
	}

	if _, ok := nativeEvent["tool"]; ok {
		inv := a.newInvocation(nativeEvent, OpenCodeToolHook)
		inv.Tool = &schema.ToolExecutionRecord{
			Tool: GetString(nativeEvent, "tool"),
			Args: GetMap(nativeEvent, "args"),
		}
		return inv, nil
	}

	return nil, fmt.Errorf("%w: payload has neither event nor tool", ErrUnsupportedEvent)
}

// eventID accepts both the bare identifier and an event object carrying a type.
// Anything else becomes an empty identifier, which matches no handler.
func eventID(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]interface{}:
		return GetString(v, "type")
	default:
		return ""
	}
}

// Render returns {"additionalContext": ...} or nil when there is no result
func (a *OpenCodeAdapter) Render(_ *schema.Invocation, result *schema.HookResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(openCodeResponse{AdditionalContext: result.AdditionalContext})
}

// OpenCodeKeys are the top-level keys that identify an OpenCode payload
var OpenCodeKeys = []string{"event", "tool"}
