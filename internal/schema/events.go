package schema

// Event identifies which lifecycle event fired
type Event struct {
	ID string `json:"event"`
}

// ToolExecutionRecord describes a completed tool invocation.
// Args is passed through from the host untouched; values may be of any shape.
type ToolExecutionRecord struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// Command returns args.command when it is present and a string
func (r ToolExecutionRecord) Command() (string, bool) {
	if r.Args == nil {
		return "", false
	}
	cmd, ok := r.Args["command"].(string)
	return cmd, ok
}

// HookResult is returned to the host. A nil result means no injected context.
type HookResult struct {
	AdditionalContext string `json:"additionalContext"`
}

// Invocation is a translated host payload. Exactly one of Event and Tool is set.
type Invocation struct {
	Host Host

	// NativeEvent is the host's own name for the hook (e.g. "PostToolUse")
	NativeEvent string

	// Directory is the working directory reported by the host, if any
	Directory string

	Event *Event
	Tool  *ToolExecutionRecord
}
