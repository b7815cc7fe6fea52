package schema

// Host represents an agent runner whose hook payloads we understand
type Host string

const (
	HostOpenCode   Host = "opencode"
	HostClaudeCode Host = "claude-code"
)

// Event identifiers understood by the plugin
const (
	EventSessionCompacted = "session.compacted"
	EventSessionStarted   = "session.started"
)

// ToolBash is the canonical name of the shell tool
const ToolBash = "bash"
