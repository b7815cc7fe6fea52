package adapters

import (
	"fmt"
	"os"

	"github.com/flywheel-dev/flywheel-hooks/internal/config"
	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
)

// Registry holds all available adapters
var registry = map[schema.Host]func() Adapter{
	schema.HostOpenCode:   func() Adapter { return NewOpenCodeAdapter() },
	schema.HostClaudeCode: func() Adapter { return NewClaudeCodeAdapter() },
}

// GetAdapter returns an adapter for the specified host
func GetAdapter(host schema.Host) (Adapter, error) {
	if factory, ok := registry[host]; ok {
		return factory(), nil
	}
	return nil, fmt.Errorf("%w: %q. Supported: %v", ErrUnknownHost, host, SupportedHosts())
}

// DetectHost auto-detects which host produced the payload
func DetectHost(nativeEvent map[string]interface{}) schema.Host {
	// First check environment variable override
	if hostEnv := os.Getenv(config.EnvHost); hostEnv != "" {
		if host := NormalizeHost(hostEnv); host != "" {
			return host
		}
	}

	// Claude Code: has hook_event_name field
	if _, ok := nativeEvent["hook_event_name"]; ok {
		return schema.HostClaudeCode
	}

	for _, key := range OpenCodeKeys {
		if _, ok := nativeEvent[key]; ok {
			return schema.HostOpenCode
		}
	}

	return ""
}

// SupportedHosts returns a list of all supported host names
func SupportedHosts() []string {
	return []string{string(schema.HostOpenCode), string(schema.HostClaudeCode)}
}

// IsValidHost checks if the given host name is supported
func IsValidHost(hostName string) bool {
	return NormalizeHost(hostName) != ""
}

// NormalizeHost converts host aliases to canonical names
func NormalizeHost(hostName string) schema.Host {
	switch hostName {
	case "claude-code", "claude":
		return schema.HostClaudeCode
	case "opencode":
		return schema.HostOpenCode
	default:
		return ""
	}
}
