package adapters

import (
	"errors"
	"os"

	"github.com/flywheel-dev/flywheel-hooks/internal/schema"
)

var (
	// ErrUnknownHost is returned when a payload matches no supported host
	ErrUnknownHost = errors.New("unknown host")

	// ErrUnsupportedEvent is returned for host events the plugin does not handle
	ErrUnsupportedEvent = errors.New("unsupported event")
)

// Adapter translates between a host's native hook payloads and the plugin's types
type Adapter interface {
	// Host returns the host this adapter handles
	Host() schema.Host

	// Translate converts a native payload into an invocation.
	// Returns ErrUnsupportedEvent for payloads the plugin ignores.
	Translate(nativeEvent map[string]interface{}) (*schema.Invocation, error)

	// Render builds the response document for the host. A nil slice means
	// nothing should be written.
	Render(inv *schema.Invocation, result *schema.HookResult) ([]byte, error)
}

// BaseAdapter provides common functionality for all adapters
type BaseAdapter struct {
	host schema.Host
}

// Host returns the host this adapter handles
func (b *BaseAdapter) Host() schema.Host {
	return b.host
}

// newInvocation creates an invocation with the common fields populated
func (b *BaseAdapter) newInvocation(nativeEvent map[string]interface{}, nativeEventName string) *schema.Invocation {
	return &schema.Invocation{
		Host:        b.host,
		NativeEvent: nativeEventName,
		Directory:   b.extractWorkingDir(nativeEvent),
	}
}

// extractWorkingDir extracts the working directory from the event,
// falling back to the process working directory
func (b *BaseAdapter) extractWorkingDir(nativeEvent map[string]interface{}) string {
	for _, key := range []string{"cwd", "directory", "workspace_dir"} {
		if dir := GetString(nativeEvent, key); dir != "" {
			return dir
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return ""
}

// GetString safely extracts a string from a map
func GetString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// GetMap safely extracts a nested map from a map
func GetMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
