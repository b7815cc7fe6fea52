package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolExecutionRecord_Command(t *testing.T) {
	tests := []struct {
		name   string
		record ToolExecutionRecord
		want   string
		ok     bool
	}{
		{name: "string command", record: ToolExecutionRecord{Tool: ToolBash, Args: map[string]interface{}{"command": "subtask list"}}, want: "subtask list", ok: true},
		{name: "nil args", record: ToolExecutionRecord{Tool: ToolBash}},
		{name: "missing command", record: ToolExecutionRecord{Tool: ToolBash, Args: map[string]interface{}{"cwd": "/tmp"}}},
		{name: "numeric command", record: ToolExecutionRecord{Tool: ToolBash, Args: map[string]interface{}{"command": 42.0}}},
		{name: "list command", record: ToolExecutionRecord{Tool: ToolBash, Args: map[string]interface{}{"command": []interface{}{"subtask", "list"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.Command()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
