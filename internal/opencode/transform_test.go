package opencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformContent_Commands(t *testing.T) {
	in := "---\n" +
		"name: plan\n" +
		"description: Plan work\n" +
		"argument-hint: [task]\n" +
		"---\n" +
		"Run /fly:execute with #$ARGUMENTS\n" +
		"skill: subtask\n" +
		"See `marketplace/flywheel/skills/subtask/SKILL.md` for details\n" +
		"done\n"

	want := "---\n" +
		"description: Plan work\n" +
		"---\n" +
		"Run /execute with $ARGUMENTS\n" +
		"skill({ name: \"subtask\" })\n" +
		"done\n"

	assert.Equal(t, want, TransformContent(in, KindCommands))
}

func TestTransformContent_Agents(t *testing.T) {
	in := "---\n" +
		"name: reviewer\n" +
		"model: opus\n" +
		"tools:\n" +
		"  - Read\n" +
		"  - Grep\n" +
		"description: Reviews changes\n" +
		"---\n" +
		"Use /fly:plan as-is in agents.\n"

	want := "---\n" +
		"name: reviewer\n" +
		"description: Reviews changes\n" +
		"mode: subagent\n" +
		"---\n" +
		"Use /fly:plan as-is in agents.\n"

	assert.Equal(t, want, TransformContent(in, KindAgents))
}

func TestTransformContent_SkillInlineList(t *testing.T) {
	in := "---\n" +
		"name: subtask\n" +
		"allowed-tools: [Bash, Read]\n" +
		"description: Task workflow\n" +
		"---\n" +
		"body\n"

	want := "---\n" +
		"name: subtask\n" +
		"description: Task workflow\n" +
		"---\n" +
		"body\n"

	assert.Equal(t, want, TransformContent(in, KindSkills))
}

func TestTransformContent_Unchanged(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    Kind
	}{
		{name: "no frontmatter", content: "# Title\nskill: subtask\n", kind: KindCommands},
		{name: "unterminated frontmatter", content: "---\nname: x\n", kind: KindCommands},
		{name: "copy kind", content: "---\nname: x\n---\nbody\n", kind: KindCopy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.content, TransformContent(tt.content, tt.kind))
		})
	}
}

func TestTransformBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "arguments", in: "echo #$ARGUMENTS", want: "echo $ARGUMENTS"},
		{name: "namespaced command", in: "then /fly:review and /fly:ship", want: "then /review and /ship"},
		{name: "skill line", in: "skill:   my-skill  \nnext", want: "skill({ name: \"my-skill\" })\nnext"},
		{name: "skill mid line untouched", in: "use skill: x here", want: "use skill: x here"},
		{name: "skill line keeps following blank line", in: "skill: foo\n\nbar", want: "skill({ name: \"foo\" })\n\nbar"},
		{name: "skill name on next line untouched", in: "skill:\nbaz\n", want: "skill:\nbaz\n"},
		{name: "see line removed", in: "a\nSee `marketplace/flywheel/skills/foo`\nb", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformBody(tt.in))
		})
	}
}
