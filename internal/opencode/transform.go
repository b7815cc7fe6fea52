// Package opencode converts the flywheel marketplace layout (commands,
// agents, skills as markdown with YAML frontmatter) into the layout OpenCode
// reads from ~/.config/opencode.
package opencode

import (
	"regexp"
	"strings"
)

// Kind says how a source file is handled
type Kind string

const (
	KindCommands Kind = "commands"
	KindAgents   Kind = "agents"
	KindSkills   Kind = "skills"
	KindCopy     Kind = "copy"
)

// FrontmatterKey is a key/value pair appended to the frontmatter
type FrontmatterKey struct {
	Key   string
	Value string
}

// TransformConfig describes how one kind of file is rewritten
type TransformConfig struct {
	Remove              []string
	Add                 []FrontmatterKey
	ApplyBodyTransforms bool
}

// Transforms maps each markdown kind to its rewrite rules
var Transforms = map[Kind]TransformConfig{
	KindCommands: {
		Remove:              []string{"name", "argument-hint"},
		ApplyBodyTransforms: true,
	},
	KindAgents: {
		Remove: []string{"model", "tools"},
		Add:    []FrontmatterKey{{Key: "mode", Value: "subagent"}},
	},
	KindSkills: {
		Remove: []string{"allowed-tools"},
	},
}

type bodyRewrite struct {
	pattern     *regexp.Regexp
	replacement string
	literal     bool
}

var bodyRewrites = []bodyRewrite{
	{pattern: regexp.MustCompile(`#\$ARGUMENTS`), replacement: "$ARGUMENTS", literal: true},
	{pattern: regexp.MustCompile(`/fly:(\w+)`), replacement: "/${1}"},
	{pattern: regexp.MustCompile(`(?m)^skill:[ \t]*([\w-]+)[ \t]*$`), replacement: `skill({ name: "${1}" })`},
	{pattern: regexp.MustCompile("(?m)^See `marketplace/flywheel/skills/.*$\n?"), replacement: ""},
}

const frontmatterDelim = "---\n"

// TransformFrontmatter removes the configured keys, including the indented
// block under a key unless its value is an inline list, then appends new keys.
func TransformFrontmatter(lines []string, cfg TransformConfig) []string {
	result := make([]string, 0, len(lines)+len(cfg.Add))
	inBlock := false

	for _, line := range lines {
		if hasAnyKey(line, cfg.Remove) {
			inBlock = !strings.HasSuffix(strings.TrimRight(line, " \t\r\n"), "]")
			continue
		}

		if inBlock {
			if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t") {
				continue
			}
			inBlock = false
		}

		result = append(result, line)
	}

	for _, kv := range cfg.Add {
		result = append(result, kv.Key+": "+kv.Value+"\n")
	}
	return result
}

func hasAnyKey(line string, keys []string) bool {
	for _, key := range keys {
		if strings.HasPrefix(line, key+":") {
			return true
		}
	}
	return false
}

// TransformBody applies the command body rewrites
func TransformBody(content string) string {
	for _, rw := range bodyRewrites {
		if rw.literal {
			content = rw.pattern.ReplaceAllLiteralString(content, rw.replacement)
		} else {
			content = rw.pattern.ReplaceAllString(content, rw.replacement)
		}
	}
	return content
}

// TransformContent rewrites a markdown document of the given kind. Documents
// without a frontmatter block are returned unchanged.
func TransformContent(content string, kind Kind) string {
	cfg, ok := Transforms[kind]
	if !ok || !strings.HasPrefix(content, frontmatterDelim) {
		return content
	}

	parts := strings.SplitN(content, frontmatterDelim, 3)
	if len(parts) < 3 {
		return content
	}

	fmLines := TransformFrontmatter(splitLinesKeepEnds(parts[1]), cfg)
	body := parts[2]
	if cfg.ApplyBodyTransforms {
		body = TransformBody(body)
	}

	return frontmatterDelim + strings.Join(fmLines, "") + frontmatterDelim + body
}

func splitLinesKeepEnds(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
