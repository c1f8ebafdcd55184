package grading

import (
	"regexp"
	"strings"
)

var (
	fencedObject = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*\\})\\s*```")
	bracedObject = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSON narrows raw model output down to the JSON object it most likely
// contains. A fenced code block wins over a bare brace span; when neither is
// present the input is returned unchanged so the parse step reports it.
func ExtractJSON(raw string) string {
	content := stripThinkBlock(raw)

	if m := fencedObject.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := bracedObject.FindString(content); m != "" {
		return m
	}
	return raw
}

// stripThinkBlock drops a <think>...</think> section emitted by reasoning models.
func stripThinkBlock(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return s[:start] + s[end+len("</think>"):]
}
