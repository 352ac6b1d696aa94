// Package schema turns raw provider output into typed, validated task
// results. Extraction is structured-first: direct JSON, then a fenced
// ```json block, then the first balanced JSON value. A free-text fallback
// exists only for tasks whose output is prose; enumerated and numeric tasks
// are never salvaged from free text.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrNoStructure is wrapped by extraction failures so callers can map them
// to a malformed-response failure.
var ErrNoStructure = fmt.Errorf("no JSON structure found in provider output")

// ExtractJSON pulls a JSON value out of raw provider text. It tries, in
// order: the text as-is, a fenced code block, and the first balanced object
// or array.
func ExtractJSON(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty output: %w", ErrNoStructure)
	}

	if looksLikeJSON(trimmed) {
		return trimmed, nil
	}

	if block := extractFencedBlock(trimmed); block != "" && looksLikeJSON(block) {
		return block, nil
	}

	if obj := extractBalanced(trimmed, '{', '}'); obj != "" {
		return obj, nil
	}
	if arr := extractBalanced(trimmed, '[', ']'); arr != "" {
		return arr, nil
	}

	return "", ErrNoStructure
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// extractFencedBlock returns the contents of the first ``` fenced block,
// preferring a ```json fence.
func extractFencedBlock(s string) string {
	start := strings.Index(s, "```json")
	if start >= 0 {
		start += len("```json")
	} else {
		start = strings.Index(s, "```")
		if start == -1 {
			return ""
		}
		start += len("```")
	}

	rest := s[start:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && strings.TrimSpace(rest[:nl]) == "" {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// extractBalanced returns the first balanced open..close span, respecting
// JSON string literals.
func extractBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

var (
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	headingRe = regexp.MustCompile(`(?m)^#+\s*`)
)

// CleanFreeText strips the markdown decoration providers slip into plain
// text answers. Used only by prose-producing tasks.
func CleanFreeText(raw string) string {
	s := boldRe.ReplaceAllString(raw, "$1")
	s = headingRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
