// Package note parses the metadata block embedded at the top of a note
// file: a YAML key/value mapping fenced by "---" lines. Extraction is
// best-effort; callers degrade to defaults when a block is missing or
// malformed rather than aborting.
package note

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

const fence = "---"

// Extract reads the file at path and returns its metadata block as a
// key/value map. A file without a block yields an empty map and no error;
// an unreadable file or malformed block yields an empty map and an error.
func Extract(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return map[string]any{}, err
	}
	meta, _, err := Parse(content)
	return meta, err
}

// Parse splits content into its metadata map and the remaining body.
// The block must start on the first line.
func Parse(content []byte) (map[string]any, string, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	rest, ok := strings.CutPrefix(text, fence+"\n")
	if !ok {
		return map[string]any{}, text, nil
	}

	block, body, ok := cutFence(rest)
	if !ok {
		return map[string]any{}, text, fmt.Errorf("metadata block not terminated")
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return map[string]any{}, body, fmt.Errorf("parse metadata block: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// Body returns the file content with the metadata block stripped.
func Body(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	_, body, _ := Parse(content)
	return body, nil
}

func cutFence(text string) (block, body string, ok bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimRight(line, " \t") == fence {
			block = strings.Join(lines[:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return block, strings.TrimPrefix(body, "\n"), true
		}
	}
	return "", "", false
}

// String returns the first present key coerced to a trimmed string.
func String(meta map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := meta[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case fmt.Stringer:
			return v.String()
		default:
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
	}
	return ""
}

// StringList returns the first present key coerced to an ordered set of
// strings. Accepts YAML sequences and comma-separated scalars; duplicates
// are dropped, order preserved.
func StringList(meta map[string]any, keys ...string) []string {
	for _, key := range keys {
		value, ok := meta[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case []any:
			return dedupe(coerceAll(v))
		case []string:
			return dedupe(v)
		case string:
			parts := strings.Split(v, ",")
			return dedupe(parts)
		}
	}
	return nil
}

func coerceAll(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
