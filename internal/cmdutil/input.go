package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ResolveJSONInput resolves JSON input from inline, @file, or stdin.
func ResolveJSONInput(raw string, file string) (string, error) {
	if raw != "" && file != "" {
		return "", fmt.Errorf("use only one of inline JSON or --file")
	}

	if file != "" {
		return ReadInputSource(file)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "-" {
		return ReadInputSource("-")
	}
	if strings.HasPrefix(trimmed, "@") {
		path := trimmed[1:]
		return ReadInputSource(path)
	}

	return raw, nil
}

// ReadJSONInput resolves a single JSON value with @file and - (stdin) support.
func ReadJSONInput(value string) (string, error) {
	return ResolveJSONInput(value, "")
}

// NormalizeJSONInput unwraps double-serialized JSON strings when possible.
// If the input is a JSON string containing JSON, it returns the inner JSON.
//
// This handles cases where JSON has been inadvertently quoted, such as:
//   - Shell escaping issues: "{\"key\": \"value\"}" -> {"key": "value"}
//   - Copy-paste from string literals: "[1, 2, 3]" -> [1, 2, 3]
//
// The function only unwraps one level - triple-serialized JSON will
// only have one layer removed.
//
// If the input is not a double-serialized JSON string, it is returned unchanged.
func NormalizeJSONInput(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
		return raw
	}

	innerTrimmed := strings.TrimSpace(inner)
	if innerTrimmed == "" {
		return raw
	}
	if json.Valid([]byte(innerTrimmed)) {
		return innerTrimmed
	}

	return raw
}

// UnmarshalJSONInput unmarshals JSON input, supporting double-serialized JSON strings.
func UnmarshalJSONInput(raw string, target interface{}) error {
	normalized := NormalizeJSONInput(raw)
	return json.Unmarshal([]byte(normalized), target)
}

// ReadInputSource reads input from a file path or stdin when path is "-".
func ReadInputSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file path is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
