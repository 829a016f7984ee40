package serialize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// SaveStructuredToFile writes v to filename as two-space indented JSON.
// Failures are logged and returned; the function never panics.
func SaveStructuredToFile(v any, filename string) error {
	res := StructuredToText(v)
	if !res.IsOk() {
		slog.Error("Error saving dictionary to file", "file", filename, "error", res.Err())
		return res.Err()
	}
	if err := os.WriteFile(filename, []byte(res.Value()), 0o644); err != nil {
		slog.Error("Error saving dictionary to file", "file", filename, "error", err)
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

// LoadStructuredFromFile reads a JSON object from filename. I/O and decode
// failures are logged and returned as an Err result holding a nil mapping.
func LoadStructuredFromFile(filename string) Result[map[string]any] {
	raw, err := os.ReadFile(filename)
	if err != nil {
		slog.Error("Error loading dictionary from file", "file", filename, "error", err)
		return Err[map[string]any](fmt.Errorf("load %s: %w", filename, err))
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Error("Error loading dictionary from file", "file", filename, "error", err)
		return Err[map[string]any](&FormatError{Kind: InvalidString, Err: err})
	}
	return Ok(data)
}

// SaveTextToFile writes s to filename verbatim. Failures are logged and
// returned.
func SaveTextToFile(s string, filename string) error {
	if err := os.WriteFile(filename, []byte(s), 0o644); err != nil {
		slog.Error("Error saving string to file", "file", filename, "error", err)
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}
