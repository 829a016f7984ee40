package serialize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

type options struct {
	repair bool
}

// Option configures [TextToStructured].
type Option func(*options)

// WithRepair lets TextToStructured run malformed input through jsonrepair
// before giving up, recovering trailing commas, single quotes, unquoted keys
// and truncated objects.
func WithRepair() Option {
	return func(o *options) {
		o.repair = true
	}
}

// TextToStructured decodes model output into a mapping. A literal
// "```python" marker and every "```" fence are stripped first, then the
// remainder is decoded as JSON.
//
// On failure the Result holds a [*FormatError] of kind [InvalidString];
// ErrorMapping then yields {"error": "Invalid string format: <details>"}.
//
// Example:
//
//	res := serialize.TextToStructured("```json\n{\"a\": 1}\n```")
//	res.Value()["a"] // float64(1)
func TextToStructured(text string, opts ...Option) Result[map[string]any] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cleaned := StripFences(text)

	data, err := decodeObject(cleaned)
	if err == nil {
		return Ok(data)
	}

	if o.repair {
		if repaired, repairErr := jsonrepair.JSONRepair(cleaned); repairErr == nil {
			if data, retryErr := decodeObject(repaired); retryErr == nil {
				return Ok(data)
			}
		}
	}

	return Err[map[string]any](&FormatError{Kind: InvalidString, Err: err})
}

// StripFences removes markdown code fences the model may wrap its answer in.
// A "```json" opener leaves its language tag behind once the fence is
// removed, so a leading "json" line is dropped as well.
func StripFences(text string) string {
	s := strings.ReplaceAll(text, "```python", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "json\n"); ok {
		s = strings.TrimSpace(rest)
	}
	return s
}

func decodeObject(s string) (map[string]any, error) {
	var data map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	if data == nil {
		// "null" decodes without error into a nil map.
		return nil, errors.New("expected a JSON object, got null")
	}
	return data, nil
}

// StructuredToText encodes v as JSON indented with two spaces. Map keys are
// emitted in sorted order.
//
// On failure (channels, functions, NaN, cycles) the Result holds a
// [*FormatError] of kind [InvalidDictionary]; use [Text] for the string form
// "Error: Invalid dictionary format: <details>".
func StructuredToText(v any) Result[string] {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return Err[string](&FormatError{Kind: InvalidDictionary, Err: err})
	}
	return Ok(strings.TrimSuffix(buf.String(), "\n"))
}

// Text flattens a text Result into a single string: the value on success,
// "Error: <message>" on failure.
func Text(r Result[string]) string {
	if r.err != nil {
		return "Error: " + r.err.Error()
	}
	return r.value
}
