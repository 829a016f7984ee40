package llm

import (
	"github.com/leofalp/agentils/core/serialize"
	"github.com/leofalp/agentils/providers/ai"
)

// ExecutionError wraps any backend failure: client construction, the
// model call or a panic inside the backend.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return "Error executing LLM: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Response is the outcome of one wrapped call.
type Response struct {
	Mode ai.OutputMode
	// Text is the raw model text, also kept in structured mode.
	Text string
	// Data is the parsed answer in structured mode.
	Data map[string]any
	// Err is an *ExecutionError or a *serialize.FormatError.
	Err error

	// FunctionCalls are calls the backend did not execute.
	FunctionCalls []ai.FunctionCall
	Usage         *ai.Usage
	InvocationID  string
}

// Failed reports whether the call produced an error value.
func (r *Response) Failed() bool {
	return r.Err != nil
}

// Value returns the answer in the shape of the output mode: a mapping in
// structured mode and a string in text mode. Failures become
// {"error": message} or the bare message.
func (r *Response) Value() any {
	if r.Mode == ai.OutputStructured {
		if r.Err != nil {
			return map[string]any{"error": r.Err.Error()}
		}
		return r.Data
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}

// String renders Value as text; mappings are indented JSON.
func (r *Response) String() string {
	switch v := r.Value().(type) {
	case string:
		return v
	default:
		return serialize.Text(serialize.StructuredToText(v))
	}
}

func failure(mode ai.OutputMode, invocationID string, err error) *Response {
	return &Response{Mode: mode, Err: &ExecutionError{Err: err}, InvocationID: invocationID}
}
