package ai

import (
	"fmt"
	"strings"

	"github.com/leofalp/agentils/providers/tool"
)

/*
	##### REQUEST #####
*/

// OutputMode selects how the response is interpreted.
type OutputMode string

const (
	OutputText       OutputMode = "text"
	OutputStructured OutputMode = "structured"
)

// MIMEType returns the response MIME type the backend negotiates for m.
func (m OutputMode) MIMEType() string {
	if m == OutputStructured {
		return "application/json"
	}
	return ""
}

// ParseOutputMode accepts "text", "structured" and the legacy "json" name.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return OutputText, nil
	case "structured", "json":
		return OutputStructured, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (want text or structured)", s)
	}
}

// DefaultMaxRemoteCalls bounds automatic function calling.
const DefaultMaxRemoteCalls = 10

// FunctionCalling controls the local function-call loop.
type FunctionCalling struct {
	Disabled bool
	// MaximumRemoteCalls bounds the number of model round trips made while
	// answering function calls. Non-positive means DefaultMaxRemoteCalls.
	MaximumRemoteCalls int
}

// Automatic enables the loop with the given cap.
func Automatic(maxCalls int) *FunctionCalling {
	return &FunctionCalling{MaximumRemoteCalls: maxCalls}
}

// Disabled turns the loop off; function calls are returned to the caller.
func Disabled() *FunctionCalling {
	return &FunctionCalling{Disabled: true}
}

// Limit returns the effective cap.
func (f *FunctionCalling) Limit() int {
	if f == nil || f.MaximumRemoteCalls <= 0 {
		return DefaultMaxRemoteCalls
	}
	return f.MaximumRemoteCalls
}

// RequestConfig holds the options set for one call. Only set fields are
// forwarded to the backend.
type RequestConfig struct {
	// SystemInstruction is unset when empty.
	SystemInstruction string
	Temperature       *float64
	MaxOutputTokens   *int
	// Output is unset when empty; backends then answer in plain text.
	Output          OutputMode
	Tools           []tool.Tool
	FunctionCalling *FunctionCalling
}

// IsZero reports whether no field is set.
func (c *RequestConfig) IsZero() bool {
	return c == nil ||
		(c.SystemInstruction == "" &&
			c.Temperature == nil &&
			c.MaxOutputTokens == nil &&
			c.Output == "" &&
			len(c.Tools) == 0 &&
			c.FunctionCalling == nil)
}

// AutomaticCalling reports whether the backend should run the function
// call loop: tools are present, the loop is not disabled and every tool
// is callable.
func (c *RequestConfig) AutomaticCalling() bool {
	if c == nil || len(c.Tools) == 0 {
		return false
	}
	if c.FunctionCalling != nil && c.FunctionCalling.Disabled {
		return false
	}
	return tool.NewCatalog(c.Tools...).AllCallable()
}

/*
	##### RESPONSE #####
*/

// Usage counts tokens over every round trip of one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
	u.CachedTokens += other.CachedTokens
}

// FunctionCall is a function invocation requested by the model.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResult is the answer sent back for a FunctionCall.
type FunctionResult struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Response is the final model answer of one call.
type Response struct {
	Text string `json:"text"`
	// FunctionCalls holds calls left for the caller: declaration-only
	// tools, disabled automatic calling or an exhausted call budget.
	FunctionCalls []FunctionCall `json:"function_calls,omitempty"`
	FinishReason  string         `json:"finish_reason,omitempty"`
	Usage         *Usage         `json:"usage,omitempty"`
	// RemoteCalls counts the model round trips made for this response.
	RemoteCalls int `json:"remote_calls"`
}

/*
	##### HISTORY #####
*/

// MessageRole is the author of a turn.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// Message is one turn of a chat history.
type Message struct {
	Role            MessageRole      `json:"role"`
	Text            string           `json:"text,omitempty"`
	FunctionCalls   []FunctionCall   `json:"function_calls,omitempty"`
	FunctionResults []FunctionResult `json:"function_results,omitempty"`
}

// ToolError is the response object sent to the model when a tool fails,
// so that the model can react instead of the call aborting.
func ToolError(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
