package observability

// Attribute keys, span, event and metric names shared by every component.

// Model request attributes.
const (
	AttrLLMProvider     = "llm.provider"
	AttrLLMModel        = "llm.model"
	AttrLLMOutputMode   = "llm.output_mode"
	AttrLLMFinishReason = "llm.finish_reason"
	AttrLLMTemperature  = "llm.temperature"
	AttrLLMMaxTokens    = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMRemoteCalls counts model round trips made by automatic
	// function calling.
	AttrLLMRemoteCalls = "llm.remote_calls"

	AttrInvocationID = "agentils.invocation_id"
)

// Token usage attributes.
const (
	AttrLLMTokensPrompt     = "llm.tokens.prompt"     // #nosec G101 -- Not a credential, token refers to LLM tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens
	AttrLLMTokensTotal      = "llm.tokens.total"      // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// Tool execution attributes.
const (
	AttrToolName     = "tool.name"
	AttrToolInput    = "tool.input"
	AttrToolOutput   = "tool.output"
	AttrToolDuration = "tool.duration"
	AttrToolError    = "tool.error"
	AttrToolsCount   = "request.tools_count"
)

// HTTP attributes, used by the web fetch tool.
const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// General attributes.
const (
	AttrError     = "error"
	AttrErrorType = "error.type"
	AttrDuration  = "duration"
	AttrStatus    = "status"
)

// Span names.
const (
	SpanInvocation    = "agentils.invocation"
	SpanLLMRequest    = "llm.request"
	SpanChatMessage   = "chat.send_message"
	SpanToolExecution = "tool.execution"
)

// Event names.
const (
	EventLLMRequestStart    = "llm.request.start"
	EventLLMRequestEnd      = "llm.request.end"
	EventFunctionCalls      = "llm.function_calls"
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
)

// Metric names.
const (
	MetricRequestCount     = "agentils.request.count"
	MetricRequestDuration  = "agentils.request.duration"
	MetricRequestErrors    = "agentils.request.errors"
	MetricTokensPrompt     = "agentils.tokens.prompt"     // #nosec G101 -- Not a credential, token refers to LLM tokens
	MetricTokensCompletion = "agentils.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens
	MetricToolCalls        = "agentils.tool.calls"
)
