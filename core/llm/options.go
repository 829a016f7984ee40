package llm

import (
	"github.com/leofalp/agentils/core/credential"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/ai/gemini"
	"github.com/leofalp/agentils/providers/observability"
	"github.com/leofalp/agentils/providers/tool"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash-001"

// Option configures a wrapped call or a chat session.
type Option func(*options)

type options struct {
	model             string
	output            ai.OutputMode
	apiKey            string
	tools             []tool.Tool
	automaticCalling  bool
	maxFunctionCalls  int
	systemInstruction string
	temperature       *float64
	maxOutputTokens   *int
	sources           []credential.Source
	factory           ai.ClientFactory
	observer          observability.Provider
	lenient           bool
}

func newOptions(opts ...Option) *options {
	o := &options{
		model:            DefaultModel,
		output:           ai.OutputStructured,
		automaticCalling: true,
		maxFunctionCalls: ai.DefaultMaxRemoteCalls,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sources == nil {
		o.sources = credential.DefaultSources()
	}
	if o.factory == nil {
		o.factory = gemini.Factory()
	}
	if o.observer == nil {
		o.observer = observability.Nop()
	}
	return o
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithOutput selects text or structured (JSON) output. The default is
// structured.
func WithOutput(mode ai.OutputMode) Option {
	return func(o *options) {
		o.output = mode
	}
}

// WithAPIKey sets an explicit API key, bypassing the credential sources.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithTools offers tools to the model. Order is preserved; repeated calls
// append.
func WithTools(tools ...tool.Tool) Option {
	return func(o *options) {
		o.tools = append(o.tools, tools...)
	}
}

// WithAutomaticFunctionCalling turns the backend function-call loop on or
// off. It is on by default and only matters when tools are set.
func WithAutomaticFunctionCalling(enabled bool) Option {
	return func(o *options) {
		o.automaticCalling = enabled
	}
}

// WithMaxFunctionCalls caps the model round trips of automatic function
// calling. The default is 10.
func WithMaxFunctionCalls(n int) Option {
	return func(o *options) {
		o.maxFunctionCalls = n
	}
}

// WithSystemInstruction sets the system instruction. An empty string
// leaves it unset.
func WithSystemInstruction(s string) Option {
	return func(o *options) {
		o.systemInstruction = s
	}
}

// WithTemperature sets the sampling temperature. Zero is sent as zero.
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = &t
	}
}

// WithMaxOutputTokens limits the response length. Zero is sent as zero.
func WithMaxOutputTokens(n int) Option {
	return func(o *options) {
		o.maxOutputTokens = &n
	}
}

// WithCredentialSources replaces the default GOOGLE_API_KEY, GEMINI_API_KEY
// lookup chain.
func WithCredentialSources(sources ...credential.Source) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithClientFactory replaces the Gemini backend.
func WithClientFactory(f ai.ClientFactory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithObserver reports spans, metrics and logs to p.
func WithObserver(p observability.Provider) Option {
	return func(o *options) {
		o.observer = p
	}
}

// WithLenientParsing repairs malformed JSON answers in structured mode
// before giving up.
func WithLenientParsing() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// requestConfig assembles the request from the options that were set.
// Text output is the backend default and is therefore left unset.
func (o *options) requestConfig() *ai.RequestConfig {
	cfg := &ai.RequestConfig{
		SystemInstruction: o.systemInstruction,
		Temperature:       o.temperature,
		MaxOutputTokens:   o.maxOutputTokens,
	}
	if o.output == ai.OutputStructured {
		cfg.Output = ai.OutputStructured
	}
	o.attachTools(cfg)
	return cfg
}

// chatConfig is the subset of the request config that applies to a chat.
func (o *options) chatConfig() *ai.RequestConfig {
	cfg := &ai.RequestConfig{SystemInstruction: o.systemInstruction}
	o.attachTools(cfg)
	return cfg
}

func (o *options) attachTools(cfg *ai.RequestConfig) {
	if len(o.tools) == 0 {
		return
	}
	cfg.Tools = append([]tool.Tool(nil), o.tools...)
	if o.automaticCalling {
		cfg.FunctionCalling = ai.Automatic(o.maxFunctionCalls)
	} else {
		cfg.FunctionCalling = ai.Disabled()
	}
}
