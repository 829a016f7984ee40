package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/observability"
	"github.com/leofalp/agentils/providers/tool"
)

const providerName = "gemini"

// modelsAPI is the part of genai.Models used here.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// chatAPI is the part of genai.Chat used here.
type chatAPI interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	History(curated bool) []*genai.Content
}

type chatOpener func(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatAPI, error)

// Client implements ai.Client.
type Client struct {
	models   modelsAPI
	openChat chatOpener
}

var _ ai.Client = (*Client)(nil)

type options struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures [New].
type Option func(*options)

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithBaseURL points the SDK at another endpoint, e.g. a proxy or a test
// server.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// New creates a client for the Gemini Developer API.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions.BaseURL = o.baseURL
	}

	sdk, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newClient(sdk.Models, func(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatAPI, error) {
		return sdk.Chats.Create(ctx, model, config, history)
	}), nil
}

// Factory returns an ai.ClientFactory building a new client per call.
func Factory(opts ...Option) ai.ClientFactory {
	return func(ctx context.Context, apiKey string) (ai.Client, error) {
		return New(ctx, apiKey, opts...)
	}
}

func newClient(models modelsAPI, openChat chatOpener) *Client {
	return &Client{models: models, openChat: openChat}
}

// GenerateContent sends prompt as a single user turn.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, cfg *ai.RequestConfig) (*ai.Response, error) {
	gcfg, err := toGenerateContentConfig(cfg)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	send := func(ctx context.Context, parts []*genai.Part) (*genai.GenerateContentResponse, error) {
		if parts != nil {
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
		}
		resp, err := c.models.GenerateContent(ctx, model, contents, gcfg)
		if err == nil {
			if cand := firstCandidate(resp); cand != nil && cand.Content != nil {
				contents = append(contents, cand.Content)
			}
		}
		return resp, err
	}

	return runLoop(ctx, model, cfg, send)
}

// sendFunc performs one model round trip. A nil parts slice sends the
// initial request.
type sendFunc func(ctx context.Context, parts []*genai.Part) (*genai.GenerateContentResponse, error)

// runLoop drives one request through automatic function calling.
func runLoop(ctx context.Context, model string, cfg *ai.RequestConfig, send sendFunc) (*ai.Response, error) {
	observer := observability.ObserverFromContext(ctx)
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart,
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	automatic := cfg.AutomaticCalling()
	var limit int
	var catalog *tool.Catalog
	if automatic {
		limit = cfg.FunctionCalling.Limit()
		catalog = tool.NewCatalog(cfg.Tools...)
	}

	var (
		usage ai.Usage
		parts []*genai.Part
		out   *ai.Response
	)
	for remote := 1; ; remote++ {
		resp, err := send(ctx, parts)
		if err != nil {
			return nil, fmt.Errorf("gemini generate content: %w", err)
		}
		out = fromResponse(resp)
		if out.Usage != nil {
			usage.Add(*out.Usage)
		}
		out.RemoteCalls = remote

		if len(out.FunctionCalls) == 0 || !automatic {
			break
		}
		if remote >= limit {
			observer.Warn(ctx, "automatic function calling stopped at the call limit",
				observability.Int(observability.AttrLLMRemoteCalls, remote),
				observability.String(observability.AttrLLMModel, model),
			)
			break
		}

		if span != nil {
			span.AddEvent(observability.EventFunctionCalls, observability.Int(observability.AttrLLMRemoteCalls, remote))
		}
		parts = dispatch(ctx, catalog, out.FunctionCalls)
	}

	if usage != (ai.Usage{}) {
		out.Usage = &usage
	}
	return out, nil
}

// callTool runs one tool, turning a panic into an error.
func callTool(ctx context.Context, callable tool.Callable, call ai.FunctionCall) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()
	return callable.Call(ctx, call.Args)
}

// dispatch executes every call and returns the function response parts.
// A failing or unknown tool produces an error response for the model
// instead of aborting the request.
func dispatch(ctx context.Context, catalog *tool.Catalog, calls []ai.FunctionCall) []*genai.Part {
	observer := observability.ObserverFromContext(ctx)
	parts := make([]*genai.Part, 0, len(calls))

	for _, call := range calls {
		toolCtx, span := observer.StartSpan(ctx, observability.SpanToolExecution,
			observability.String(observability.AttrToolName, call.Name),
		)

		var response map[string]any
		status := "ok"
		callable, ok := catalog.Callable(call.Name)
		if !ok {
			err := fmt.Errorf("unknown function %q", call.Name)
			span.RecordError(err)
			response = ai.ToolError(err)
			status = "error"
		} else if result, err := callTool(toolCtx, callable, call); err != nil {
			observer.Warn(toolCtx, "tool execution failed",
				observability.String(observability.AttrToolName, call.Name),
				observability.Error(err),
			)
			span.SetStatus(observability.StatusError, err.Error())
			response = ai.ToolError(err)
			status = "error"
		} else {
			span.SetStatus(observability.StatusOK, "")
			response = result
		}
		span.End()

		observer.Counter(observability.MetricToolCalls).Add(ctx, 1,
			observability.String(observability.AttrToolName, call.Name),
			observability.String(observability.AttrStatus, status),
		)

		part := genai.NewPartFromFunctionResponse(call.Name, response)
		part.FunctionResponse.ID = call.ID
		parts = append(parts, part)
	}
	return parts
}
