package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/agentils/core/credential"
	"github.com/leofalp/agentils/core/serialize"
	"github.com/leofalp/agentils/internal/utils"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/observability"
)

// PromptFunc builds the prompt text from the caller's input.
type PromptFunc[In any] func(ctx context.Context, in In) (string, error)

// Func is a wrapped PromptFunc.
type Func[In any] func(ctx context.Context, in In) (*Response, error)

// Wrap returns a function that sends the prompt built by fn to the model.
//
// Each call resolves the credential, creates a new backend client, calls
// fn and sends the prompt with the configured options. A missing
// credential is returned as an error wrapping
// [credential.ErrMissingCredential] before any client is created. Errors
// returned by fn are passed through unchanged and panics in fn are not
// recovered. Every backend failure is reported in [Response.Err] with a
// nil error.
func Wrap[In any](fn PromptFunc[In], opts ...Option) Func[In] {
	o := newOptions(opts...)
	return func(ctx context.Context, in In) (*Response, error) {
		return invoke(ctx, o, func(ctx context.Context) (string, error) {
			return fn(ctx, in)
		})
	}
}

// Execute runs a prompt function that takes no input once.
func Execute(ctx context.Context, fn func(ctx context.Context) (string, error), opts ...Option) (*Response, error) {
	return invoke(ctx, newOptions(opts...), fn)
}

func invoke(ctx context.Context, o *options, prompt func(ctx context.Context) (string, error)) (*Response, error) {
	apiKey, err := credential.Resolve(o.apiKey, o.sources...)
	if err != nil {
		return nil, err
	}

	invocationID := uuid.NewString()
	ctx, span := o.observer.StartSpan(observability.ContextWithObserver(ctx, o.observer), observability.SpanInvocation,
		observability.String(observability.AttrInvocationID, invocationID),
		observability.String(observability.AttrLLMModel, o.model),
		observability.String(observability.AttrLLMOutputMode, string(o.output)),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	defer span.End()
	start := time.Now()

	client, err := newClient(ctx, o.factory, apiKey)
	if err != nil {
		resp := failure(o.output, invocationID, err)
		o.record(ctx, span, start, resp)
		return resp, nil
	}

	text, err := prompt(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "prompt function failed")
		return nil, err
	}

	cfg := o.requestConfig()
	if cfg.IsZero() {
		cfg = nil
	}
	o.observer.Debug(ctx, "sending prompt",
		observability.String(observability.AttrInvocationID, invocationID),
		observability.String(observability.AttrLLMModel, o.model),
		observability.Int(observability.AttrToolsCount, len(o.tools)),
		observability.String("prompt", utils.TruncateString(text, utils.DefaultMaxStringLength)),
	)

	raw, err := generate(ctx, client, o.model, text, cfg)
	if err != nil {
		resp := failure(o.output, invocationID, err)
		o.record(ctx, span, start, resp)
		return resp, nil
	}

	resp := &Response{
		Mode:          o.output,
		Text:          raw.Text,
		FunctionCalls: raw.FunctionCalls,
		Usage:         raw.Usage,
		InvocationID:  invocationID,
	}
	if o.output == ai.OutputStructured {
		var parseOpts []serialize.Option
		if o.lenient {
			parseOpts = append(parseOpts, serialize.WithRepair())
		}
		parsed := serialize.TextToStructured(raw.Text, parseOpts...)
		resp.Data, resp.Err = parsed.Value(), parsed.Err()
	}
	o.record(ctx, span, start, resp)
	return resp, nil
}

// newClient calls the factory, turning a panic into an error.
func newClient(ctx context.Context, factory ai.ClientFactory, apiKey string) (client ai.Client, err error) {
	defer func() {
		if r := recover(); r != nil {
			client, err = nil, fmt.Errorf("panic creating client: %v", r)
		}
	}()
	return factory(ctx, apiKey)
}

// generate calls the backend, turning a panic into an error.
func generate(ctx context.Context, client ai.Client, model, prompt string, cfg *ai.RequestConfig) (resp *ai.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	resp, err = client.GenerateContent(ctx, model, prompt, cfg)
	if err == nil && resp == nil {
		err = fmt.Errorf("backend returned no response")
	}
	return resp, err
}
