package llm

import (
	"context"
	"time"

	"github.com/leofalp/agentils/providers/observability"
)

// record closes out the invocation span and emits metrics and the final
// log line.
func (o *options) record(ctx context.Context, span observability.Span, start time.Time, resp *Response) {
	elapsed := time.Since(start)
	status := "ok"
	attrs := []observability.Attribute{
		observability.String(observability.AttrInvocationID, resp.InvocationID),
		observability.String(observability.AttrLLMModel, o.model),
		observability.Duration(observability.AttrDuration, elapsed),
	}

	if resp.Err != nil {
		status = "error"
		span.RecordError(resp.Err)
		span.SetStatus(observability.StatusError, resp.Err.Error())
		o.observer.Error(ctx, "llm invocation failed", append(attrs, observability.Error(resp.Err))...)
		o.observer.Counter(observability.MetricRequestErrors).Add(ctx, 1,
			observability.String(observability.AttrLLMModel, o.model),
		)
	} else {
		span.SetStatus(observability.StatusOK, "")
		o.observer.Info(ctx, "llm invocation done", attrs...)
	}

	labels := []observability.Attribute{
		observability.String(observability.AttrLLMModel, o.model),
		observability.String(observability.AttrLLMOutputMode, string(o.output)),
		observability.String(observability.AttrStatus, status),
	}
	o.observer.Counter(observability.MetricRequestCount).Add(ctx, 1, labels...)
	o.observer.Histogram(observability.MetricRequestDuration).Record(ctx, elapsed.Seconds(), labels...)

	if u := resp.Usage; u != nil {
		span.SetAttributes(
			observability.Int(observability.AttrLLMTokensPrompt, u.PromptTokens),
			observability.Int(observability.AttrLLMTokensCompletion, u.CompletionTokens),
			observability.Int(observability.AttrLLMTokensTotal, u.TotalTokens),
		)
		o.observer.Counter(observability.MetricTokensPrompt).Add(ctx, int64(u.PromptTokens), labels[0])
		o.observer.Counter(observability.MetricTokensCompletion).Add(ctx, int64(u.CompletionTokens), labels[0])
	}
}
