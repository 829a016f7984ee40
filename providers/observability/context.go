package observability

import "context"

type contextKey int

const (
	spanKey contextKey = iota
	observerKey
)

// SpanFromContext returns the span stored in ctx, or nil.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey).(Span)
	return span
}

// ContextWithSpan returns a copy of ctx carrying span.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey, span)
}

// ObserverFromContext returns the provider stored in ctx, or [Nop] when
// there is none.
func ObserverFromContext(ctx context.Context) Provider {
	if ctx != nil {
		if p, ok := ctx.Value(observerKey).(Provider); ok && p != nil {
			return p
		}
	}
	return Nop()
}

// ContextWithObserver returns a copy of ctx carrying p.
func ContextWithObserver(ctx context.Context, p Provider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerKey, p)
}
