// Package observability defines the tracing, metrics and logging interfaces
// the request path reports through.
//
// A [Provider] is injected with llm.WithObserver and travels in the request
// context ([ContextWithObserver], [ObserverFromContext]). The active [Span]
// is propagated the same way so that tool handlers can add events to the
// span of the model call that dispatched them. [Nop] is used when no
// provider is configured.
//
// Attribute keys, span names and metric names live in semconv.go.
package observability
