package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingSpan struct {
	events []string
}

func (s *recordingSpan) End()                         {}
func (s *recordingSpan) SetAttributes(...Attribute)   {}
func (s *recordingSpan) SetStatus(StatusCode, string) {}
func (s *recordingSpan) RecordError(error)            {}
func (s *recordingSpan) AddEvent(name string, _ ...Attribute) {
	s.events = append(s.events, name)
}

// TestAttributeConstructors verifies each helper keeps key and value.
func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		key  string
		want any
	}{
		{"string", String("k", "v"), "k", "v"},
		{"int", Int("k", 42), "k", 42},
		{"int64", Int64("k", 1<<40), "k", int64(1 << 40)},
		{"float64", Float64("k", 0.5), "k", 0.5},
		{"bool", Bool("k", true), "k", true},
		{"duration", Duration("k", time.Second), "k", time.Second},
		{"error", Error(errors.New("boom")), AttrError, "boom"},
		{"nil error", Error(nil), AttrError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.attr.Key, tt.key)
			}
			if tt.attr.Value != tt.want {
				t.Errorf("Value = %v, want %v", tt.attr.Value, tt.want)
			}
		})
	}
}

// TestStatusCodeString verifies status names.
func TestStatusCodeString(t *testing.T) {
	for code, want := range map[StatusCode]string{StatusUnset: "unset", StatusOK: "ok", StatusError: "error"} {
		if got := code.String(); got != want {
			t.Errorf("StatusCode(%d).String() = %q, want %q", code, got, want)
		}
	}
}

// TestSpanContext verifies span propagation through a context.
func TestSpanContext(t *testing.T) {
	if SpanFromContext(context.Background()) != nil {
		t.Error("SpanFromContext(empty) should be nil")
	}

	span := &recordingSpan{}
	ctx := ContextWithSpan(context.Background(), span)
	SpanFromContext(ctx).AddEvent("x")
	if len(span.events) != 1 {
		t.Errorf("events = %v, want one event on the stored span", span.events)
	}

	//nolint:staticcheck // a nil context is tolerated on purpose
	if got := ContextWithSpan(nil, span); SpanFromContext(got) != span {
		t.Error("ContextWithSpan(nil, span) should fall back to Background")
	}
}

// TestObserverContext verifies that a missing observer resolves to Nop.
func TestObserverContext(t *testing.T) {
	if _, ok := ObserverFromContext(context.Background()).(nop); !ok {
		t.Error("ObserverFromContext(empty) should return Nop")
	}

	var p Provider = nop{}
	ctx := ContextWithObserver(context.Background(), p)
	if ObserverFromContext(ctx) != p {
		t.Error("ObserverFromContext should return the stored provider")
	}
}

// TestNop verifies the no-op provider is usable end to end.
func TestNop(t *testing.T) {
	p := Nop()
	ctx, span := p.StartSpan(context.Background(), SpanLLMRequest, String(AttrLLMModel, "m"))
	span.AddEvent(EventLLMRequestStart)
	span.SetStatus(StatusOK, "")
	span.End()
	p.Counter(MetricRequestCount).Add(ctx, 1)
	p.Histogram(MetricRequestDuration).Record(ctx, 0.1)
	p.Info(ctx, "message", String("k", "v"))
}
