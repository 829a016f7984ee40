package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/agentils/providers/observability"
)

// TestParseLevel verifies level names, including the trace level.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestParseFormat verifies that anything but json is compact.
func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"json": FormatJSON, "JSON": FormatJSON, "compact": FormatCompact, "pretty": FormatCompact, "": FormatCompact}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestEnvDefaults verifies that New picks up the environment.
func TestEnvDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")

	var buf bytes.Buffer
	o := New(WithOutput(&buf))
	o.Debug(context.Background(), "hello", observability.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["level"] != "DEBUG" || record["msg"] != "hello" || record["k"] != "v" {
		t.Errorf("record = %v, want DEBUG hello k=v", record)
	}
}

// TestCompactFormat verifies the single-line layout.
func TestCompactFormat(t *testing.T) {
	var buf bytes.Buffer
	o := New(WithOutput(&buf), WithFormat(FormatCompact), WithLevel(slog.LevelInfo))

	o.Info(context.Background(), "request done", observability.Int("tokens", 12))
	o.Debug(context.Background(), "hidden")

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
	for _, want := range []string{" INFO ", "request done", `→ {"tokens":12}`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

// TestTraceLevel verifies that trace records are only written at trace level.
func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	New(WithOutput(&buf), WithLevel(slog.LevelDebug)).Trace(context.Background(), "quiet")
	if buf.Len() != 0 {
		t.Errorf("trace written at debug level: %q", buf.String())
	}

	New(WithOutput(&buf), WithLevel(LevelTrace), WithFormat(FormatJSON)).Trace(context.Background(), "loud")
	if !strings.Contains(buf.String(), `"level":"TRACE"`) {
		t.Errorf("trace record missing, got %q", buf.String())
	}
}

// TestSpanLifecycle verifies span logging and context propagation.
func TestSpanLifecycle(t *testing.T) {
	var buf bytes.Buffer
	o := New(WithOutput(&buf), WithLevel(LevelTrace))

	ctx, span := o.StartSpan(context.Background(), observability.SpanLLMRequest, observability.String(observability.AttrLLMModel, "m"))
	if observability.SpanFromContext(ctx) != span {
		t.Fatal("StartSpan should store the span in the returned context")
	}
	span.AddEvent(observability.EventLLMRequestStart)
	span.RecordError(errors.New("boom"))
	span.SetStatus(observability.StatusError, "failed")
	span.End()

	out := buf.String()
	for _, want := range []string{"span started", "span event", "span error", "boom", "span ended", `"status":"error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

// TestCounterTotals verifies counters are shared by name and accumulate.
func TestCounterTotals(t *testing.T) {
	o := New(WithOutput(&bytes.Buffer{}))
	o.Counter("c").Add(context.Background(), 2)
	o.Counter("c").Add(context.Background(), 3)

	if got := o.Counter("c").(*counter).Total(); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}
	if o.Histogram("h") != o.Histogram("h") {
		t.Error("Histogram should return the same instrument for one name")
	}
}

// TestWithLogger verifies an external logger takes precedence.
func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	o := New(WithLogger(logger), WithFormat(FormatJSON))
	o.Info(context.Background(), "via text")

	if o.Logger() != logger {
		t.Error("Logger() should return the provided logger")
	}
	if !strings.Contains(buf.String(), "msg=\"via text\"") {
		t.Errorf("output = %q, want text handler output", buf.String())
	}
}
