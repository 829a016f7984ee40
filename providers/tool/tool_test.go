package tool

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/leofalp/agentils/internal/jsonschema"
	"github.com/leofalp/agentils/providers/observability"
)

type budgetArgs struct {
	Days        int     `json:"days"`
	DailyBudget float64 `json:"daily_budget"`
	Currency    string  `json:"currency" jsonschema:"default=EUR"`
}

type recordingSpan struct {
	events []string
	errs   []error
}

func (s *recordingSpan) End()                                       {}
func (s *recordingSpan) SetAttributes(...observability.Attribute)   {}
func (s *recordingSpan) SetStatus(observability.StatusCode, string) {}
func (s *recordingSpan) RecordError(err error)                      { s.errs = append(s.errs, err) }
func (s *recordingSpan) AddEvent(name string, _ ...observability.Attribute) {
	s.events = append(s.events, name)
}

// TestDeclare verifies explicit descriptors and their fallbacks.
func TestDeclare(t *testing.T) {
	d := Declare("get_weather", "",
		Required("location", KindString),
		Optional("days", KindInteger).Describe("Forecast length"),
		Param{Name: "units"},
	)

	if d.Description != "Function get_weather" {
		t.Errorf("Description = %q, want %q", d.Description, "Function get_weather")
	}
	if d.Parameters.Type != jsonschema.TypeObject {
		t.Errorf("Parameters.Type = %q, want object", d.Parameters.Type)
	}
	if want := []string{"location", "days", "units"}; !reflect.DeepEqual(d.Parameters.Order, want) {
		t.Errorf("Order = %v, want %v", d.Parameters.Order, want)
	}
	if want := []string{"location"}; !reflect.DeepEqual(d.Parameters.Required, want) {
		t.Errorf("Required = %v, want %v", d.Parameters.Required, want)
	}

	tests := []struct {
		name, kind, description string
	}{
		{"location", jsonschema.TypeString, "Parameter location"},
		{"days", jsonschema.TypeInteger, "Forecast length"},
		{"units", jsonschema.TypeString, "Parameter units"},
	}
	for _, tt := range tests {
		p := d.Parameters.Properties[tt.name]
		if p == nil {
			t.Fatalf("missing property %q", tt.name)
		}
		if p.Type != tt.kind || p.Description != tt.description {
			t.Errorf("%s = {%q %q}, want {%q %q}", tt.name, p.Type, p.Description, tt.kind, tt.description)
		}
	}

	if d.Declaration().Name != "get_weather" {
		t.Error("a Descriptor should declare itself")
	}
}

// TestDerive verifies struct-based derivation of required parameters.
func TestDerive(t *testing.T) {
	d, err := Derive[budgetArgs]("calculate_budget", "Calculate total budget for a trip.")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if d.Description != "Calculate total budget for a trip." {
		t.Errorf("Description = %q", d.Description)
	}
	if want := []string{"days", "daily_budget"}; !reflect.DeepEqual(d.Parameters.Required, want) {
		t.Errorf("Required = %v, want %v", d.Parameters.Required, want)
	}
	if got := d.Parameters.Properties["daily_budget"].Type; got != jsonschema.TypeNumber {
		t.Errorf("daily_budget type = %q, want number", got)
	}
}

// TestDeriveScalar verifies that non-struct inputs become an "input" parameter.
func TestDeriveScalar(t *testing.T) {
	d, err := Derive[[]string]("join", "")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	input := d.Parameters.Properties["input"]
	if input == nil || input.Type != jsonschema.TypeArray {
		t.Fatalf("input = %+v, want an array property", input)
	}
	if !reflect.DeepEqual(d.Parameters.Required, []string{"input"}) {
		t.Errorf("Required = %v, want [input]", d.Parameters.Required)
	}
	if d.Description != "Function join" {
		t.Errorf("Description = %q, want fallback", d.Description)
	}
}

// TestFunctionCall verifies argument decoding and result encoding.
func TestFunctionCall(t *testing.T) {
	budget := MustFunction("calculate_budget",
		func(_ context.Context, in budgetArgs) (float64, error) {
			return float64(in.Days) * in.DailyBudget, nil
		},
		WithDescription("Calculate total budget for a trip."),
	)

	out, err := budget.Call(context.Background(), map[string]any{"days": 5.0, "daily_budget": 120.5})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if out["result"] != 602.5 {
		t.Errorf("Call() = %v, want result 602.5", out)
	}

	type summary struct {
		Total float64 `json:"total"`
	}
	obj := MustFunction("summarize", func(_ context.Context, in budgetArgs) (summary, error) {
		return summary{Total: float64(in.Days)}, nil
	})
	out, err = obj.Call(context.Background(), map[string]any{"days": 2})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if out["total"] != 2.0 {
		t.Errorf("object result = %v, want {total: 2}", out)
	}
}

// TestFunctionCallScalar verifies the "input" wrapping on the call path.
func TestFunctionCallScalar(t *testing.T) {
	join := MustFunction("join", func(_ context.Context, in []string) (string, error) {
		return strings.Join(in, "+"), nil
	})
	out, err := join.Call(context.Background(), map[string]any{"input": []any{"a", "b"}})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if out["result"] != "a+b" {
		t.Errorf("Call() = %v, want result a+b", out)
	}
}

// TestFunctionCallErrors verifies invalid arguments, handler errors and span
// reporting.
func TestFunctionCallErrors(t *testing.T) {
	errBoom := errors.New("boom")
	failing := MustFunction("failing", func(_ context.Context, in budgetArgs) (int, error) {
		return 0, errBoom
	})

	span := &recordingSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)

	if _, err := failing.Call(ctx, map[string]any{"days": "three"}); err == nil || !strings.Contains(err.Error(), "invalid arguments") {
		t.Errorf("bad args error = %v, want invalid arguments", err)
	}
	if _, err := failing.Call(ctx, map[string]any{"days": 1}); !errors.Is(err, errBoom) {
		t.Errorf("handler error = %v, want wrapped boom", err)
	}

	want := []string{
		observability.EventToolExecutionStart, observability.EventToolExecutionEnd,
		observability.EventToolExecutionStart, observability.EventToolExecutionEnd,
	}
	if !reflect.DeepEqual(span.events, want) {
		t.Errorf("events = %v, want %v", span.events, want)
	}
	if len(span.errs) != 2 {
		t.Errorf("recorded errors = %d, want 2", len(span.errs))
	}
}

// TestDescriptors verifies order preservation.
func TestDescriptors(t *testing.T) {
	got := Descriptors([]Tool{Declare("b", ""), Declare("a", "")})
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Errorf("Descriptors() = %v, want [b a]", got)
	}
}
