package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/leofalp/agentils/internal/jsonschema"
	"github.com/leofalp/agentils/providers/observability"
)

// Kind is one of the six primitive parameter types.
type Kind string

const (
	KindString  Kind = jsonschema.TypeString
	KindInteger Kind = jsonschema.TypeInteger
	KindNumber  Kind = jsonschema.TypeNumber
	KindBoolean Kind = jsonschema.TypeBoolean
	KindArray   Kind = jsonschema.TypeArray
	KindObject  Kind = jsonschema.TypeObject
)

// Tool is anything that can be advertised to the model.
type Tool interface {
	Declaration() Descriptor
}

// Callable is a Tool the backend can execute on the model's behalf.
// Call receives the arguments chosen by the model and returns the response
// object sent back to it.
type Callable interface {
	Tool
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Descriptor is the declaration of a single function: its name, a
// description for the model, and an object schema of its parameters.
// A Descriptor is itself a declaration-only [Tool].
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// Declaration returns d.
func (d Descriptor) Declaration() Descriptor {
	return d
}

// Param declares one parameter for [Declare].
type Param struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
}

// Required declares a parameter without a default value.
func Required(name string, kind Kind) Param {
	return Param{Name: name, Kind: kind, Required: true}
}

// Optional declares a parameter that has a default value.
func Optional(name string, kind Kind) Param {
	return Param{Name: name, Kind: kind}
}

// Describe returns a copy of p with the given description.
func (p Param) Describe(description string) Param {
	p.Description = description
	return p
}

// Declare builds a descriptor explicitly, for functions whose parameters
// are not represented by a Go struct. An empty description falls back to
// "Function <name>", an empty parameter kind to string, and parameter
// descriptions to "Parameter <name>".
//
// Example:
//
//	weather := tool.Declare("get_weather", "Get the current weather for a location.",
//	    tool.Required("location", tool.KindString),
//	)
func Declare(name, description string, params ...Param) Descriptor {
	schema := &jsonschema.Schema{
		Type:       jsonschema.TypeObject,
		Properties: make(map[string]*jsonschema.Schema, len(params)),
	}

	for _, p := range params {
		kind := p.Kind
		if kind == "" {
			kind = KindString
		}
		desc := p.Description
		if desc == "" {
			desc = "Parameter " + p.Name
		}
		schema.Properties[p.Name] = &jsonschema.Schema{Type: string(kind), Description: desc}
		schema.Order = append(schema.Order, p.Name)
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	return Descriptor{
		Name:        name,
		Description: fallbackDescription(name, description),
		Parameters:  schema,
	}
}

// Derive builds a descriptor from the struct type I, one parameter per
// exported field. See [jsonschema.GenerateJSONSchema] for the field rules.
// Non-struct types are exposed as a single required "input" parameter.
func Derive[I any](name, description string) (Descriptor, error) {
	t := reflect.TypeFor[I]()
	schema, err := jsonschema.FromType(t)
	if err != nil {
		return Descriptor{}, fmt.Errorf("derive parameters for %s: %w", name, err)
	}
	if !isStruct(t) {
		schema.Description = "Parameter input"
		schema = &jsonschema.Schema{
			Type:       jsonschema.TypeObject,
			Properties: map[string]*jsonschema.Schema{"input": schema},
			Required:   []string{"input"},
			Order:      []string{"input"},
		}
	}

	return Descriptor{
		Name:        name,
		Description: fallbackDescription(name, description),
		Parameters:  schema,
	}, nil
}

func fallbackDescription(name, description string) string {
	if description == "" {
		return "Function " + name
	}
	return description
}

func isStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// Function is a [Callable] tool backed by a typed Go function.
type Function[I, O any] struct {
	descriptor Descriptor
	fn         func(ctx context.Context, input I) (O, error)
}

type funcOptions struct {
	description string
}

// FuncOption configures [NewFunction].
type FuncOption func(*funcOptions)

// WithDescription sets the description the model sees. It plays the role
// of a docstring; without it the description is "Function <name>".
func WithDescription(description string) FuncOption {
	return func(o *funcOptions) {
		o.description = description
	}
}

// NewFunction wraps fn as a callable tool. The parameter schema is derived
// from I; struct fields without a default are required.
//
// Example:
//
//	type budgetArgs struct {
//	    Days        int     `json:"days"`
//	    DailyBudget float64 `json:"daily_budget"`
//	}
//	budget, err := tool.NewFunction("calculate_budget",
//	    func(ctx context.Context, in budgetArgs) (float64, error) {
//	        return float64(in.Days) * in.DailyBudget, nil
//	    },
//	    tool.WithDescription("Calculate total budget for a trip."),
//	)
func NewFunction[I, O any](name string, fn func(ctx context.Context, input I) (O, error), opts ...FuncOption) (*Function[I, O], error) {
	o := &funcOptions{}
	for _, opt := range opts {
		opt(o)
	}

	descriptor, err := Derive[I](name, o.description)
	if err != nil {
		return nil, err
	}
	return &Function[I, O]{descriptor: descriptor, fn: fn}, nil
}

// MustFunction is like [NewFunction] but panics on a malformed input type.
// It is meant for package-level tool variables.
func MustFunction[I, O any](name string, fn func(ctx context.Context, input I) (O, error), opts ...FuncOption) *Function[I, O] {
	f, err := NewFunction(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Declaration returns the derived descriptor.
func (f *Function[I, O]) Declaration() Descriptor {
	return f.descriptor
}

// Call decodes args into I, runs the function and encodes its result.
// Results that encode as a JSON object are returned as that object; any
// other result is returned as {"result": value}. Span events are emitted
// when a span is present in ctx.
func (f *Function[I, O]) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, f.descriptor.Name),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	start := time.Now()
	output, err := f.invoke(ctx, args)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, time.Since(start)),
			)
		}
		return nil, err
	}

	if span != nil {
		span.SetAttributes(observability.Duration(observability.AttrToolDuration, time.Since(start)))
	}
	return output, nil
}

func (f *Function[I, O]) invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	var input I
	if isStruct(reflect.TypeFor[I]()) {
		if err := convert(args, &input); err != nil {
			return nil, fmt.Errorf("tool %s: invalid arguments: %w", f.descriptor.Name, err)
		}
	} else if err := convert(args["input"], &input); err != nil {
		return nil, fmt.Errorf("tool %s: invalid input: %w", f.descriptor.Name, err)
	}

	output, err := f.fn(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", f.descriptor.Name, err)
	}

	raw, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("tool %s: encode result: %w", f.descriptor.Name, err)
	}
	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err == nil && asObject != nil {
		return asObject, nil
	}
	var asValue any
	if err := json.Unmarshal(raw, &asValue); err != nil {
		return nil, fmt.Errorf("tool %s: decode result: %w", f.descriptor.Name, err)
	}
	return map[string]any{"result": asValue}, nil
}

// convert moves a decoded JSON value into a typed Go value through a JSON
// round trip.
func convert(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Descriptors returns the declarations of tools, in order.
func Descriptors(tools []Tool) []Descriptor {
	out := make([]Descriptor, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Declaration())
	}
	return out
}
