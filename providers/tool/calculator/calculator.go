// Package calculator is a small callable tool for arithmetic. It mainly
// serves as the reference example of a tool built with tool.NewFunction.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/leofalp/agentils/providers/tool"
)

// Name is the function name the model sees.
const Name = "calculate"

// ErrDivisionByZero is returned for "div" and "mod" with a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Input is the parameter list of the calculate function.
type Input struct {
	A  float64 `json:"a" jsonschema:"description=First operand"`
	B  float64 `json:"b" jsonschema:"description=Second operand"`
	Op string  `json:"op" jsonschema:"description=Operation to apply,enum=add,enum=sub,enum=mul,enum=div,enum=pow,enum=mod"`
}

// Output is returned to the model as {"result": value}.
type Output struct {
	Result float64 `json:"result"`
}

// New returns the calculate tool.
func New() *tool.Function[Input, Output] {
	return tool.MustFunction(Name, Calc,
		tool.WithDescription("Apply a basic arithmetic operation (add sub mul div pow mod) to two numbers."),
	)
}

// Calc applies in.Op to in.A and in.B. Symbols (+ - * / ^ %) are accepted
// alongside the operation names.
func Calc(_ context.Context, in Input) (Output, error) {
	switch in.Op {
	case "add", "+":
		return Output{Result: in.A + in.B}, nil
	case "sub", "-":
		return Output{Result: in.A - in.B}, nil
	case "mul", "*":
		return Output{Result: in.A * in.B}, nil
	case "div", "/":
		if in.B == 0 {
			return Output{}, ErrDivisionByZero
		}
		return Output{Result: in.A / in.B}, nil
	case "pow", "^":
		return Output{Result: math.Pow(in.A, in.B)}, nil
	case "mod", "%":
		if in.B == 0 {
			return Output{}, ErrDivisionByZero
		}
		return Output{Result: math.Mod(in.A, in.B)}, nil
	default:
		return Output{}, fmt.Errorf("unsupported operation %q", in.Op)
	}
}
