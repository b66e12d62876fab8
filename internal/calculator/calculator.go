// Package calculator holds the domain calculators the assistant can run
// on a message: molar mass and element facts, arithmetic, polynomial
// algebra and calculus in x, trigonometry and plane geometry. Calculators answer in plain text and report
// bad input as text rather than failing.
package calculator

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
)

// Calculator names.
const (
	NameMolarMass    = "molar_mass"
	NameElement      = "element"
	NameArithmetic   = "arithmetic"
	NameAlgebra      = "algebra"
	NameSimplify     = "simplify"
	NameDerivative   = "derivative"
	NameIntegral     = "integral"
	NameTrigonometry = "trigonometry"
	NameGeometry     = "geometry"
)

// Calculator turns an expression, or a message containing one, into a
// readable answer.
type Calculator interface {
	Name() string
	Compute(expr string) string
}

// Registry resolves calculators by name.
type Registry struct {
	calcs map[string]Calculator
}

// NewRegistry builds a registry from calcs. A later calculator replaces an
// earlier one with the same name.
func NewRegistry(calcs ...Calculator) *Registry {
	r := &Registry{calcs: make(map[string]Calculator, len(calcs))}
	for _, c := range calcs {
		r.calcs[c.Name()] = c
	}
	return r
}

// Default returns a registry with every built-in calculator.
func Default() *Registry {
	return NewRegistry(
		MolarMassCalculator(),
		ElementCalculator(),
		ArithmeticCalculator(),
		AlgebraCalculator(),
		SimplifyCalculator(),
		DerivativeCalculator(),
		IntegralCalculator(),
		TrigCalculator(),
		GeometryCalculator(),
	)
}

func (r *Registry) Get(name string) (Calculator, bool) {
	c, ok := r.calcs[name]
	return c, ok
}

// Names lists registered calculators in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.calcs))
	for n := range r.calcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Compute runs the named calculator. An unknown name or a panicking
// calculator yields an apology instead of an error.
func (r *Registry) Compute(name, expr string) (out string) {
	c, ok := r.calcs[name]
	if !ok {
		return "Sorry, I don't know how to calculate that."
	}
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("calculator panicked", "calculator", name, "panic", rec)
			out = "Sorry, I couldn't work that out. Please check the expression and try again."
		}
	}()
	return c.Compute(expr)
}

// formatNumber prints v with up to ten significant digits and no trailing
// zeros.
func formatNumber(v float64) string {
	if v == 0 || math.Abs(v) < 1e-12 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 10, 64)
}
