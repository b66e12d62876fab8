package brain

import (
	"context"
	"fmt"

	"github.com/mentari-platform/mentari/internal/calculator"
)

var calcTopics = map[string]string{
	calculator.NameMolarMass:  "Chemistry",
	calculator.NameElement:    "Chemistry",
	calculator.NameArithmetic: "Mathematics",
	calculator.NameAlgebra:    "Algebra",
	calculator.NameSimplify:   "Algebra",
	calculator.NameDerivative: "Calculus",
	calculator.NameIntegral:   "Calculus",

	calculator.NameTrigonometry: "Trigonometry",
	calculator.NameGeometry:     "Geometry",
}

// handleCalculation runs the calculator the predicate picked. Calculators
// report bad input as text, so this never fails.
func (b *Brain) handleCalculation(_ context.Context, t *turn) (Envelope, error) {
	c := t.calc
	if c.name == "" {
		return Envelope{}, fmt.Errorf("calculator route without a calculator")
	}
	result := b.calcs.Compute(c.name, c.expr)
	t.topic = calcTopics[c.name]
	return Envelope{
		Text: result,
		Card: &CalculationCard{
			Type:       CardCalculation,
			Calculator: c.name,
			Input:      c.expr,
			Result:     result,
		},
	}, nil
}
