package calculator

import (
	"fmt"
	"strings"
)

type derivative struct{}

// DerivativeCalculator differentiates a polynomial in x.
func DerivativeCalculator() Calculator { return derivative{} }

func (derivative) Name() string { return NameDerivative }

func (derivative) Compute(expr string) string {
	e, p, msg := calculusInput(expr, "differentiate")
	if msg != "" {
		return msg
	}
	return fmt.Sprintf("d/dx(%s) = %s", e, p.Derivative())
}

type integral struct{}

// IntegralCalculator integrates a polynomial in x.
func IntegralCalculator() Calculator { return integral{} }

func (integral) Name() string { return NameIntegral }

func (integral) Compute(expr string) string {
	e, p, msg := calculusInput(expr, "integrate")
	if msg != "" {
		return msg
	}
	anti := p.Integral()
	if anti.IsZero() {
		return fmt.Sprintf("∫(%s) dx = C", e)
	}
	return fmt.Sprintf("∫(%s) dx = %s + C", e, anti)
}

func calculusInput(expr, verb string) (string, Poly, string) {
	e := MathPart(expr)
	if e == "" {
		return "", nil, fmt.Sprintf("Please give me a polynomial in x to %s, like 3x^2 + 2x.", verb)
	}
	if strings.Contains(e, "=") {
		return "", nil, fmt.Sprintf("I can %s expressions, not equations.", verb)
	}
	p, err := ParsePoly(e)
	if err != nil {
		return "", nil, fmt.Sprintf("Could not %s %s: %v", verb, e, err)
	}
	return e, p, ""
}
