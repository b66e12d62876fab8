package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ErrUnsupportedDegree is returned for equations above degree two.
var ErrUnsupportedDegree = errors.New("only linear and quadratic equations are supported")

// Solution is the outcome of solving an equation in x.
type Solution struct {
	// Any is set when every x satisfies the equation.
	Any   bool
	Roots []string
}

func (s Solution) String() string {
	switch {
	case s.Any:
		return "Every x is a solution."
	case len(s.Roots) == 0:
		return "No solution."
	}
	parts := make([]string, len(s.Roots))
	for i, r := range s.Roots {
		parts[i] = "x = " + r
	}
	return "Solution(s): " + strings.Join(parts, ", ")
}

// Solve solves a polynomial equation in x. Without an "=" the expression is
// set equal to zero. Rational roots are exact; irrational roots are
// approximated.
func Solve(equation string) (Solution, error) {
	sides := strings.Split(equation, "=")
	if len(sides) > 2 {
		return Solution{}, errors.New("an equation can have only one '='")
	}
	p, err := ParsePoly(sides[0])
	if err != nil {
		return Solution{}, err
	}
	if len(sides) == 2 {
		rhs, err := ParsePoly(sides[1])
		if err != nil {
			return Solution{}, err
		}
		p = p.Sub(rhs)
	}

	switch p.Degree() {
	case -1:
		return Solution{Any: true}, nil
	case 0:
		return Solution{}, nil
	case 1:
		root := new(big.Rat).Quo(new(big.Rat).Neg(p[0]), p[1])
		return Solution{Roots: []string{formatRat(root)}}, nil
	case 2:
		return solveQuadratic(p[2], p[1], p[0]), nil
	}
	return Solution{}, ErrUnsupportedDegree
}

func solveQuadratic(a, b, c *big.Rat) Solution {
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	negB := new(big.Rat).Neg(b)

	switch disc.Sign() {
	case 0:
		return Solution{Roots: []string{formatRat(new(big.Rat).Quo(negB, twoA))}}
	case 1:
		if s, ok := ratSqrt(disc); ok {
			r1 := new(big.Rat).Quo(new(big.Rat).Sub(negB, s), twoA)
			r2 := new(big.Rat).Quo(new(big.Rat).Add(negB, s), twoA)
			if r1.Cmp(r2) > 0 {
				r1, r2 = r2, r1
			}
			return Solution{Roots: []string{formatRat(r1), formatRat(r2)}}
		}
		af, _ := a.Float64()
		bf, _ := b.Float64()
		df, _ := disc.Float64()
		roots := []float64{(-bf - math.Sqrt(df)) / (2 * af), (-bf + math.Sqrt(df)) / (2 * af)}
		sort.Float64s(roots)
		return Solution{Roots: []string{formatNumber(roots[0]), formatNumber(roots[1])}}
	}

	af, _ := a.Float64()
	re, _ := new(big.Rat).Quo(negB, twoA).Float64()
	nd, _ := new(big.Rat).Neg(disc).Float64()
	im := math.Sqrt(nd) / math.Abs(2*af)
	return Solution{Roots: []string{
		fmt.Sprintf("%s + %si", formatNumber(re), formatNumber(im)),
		fmt.Sprintf("%s - %si", formatNumber(re), formatNumber(im)),
	}}
}

// ratSqrt returns the exact square root of a non-negative rational when
// both numerator and denominator are perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	num, den := r.Num(), r.Denom()
	sn, sd := new(big.Int).Sqrt(num), new(big.Int).Sqrt(den)
	if new(big.Int).Mul(sn, sn).Cmp(num) != 0 || new(big.Int).Mul(sd, sd).Cmp(den) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}

type algebra struct{}

// AlgebraCalculator solves linear and quadratic equations found in a
// message, such as "solve 2x + 3 = 7".
func AlgebraCalculator() Calculator { return algebra{} }

func (algebra) Name() string { return NameAlgebra }

func (algebra) Compute(expr string) string {
	eq := MathPart(expr)
	if eq == "" {
		return "Please give me an equation in x to solve, like 2x + 3 = 7."
	}
	sol, err := Solve(eq)
	if errors.Is(err, ErrUnsupportedDegree) {
		return "I can only solve linear and quadratic equations in x."
	}
	if err != nil {
		return fmt.Sprintf("Could not solve %s: %v", eq, err)
	}
	return sol.String()
}

type simplify struct{}

// SimplifyCalculator expands and collects a polynomial in x.
func SimplifyCalculator() Calculator { return simplify{} }

func (simplify) Name() string { return NameSimplify }

func (simplify) Compute(expr string) string {
	e := MathPart(expr)
	if e == "" {
		return "Please give me an expression in x to simplify, like (x + 1)^2."
	}
	p, err := ParsePoly(e)
	if err != nil {
		return fmt.Sprintf("Could not simplify %s: %v", e, err)
	}
	return fmt.Sprintf("%s = %s", e, p)
}
