package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	maxExponent = 20
	maxDegree   = 60
)

var (
	mathRunRe      = regexp.MustCompile(`[0-9xX+\-*/=^().\s]+`)
	calculusMarkRe = regexp.MustCompile(`\bd/dx\b|\bdx\b|∫`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// MathPart extracts the longest run of message that reads as a polynomial
// expression or equation in x. Markers like d/dx and dx are ignored.
func MathPart(message string) string {
	s := calculusMarkRe.ReplaceAllString(message, " ")
	run := longestRun(mathRunRe, s, func(m string) bool {
		return strings.ContainsAny(m, "0123456789xX")
	})
	return spaceRe.ReplaceAllString(strings.TrimRight(strings.TrimSpace(run), ". "), " ")
}

// Poly is a polynomial in x with exact rational coefficients. Index i holds
// the coefficient of x^i; the slice is kept free of trailing zeros.
type Poly []*big.Rat

func constant(r *big.Rat) Poly { return Poly{new(big.Rat).Set(r)}.trim() }

func monomial(coef int64, degree int) Poly {
	p := make(Poly, degree+1)
	for i := range p {
		p[i] = new(big.Rat)
	}
	p[degree].SetInt64(coef)
	return p.trim()
}

func (p Poly) trim() Poly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

// Degree returns -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p) - 1 }

func (p Poly) IsZero() bool { return len(p) == 0 }

// Coef returns the coefficient of x^i.
func (p Poly) Coef(i int) *big.Rat {
	if i < 0 || i >= len(p) {
		return new(big.Rat)
	}
	return new(big.Rat).Set(p[i])
}

func (p Poly) Add(q Poly) Poly {
	n := max(len(p), len(q))
	out := make(Poly, n)
	for i := range out {
		out[i] = new(big.Rat).Add(p.Coef(i), q.Coef(i))
	}
	return out.trim()
}

func (p Poly) Neg() Poly { return p.Scale(big.NewRat(-1, 1)) }

func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

func (p Poly) Scale(r *big.Rat) Poly {
	out := make(Poly, len(p))
	for i, c := range p {
		out[i] = new(big.Rat).Mul(c, r)
	}
	return out.trim()
}

func (p Poly) Mul(q Poly) (Poly, error) {
	if p.IsZero() || q.IsZero() {
		return nil, nil
	}
	if p.Degree()+q.Degree() > maxDegree {
		return nil, fmt.Errorf("degree above %d is not supported", maxDegree)
	}
	out := make(Poly, len(p)+len(q)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	var t big.Rat
	for i, a := range p {
		for j, b := range q {
			out[i+j].Add(out[i+j], t.Mul(a, b))
		}
	}
	return out.trim(), nil
}

// Derivative differentiates term by term.
func (p Poly) Derivative() Poly {
	if len(p) < 2 {
		return nil
	}
	out := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], big.NewRat(int64(i), 1))
	}
	return out.trim()
}

// Integral returns the antiderivative with a zero constant term.
func (p Poly) Integral() Poly {
	if p.IsZero() {
		return nil
	}
	out := make(Poly, len(p)+1)
	out[0] = new(big.Rat)
	for i, c := range p {
		out[i+1] = new(big.Rat).Quo(c, big.NewRat(int64(i+1), 1))
	}
	return out.trim()
}

// String prints terms in descending degree, like 3x^2 - 2x + (1/2).
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i := len(p) - 1; i >= 0; i-- {
		c := p[i]
		if c.Sign() == 0 {
			continue
		}
		abs := new(big.Rat).Abs(c)
		switch {
		case b.Len() == 0 && c.Sign() < 0:
			b.WriteString("-")
		case b.Len() > 0 && c.Sign() < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if i == 0 {
			b.WriteString(formatRat(abs))
			continue
		}
		if abs.Cmp(big.NewRat(1, 1)) != 0 {
			if abs.IsInt() {
				b.WriteString(abs.Num().String())
			} else {
				fmt.Fprintf(&b, "(%s)", abs.RatString())
			}
		}
		b.WriteString("x")
		if i > 1 {
			fmt.Fprintf(&b, "^%d", i)
		}
	}
	return b.String()
}

func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

// ParsePoly parses a polynomial expression in x. Multiplication may be
// implicit, as in 3x^2 or 2(x + 1). Division is allowed only by a nonzero
// constant and exponents must be whole numbers up to 20.
func ParsePoly(expr string) (Poly, error) {
	p := &polyParser{lex: newLexer(expr)}
	if err := p.lex.err(); err != nil {
		return nil, err
	}
	if p.lex.peek().kind == tokEOF {
		return nil, errors.New("empty expression")
	}
	out, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.lex.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q", t.text)
	}
	return out, nil
}

type polyParser struct {
	lex *lexer
}

func (p *polyParser) expr() (Poly, error) {
	v, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t := p.lex.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return v, nil
		}
		p.lex.next()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			v = v.Add(rhs)
		} else {
			v = v.Sub(rhs)
		}
	}
}

func (p *polyParser) term() (Poly, error) {
	v, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.lex.peek()
		switch {
		case t.kind == tokOp && t.text == "*":
			p.lex.next()
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			if v, err = v.Mul(rhs); err != nil {
				return nil, err
			}
		case t.kind == tokOp && t.text == "/":
			p.lex.next()
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			if rhs.Degree() > 0 {
				return nil, errors.New("can only divide by a number")
			}
			if rhs.IsZero() {
				return nil, errDivisionByZero
			}
			v = v.Scale(new(big.Rat).Inv(rhs[0]))
		case t.kind == tokVar || t.kind == tokLParen:
			rhs, err := p.power()
			if err != nil {
				return nil, err
			}
			if v, err = v.Mul(rhs); err != nil {
				return nil, err
			}
		default:
			return v, nil
		}
	}
}

func (p *polyParser) unary() (Poly, error) {
	t := p.lex.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.lex.next()
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			v = v.Neg()
		}
		return v, nil
	}
	return p.power()
}

func (p *polyParser) power() (Poly, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if t := p.lex.peek(); t.kind != tokOp || t.text != "^" {
		return base, nil
	}
	p.lex.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	n, err := smallExponent(exp)
	if err != nil {
		return nil, err
	}
	out := monomial(1, 0)
	for range n {
		if out, err = out.Mul(base); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func smallExponent(exp Poly) (int, error) {
	if exp.Degree() > 0 {
		return 0, errors.New("exponents must be numbers")
	}
	e := exp.Coef(0)
	if !e.IsInt() || e.Sign() < 0 || e.Cmp(big.NewRat(maxExponent, 1)) > 0 {
		return 0, fmt.Errorf("exponents must be whole numbers from 0 to %d", maxExponent)
	}
	return int(e.Num().Int64()), nil
}

func (p *polyParser) primary() (Poly, error) {
	t := p.lex.next()
	switch t.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("bad number %q", t.text)
		}
		return constant(r), nil
	case tokVar:
		return monomial(1, 1), nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.lex.next().kind != tokRParen {
			return nil, errors.New("missing closing parenthesis")
		}
		return v, nil
	case tokEOF:
		return nil, errors.New("expression ends too early")
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}
