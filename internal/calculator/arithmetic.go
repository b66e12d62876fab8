package calculator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	errDivisionByZero = errors.New("division by zero")
	arithmeticRunRe   = regexp.MustCompile(`[0-9.\s+\-*/^()]+`)
	arithmeticOnlyRe  = regexp.MustCompile(`^[0-9.\s+\-*/^()]+$`)
	arithmeticLeadIns = []string{"what is", "what's", "calculate", "compute", "evaluate"}
)

// IsArithmetic reports whether message is nothing but an arithmetic
// expression, optionally introduced by "what is" or "calculate" and ended by
// a question mark.
func IsArithmetic(message string) bool {
	expr := stripLeadIn(message)
	return arithmeticOnlyRe.MatchString(expr) && hasOperator(expr) && strings.ContainsAny(expr, "0123456789")
}

func stripLeadIn(message string) string {
	s := strings.ToLower(strings.TrimSpace(message))
	s = strings.TrimRight(s, "?=! ")
	for _, lead := range arithmeticLeadIns {
		if strings.HasPrefix(s, lead) {
			s = strings.TrimSpace(strings.TrimPrefix(s, lead))
			break
		}
	}
	return s
}

func hasOperator(s string) bool {
	// A leading minus alone is a sign, not an operator.
	return strings.ContainsAny(strings.TrimLeft(strings.TrimSpace(s), "-"), "+-*/^")
}

// Evaluate computes a real-valued arithmetic expression with + - * / ^ and
// parentheses. ^ is right-associative and binds tighter than unary minus.
// The functions of the trigonometry calculator and pi are available, with
// angles in radians.
func Evaluate(expr string) (float64, error) {
	return evaluate(expr, evalOptions{})
}

// evalOptions changes how evaluate reads an expression. x is the value of
// the variable; without it x is rejected.
type evalOptions struct {
	degrees bool
	x       *float64
}

func evaluate(expr string, opts evalOptions) (float64, error) {
	p := &arithParser{lex: newLexer(expr), opts: opts}
	if err := p.lex.err(); err != nil {
		return 0, err
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.lex.peek(); t.kind != tokEOF {
		return 0, fmt.Errorf("unexpected %q", t.text)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.New("result is not a finite number")
	}
	return v, nil
}

type arithParser struct {
	lex  *lexer
	opts evalOptions
}

func (p *arithParser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		t := p.lex.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return v, nil
		}
		p.lex.next()
		rhs, err := p.term()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (p *arithParser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		t := p.lex.peek()
		if t.kind == tokIdent || t.kind == tokVar || t.kind == tokLParen {
			// Implicit multiplication: 2sin(x), 2(3 + 1).
			rhs, err := p.power()
			if err != nil {
				return 0, err
			}
			v *= rhs
			continue
		}
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return v, nil
		}
		p.lex.next()
		rhs, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			v *= rhs
			continue
		}
		if rhs == 0 {
			return 0, errDivisionByZero
		}
		v /= rhs
	}
}

func (p *arithParser) unary() (float64, error) {
	t := p.lex.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.lex.next()
		v, err := p.unary()
		if t.text == "-" {
			v = -v
		}
		return v, err
	}
	return p.power()
}

func (p *arithParser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if t := p.lex.peek(); t.kind == tokOp && t.text == "^" {
		p.lex.next()
		exp, err := p.unary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *arithParser) primary() (float64, error) {
	t := p.lex.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return 0, fmt.Errorf("bad number %q", t.text)
		}
		return v, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.lex.next().kind != tokRParen {
			return 0, errors.New("missing closing parenthesis")
		}
		return v, nil
	case tokVar:
		if p.opts.x == nil {
			return 0, fmt.Errorf("unexpected %q", t.text)
		}
		return *p.opts.x, nil
	case tokIdent:
		if t.text == "pi" {
			return math.Pi, nil
		}
		return p.call(t.text)
	case tokEOF:
		return 0, errors.New("expression ends too early")
	}
	return 0, fmt.Errorf("unexpected %q", t.text)
}

// call applies a named function. The argument may be parenthesized or a
// bare operand, as in sin 30.
func (p *arithParser) call(name string) (float64, error) {
	fn, ok := functions[name]
	if !ok {
		return 0, fmt.Errorf("unknown function %q", name)
	}
	var (
		arg float64
		err error
	)
	if p.lex.peek().kind == tokLParen {
		arg, err = p.primary()
	} else {
		arg, err = p.unary()
	}
	if err != nil {
		return 0, err
	}
	if fn.angle && p.opts.degrees {
		arg = arg * math.Pi / 180
	}
	return fn.eval(name, arg)
}

type arithmetic struct{}

// ArithmeticCalculator evaluates plain arithmetic found in a message.
func ArithmeticCalculator() Calculator { return arithmetic{} }

func (arithmetic) Name() string { return NameArithmetic }

func (arithmetic) Compute(expr string) string {
	e := stripLeadIn(expr)
	if !arithmeticOnlyRe.MatchString(e) {
		e = longestRun(arithmeticRunRe, e, hasOperator)
	}
	e = strings.TrimSpace(e)
	if e == "" {
		return "Please give me an expression to evaluate, like 3 * (4 + 5)."
	}

	v, err := Evaluate(e)
	if err != nil {
		return fmt.Sprintf("Could not evaluate %s: %v", e, err)
	}
	return fmt.Sprintf("%s = %s", e, formatNumber(v))
}

// longestRun returns the longest regexp match in s that satisfies keep.
func longestRun(re *regexp.Regexp, s string, keep func(string) bool) string {
	var best string
	for _, m := range re.FindAllString(s, -1) {
		m = strings.TrimSpace(m)
		if len(m) > len(best) && keep(m) {
			best = m
		}
	}
	return best
}
