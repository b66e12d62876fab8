package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

type function struct {
	angle bool // argument is an angle
	eval  func(name string, v float64) (float64, error)
}

var errUndefined = errors.New("undefined at that angle")

var functions = map[string]function{
	"sin":  {true, func(_ string, v float64) (float64, error) { return snap(math.Sin(v)), nil }},
	"cos":  {true, func(_ string, v float64) (float64, error) { return snap(math.Cos(v)), nil }},
	"tan":  {true, ratio(math.Sin, math.Cos)},
	"cot":  {true, ratio(math.Cos, math.Sin)},
	"sec":  {true, ratio(func(float64) float64 { return 1 }, math.Cos)},
	"csc":  {true, ratio(func(float64) float64 { return 1 }, math.Sin)},
	"sqrt": {false, squareRoot},
}

func squareRoot(_ string, v float64) (float64, error) {
	if v < 0 {
		return 0, errors.New("square root of a negative number")
	}
	return math.Sqrt(v), nil
}

func isIdent(word string) bool {
	_, ok := functions[word]
	return ok || word == "pi"
}

// ratio builds num/den and reports the angles where den vanishes.
func ratio(num, den func(float64) float64) func(string, float64) (float64, error) {
	return func(name string, v float64) (float64, error) {
		d := snap(den(v))
		if d == 0 {
			return 0, fmt.Errorf("%s is %w", name, errUndefined)
		}
		return snap(num(v)) / d, nil
	}
}

// snap clears the rounding residue of sin and cos at multiples of 90°.
func snap(v float64) float64 {
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}

var (
	trigCallRe   = regexp.MustCompile(`(?:sin|cos|tan|cot|sec|csc)\s*(?:\(|-?\d|x\b|pi\b|π)`)
	degToRadRe   = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:°|degrees?\b|deg\b)\s*(?:to|in|into)\s+radians?\b`)
	radToDegRe   = regexp.MustCompile(`(\S+)\s*(?:radians?|rad)\s+(?:to|in|into)\s+degrees?\b`)
	angleUnitRe  = regexp.MustCompile(`°|\b(?:degrees?|deg|radians?|rad)\b`)
	radiansRe    = regexp.MustCompile(`\b(?:radians?|rad)\b|\bpi\b|π`)
	trigPrefixRe = regexp.MustCompile(`[0-9.()\s*+\-/^]*$`)
)

// IsTrig reports whether message applies a trigonometric function or asks
// for a degree/radian conversion.
func IsTrig(message string) bool {
	lower := strings.ToLower(message)
	return trigCallRe.MatchString(lower) || degToRadRe.MatchString(lower) || radToDegRe.MatchString(lower)
}

type trigonometry struct{}

// TrigCalculator evaluates sin, cos, tan, cot, sec and csc, converts between
// degrees and radians, solves simple equations in x over one turn and
// recognizes common identities. Angles are degrees unless the message talks
// about radians or pi.
func TrigCalculator() Calculator { return trigonometry{} }

func (trigonometry) Name() string { return NameTrigonometry }

func (trigonometry) Compute(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	if m := degToRadRe.FindStringSubmatch(lower); m != nil {
		return degreesToRadians(m[1])
	}
	if m := radToDegRe.FindStringSubmatch(lower); m != nil {
		return radiansToDegrees(m[1])
	}

	degrees := !radiansRe.MatchString(lower)
	expr := trigExpression(lower)
	if expr == "" {
		return "Please give me a trigonometric expression, like sin(30) or tan(45 degrees)."
	}

	switch {
	case strings.Contains(expr, "="):
		return solveTrig(expr, degrees)
	case strings.Contains(expr, "x"):
		return simplifyTrig(expr)
	}

	v, err := evaluate(expr, evalOptions{degrees: degrees})
	if err != nil {
		return fmt.Sprintf("Could not evaluate %s: %v", expr, err)
	}
	return fmt.Sprintf("%s = %s (angles in %s)", expr, formatNumber(v), unitName(degrees))
}

func unitName(degrees bool) string {
	if degrees {
		return "degrees"
	}
	return "radians"
}

// trigExpression cuts the expression out of a message: from the first
// function call, plus any numeric prefix, to the end.
func trigExpression(lower string) string {
	s := strings.ReplaceAll(stripLeadIn(lower), "**", "^")
	s = strings.TrimSpace(strings.TrimPrefix(s, "simplify"))
	s = strings.TrimPrefix(s, "solve")
	s = angleUnitRe.ReplaceAllString(s, " ")
	loc := trigCallRe.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	start := loc[0]
	if p := trigPrefixRe.FindStringIndex(s[:start]); p != nil {
		start = p[0]
	}
	s = strings.TrimRight(strings.TrimSpace(s[start:]), "?.! ")
	s = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(s, "for x")), ",")
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func degreesToRadians(raw string) string {
	deg, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Sprintf("Could not read %s as an angle.", raw)
	}
	rad := deg * math.Pi / 180
	if deg == math.Trunc(deg) {
		return fmt.Sprintf("%s° = %s ≈ %.4f radians", raw, piFraction(big.NewRat(int64(deg), 180)), rad)
	}
	return fmt.Sprintf("%s° ≈ %.4f radians", raw, rad)
}

func radiansToDegrees(raw string) string {
	rad, err := Evaluate(raw)
	if err != nil {
		return fmt.Sprintf("Could not read %s as an angle: %v", raw, err)
	}
	return fmt.Sprintf("%s radians = %s°", raw, formatNumber(math.Round(rad*180/math.Pi*1e4)/1e4))
}

// piFraction renders r·π, as in π/2 or 3π/4.
func piFraction(r *big.Rat) string {
	if r.Sign() == 0 {
		return "0"
	}
	num, den := r.Num().Int64(), r.Denom().Int64()
	var s string
	switch num {
	case 1:
		s = "π"
	case -1:
		s = "-π"
	default:
		s = strconv.FormatInt(num, 10) + "π"
	}
	if den != 1 {
		s += "/" + strconv.FormatInt(den, 10)
	}
	return s
}

// identities are the forms simplifyTrig recognizes, simplest first.
var identities = []string{
	"0", "1", "-1", "2",
	"sin(x)", "cos(x)", "tan(x)", "cot(x)", "sec(x)", "csc(x)",
	"sin(x)^2", "cos(x)^2", "tan(x)^2", "sec(x)^2", "csc(x)^2", "cot(x)^2",
	"sin(2x)", "cos(2x)", "tan(2x)",
}

// Radian sample points away from the poles of every function above.
var samplePoints = []float64{0.3, 0.7, 1.1, 2.3, -0.9}

// simplifyTrig compares expr numerically against known identities.
func simplifyTrig(expr string) string {
	want, err := sampleValues(expr)
	if err != nil {
		return fmt.Sprintf("Could not evaluate %s: %v", expr, err)
	}
	compact := strings.ReplaceAll(expr, " ", "")
	for _, form := range identities {
		got, err := sampleValues(form)
		if err != nil || !sameValues(want, got) {
			continue
		}
		if form == compact {
			return fmt.Sprintf("%s is already in its simplest form.", expr)
		}
		return fmt.Sprintf("Simplified: %s = %s", expr, form)
	}
	return fmt.Sprintf("I couldn't simplify %s any further.", expr)
}

func sampleValues(expr string) ([]float64, error) {
	out := make([]float64, len(samplePoints))
	for i, x := range samplePoints {
		v, err := evaluate(expr, evalOptions{x: &x})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func sameValues(a, b []float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9*math.Max(1, math.Abs(a[i])) {
			return false
		}
	}
	return true
}

// solveTrig finds the solutions of lhs = rhs over one turn, [0°, 360°) or
// [0, 2π), by scanning for sign changes and bisecting.
func solveTrig(expr string, degrees bool) string {
	lhs, rhs, ok := strings.Cut(expr, "=")
	if !ok || strings.Contains(rhs, "=") {
		return "Please give me a single equation, like sin(x) = 0.5."
	}
	f := func(x float64) (float64, bool) {
		l, err := evaluate(lhs, evalOptions{degrees: degrees, x: &x})
		if err != nil {
			return 0, false
		}
		r, err := evaluate(rhs, evalOptions{degrees: degrees, x: &x})
		if err != nil {
			return 0, false
		}
		return l - r, true
	}

	period, step := 2*math.Pi, 2*math.Pi/720
	if degrees {
		period, step = 360, 0.5
	}

	var roots []float64
	add := func(x float64) {
		x = math.Round(x*1e4) / 1e4
		if x >= period {
			x -= period
		}
		for _, r := range roots {
			if math.Abs(r-x) < 1e-3 {
				return
			}
		}
		roots = append(roots, x)
	}

	prevX := 0.0
	prev, prevOK := f(prevX)
	for i := 1; i <= 720; i++ {
		x := float64(i) * step
		cur, curOK := f(x)
		switch {
		case prevOK && math.Abs(prev) < 1e-12:
			add(prevX)
		case prevOK && curOK && math.Signbit(prev) != math.Signbit(cur) && cur != 0:
			if root, ok := bisect(f, prevX, x); ok {
				add(root)
			}
		}
		prevX, prev, prevOK = x, cur, curOK
	}

	if len(roots) == 0 {
		return fmt.Sprintf("No solutions for %s in one full turn.", expr)
	}
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = "x = " + formatNumber(r)
		if degrees {
			parts[i] += "°"
		}
	}
	interval := "[0°, 360°)"
	if !degrees {
		interval = "[0, 2π)"
	}
	return fmt.Sprintf("Solutions in %s: %s", interval, strings.Join(parts, ", "))
}

// bisect narrows a sign change down to a root. A sign change across a pole
// does not converge to a small value and is rejected.
func bisect(f func(float64) (float64, bool), lo, hi float64) (float64, bool) {
	flo, _ := f(lo)
	for range 60 {
		mid := (lo + hi) / 2
		fm, ok := f(mid)
		if !ok {
			return 0, false
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	v, ok := f((lo + hi) / 2)
	return (lo + hi) / 2, ok && math.Abs(v) < 1e-6
}
