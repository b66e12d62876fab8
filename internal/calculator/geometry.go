package calculator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	geoNumberRe  = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	geoNamedRe   = regexp.MustCompile(`\b(radius|diameter|base|height|length|width|side|hypotenuse|leg|[abc])\s*(?:=|:|of|is)?\s*(-?\d+(?:\.\d+)?)`)
	geoShapeRe   = regexp.MustCompile(`\b(?:circles?|triangles?|rectangles?|squares?)\b`)
	geoMeasureRe = regexp.MustCompile(`\b(?:area|perimeter)\b`)
	geoCircleRe  = regexp.MustCompile(`\b(?:circles?|circumference|radius|diameter)\b`)
	geoPythagRe  = regexp.MustCompile(`\b(?:hypotenuse|pythagorean|pythagoras|right triangle)\b`)
)

// IsGeometry reports whether message asks for an area, a perimeter or a
// side of a right triangle and gives at least one number.
func IsGeometry(message string) bool {
	lower := strings.ToLower(message)
	if !geoNumberRe.MatchString(lower) {
		return false
	}
	if geoPythagRe.MatchString(lower) || strings.Contains(lower, "circumference") {
		return true
	}
	return geoMeasureRe.MatchString(lower) && geoShapeRe.MatchString(lower)
}

type geometry struct{}

// GeometryCalculator handles circles, triangles, rectangles and squares,
// and the Pythagorean theorem. Measurements may be named ("radius 3",
// "base = 4") or given in order.
func GeometryCalculator() Calculator { return geometry{} }

func (geometry) Name() string { return NameGeometry }

// measurements holds named values and every number in message order.
type measurements struct {
	named map[string]float64
	nums  []float64
}

func readMeasurements(lower string) measurements {
	m := measurements{named: make(map[string]float64)}
	for _, g := range geoNamedRe.FindAllStringSubmatch(lower, -1) {
		if v, err := strconv.ParseFloat(g[2], 64); err == nil {
			if _, seen := m.named[g[1]]; !seen {
				m.named[g[1]] = v
			}
		}
	}
	for _, raw := range geoNumberRe.FindAllString(lower, -1) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			m.nums = append(m.nums, v)
		}
	}
	return m
}

// value returns the first named value among keys, else the i-th number.
func (m measurements) value(i int, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m.named[k]; ok {
			return v, true
		}
	}
	if i < len(m.nums) {
		return m.nums[i], true
	}
	return 0, false
}

func (geometry) Compute(message string) string {
	lower := strings.ToLower(message)
	m := readMeasurements(lower)
	wantArea := strings.Contains(lower, "area")

	switch {
	case geoPythagRe.MatchString(lower) && !wantArea:
		return pythagoras(m)
	case geoCircleRe.MatchString(lower):
		return circle(lower, m)
	case strings.Contains(lower, "triangle"):
		return triangleArea(m)
	case strings.Contains(lower, "rectangle"):
		return rectangle(m)
	case strings.Contains(lower, "square"):
		return square(m)
	}
	return `I can work out circles, triangle and rectangle areas, squares and the Pythagorean theorem. Try "area of a circle with radius 3".`
}

func positive(vals ...float64) bool {
	for _, v := range vals {
		if v <= 0 {
			return false
		}
	}
	return true
}

const geoNonPositive = "Lengths must be positive numbers."

func circle(lower string, m measurements) string {
	r, ok := m.named["radius"]
	if !ok {
		if d, hasD := m.named["diameter"]; hasD {
			r, ok = d/2, true
		} else {
			r, ok = m.value(0)
		}
	}
	if !ok {
		return "Please give me the radius (or the diameter) of the circle."
	}
	if !positive(r) {
		return geoNonPositive
	}

	rs := formatNumber(r)
	area := fmt.Sprintf("Area of a circle with radius %s: π × %s² ≈ %.2f square units", rs, rs, math.Pi*r*r)
	circ := fmt.Sprintf("Circumference of a circle with radius %s: 2π × %s ≈ %.2f units", rs, rs, 2*math.Pi*r)
	switch {
	case strings.Contains(lower, "circumference") || strings.Contains(lower, "perimeter"):
		return circ
	case strings.Contains(lower, "area"):
		return area
	}
	return area + "\n" + circ
}

func triangleArea(m measurements) string {
	b, okB := m.value(0, "base")
	h, okH := m.value(1, "height")
	if !okB || !okH {
		return "Please give me the base and the height of the triangle."
	}
	if !positive(b, h) {
		return geoNonPositive
	}
	return fmt.Sprintf("Triangle area: ½ × %s × %s = %s square units", formatNumber(b), formatNumber(h), formatNumber(b*h/2))
}

func rectangle(m measurements) string {
	l, okL := m.value(0, "length")
	w, okW := m.value(1, "width")
	if !okL || !okW {
		return "Please give me the length and the width of the rectangle."
	}
	if !positive(l, w) {
		return geoNonPositive
	}
	ls, ws := formatNumber(l), formatNumber(w)
	return fmt.Sprintf("Rectangle area: %s × %s = %s square units\nPerimeter: 2(%s + %s) = %s units",
		ls, ws, formatNumber(l*w), ls, ws, formatNumber(2*(l+w)))
}

func square(m measurements) string {
	s, ok := m.value(0, "side", "length")
	if !ok {
		return "Please give me the side length of the square."
	}
	if !positive(s) {
		return geoNonPositive
	}
	ss := formatNumber(s)
	return fmt.Sprintf("Square area: %s² = %s square units\nPerimeter: 4 × %s = %s units", ss, formatNumber(s*s), ss, formatNumber(4*s))
}

// pythagoras finds the hypotenuse from two legs, or a leg from the
// hypotenuse and the other leg.
func pythagoras(m measurements) string {
	if c, ok := m.named["hypotenuse"]; ok || hasKey(m.named, "c") {
		if !ok {
			c = m.named["c"]
		}
		a, okA := m.named["a"]
		if !okA {
			a, okA = m.named["leg"]
		}
		if !okA {
			a, okA = m.named["b"]
		}
		if !okA {
			a, okA = otherNumber(m.nums, c)
		}
		if !okA {
			return "Please give me the hypotenuse and one other side."
		}
		if !positive(a, c) {
			return geoNonPositive
		}
		if c <= a {
			return "Invalid triangle: the hypotenuse must be longer than the other sides."
		}
		sq := c*c - a*a
		return fmt.Sprintf("Missing side: √(%s² - %s²) = √%s = %s units",
			formatNumber(c), formatNumber(a), formatNumber(sq), formatNumber(math.Sqrt(sq)))
	}

	a, okA := m.value(0, "a", "leg")
	b, okB := m.value(1, "b")
	if !okA || !okB {
		return "Please give me exactly two sides to find the third."
	}
	if !positive(a, b) {
		return geoNonPositive
	}
	sq := a*a + b*b
	return fmt.Sprintf("Hypotenuse: √(%s² + %s²) = √%s = %s units",
		formatNumber(a), formatNumber(b), formatNumber(sq), formatNumber(math.Sqrt(sq)))
}

func hasKey(m map[string]float64, k string) bool {
	_, ok := m[k]
	return ok
}

// otherNumber returns the first number that is not the hypotenuse itself.
func otherNumber(nums []float64, c float64) (float64, bool) {
	for _, n := range nums {
		if n != c {
			return n, true
		}
	}
	return 0, false
}
