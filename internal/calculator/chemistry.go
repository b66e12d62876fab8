package calculator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	formulaRe     = regexp.MustCompile(`\b(?:[A-Z][a-z]?\d*)+\b`)
	elementPartRe = regexp.MustCompile(`([A-Z][a-z]?)(\d*)`)
	validFormula  = regexp.MustCompile(`^(?:[A-Z][a-z]?\d*)+$`)
	atomicNumRe   = regexp.MustCompile(`\b\d{1,3}\b`)
	symbolTokenRe = regexp.MustCompile(`\b[A-Z][a-z]?\b`)
	lowerWordRe   = regexp.MustCompile(`[a-z]+`)
)

// FormulaError reports a formula that cannot be weighed. Symbol is set when
// the formula names an element that does not exist.
type FormulaError struct {
	Formula string
	Symbol  string
}

func (e *FormulaError) Error() string {
	if e.Symbol != "" {
		return "Unknown element: " + e.Symbol
	}
	return "Invalid formula: " + e.Formula
}

// FindFormula returns the first token of message that looks like a
// formula: two or more element parts or a count, such as H2O or NaCl. A
// lone capitalised symbol is returned only when nothing better exists and
// it is not also an English word.
func FindFormula(message string) (string, bool) {
	var single string
	for _, m := range formulaRe.FindAllString(message, -1) {
		if len(elementPartRe.FindAllString(m, -1)) >= 2 || strings.ContainsAny(m, "0123456789") {
			return m, true
		}
		if single == "" && !ambiguousSymbols[m] {
			single = m
		}
	}
	return single, single != ""
}

// Component is one element's share of a molar mass.
type Component struct {
	Element Element
	Count   int
	Mass    float64
}

// MolarMass sums atomic masses over formula. Repeated symbols accumulate,
// so CH3COOH counts two carbons.
func MolarMass(formula string) (float64, []Component, error) {
	if !validFormula.MatchString(formula) {
		return 0, nil, &FormulaError{Formula: formula}
	}

	var (
		total float64
		parts []Component
		index = make(map[string]int)
	)
	for _, m := range elementPartRe.FindAllStringSubmatch(formula, -1) {
		e, ok := ElementBySymbol(m[1])
		if !ok {
			return 0, nil, &FormulaError{Formula: formula, Symbol: m[1]}
		}
		count := 1
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil || n <= 0 {
				return 0, nil, &FormulaError{Formula: formula}
			}
			count = n
		}
		mass := e.Mass * float64(count)
		total += mass
		if i, seen := index[e.Symbol]; seen {
			parts[i].Count += count
			parts[i].Mass += mass
			continue
		}
		index[e.Symbol] = len(parts)
		parts = append(parts, Component{Element: e, Count: count, Mass: mass})
	}
	return total, parts, nil
}

// FormatMolarMass renders a mass the way results are shown to learners.
func FormatMolarMass(m float64) string {
	return fmt.Sprintf("%.3f g/mol", m)
}

type molarMass struct{}

// MolarMassCalculator computes molar masses of formulas found in free text.
func MolarMassCalculator() Calculator { return molarMass{} }

func (molarMass) Name() string { return NameMolarMass }

func (molarMass) Compute(expr string) string {
	formula, ok := FindFormula(expr)
	if !ok {
		return "Please provide a chemical formula (e.g., H2O, CO2, NaCl)"
	}
	total, parts, err := MolarMass(formula)
	if err != nil {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Molar mass of %s:\n", formula)
	for _, p := range parts {
		if p.Count > 1 {
			fmt.Fprintf(&b, "%s: %s × %d = %.3f\n", p.Element.Symbol, strconv.FormatFloat(p.Element.Mass, 'f', -1, 64), p.Count, p.Mass)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", p.Element.Symbol, strconv.FormatFloat(p.Element.Mass, 'f', -1, 64))
	}
	fmt.Fprintf(&b, "Total: %s", FormatMolarMass(total))
	return b.String()
}

// ambiguousSymbols are element symbols that are also common English words.
var ambiguousSymbols = map[string]bool{
	"I": true, "A": true, "In": true, "As": true, "No": true, "At": true, "Be": true, "He": true,
}

// FindElement resolves an element named in free text: by English name
// first, then by a standalone symbol, then by atomic number.
func FindElement(message string) (Element, bool) {
	for _, w := range lowerWordRe.FindAllString(strings.ToLower(message), -1) {
		if e, ok := ElementByName(w); ok {
			return e, true
		}
	}
	for _, tok := range symbolTokenRe.FindAllString(message, -1) {
		if ambiguousSymbols[tok] {
			continue
		}
		if e, ok := ElementBySymbol(tok); ok {
			return e, true
		}
	}
	if m := atomicNumRe.FindString(message); m != "" {
		n, _ := strconv.Atoi(m)
		return ElementByNumber(n)
	}
	return Element{}, false
}

type elementInfo struct{}

// ElementCalculator describes an element named by symbol, name or number.
func ElementCalculator() Calculator { return elementInfo{} }

func (elementInfo) Name() string { return NameElement }

func (elementInfo) Compute(expr string) string {
	e, ok := FindElement(expr)
	if !ok {
		if m := atomicNumRe.FindString(expr); m != "" {
			return fmt.Sprintf("Element with atomic number %s not found.", m)
		}
		return "Please specify an element symbol (e.g., C, H, O) or atomic number"
	}
	return e.Describe()
}
