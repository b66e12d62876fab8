package nlp

import (
	"regexp"
	"strings"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

var (
	formulaRe    = regexp.MustCompile(`\b(?:[A-Z][a-z]?\d*)+\b`)
	elementRe    = regexp.MustCompile(`[A-Z][a-z]?\d*`)
	numberRe     = regexp.MustCompile(`\b\d+\.?\d*\b`)
	mathSymbolRe = regexp.MustCompile(`[0-9x\s+\-*/=^().]+`)
)

// ExtractEntities scans message for every taxonomy entity category plus the
// structural extractors. All matches are collected, not only the first.
func ExtractEntities(message string) map[string][]string {
	out := make(map[string][]string)
	normalized := taxonomy.Normalize(message)

	for _, c := range taxonomy.Entities {
		if hits := c.Hits(normalized); len(hits) > 0 {
			out[c.Label] = hits
		}
	}
	if f := ChemicalFormulas(message); len(f) > 0 {
		out[taxonomy.EntityChemicalFormulas] = f
	}
	if n := numberRe.FindAllString(message, -1); len(n) > 0 {
		out[taxonomy.EntityNumbers] = n
	}
	if m := MathExpressions(message); len(m) > 0 {
		out[taxonomy.EntityMathExpressions] = m
	}
	return out
}

// ChemicalFormulas returns formula-shaped tokens. A lone symbol such as "I"
// or "A" is only accepted when it carries a count, so ordinary capitalized
// words and pronouns are not reported.
func ChemicalFormulas(message string) []string {
	var out []string
	for _, tok := range formulaRe.FindAllString(message, -1) {
		parts := elementRe.FindAllString(tok, -1)
		if len(parts) >= 2 || strings.ContainsAny(tok, "0123456789") {
			out = append(out, tok)
		}
	}
	return out
}

// MathExpressions returns runs of digits, x and operators that contain at
// least one operator and one operand.
func MathExpressions(message string) []string {
	var out []string
	for _, run := range mathSymbolRe.FindAllString(strings.ToLower(message), -1) {
		run = strings.TrimSpace(run)
		if len(run) < 3 {
			continue
		}
		if !strings.ContainsAny(run, "+-*/=^") {
			continue
		}
		if !strings.ContainsAny(run, "0123456789x") {
			continue
		}
		out = append(out, run)
	}
	return out
}
