package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMolarMass(t *testing.T) {
	tests := []struct {
		formula string
		want    float64
	}{
		{"H2O", 18.015},
		{"CO2", 44.009},
		{"NaCl", 58.44},
		{"CH3COOH", 60.052},
		{"C6H12O6", 180.156},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, _, err := MolarMass(tt.formula)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestMolarMassAccumulatesRepeatedSymbols(t *testing.T) {
	_, parts, err := MolarMass("CH3COOH")
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, "C", parts[0].Element.Symbol)
	assert.Equal(t, 2, parts[0].Count)
	assert.Equal(t, 4, parts[1].Count)
	assert.Equal(t, 2, parts[2].Count)
}

func TestMolarMassErrors(t *testing.T) {
	_, _, err := MolarMass("Xx2")
	var fe *FormulaError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Unknown element: Xx", err.Error())

	_, _, err = MolarMass("h2o")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Invalid formula: h2o", err.Error())
}

func TestMolarMassCalculator(t *testing.T) {
	c := MolarMassCalculator()
	out := c.Compute("what is the molar mass of H2O?")
	assert.Contains(t, out, "Molar mass of H2O:")
	assert.Contains(t, out, "H: 1.008 × 2 = 2.016")
	assert.Contains(t, out, "Total: 18.015 g/mol")

	assert.Equal(t, "Unknown element: Xx", c.Compute("molar mass of Xx2"))
	assert.Contains(t, c.Compute("calculate molar mass please"), "Please provide a chemical formula")
}

func TestFindFormula(t *testing.T) {
	f, ok := FindFormula("I need the molecular weight of NaCl")
	require.True(t, ok)
	assert.Equal(t, "NaCl", f)

	_, ok = FindFormula("I wonder")
	assert.False(t, ok)
}

func TestElementLookups(t *testing.T) {
	c, ok := ElementByNumber(6)
	require.True(t, ok)
	assert.Equal(t, "Carbon", c.Name)
	assert.Equal(t, 14, c.Group())
	assert.Equal(t, 2, c.Period())
	assert.Equal(t, "nonmetal", c.Category())

	fe, ok := ElementBySymbol("Fe")
	require.True(t, ok)
	assert.Equal(t, 8, fe.Group())
	assert.Equal(t, 4, fe.Period())
	assert.Equal(t, "transition metal", fe.Category())

	ce, ok := ElementByName("cerium")
	require.True(t, ok)
	assert.Equal(t, 0, ce.Group())
	assert.Equal(t, "lanthanide", ce.Category())

	og, ok := ElementByNumber(118)
	require.True(t, ok)
	assert.Equal(t, 18, og.Group())
	assert.Equal(t, 7, og.Period())

	_, ok = ElementByNumber(119)
	assert.False(t, ok)
	al, ok := ElementByName("Aluminum")
	require.True(t, ok)
	assert.Equal(t, "Al", al.Symbol)
}

func TestElementCalculator(t *testing.T) {
	c := ElementCalculator()
	out := c.Compute("element info 6")
	assert.Contains(t, out, "Carbon (C)")
	assert.Contains(t, out, "• Atomic Number: 6")
	assert.Contains(t, out, "• Group: 14")
	assert.Contains(t, out, "• Period: 2")

	assert.Contains(t, c.Compute("tell me about oxygen"), "Oxygen (O)")
	assert.Contains(t, c.Compute("what is Na"), "Sodium (Na)")
	assert.Equal(t, "Element with atomic number 150 not found.", c.Compute("element info 150"))
	assert.Equal(t, "Please specify an element symbol (e.g., C, H, O) or atomic number", c.Compute("element info"))
}
