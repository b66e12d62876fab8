package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is one entry of the periodic table.
type Element struct {
	Number int
	Symbol string
	Name   string
	Mass   float64
}

var (
	bySymbol   = make(map[string]*Element, len(elementTable))
	byName     = make(map[string]*Element, len(elementTable))
	categories = make(map[int]string)
)

func init() {
	for i := range elementTable {
		e := &elementTable[i]
		bySymbol[e.Symbol] = e
		byName[strings.ToLower(e.Name)] = e
	}
	byName["aluminum"] = bySymbol["Al"]
	byName["cesium"] = bySymbol["Cs"]
	byName["sulphur"] = bySymbol["S"]

	set := func(category string, numbers ...int) {
		for _, n := range numbers {
			categories[n] = category
		}
	}
	set("noble gas", 2, 10, 18, 36, 54, 86, 118)
	set("alkali metal", 3, 11, 19, 37, 55, 87)
	set("alkaline earth metal", 4, 12, 20, 38, 56, 88)
	set("halogen", 9, 17, 35, 53, 85, 117)
	set("metalloid", 5, 14, 32, 33, 51, 52)
	set("nonmetal", 1, 6, 7, 8, 15, 16, 34)
	for n := 57; n <= 71; n++ {
		categories[n] = "lanthanide"
	}
	for n := 89; n <= 103; n++ {
		categories[n] = "actinide"
	}
}

// ElementBySymbol looks up a case-sensitive symbol such as "Na".
func ElementBySymbol(symbol string) (Element, bool) {
	e, ok := bySymbol[symbol]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// ElementByNumber looks up an atomic number.
func ElementByNumber(n int) (Element, bool) {
	if n < 1 || n > len(elementTable) {
		return Element{}, false
	}
	return elementTable[n-1], true
}

// ElementByName looks up an English element name, case-insensitively.
func ElementByName(name string) (Element, bool) {
	e, ok := byName[strings.ToLower(name)]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

var periodStarts = []int{1, 3, 11, 19, 37, 55, 87, 119}

// Period returns the table row.
func (e Element) Period() int {
	for p := 1; p < len(periodStarts); p++ {
		if e.Number < periodStarts[p] {
			return p
		}
	}
	return 0
}

// Group returns the IUPAC group 1-18, or 0 for lanthanides and actinides.
func (e Element) Group() int {
	p := e.Period()
	o := e.Number - periodStarts[p-1]
	switch p {
	case 1:
		if e.Number == 1 {
			return 1
		}
		return 18
	case 2, 3:
		if o < 2 {
			return o + 1
		}
		return o + 11
	case 4, 5:
		return o + 1
	default:
		switch {
		case o < 2:
			return o + 1
		case o <= 16:
			return 0
		default:
			return o - 13
		}
	}
}

// Category is a coarse chemical family.
func (e Element) Category() string {
	if c, ok := categories[e.Number]; ok {
		return c
	}
	if g := e.Group(); g >= 3 && g <= 12 {
		return "transition metal"
	}
	return "post-transition metal"
}

// Phase is the state at standard temperature and pressure, empty when
// unknown.
func (e Element) Phase() string {
	switch e.Number {
	case 1, 2, 7, 8, 9, 10, 17, 18, 36, 54, 86:
		return "gas"
	case 35, 80:
		return "liquid"
	}
	if e.Number > 103 {
		return ""
	}
	return "solid"
}

// Describe renders a short fact sheet.
func (e Element) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", e.Name, e.Symbol)
	fmt.Fprintf(&b, "• Atomic Number: %d\n", e.Number)
	fmt.Fprintf(&b, "• Atomic Mass: %s\n", strconv.FormatFloat(e.Mass, 'f', -1, 64))
	fmt.Fprintf(&b, "• Category: %s\n", e.Category())
	if ph := e.Phase(); ph != "" {
		fmt.Fprintf(&b, "• Phase at STP: %s\n", ph)
	}
	if g := e.Group(); g > 0 {
		fmt.Fprintf(&b, "• Group: %d\n", g)
	}
	fmt.Fprintf(&b, "• Period: %d", e.Period())
	return b.String()
}
