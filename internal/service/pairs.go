package service

import (
	"slices"
	"strings"
)

// pairSeparators are stripped from requested pair codes, so "USD/CAD",
// "USD-CAD" and "USD CAD" all select the USDCAD column.
var pairSeparators = strings.NewReplacer("/", "", "-", "", "_", "", ".", "", " ", "")

// NormalizePair removes separators from a pair code. Case is preserved.
func NormalizePair(code string) string {
	return pairSeparators.Replace(code)
}

// PairSelector chooses which currency-pair columns a query returns.
// The zero value selects every pair.
type PairSelector struct {
	codes    []string
	specific bool
}

// AllPairs selects every column of the table.
func AllPairs() PairSelector {
	return PairSelector{}
}

// SpecificPairs selects the given pair codes, in order.
func SpecificPairs(codes ...string) PairSelector {
	return PairSelector{codes: slices.Clone(codes), specific: true}
}

// IsAll reports whether the selector keeps every column.
func (p PairSelector) IsAll() bool {
	return !p.specific
}

// Codes returns the requested codes with separators removed.
func (p PairSelector) Codes() []string {
	out := make([]string, len(p.codes))
	for i, c := range p.codes {
		out[i] = NormalizePair(c)
	}
	return out
}

func (p PairSelector) String() string {
	if p.IsAll() {
		return "All"
	}
	return strings.Join(p.codes, ",")
}
