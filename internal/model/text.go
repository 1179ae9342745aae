package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold returns the Unicode case-folded form of s. A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return fold(a) == fold(b)
}

// ContainsFold reports whether substr is within s under Unicode case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}
