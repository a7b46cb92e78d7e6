// Package version orders version strings the way PHP's version_compare does,
// which is the ordering metadata servers for plugins and themes assume.
package version

import (
	"strconv"
	"strings"
)

// Order is the result of comparing two versions.
type Order int

// Possible orders.
const (
	Less    Order = -1
	Equal   Order = 0
	Greater Order = 1
)

func (o Order) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	}
	return "equal"
}

// specialForms are the recognized tags in matching order with their weight.
// A tag matches the first form it starts with; "#" stands in for a number.
var specialForms = []struct {
	name   string
	weight int
}{
	{"dev", 0},
	{"alpha", 1},
	{"a", 1},
	{"beta", 2},
	{"b", 2},
	{"RC", 3},
	{"rc", 3},
	{"#", 4},
	{"pl", 5},
	{"p", 5},
}

const unknownForm = -6

// Compare compares a with b.
func Compare(a, b string) Order {
	left := canonicalize(a)
	right := canonicalize(b)

	if len(left) == 0 || len(right) == 0 {
		switch {
		case len(left) == 0 && len(right) == 0:
			return Equal
		case len(left) == 0:
			return Less
		default:
			return Greater
		}
	}

	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		var order Order
		switch {
		case i >= len(left):
			order = compareMissing(right[i]).negate()
		case i >= len(right):
			order = compareMissing(left[i])
		default:
			order = compareSegments(left[i], right[i])
		}
		if order != Equal {
			return order
		}
	}

	return Equal
}

// GreaterThan reports whether a is strictly newer than b.
func GreaterThan(a, b string) bool {
	return Compare(a, b) == Greater
}

func (o Order) negate() Order {
	return -o
}

// compareMissing orders a segment against the end of the other version.
// A trailing number is always newer; a trailing tag is compared against "#".
func compareMissing(segment string) Order {
	if isNumeric(segment) {
		return Greater
	}
	return compareSegments(segment, "#")
}

func compareSegments(a, b string) Order {
	aNumeric, bNumeric := isNumeric(a), isNumeric(b)
	switch {
	case aNumeric && bNumeric:
		return compareNumbers(a, b)
	case !aNumeric && !bNumeric:
		return compareInts(formWeight(a), formWeight(b))
	case aNumeric:
		return compareInts(formWeight("#"), formWeight(b))
	default:
		return compareInts(formWeight(a), formWeight("#"))
	}
}

func compareNumbers(a, b string) Order {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return compareInts(len(a), len(b))
	}
	return compareInts(strings.Compare(a, b), 0)
}

func compareInts(a, b int) Order {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	}
	return Equal
}

// formWeight finds the weight of a tag. Tags matching no special form sort
// below "dev".
func formWeight(segment string) int {
	for _, form := range specialForms {
		if strings.HasPrefix(segment, form.name) {
			return form.weight
		}
	}
	return unknownForm
}

func isNumeric(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// canonicalize splits a version into segments: every rune that is not an
// ASCII letter or digit is a separator and a separator is inserted wherever
// digits meet letters, so "1.0rc1" yields ["1", "0", "rc", "1"].
func canonicalize(v string) []string {
	var segments []string
	var current strings.Builder
	var lastKind int // 0 none, 1 digit, 2 other

	flush := func() {
		if current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
		}
		lastKind = 0
	}

	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			if lastKind == 2 {
				flush()
			}
			current.WriteRune(r)
			lastKind = 1
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if lastKind == 1 {
				flush()
			}
			current.WriteRune(r)
			lastKind = 2
		default:
			flush()
		}
	}
	flush()

	return segments
}

// Normalize returns v with its segments joined by dots, e.g. "1.0-RC1"
// becomes "1.0.RC.1".
func Normalize(v string) string {
	return strings.Join(canonicalize(v), ".")
}

// Major returns the leading numeric segment of v, or -1 when there is none.
func Major(v string) int {
	segments := canonicalize(v)
	if len(segments) == 0 || !isNumeric(segments[0]) {
		return -1
	}
	major, err := strconv.Atoi(segments[0])
	if err != nil {
		return -1
	}
	return major
}
