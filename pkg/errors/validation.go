package errors

import (
	"math"
	"slices"
	"strings"
)

// ValidateSpacing checks that a spacing option is a finite, non-negative
// number.
func ValidateSpacing(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeConfiguration, "%s must be a finite number, got %v", field, v)
	}
	if v < 0 {
		return New(ErrCodeConfiguration, "%s must not be negative, got %v", field, v)
	}
	return nil
}

// ValidateOneOf checks an enumerated option. The comparison ignores case;
// an empty value is accepted when allowEmpty is set.
func ValidateOneOf(field, value string, allowEmpty bool, allowed ...string) error {
	if value == "" && allowEmpty {
		return nil
	}
	if slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, value) }) {
		return nil
	}
	return New(ErrCodeConfiguration, "invalid %s %q (want one of %s)", field, value, strings.Join(allowed, ", "))
}

// ValidateEdgeAttrs checks the ranking attributes of edge v->w: the weight
// must not be negative and the minimum length must be at least one rank.
func ValidateEdgeAttrs(v, w string, weight, minlen int) error {
	if weight < 0 {
		return New(ErrCodeConfiguration, "edge %s->%s: weight must not be negative, got %d", v, w, weight)
	}
	if minlen < 1 {
		return New(ErrCodeConfiguration, "edge %s->%s: minlen must be at least 1, got %d", v, w, minlen)
	}
	return nil
}

// ValidateNodeSize checks that a node's box is finite and non-negative.
func ValidateNodeSize(id string, width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return New(ErrCodeInvalidGraph, "node %s: size must be finite and non-negative, got %vx%v", id, width, height)
		}
	}
	return nil
}
