package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences v, falling back to the zero value.
func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// SameValue reports whether both pointers are set and hold equal values.
func SameValue[T comparable](a, b *T) bool {
	return a != nil && b != nil && *a == *b
}

// StringOrNil trims s, giving nil when nothing is left.
func StringOrNil(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
