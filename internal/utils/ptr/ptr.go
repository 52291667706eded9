// Package ptr has small pointer helpers used to build partial updates.
package ptr

// To creates a pointer to the given value.
// This is a generic utility function that works with any type.
func To[T any](v T) *T {
	return &v
}

// String creates a pointer to the given string value.
func String(s string) *string {
	return &s
}

// Bool creates a pointer to the given bool value.
func Bool(b bool) *bool {
	return &b
}

// Deref returns the pointed-to value, or the zero value for nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Changes reports whether p carries a value different from current.
// A nil pointer never changes anything.
func Changes[T comparable](p *T, current T) bool {
	return p != nil && *p != current
}
