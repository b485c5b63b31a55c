package utils

import (
	"strings"
)

func StringPtr(s string) *string {
	return &s
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func Int64Ptr(i int64) *int64 {
	return &i
}

func DefaultString(s *string, defaultValue string) string {
	if s == nil {
		return defaultValue
	}
	return *s
}

func DefaultFloat64(f *float64, defaultValue float64) float64 {
	if f == nil {
		return defaultValue
	}
	return *f
}

func DefaultInt64(i *int64, defaultValue int64) int64 {
	if i == nil {
		return defaultValue
	}
	return *i
}

// RemoveWhitespace returns nil for blank strings so optional config values
// set to "" fall back to their defaults.
func RemoveWhitespace(str string) *string {
	if strings.TrimSpace(str) == "" {
		return nil
	}
	return &str
}

// Plural appends "s" to word when n is greater than one.
func Plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}
