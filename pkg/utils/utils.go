package utils

import "strings"

// NormalizeSymbol upper-cases and trims a ticker symbol. Idempotent.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeSymbols normalizes every symbol in the slice, dropping empties.
func NormalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if normalized := NormalizeSymbol(s); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// ToPointer returns a pointer to the given value.
func ToPointer[T any](value T) *T {
	return &value
}
