package util

import "strings"

// NormalizeSymbol uppercases and trims a free-form symbol string.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// TruncateSymbols returns at most max symbols, preserving order.
func TruncateSymbols(symbols []string, max int) []string {
	if max > 0 && len(symbols) > max {
		return symbols[:max]
	}
	return symbols
}
