package models

import "strings"

// NormalizeSymbol trims whitespace and upper-cases a ticker symbol.
// No further validation is performed; an empty result is rejected at
// the API boundary.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
