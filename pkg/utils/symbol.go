// Package utils provides common utility functions for marketmood.
package utils

import (
	"strings"
)

// Common company-name aliases for US tickers.
var symbolAliases = map[string]string{
	"APPLE":     "AAPL",
	"MICROSOFT": "MSFT",
	"GOOGLE":    "GOOGL",
	"ALPHABET":  "GOOGL",
	"AMAZON":    "AMZN",
	"TESLA":     "TSLA",
	"NVIDIA":    "NVDA",
	"META":      "META",
	"FACEBOOK":  "META",
	"NETFLIX":   "NFLX",
	"INTEL":     "INTC",
	"AMD":       "AMD",
	"BOEING":    "BA",
	"DISNEY":    "DIS",
	"WALMART":   "WMT",
	"JPMORGAN":  "JPM",
}

// NormalizeSymbol normalizes a user-input symbol to its canonical ticker.
// It handles cashtag/hashtag prefixes, aliases, uppercasing, and whitespace.
func NormalizeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "#")
	s = strings.ToUpper(s)

	if canonical, ok := symbolAliases[s]; ok {
		return canonical
	}
	return s
}

// IsCashtag checks if a token looks like a $SYMBOL cashtag.
func IsCashtag(token string) bool {
	if len(token) < 2 || token[0] != '$' {
		return false
	}
	for _, r := range token[1:] {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
