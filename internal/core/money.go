// Package core holds the pure domain logic of the ledger: money parsing,
// date-window resolution, transaction validation and QR text extraction.
// Nothing in this package performs I/O or holds state across calls.
package core

import (
	"strconv"
	"strings"
)

// ParseAmountToCents converts a human-entered decimal amount into integer
// cents. It accepts both dot (12.34) and comma (12,34) decimal separators
// and at most two fractional digits; a shorter fraction is right-padded
// (so "3.5" means 350 cents). Any other shape, including sign prefixes, a
// third fractional digit, non-digits or empty input, is rejected, as is any
// value that does not come out strictly positive.
//
// Amounts are kept in cents everywhere so that sums over many rows stay
// exact; only display formatting divides by 100.
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}
	if intPart == "" || len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}
	for i := 0; i < len(intPart); i++ {
		if intPart[i] < '0' || intPart[i] > '9' {
			return 0, ErrInvalidAmount
		}
	}
	for i := 0; i < len(fracPart); i++ {
		if fracPart[i] < '0' || fracPart[i] > '9' {
			return 0, ErrInvalidAmount
		}
	}
	// "12." has a separator but no fraction
	if strings.HasSuffix(s, ".") {
		return 0, ErrInvalidAmount
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
		}
	}

	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatCents renders cents as a canonical two-decimal string, preserving
// the sign for derived values such as a negative balance.
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
