package core

import (
	"regexp"
	"strings"
)

// amountPattern matches the first plausible monetary amount inside decoded
// QR text: up to six integer digits, optionally a decimal separator and one
// or two more digits.
var amountPattern = regexp.MustCompile(`\d{1,6}([.,]\d{1,2})?`)

const maxQRNoteLen = 120

// QRHint carries best-effort prefill candidates extracted from decoded QR
// text. Either field may be empty; absence simply leaves the form field for
// manual entry.
type QRHint struct {
	Amount string
	Note   string
}

// ExtractQRHint scans raw decoded QR text for an amount candidate and
// derives a note from the text itself, truncated to 120 runes with an
// ellipsis marker. It never fails.
func ExtractQRHint(text string) QRHint {
	s := strings.TrimSpace(text)

	var amount string
	if m := amountPattern.FindString(s); m != "" {
		amount = strings.ReplaceAll(m, ",", ".")
	}

	note := s
	if runes := []rune(s); len(runes) > maxQRNoteLen {
		note = string(runes[:maxQRNoteLen]) + "…"
	}

	return QRHint{Amount: amount, Note: note}
}
