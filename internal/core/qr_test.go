package core

import (
	"strings"
	"testing"
)

func TestExtractQRHintAmount(t *testing.T) {
	cases := []struct {
		in     string
		amount string
	}{
		{"TOTAL 12.34 EUR", "12.34"},
		{"TOTAL 12,34 EUR", "12.34"},
		{"receipt 5", "5"},
		{"x 999999.99 y", "999999.99"},
		{"no digits here", ""},
		{"first 3.50 then 9.99", "3.50"},
	}
	for _, tc := range cases {
		hint := ExtractQRHint(tc.in)
		if hint.Amount != tc.amount {
			t.Fatalf("%q: expected amount %q, got %q", tc.in, tc.amount, hint.Amount)
		}
	}
}

func TestExtractQRHintNoteTruncation(t *testing.T) {
	long := strings.Repeat("à", 300)
	hint := ExtractQRHint(long)
	runes := []rune(hint.Note)
	if len(runes) != 121 {
		t.Fatalf("expected 120 runes plus ellipsis, got %d runes", len(runes))
	}
	if runes[len(runes)-1] != '…' {
		t.Fatalf("expected ellipsis marker, got %q", string(runes[len(runes)-1]))
	}

	short := "coffee 3.50"
	if got := ExtractQRHint(short).Note; got != short {
		t.Fatalf("short note should pass through, got %q", got)
	}
}

func TestExtractQRHintTrimsInput(t *testing.T) {
	hint := ExtractQRHint("   market 7,25  ")
	if hint.Amount != "7.25" {
		t.Fatalf("expected 7.25, got %q", hint.Amount)
	}
	if hint.Note != "market 7,25" {
		t.Fatalf("expected trimmed note, got %q", hint.Note)
	}
}
