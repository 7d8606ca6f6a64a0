package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	MaxCategoryLen = 40
	MaxNoteLen     = 200
)

type (
	// Kind classifies a transaction as income or expense.
	Kind string

	// Transaction is the sole persisted entity: a flat, immutable ledger row.
	// ID and CreatedAt are assigned by the store on insert.
	Transaction struct {
		ID          int64
		Kind        Kind
		Category    string
		AmountCents int64
		Note        string
		OccurredOn  string // YYYY-MM-DD
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidKind     = errors.New("kind must be 'income' or 'expense'")
	ErrEmptyCategory   = errors.New("category is required")
	ErrCategoryTooLong = errors.New("category too long (max 40 characters)")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
	ErrInvalidAmount   = errors.New("amount must be a positive number with at most 2 decimals")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// ParseKind normalizes and validates a kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Validate checks every invariant a transaction must satisfy before it may
// reach the store. All validation happens here, before any persistence call;
// the aggregator trusts stored rows.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len([]rune(t.Category)) > MaxCategoryLen {
		return ErrCategoryTooLong
	}
	if len([]rune(t.Note)) > MaxNoteLen {
		return ErrNoteTooLong
	}
	if t.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if !ValidDate(t.OccurredOn) {
		return ErrInvalidDate
	}
	return nil
}

// ValidDate reports whether s is a real calendar date in strict
// YYYY-MM-DD shape.
func ValidDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// SanitizeText trims whitespace, strips control characters and truncates to
// max runes. Used to normalize category and note before validation.
func SanitizeText(s string, max int) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
