package core

import "time"

const (
	ModeAll   Mode = "all"
	ModeDay   Mode = "day"
	ModeMonth Mode = "month"
)

type (
	// Mode selects the coarse time window of a summary request.
	Mode string

	// Window is an inclusive [From, To] date range. Empty strings mean the
	// bound is absent; an all-mode window has neither bound set.
	Window struct {
		From string
		To   string
	}
)

func (m Mode) Valid() bool {
	return m == ModeAll || m == ModeDay || m == ModeMonth
}

// Bounded reports whether any filter should be applied at all.
func (w Window) Bounded() bool {
	return w.From != "" || w.To != ""
}

// ResolveWindow translates a mode plus anchor date into a concrete range.
// A malformed or missing anchor falls back to now's date rather than
// erroring; callers always get a usable window. The returned anchor is the
// one actually used.
//
//	all   -> unbounded
//	day   -> [anchor, anchor]
//	month -> [first day of anchor's month, last day of anchor's month]
//
// The month end is computed as the first day of the next month minus one
// day, which handles 28/29/30/31-day months without a lookup table.
func ResolveWindow(mode Mode, anchor string, now time.Time) (Window, string) {
	if !ValidDate(anchor) {
		anchor = now.Format("2006-01-02")
	}

	switch mode {
	case ModeDay:
		return Window{From: anchor, To: anchor}, anchor
	case ModeMonth:
		t, _ := time.Parse("2006-01-02", anchor)
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return Window{
			From: first.Format("2006-01-02"),
			To:   last.Format("2006-01-02"),
		}, anchor
	default:
		return Window{}, anchor
	}
}
