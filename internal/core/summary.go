package core

// CategorySum is an amount aggregated by (kind, category).
type CategorySum struct {
	Kind     Kind
	Category string
	Cents    int64
}

// Totals holds the windowed totals in cents. Balance is signed and may be
// negative.
type Totals struct {
	IncomeCents  int64
	ExpenseCents int64
	BalanceCents int64
}

// Summary is the full aggregate for a resolved window.
type Summary struct {
	Mode       Mode
	Date       string
	Window     Window
	Totals     Totals
	ByCategory []CategorySum
}

// BuildTotals derives income/expense/balance from a per-kind sum map,
// defaulting missing kinds to zero.
func BuildTotals(byKind map[Kind]int64) Totals {
	income := byKind[Income]
	expense := byKind[Expense]
	return Totals{
		IncomeCents:  income,
		ExpenseCents: expense,
		BalanceCents: income - expense,
	}
}
