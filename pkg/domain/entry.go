package domain

import "time"

// Direction is the money flow of an entry.
type Direction string

const (
	// DirectionIncome marks money coming in.
	DirectionIncome Direction = "INCOME"
	// DirectionExpense marks money going out.
	DirectionExpense Direction = "EXPENSE"
)

// Label returns the Traditional Chinese label shown to users.
func (d Direction) Label() string {
	if d == DirectionIncome {
		return "收入"
	}

	return "支出"
}

// ParsedEntry is an accepted quick entry. It is created once matching and ID
// allocation both succeeded and is never modified afterwards: corrections are
// recorded as new entries.
type ParsedEntry struct {
	// ID is the date-scoped identifier allocated for the entry.
	ID BookkeepingID `json:"id"`
	// UserID is the owner of the entry.
	UserID UserID `json:"userId"`
	// Amount is the positive integer amount of the entry.
	Amount int64 `json:"amount"`
	// Direction tells whether the amount is income or expense.
	Direction Direction `json:"direction"`
	// Category is the resolved category.
	Category CategoryRecord `json:"category"`
	// PaymentMethod is one of PaymentMethods().
	PaymentMethod string `json:"paymentMethod"`
	// RawText is the message the entry was parsed from.
	RawText string `json:"rawText"`
	// CreatedAt is the time the entry was accepted.
	CreatedAt time.Time `json:"createdAt"`
}
