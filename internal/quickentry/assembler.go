package quickentry

import (
	"bookkeeper/pkg/domain"
	"strings"
	"time"
)

// Assembler builds entries from the outputs of the earlier stages. It has no
// side effects.
type Assembler struct {
	incomeMajorCodes []string
}

// NewAssembler returns an Assembler treating categories whose major code
// starts with one of incomeMajorCodes as income.
func NewAssembler(incomeMajorCodes []string) Assembler {
	return Assembler{incomeMajorCodes: incomeMajorCodes}
}

// Direction returns the money flow of an entry: explicit negatives are always
// expenses, otherwise the category's major code decides.
func (a Assembler) Direction(fragments domain.ParsedFragments, category domain.CategoryRecord) domain.Direction {
	if fragments.IsExplicitNegative {
		return domain.DirectionExpense
	}
	for _, code := range a.incomeMajorCodes {
		if code != "" && strings.HasPrefix(category.MajorCode, code) {
			return domain.DirectionIncome
		}
	}

	return domain.DirectionExpense
}

// Assemble combines the parsed fragments, the resolved category and the
// allocated id into an entry.
func (a Assembler) Assemble(fragments domain.ParsedFragments,
	match domain.MatchResult,
	id domain.BookkeepingID,
	userID domain.UserID,
	rawText string,
	createdAt time.Time) domain.ParsedEntry {
	category := match.Category
	category.Synonyms = append([]string(nil), category.Synonyms...)

	return domain.ParsedEntry{
		ID:            id,
		UserID:        userID,
		Amount:        fragments.Amount,
		Direction:     a.Direction(fragments, category),
		Category:      category,
		PaymentMethod: fragments.PaymentMethod,
		RawText:       rawText,
		CreatedAt:     createdAt,
	}
}
