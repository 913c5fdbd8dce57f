package postgres

import (
	"bookkeeper/pkg/domain"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type PgCategory struct {
	UserID   string `db:"user_id"`
	Position int    `db:"position"`

	MajorCode string          `db:"major_code"`
	MajorName string          `db:"major_name"`
	SubCode   string          `db:"sub_code"`
	SubName   string          `db:"sub_name"`
	Synonyms  json.RawMessage `db:"synonyms"`
}

func (p *PgCategory) ToDomain() (domain.CategoryRecord, error) {
	var synonyms []string
	if len(p.Synonyms) > 0 {
		if err := json.Unmarshal(p.Synonyms, &synonyms); err != nil {
			return domain.CategoryRecord{}, fmt.Errorf("could not unmarshal synonyms of %s: %w", p.SubCode, err)
		}
	}

	return domain.CategoryRecord{
		MajorCode: p.MajorCode,
		MajorName: p.MajorName,
		SubCode:   p.SubCode,
		SubName:   p.SubName,
		Synonyms:  synonyms,
	}, nil
}

func (p *PgCategory) FromDomain(userID domain.UserID, position int, category domain.CategoryRecord) error {
	synonyms := category.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	b, err := json.Marshal(synonyms)
	if err != nil {
		return fmt.Errorf("could not marshal synonyms: %w", err)
	}

	*p = PgCategory{
		UserID:    string(userID),
		Position:  position,
		MajorCode: category.MajorCode,
		MajorName: category.MajorName,
		SubCode:   category.SubCode,
		SubName:   category.SubName,
		Synonyms:  b,
	}

	return nil
}

type PgEntry struct {
	ID       string        `db:"id"`
	DatePart string        `db:"date_part"`
	Sequence sql.NullInt64 `db:"sequence"`
	UserID   string        `db:"user_id"`

	Amount        int64  `db:"amount"`
	Direction     string `db:"direction"`
	MajorCode     string `db:"major_code"`
	MajorName     string `db:"major_name"`
	SubCode       string `db:"sub_code"`
	SubName       string `db:"sub_name"`
	PaymentMethod string `db:"payment_method"`
	RawText       string `db:"raw_text"`

	CreatedAt time.Time `db:"created_at"`
}

func (p *PgEntry) ToDomain() (*domain.ParsedEntry, error) {
	id := domain.BookkeepingID{DatePart: p.DatePart}
	if p.Sequence.Valid {
		id.Sequence = int(p.Sequence.Int64)
	} else {
		id.Fallback = p.ID
	}
	if id.String() != p.ID {
		return nil, fmt.Errorf("stored entry id %q does not match its date part and sequence", p.ID)
	}

	// synonyms are a property of the directory, not of the entry snapshot
	return &domain.ParsedEntry{
		ID:        id,
		UserID:    domain.UserID(p.UserID),
		Amount:    p.Amount,
		Direction: domain.Direction(p.Direction),
		Category: domain.CategoryRecord{
			MajorCode: p.MajorCode,
			MajorName: p.MajorName,
			SubCode:   p.SubCode,
			SubName:   p.SubName,
		},
		PaymentMethod: p.PaymentMethod,
		RawText:       p.RawText,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func (p *PgEntry) FromDomain(entry domain.ParsedEntry) {
	*p = PgEntry{
		ID:       entry.ID.String(),
		DatePart: entry.ID.DatePart,
		Sequence: sql.NullInt64{
			Int64: int64(entry.ID.Sequence),
			Valid: !entry.ID.IsFallback(),
		},
		UserID:        string(entry.UserID),
		Amount:        entry.Amount,
		Direction:     string(entry.Direction),
		MajorCode:     entry.Category.MajorCode,
		MajorName:     entry.Category.MajorName,
		SubCode:       entry.Category.SubCode,
		SubName:       entry.Category.SubName,
		PaymentMethod: entry.PaymentMethod,
		RawText:       entry.RawText,
		CreatedAt:     entry.CreatedAt,
	}
}
