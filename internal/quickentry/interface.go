package quickentry

import (
	"bookkeeper/pkg/domain"
	"context"
)

// CategoryDirectory provides a user's category directory. The pipeline only
// reads from it.
type CategoryDirectory interface {
	GetCategories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error)
}

// SequenceStore hands out per-day sequence numbers atomically.
type SequenceStore interface {
	AtomicIncrement(ctx context.Context, datePart string) (int64, error)
}

// Response is the outcome of a quick entry as returned to chat and API callers.
type Response struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Entry     *domain.ParsedEntry `json:"entry,omitempty"`
	ErrorKind string              `json:"errorKind,omitempty"`
}

//go:generate mockgen -package mockquickentry -source=interface.go -destination=mock/mockquickentry.go *
type Service interface {
	// Record parses, resolves, allocates an id for and stores a quick entry.
	// Rejected messages yield a Response with Success false and a nil error;
	// an error is returned only for unexpected faults.
	Record(ctx context.Context, input domain.RawInput) (Response, error)
	// Preview runs parsing and category resolution only. Nothing is allocated
	// or stored and the returned entry has a zero id.
	Preview(ctx context.Context, input domain.RawInput) (Response, error)
	// Entry returns a recorded entry of the user.
	Entry(ctx context.Context, userID domain.UserID, id domain.BookkeepingID) (*domain.ParsedEntry, error)
	// Categories returns the user's category directory.
	Categories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error)
}
