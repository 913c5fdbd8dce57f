// Package notifier defines the interface used to deliver entry confirmations
// to the user through an external messaging provider.
package notifier

import (
	"context"
	"time"
)

// RateLimitStatus describes the rate-limit window reported by the provider.
type RateLimitStatus struct {
	Limit     int       // Limit is the total number of allowed requests in the current window.
	Remaining int       // Remaining indicates how many requests are left in the current window.
	ResetAt   time.Time // ResetAt is when the window resets. Zero when the provider sent nothing.
}

// Confirmation is a rendered message about a recorded entry.
type Confirmation struct {
	EntryID   string
	UserID    string
	RequestID string
	Text      string
}

// Client delivers confirmations.
//
//go:generate mockgen -package mocknotifier -source=interface.go -destination=mock/mocknotifier.go *
type Client interface {
	// Send delivers the confirmation and returns the provider's rate-limit
	// status. A confirmation the provider already accepted fails with
	// serrors.ErrConflict.
	Send(ctx context.Context, confirmation Confirmation) (RateLimitStatus, error)
}
