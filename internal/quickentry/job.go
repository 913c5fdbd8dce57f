package quickentry

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// ConfirmationJobArgs are the arguments of the job delivering the confirmation
// text of a recorded entry. The entry id is the unique key, so an entry is
// confirmed at most once.
type ConfirmationJobArgs struct {
	// EntryID is the bookkeeping id of the recorded entry.
	EntryID string `json:"entryId" river:"unique"`
	// UserID is the owner of the entry.
	UserID string `json:"userId"`
	// RequestID correlates the delivery with the request that recorded the entry.
	RequestID string `json:"requestId,omitempty"`
	// Message is the rendered confirmation text.
	Message string `json:"message"`

	maxAttempts int
}

// NewConfirmationJobArgs returns job arguments allowing maxAttempts deliveries.
func NewConfirmationJobArgs(entryID, userID, requestID, message string, maxAttempts int) ConfirmationJobArgs {
	return ConfirmationJobArgs{
		EntryID:     entryID,
		UserID:      userID,
		RequestID:   requestID,
		Message:     message,
		maxAttempts: maxAttempts,
	}
}

// Kind returns the River job kind the confirmation worker is registered under.
func (args ConfirmationJobArgs) Kind() string { return "EntryConfirmationJob" }

// InsertOpts limits delivery attempts and keeps a single job per entry in any
// live or completed state.
func (args ConfirmationJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
