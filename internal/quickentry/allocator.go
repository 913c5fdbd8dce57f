package quickentry

import (
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/serrors"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Allocator assigns date-scoped sequential ids. It never reads a counter and
// writes it back: every allocation is a single atomic increment in the
// SequenceStore, so concurrent callers for the same day get distinct values
// and callers for different days never contend.
type Allocator struct {
	store    SequenceStore
	location *time.Location
	now      func() time.Time
}

// NewAllocator returns an Allocator backed by store. Date parts are computed
// in location.
func NewAllocator(store SequenceStore, location *time.Location) *Allocator {
	if location == nil {
		location = time.UTC
	}

	return &Allocator{store: store, location: location, now: time.Now}
}

// WithStore returns a copy of the allocator using store, typically a
// transaction-bound storage handle.
func (a *Allocator) WithStore(store SequenceStore) *Allocator {
	c := *a
	c.store = store

	return &c
}

// WithClock returns a copy of the allocator reading the current time from now.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	c := *a
	c.now = now

	return &c
}

// DatePart returns the id date part of t.
func (a *Allocator) DatePart(t time.Time) string {
	return t.In(a.location).Format(domain.DatePartLayout)
}

// Allocate returns the next id of date's day.
func (a *Allocator) Allocate(ctx context.Context, date time.Time) (domain.BookkeepingID, error) {
	datePart := a.DatePart(date)

	seq, err := a.store.AtomicIncrement(ctx, datePart)
	if err != nil {
		return domain.BookkeepingID{}, serrors.Wrap(ErrAllocatorUnavailable, err,
			"could not increment sequence of %s", datePart)
	}
	if seq > domain.MaxSequence {
		return domain.BookkeepingID{}, serrors.With(ErrSequenceExhausted,
			"all %d sequence numbers of %s are used", domain.MaxSequence, datePart)
	}
	if seq < 1 {
		return domain.BookkeepingID{}, serrors.With(ErrAllocatorUnavailable,
			"sequence store returned %d for %s", seq, datePart)
	}

	return domain.BookkeepingID{DatePart: datePart, Sequence: int(seq)}, nil
}

// AllocateFallback returns a timestamp based id that needs no sequence store:
// "YYYYMMDD-THHMMSSmmm-xxxxxx" with a random hex suffix. It never fails.
func (a *Allocator) AllocateFallback() domain.BookkeepingID {
	now := a.now().In(a.location)
	datePart := now.Format(domain.DatePartLayout)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	id := fmt.Sprintf("%s-T%s%03d-%s", datePart, now.Format("150405"), now.Nanosecond()/int(time.Millisecond), suffix)

	return domain.BookkeepingID{DatePart: datePart, Fallback: id}
}
