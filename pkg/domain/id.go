package domain

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DatePartLayout is the time layout of BookkeepingID.DatePart.
	DatePartLayout = "20060102"
	// MaxSequence is the largest sequence a single day can hand out.
	MaxSequence = 99999
)

// ErrInvalidBookkeepingID is returned by ParseBookkeepingID for malformed input.
var ErrInvalidBookkeepingID = errors.New("invalid bookkeeping id")

// BookkeepingID identifies an entry within a day: "20250715-00042".
//
// IDs produced by the fallback allocator carry no sequence; their textual form
// is kept in Fallback and Sequence is zero.
type BookkeepingID struct {
	// DatePart is the local date in DatePartLayout.
	DatePart string
	// Sequence is in 1..MaxSequence for regular ids.
	Sequence int
	// Fallback holds the full id when it was not allocated from a sequence.
	Fallback string
}

// String returns the canonical form of the id.
func (id BookkeepingID) String() string {
	if id.Fallback != "" {
		return id.Fallback
	}

	return fmt.Sprintf("%s-%05d", id.DatePart, id.Sequence)
}

// IsFallback reports whether the id was produced without a sequence.
func (id BookkeepingID) IsFallback() bool { return id.Fallback != "" }

// IsZero reports whether the id is unset.
func (id BookkeepingID) IsZero() bool { return id == BookkeepingID{} }

// Compare orders ids by (DatePart, Sequence). Fallback ids sort after all
// sequenced ids of the same day and among themselves by their text.
func (id BookkeepingID) Compare(other BookkeepingID) int {
	if c := cmp.Compare(id.DatePart, other.DatePart); c != 0 {
		return c
	}
	if id.IsFallback() != other.IsFallback() {
		if id.IsFallback() {
			return 1
		}

		return -1
	}
	if id.IsFallback() {
		return cmp.Compare(id.Fallback, other.Fallback)
	}

	return cmp.Compare(id.Sequence, other.Sequence)
}

// MarshalText implements encoding.TextMarshaler. A zero id marshals to an
// empty string.
func (id BookkeepingID) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return []byte{}, nil
	}

	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *BookkeepingID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = BookkeepingID{}

		return nil
	}
	parsed, err := ParseBookkeepingID(string(b))
	if err != nil {
		return err
	}
	*id = parsed

	return nil
}

// ParseBookkeepingID parses the textual form produced by String. Ids of the
// form "YYYYMMDD-NNNNN" are parsed into DatePart and Sequence; ids of the form
// "YYYYMMDD-T..." are kept as fallback ids.
func ParseBookkeepingID(s string) (BookkeepingID, error) {
	datePart, rest, ok := strings.Cut(s, "-")
	if !ok || rest == "" {
		return BookkeepingID{}, fmt.Errorf("%w: %q", ErrInvalidBookkeepingID, s)
	}
	if _, err := time.Parse(DatePartLayout, datePart); err != nil {
		return BookkeepingID{}, fmt.Errorf("%w: %q", ErrInvalidBookkeepingID, s)
	}
	if strings.HasPrefix(rest, "T") {
		return BookkeepingID{DatePart: datePart, Fallback: s}, nil
	}
	if len(rest) != 5 {
		return BookkeepingID{}, fmt.Errorf("%w: %q", ErrInvalidBookkeepingID, s)
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 1 || seq > MaxSequence {
		return BookkeepingID{}, fmt.Errorf("%w: %q", ErrInvalidBookkeepingID, s)
	}

	return BookkeepingID{DatePart: datePart, Sequence: seq}, nil
}
