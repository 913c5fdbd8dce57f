package quickentry

import (
	"bookkeeper/pkg/serrors"
	"errors"
	"fmt"
	"strings"
)

// Failure kinds of the quick-entry pipeline. All of them are terminal: the
// pipeline never retries a stage on its own.
var (
	// ErrEmptyMessage means the message was empty or whitespace only.
	ErrEmptyMessage = serrors.NewKind("EMPTY_MESSAGE")
	// ErrFormatNotRecognized means the message matched neither entry form.
	ErrFormatNotRecognized = serrors.NewKind("FORMAT_NOT_RECOGNIZED")
	// ErrLeadingZeroRejected means the amount had a leading zero.
	ErrLeadingZeroRejected = serrors.NewKind("LEADING_ZERO_REJECTED")
	// ErrNonPositiveAmount means the amount was zero.
	ErrNonPositiveAmount = serrors.NewKind("NON_POSITIVE_AMOUNT")
	// ErrUnsupportedCurrency means the amount carried a foreign currency token.
	ErrUnsupportedCurrency = serrors.NewKind("UNSUPPORTED_CURRENCY")
	// ErrCategoryNotFound means no category matched the phrase.
	ErrCategoryNotFound = serrors.NewKind("CATEGORY_NOT_FOUND")
	// ErrDirectoryUnavailable means the user's category directory could not be loaded.
	ErrDirectoryUnavailable = serrors.NewKind("DIRECTORY_UNAVAILABLE")
	// ErrSequenceExhausted means the day ran out of sequence numbers.
	ErrSequenceExhausted = serrors.NewKind("SEQUENCE_EXHAUSTED")
	// ErrAllocatorUnavailable means the sequence store failed.
	ErrAllocatorUnavailable = serrors.NewKind("ALLOCATOR_UNAVAILABLE")
)

// transportKinds maps every quick-entry kind onto the generic kind used by
// transports to pick a status code.
var transportKinds = map[serrors.Kind]serrors.Kind{ //nolint: gochecknoglobals
	ErrEmptyMessage:         serrors.ErrBadRequest,
	ErrFormatNotRecognized:  serrors.ErrBadRequest,
	ErrLeadingZeroRejected:  serrors.ErrBadRequest,
	ErrNonPositiveAmount:    serrors.ErrBadRequest,
	ErrUnsupportedCurrency:  serrors.ErrBadRequest,
	ErrCategoryNotFound:     serrors.ErrNotFound,
	ErrDirectoryUnavailable: serrors.ErrUnavailable,
	ErrSequenceExhausted:    serrors.ErrConflict,
	ErrAllocatorUnavailable: serrors.ErrUnavailable,
}

// Detail carries what a user needs to fix a rejected message: the input the
// failure is about, the offending token and, for category misses, the closest
// category names.
type Detail struct {
	Input       string
	Token       string
	Suggestions []string
}

func (d *Detail) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input %q", d.Input)
	if d.Token != "" {
		fmt.Fprintf(&b, ", token %q", d.Token)
	}
	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, ", suggestions %q", d.Suggestions)
	}

	return b.String()
}

// reject builds a quick-entry failure of kind k carrying detail d.
func reject(k serrors.Kind, d *Detail, msgFmt string, args ...any) error {
	return serrors.Wrap(k, d, msgFmt, args...)
}

// DetailOf returns the Detail attached to err, or nil.
func DetailOf(err error) *Detail {
	var d *Detail
	if errors.As(err, &d) {
		return d
	}

	return nil
}

// IsExpected reports whether err is one of the quick-entry failure kinds, as
// opposed to an unexpected fault.
func IsExpected(err error) bool {
	k := serrors.KindOf(err)
	if k == nil {
		return false
	}
	_, ok := transportKinds[k]

	return ok
}

// TransportKind returns the generic serrors kind for err: the mapped kind for
// quick-entry failures, the error's own kind otherwise and ErrInternal when
// err carries no kind at all.
func TransportKind(err error) serrors.Kind {
	k := serrors.KindOf(err)
	if k == nil {
		return serrors.ErrInternal
	}
	if generic, ok := transportKinds[k]; ok {
		return generic
	}

	return k
}

// TransportKindOfCode is TransportKind for the ErrorKind code of a Response.
// Unknown codes map to ErrInternal.
func TransportKindOfCode(code string) serrors.Kind {
	for k, generic := range transportKinds {
		if k.Error() == code {
			return generic
		}
	}

	return serrors.ErrInternal
}
