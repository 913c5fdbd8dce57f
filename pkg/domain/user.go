package domain

// UserID identifies the owner of a category directory and of the entries
// recorded against it. Chat platforms and REST clients both hand us opaque
// strings, so no particular format is enforced beyond being non-empty.
type UserID string

// String returns the raw identifier.
func (u UserID) String() string { return string(u) }

// IsZero reports whether the identifier is empty.
func (u UserID) IsZero() bool { return u == "" }
