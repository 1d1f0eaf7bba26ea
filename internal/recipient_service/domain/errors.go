package domain

import "errors"

var (
	// ErrNotFound indicates that no entry exists for the given ID.
	ErrNotFound = errors.New("entry not found")
	// ErrDuplicateEntry indicates that another entry already holds the phone number.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrInvalidFormat indicates that a value failed the phone shape filter.
	ErrInvalidFormat = errors.New("invalid phone number format")

	// ErrUnsupportedFileKind is returned for import kinds other than csv and spreadsheet.
	ErrUnsupportedFileKind = errors.New("unsupported file kind")
	// ErrUnreadableFile is returned when import bytes cannot be parsed at all.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrNoValidRecipients is returned when a send request would have no recipients.
	ErrNoValidRecipients = errors.New("no valid recipients")
	// ErrInsufficientBalance is returned when the simulated cost exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
