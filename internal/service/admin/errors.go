package admin

import "errors"

var (
	// ErrBookingNotFound means no booking exists with the given ID.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBadStatus means the requested status is not a known booking status.
	ErrBadStatus = errors.New("invalid booking status")
	// ErrNotificationFailed means the status change was persisted but the
	// follow-up emails could not be sent.
	ErrNotificationFailed = errors.New("notification failed")
)
