package booking

import "errors"

var (
	// ErrDraftIncomplete means a required draft field is missing or invalid.
	ErrDraftIncomplete = errors.New("booking draft incomplete")
	// ErrPassengerCount means the passenger count is outside 1..capacity.
	ErrPassengerCount = errors.New("invalid passenger count")
	// ErrSlotNotFound means the selected slot does not exist for the
	// selected date, route and tour type.
	ErrSlotNotFound = errors.New("time slot not found")
	// ErrRateLimited means the caller exceeded the submission rate limit.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotificationFailed means the booking was persisted but at least
	// one confirmation email could not be sent.
	ErrNotificationFailed = errors.New("notification failed")
)
