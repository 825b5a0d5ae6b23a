package negotiation

import (
	"time"

	"negotiation-api/internal/entity"
)

const DefaultResponseWindow = 48 * time.Hour

// ExpiryPolicy decides when an open inquiry has waited too long for a reply.
// Nothing runs on a timer: callers ask whenever they load an inquiry.
type ExpiryPolicy struct {
	Window time.Duration
}

func NewExpiryPolicy(window time.Duration) ExpiryPolicy {
	if window <= 0 {
		window = DefaultResponseWindow
	}

	return ExpiryPolicy{Window: window}
}

func (p ExpiryPolicy) Deadline(from time.Time) time.Time {
	return from.Add(p.Window)
}

func (p ExpiryPolicy) IsExpired(inquiry *entity.Inquiry, now time.Time) bool {
	return inquiry.Status.Open() && now.After(inquiry.RespondBy)
}

// Remaining is how long the current turn holder still has; zero when lapsed
// or when the inquiry is not open.
func (p ExpiryPolicy) Remaining(inquiry *entity.Inquiry, now time.Time) time.Duration {
	if !inquiry.Status.Open() || !now.Before(inquiry.RespondBy) {
		return 0
	}

	return inquiry.RespondBy.Sub(now)
}
