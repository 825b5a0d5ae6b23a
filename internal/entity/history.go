package entity

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated   Action = "CREATED"
	ActionCountered Action = "COUNTERED"
	ActionAccepted  Action = "ACCEPTED"
	ActionRejected  Action = "REJECTED"
	ActionExpired   Action = "EXPIRED"
	ActionRevived   Action = "REVIVED"
	ActionDeleted   Action = "DELETED"
)

// HistoryEntry is one immutable line of an inquiry's negotiation log.
// Offer is set for CREATED (the original ask), COUNTERED and ACCEPTED
// (the agreed terms).
type HistoryEntry struct {
	Id        string    `db:"id"`
	InquiryId uuid.UUID `db:"inquiry_id"`
	Seq       int       `db:"seq"`
	Timestamp time.Time `db:"created_at"`
	Actor     Party     `db:"actor"`
	Action    Action    `db:"action"`
	Offer     *Offer
	Message   string `db:"message"`
}

// controller model
type HistoryEntryOutputModel struct {
	Id        string  `json:"id"`
	Seq       int     `json:"seq"`
	Timestamp string  `json:"timestamp"`
	Actor     string  `json:"actor"`
	Action    string  `json:"action"`
	Price     *string `json:"price,omitempty"`
	Quantity  *int64  `json:"quantity,omitempty"`
	Message   string  `json:"message,omitempty"`
}
