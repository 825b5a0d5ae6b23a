package negotiation

import (
	"time"

	"negotiation-api/internal/entity"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Transition is the outcome of one accepted action: the next state of the
// inquiry and the history entries that describe how it got there. Entries
// must be stored together with the inquiry or not at all.
type Transition struct {
	Inquiry entity.Inquiry
	Entries []entity.HistoryEntry
}

// Latest returns the entry describing the action itself.
func (t *Transition) Latest() *entity.HistoryEntry {
	if len(t.Entries) == 0 {
		return nil
	}

	return &t.Entries[len(t.Entries)-1]
}

// Machine owns the inquiry transition table. It never performs I/O and never
// mutates the inquiry it is given.
type Machine struct {
	expiry    ExpiryPolicy
	validator OfferValidator
}

func NewMachine(expiry ExpiryPolicy, validator OfferValidator) *Machine {
	return &Machine{expiry: expiry, validator: validator}
}

func (m *Machine) Expiry() ExpiryPolicy {
	return m.expiry
}

type NewInquiry struct {
	BuyerId    uuid.UUID
	SupplierId uuid.UUID
	GigId      uuid.UUID
	Ask        Proposal
}

func (m *Machine) Create(in NewInquiry, now time.Time) (Transition, error) {
	offer, err := m.validator.Validate(in.Ask)
	if err != nil {
		return Transition{}, err
	}

	inquiry := entity.Inquiry{
		Id:         uuid.New(),
		BuyerId:    in.BuyerId,
		SupplierId: in.SupplierId,
		GigId:      in.GigId,
		Status:     entity.StatusPending,
		Round:      1,
		Requested:  offer,
		LastActor:  entity.Buyer,
		Message:    in.Ask.Message,
		CreatedAt:  now,
	}
	m.touch(&inquiry, now)

	return m.transition(inquiry, nil, entity.Buyer, entity.ActionCreated, &offer, in.Ask.Message), nil
}

// Expire commits a lapsed deadline. ok is false when nothing has lapsed.
func (m *Machine) Expire(inquiry *entity.Inquiry, now time.Time) (Transition, bool) {
	if !m.expiry.IsExpired(inquiry, now) {
		return Transition{}, false
	}

	next := inquiry.Clone()
	next.Status = entity.StatusExpired
	next.UpdatedAt = now

	return m.transition(next, nil, entity.System, entity.ActionExpired, nil, ""), true
}

func (m *Machine) Counter(inquiry *entity.Inquiry, actor entity.Party, p Proposal, now time.Time) (Transition, error) {
	if err := m.ensureOpen(inquiry, now); err != nil {
		return Transition{}, err
	}
	if err := CheckTurn(inquiry, actor); err != nil {
		return Transition{}, err
	}
	offer, err := m.validator.Validate(p)
	if err != nil {
		return Transition{}, err
	}

	next := inquiry.Clone()
	next.Status = entity.StatusNegotiating
	next.Proposed = &offer
	next.LastActor = actor
	next.Round++
	m.touch(&next, now)

	return m.transition(next, nil, actor, entity.ActionCountered, &offer, p.Message), nil
}

// Accept closes the deal on whatever is on the table: the last counter-offer,
// or the original ask when the supplier accepts a fresh inquiry.
func (m *Machine) Accept(inquiry *entity.Inquiry, actor entity.Party, now time.Time) (Transition, error) {
	if err := m.ensureOpen(inquiry, now); err != nil {
		return Transition{}, err
	}
	if err := CheckTurn(inquiry, actor); err != nil {
		return Transition{}, err
	}

	terms := inquiry.Terms()
	next := inquiry.Clone()
	next.Status = entity.StatusAccepted
	next.Agreed = &terms
	next.Round++
	m.touch(&next, now)

	return m.transition(next, nil, actor, entity.ActionAccepted, &terms, ""), nil
}

func (m *Machine) Reject(inquiry *entity.Inquiry, actor entity.Party, now time.Time) (Transition, error) {
	if err := m.ensureOpen(inquiry, now); err != nil {
		return Transition{}, err
	}
	if err := CheckTurn(inquiry, actor); err != nil {
		return Transition{}, err
	}

	next := inquiry.Clone()
	next.Status = entity.StatusRejected
	next.Round++
	m.touch(&next, now)

	return m.transition(next, nil, actor, entity.ActionRejected, nil, ""), nil
}

// Revive reopens an expired inquiry without touching terms or round. A lapse
// that nobody has committed yet is committed in the same transition.
func (m *Machine) Revive(inquiry *entity.Inquiry, actor entity.Party, now time.Time) (Transition, error) {
	base := inquiry
	var entries []entity.HistoryEntry
	if expired, ok := m.Expire(inquiry, now); ok {
		base = &expired.Inquiry
		entries = expired.Entries
	}

	if base.Status != entity.StatusExpired {
		return Transition{}, ErrInvalidTransition
	}

	next := base.Clone()
	next.Status = entity.StatusNegotiating
	m.touch(&next, now)

	return m.transition(next, entries, actor, entity.ActionRevived, nil, ""), nil
}

// Delete is the buyer withdrawing an open inquiry. The row is soft-deleted so
// the log survives.
func (m *Machine) Delete(inquiry *entity.Inquiry, actor entity.Party, now time.Time) (Transition, error) {
	if err := m.ensureOpen(inquiry, now); err != nil {
		return Transition{}, err
	}
	if actor != entity.Buyer {
		return Transition{}, ErrForbidden
	}

	next := inquiry.Clone()
	next.UpdatedAt = now
	next.DeletedAt = &now

	return m.transition(next, nil, actor, entity.ActionDeleted, nil, ""), nil
}

func (m *Machine) ensureOpen(inquiry *entity.Inquiry, now time.Time) error {
	if inquiry.Status == entity.StatusExpired || m.expiry.IsExpired(inquiry, now) {
		return ErrInquiryExpired
	}
	if !inquiry.Status.Open() {
		return ErrInvalidTransition
	}

	return nil
}

func (m *Machine) touch(inquiry *entity.Inquiry, now time.Time) {
	inquiry.UpdatedAt = now
	if inquiry.Status.Open() {
		inquiry.RespondBy = m.expiry.Deadline(now)
	}
}

func (m *Machine) transition(next entity.Inquiry, entries []entity.HistoryEntry, actor entity.Party, action entity.Action, offer *entity.Offer, message string) Transition {
	next.Seq++
	entry := entity.HistoryEntry{
		Id:        ulid.MustNew(ulid.Timestamp(next.UpdatedAt), ulid.DefaultEntropy()).String(),
		InquiryId: next.Id,
		Seq:       next.Seq,
		Timestamp: next.UpdatedAt,
		Actor:     actor,
		Action:    action,
		Message:   message,
	}
	if offer != nil {
		o := *offer
		entry.Offer = &o
	}

	return Transition{Inquiry: next, Entries: append(entries, entry)}
}
