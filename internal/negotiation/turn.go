package negotiation

import "negotiation-api/internal/entity"

// TurnHolder returns the party entitled to counter, accept or reject next.
// The buyer's original ask counts as the buyer's offer, so a fresh PENDING
// inquiry is the supplier's turn. ok is false once bargaining is closed.
func TurnHolder(status entity.InquiryStatus, lastActor entity.Party) (entity.Party, bool) {
	if !status.Open() {
		return "", false
	}

	if holder := lastActor.Counterparty(); holder != "" {
		return holder, true
	}

	return entity.Supplier, true
}

// CheckTurn fails with ErrNotYourTurn when actor made the outstanding offer.
func CheckTurn(inquiry *entity.Inquiry, actor entity.Party) error {
	holder, ok := TurnHolder(inquiry.Status, inquiry.LastActor)
	if !ok {
		return ErrInvalidTransition
	}
	if holder != actor {
		return ErrNotYourTurn
	}

	return nil
}
