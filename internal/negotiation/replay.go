package negotiation

import (
	"errors"
	"fmt"
	"time"

	"negotiation-api/internal/entity"
)

var ErrCorruptHistory = errors.New("negotiation history cannot be replayed")

// Projection is the part of an inquiry that is fully determined by its log.
type Projection struct {
	Status    entity.InquiryStatus
	Round     int
	Seq       int
	Requested entity.Offer
	Proposed  *entity.Offer
	Agreed    *entity.Offer
	LastActor entity.Party
	UpdatedAt time.Time
	Deleted   bool
}

// Replay folds a log, in seq order, back into the state it describes.
func Replay(entries []entity.HistoryEntry) (Projection, error) {
	var p Projection
	for i, e := range entries {
		if e.Seq != i+1 {
			return Projection{}, fmt.Errorf("%w: entry %d has seq %d", ErrCorruptHistory, i+1, e.Seq)
		}
		if i == 0 && e.Action != entity.ActionCreated {
			return Projection{}, fmt.Errorf("%w: log starts with %s", ErrCorruptHistory, e.Action)
		}
		if p.Deleted {
			return Projection{}, fmt.Errorf("%w: %s after DELETED", ErrCorruptHistory, e.Action)
		}
		if err := p.apply(e); err != nil {
			return Projection{}, err
		}
		p.Seq = e.Seq
		p.UpdatedAt = e.Timestamp
	}
	if len(entries) == 0 {
		return Projection{}, fmt.Errorf("%w: empty log", ErrCorruptHistory)
	}

	return p, nil
}

func (p *Projection) apply(e entity.HistoryEntry) error {
	switch e.Action {
	case entity.ActionCreated:
		if p.Round != 0 || e.Offer == nil {
			return fmt.Errorf("%w: misplaced CREATED", ErrCorruptHistory)
		}
		p.Status = entity.StatusPending
		p.Round = 1
		p.Requested = *e.Offer
		p.LastActor = e.Actor
	case entity.ActionCountered:
		if !p.Status.Open() || e.Offer == nil {
			return fmt.Errorf("%w: COUNTERED from %s", ErrCorruptHistory, p.Status)
		}
		o := *e.Offer
		p.Status = entity.StatusNegotiating
		p.Proposed = &o
		p.LastActor = e.Actor
		p.Round++
	case entity.ActionAccepted:
		if !p.Status.Open() {
			return fmt.Errorf("%w: ACCEPTED from %s", ErrCorruptHistory, p.Status)
		}
		terms := p.Requested
		if p.Proposed != nil {
			terms = *p.Proposed
		}
		p.Status = entity.StatusAccepted
		p.Agreed = &terms
		p.Round++
	case entity.ActionRejected:
		if !p.Status.Open() {
			return fmt.Errorf("%w: REJECTED from %s", ErrCorruptHistory, p.Status)
		}
		p.Status = entity.StatusRejected
		p.Round++
	case entity.ActionExpired:
		if !p.Status.Open() {
			return fmt.Errorf("%w: EXPIRED from %s", ErrCorruptHistory, p.Status)
		}
		p.Status = entity.StatusExpired
	case entity.ActionRevived:
		if p.Status != entity.StatusExpired {
			return fmt.Errorf("%w: REVIVED from %s", ErrCorruptHistory, p.Status)
		}
		p.Status = entity.StatusNegotiating
	case entity.ActionDeleted:
		if !p.Status.Open() {
			return fmt.Errorf("%w: DELETED from %s", ErrCorruptHistory, p.Status)
		}
		p.Deleted = true
	default:
		return fmt.Errorf("%w: unknown action %q", ErrCorruptHistory, e.Action)
	}

	return nil
}

// Matches reports whether the stored aggregate agrees with its log.
func (p Projection) Matches(inquiry *entity.Inquiry) bool {
	return p.Status == inquiry.Status &&
		p.Round == inquiry.Round &&
		p.Seq == inquiry.Seq &&
		p.LastActor == inquiry.LastActor &&
		p.Deleted == inquiry.Deleted() &&
		p.Requested.Equal(inquiry.Requested) &&
		offersEqual(p.Proposed, inquiry.Proposed) &&
		offersEqual(p.Agreed, inquiry.Agreed)
}

func offersEqual(a, b *entity.Offer) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(*b)
}
