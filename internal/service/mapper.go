package service

import (
	"time"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/negotiation"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func priceOf(o *entity.Offer) *string {
	if o == nil {
		return nil
	}
	p := o.Price.StringFixed(2)

	return &p
}

func quantityOf(o *entity.Offer) *int64 {
	if o == nil {
		return nil
	}
	q := o.Quantity

	return &q
}

// mapInquiry renders i with the given status, which may differ from the
// stored one when a deadline has lapsed but nobody has committed it yet.
func mapInquiry(i *entity.Inquiry, status entity.InquiryStatus, remaining time.Duration, gigTitle string) *entity.InquiryOutputModel {
	out := &entity.InquiryOutputModel{
		Id:                i.Id.String(),
		BuyerId:           i.BuyerId.String(),
		SupplierId:        i.SupplierId.String(),
		GigId:             i.GigId.String(),
		GigTitle:          gigTitle,
		Status:            string(status),
		Round:             i.Round,
		RequestedPrice:    i.Requested.Price.StringFixed(2),
		RequestedQuantity: i.Requested.Quantity,
		ProposedPrice:     priceOf(i.Proposed),
		ProposedQuantity:  quantityOf(i.Proposed),
		AgreedPrice:       priceOf(i.Agreed),
		AgreedQuantity:    quantityOf(i.Agreed),
		LastActor:         string(i.LastActor),
		Message:           i.Message,
		CreatedAt:         formatTime(i.CreatedAt),
		UpdatedAt:         formatTime(i.UpdatedAt),
		RespondByDeadline: formatTime(i.RespondBy),
		RemainingSeconds:  int64(remaining / time.Second),
	}
	if i.Agreed != nil {
		total := i.Agreed.Total().StringFixed(2)
		out.AgreedTotal = &total
	}
	if turn, ok := negotiation.TurnHolder(status, i.LastActor); ok {
		out.Turn = string(turn)
	}

	return out
}

func mapEntry(e *entity.HistoryEntry) *entity.HistoryEntryOutputModel {
	return &entity.HistoryEntryOutputModel{
		Id:        e.Id,
		Seq:       e.Seq,
		Timestamp: formatTime(e.Timestamp),
		Actor:     string(e.Actor),
		Action:    string(e.Action),
		Price:     priceOf(e.Offer),
		Quantity:  quantityOf(e.Offer),
		Message:   e.Message,
	}
}

func mapEntries(entries []entity.HistoryEntry) []entity.HistoryEntryOutputModel {
	s := make([]entity.HistoryEntryOutputModel, 0, len(entries))
	for i := range entries {
		s = append(s, *mapEntry(&entries[i]))
	}

	return s
}
