package negotiation

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourTurn       = errors.New("the counterparty holds the turn")
	ErrInvalidOffer      = errors.New("invalid offer")
	ErrInvalidTransition = errors.New("action is not allowed in the current inquiry status")
	ErrInquiryExpired    = errors.New("inquiry response deadline has passed")
	ErrStaleRound        = errors.New("inquiry has moved past the given round")
	ErrForbidden         = errors.New("actor is not allowed to perform this action")
)

type Reason string

const (
	PriceNotPositive    Reason = "PRICE_NOT_POSITIVE"
	PricePrecision      Reason = "PRICE_PRECISION"
	PriceTooLarge       Reason = "PRICE_TOO_LARGE"
	QuantityNotPositive Reason = "QUANTITY_NOT_POSITIVE"
	QuantityNotInteger  Reason = "QUANTITY_NOT_INTEGER"
	QuantityTooLarge    Reason = "QUANTITY_TOO_LARGE"
	MessageTooLong      Reason = "MESSAGE_TOO_LONG"
)

// OfferError is returned by the validator. errors.Is(err, ErrInvalidOffer) holds.
type OfferError struct {
	Reason Reason
	Detail string
}

func (e *OfferError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidOffer, e.Reason)
	}

	return fmt.Sprintf("%s: %s (%s)", ErrInvalidOffer, e.Reason, e.Detail)
}

func (e *OfferError) Unwrap() error {
	return ErrInvalidOffer
}
