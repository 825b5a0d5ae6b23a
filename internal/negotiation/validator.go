package negotiation

import (
	"fmt"
	"math"
	"unicode/utf8"

	"negotiation-api/internal/entity"

	"github.com/shopspring/decimal"
)

const (
	DefaultMaxMessageLength = 1000
	priceScale              = 2

	// Magnitude limits checked on the exponent before any rescaling, so a
	// value like 1e1000000000 is rejected without being expanded.
	priceIntegerDigits    = 12
	quantityIntegerDigits = 19
	maxFractionDigits     = 18
)

var (
	maxPrice    = decimal.RequireFromString("999999999999.99")
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
)

// Proposal is an offer as submitted, before it is known to be well formed.
type Proposal struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Message  string
}

// OfferValidator runs the structural checks on a proposal. There is no price
// monotonicity rule: either side may move the price in either direction.
type OfferValidator struct {
	MaxMessageLength int
}

func NewOfferValidator(maxMessageLength int) OfferValidator {
	if maxMessageLength <= 0 {
		maxMessageLength = DefaultMaxMessageLength
	}

	return OfferValidator{MaxMessageLength: maxMessageLength}
}

func (v OfferValidator) Validate(p Proposal) (entity.Offer, error) {
	if !p.Price.IsPositive() {
		return entity.Offer{}, &OfferError{Reason: PriceNotPositive, Detail: "must be greater than zero"}
	}
	if integerDigits(p.Price) > priceIntegerDigits {
		return entity.Offer{}, &OfferError{Reason: PriceTooLarge, Detail: "at most " + maxPrice.String()}
	}
	if -int64(p.Price.Exponent()) > maxFractionDigits {
		return entity.Offer{}, &OfferError{Reason: PricePrecision, Detail: fmt.Sprintf("at most %d decimal places", priceScale)}
	}
	if p.Price.GreaterThan(maxPrice) {
		return entity.Offer{}, &OfferError{Reason: PriceTooLarge, Detail: "at most " + maxPrice.String()}
	}
	if !p.Price.Equal(p.Price.Round(priceScale)) {
		return entity.Offer{}, &OfferError{Reason: PricePrecision, Detail: fmt.Sprintf("at most %d decimal places", priceScale)}
	}
	if !p.Quantity.IsPositive() {
		return entity.Offer{}, &OfferError{Reason: QuantityNotPositive, Detail: "must be greater than zero"}
	}
	if integerDigits(p.Quantity) > quantityIntegerDigits {
		return entity.Offer{}, &OfferError{Reason: QuantityTooLarge, Detail: fmt.Sprintf("at most %d", int64(math.MaxInt64))}
	}
	if -int64(p.Quantity.Exponent()) > maxFractionDigits || !p.Quantity.IsInteger() {
		return entity.Offer{}, &OfferError{Reason: QuantityNotInteger, Detail: "must be a whole number"}
	}
	if p.Quantity.GreaterThan(maxQuantity) {
		return entity.Offer{}, &OfferError{Reason: QuantityTooLarge, Detail: fmt.Sprintf("at most %d", int64(math.MaxInt64))}
	}
	if err := v.ValidateMessage(p.Message); err != nil {
		return entity.Offer{}, err
	}

	return entity.Offer{Price: p.Price, Quantity: p.Quantity.IntPart()}, nil
}

// integerDigits counts the digits left of the decimal point without
// expanding the exponent.
func integerDigits(d decimal.Decimal) int64 {
	return int64(d.NumDigits()) + int64(d.Exponent())
}

func (v OfferValidator) ValidateMessage(message string) error {
	if n := utf8.RuneCountInString(message); n > v.MaxMessageLength {
		return &OfferError{Reason: MessageTooLong, Detail: fmt.Sprintf("%d > %d characters", n, v.MaxMessageLength)}
	}

	return nil
}
