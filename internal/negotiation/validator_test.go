package negotiation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferValidator(t *testing.T) {
	v := NewOfferValidator(10)

	cases := []struct {
		name     string
		price    string
		quantity string
		message  string
		reason   Reason
	}{
		{"zero price", "0", "10", "", PriceNotPositive},
		{"negative price", "-1.50", "10", "", PriceNotPositive},
		{"sub-cent price", "1.005", "10", "", PricePrecision},
		{"price above column range", "10000000000000", "10", "", PriceTooLarge},
		{"price just above max", "1000000000000", "10", "", PriceTooLarge},
		{"huge price exponent", "1e1000000000", "10", "", PriceTooLarge},
		{"tiny price exponent", "1e-1000000000", "10", "", PricePrecision},
		{"negative huge price exponent", "-1e1000000000", "10", "", PriceNotPositive},
		{"zero quantity", "2", "0", "", QuantityNotPositive},
		{"negative quantity", "2", "-3", "", QuantityNotPositive},
		{"fractional quantity", "2", "80.5", "", QuantityNotInteger},
		{"overflowing quantity", "2", "9223372036854775808", "", QuantityTooLarge},
		{"huge quantity exponent", "2", "1e1000000000", "", QuantityTooLarge},
		{"tiny quantity exponent", "2", "1e-1000000000", "", QuantityNotInteger},
		{"negative huge quantity exponent", "2", "-1e1000000000", "", QuantityNotPositive},
		{"long message", "2", "10", strings.Repeat("x", 11), MessageTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(Proposal{
				Price:    decimal.RequireFromString(tc.price),
				Quantity: decimal.RequireFromString(tc.quantity),
				Message:  tc.message,
			})
			require.ErrorIs(t, err, ErrInvalidOffer)

			var offerErr *OfferError
			require.True(t, errors.As(err, &offerErr))
			assert.Equal(t, tc.reason, offerErr.Reason)
		})
	}
}

func TestOfferValidatorAcceptsMaxPrice(t *testing.T) {
	v := NewOfferValidator(10)

	offer, err := v.Validate(Proposal{
		Price:    decimal.RequireFromString("999999999999.99"),
		Quantity: decimal.RequireFromString("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "999999999999.99", offer.Price.StringFixed(2))
}

func TestOfferValidatorAccepts(t *testing.T) {
	v := NewOfferValidator(10)

	offer, err := v.Validate(Proposal{
		Price:    decimal.RequireFromString("6.10"),
		Quantity: decimal.RequireFromString("80.000"),
		Message:  "ünïcødé ok",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(80), offer.Quantity)
	assert.True(t, offer.Price.Equal(decimal.RequireFromString("6.1")))
}
