package negotiation

import (
	"testing"
	"time"

	"negotiation-api/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func newTestMachine() *Machine {
	return NewMachine(NewExpiryPolicy(48*time.Hour), NewOfferValidator(0))
}

func proposal(price string, quantity int64) Proposal {
	return Proposal{Price: decimal.RequireFromString(price), Quantity: decimal.NewFromInt(quantity)}
}

// newInquiry opens a 100 units @ 5.00 inquiry at t0.
func newInquiry(t *testing.T, m *Machine) (entity.Inquiry, []entity.HistoryEntry) {
	t.Helper()
	tr, err := m.Create(NewInquiry{
		BuyerId:    uuid.New(),
		SupplierId: uuid.New(),
		GigId:      uuid.New(),
		Ask:        proposal("5.00", 100),
	}, t0)
	require.NoError(t, err)

	return tr.Inquiry, tr.Entries
}
