package negotiation

import (
	"math/rand"
	"testing"
	"time"

	"negotiation-api/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walk drives an inquiry through random actions, legal or not, and checks
// after every accepted one that the log alone rebuilds the aggregate.
func walk(t *testing.T, seed int64) {
	m := newTestMachine()
	rng := rand.New(rand.NewSource(seed))
	inquiry, log := newInquiry(t, m)
	now := t0

	parties := []entity.Party{entity.Buyer, entity.Supplier}
	for step := 0; step < 40 && !inquiry.Deleted(); step++ {
		if rng.Intn(6) == 0 {
			now = now.Add(time.Duration(rng.Intn(96)) * time.Hour)
		} else {
			now = now.Add(time.Minute)
		}
		actor := parties[rng.Intn(2)]

		var (
			tr  Transition
			err error
		)
		switch rng.Intn(7) {
		case 0, 1, 2:
			price := decimal.NewFromInt(int64(rng.Intn(20) - 2))
			tr, err = m.Counter(&inquiry, actor, Proposal{Price: price, Quantity: decimal.NewFromInt(int64(rng.Intn(200)))}, now)
		case 3:
			tr, err = m.Accept(&inquiry, actor, now)
		case 4:
			tr, err = m.Reject(&inquiry, actor, now)
		case 5:
			tr, err = m.Revive(&inquiry, actor, now)
		case 6:
			if expired, ok := m.Expire(&inquiry, now); ok {
				tr = expired
			} else if rng.Intn(4) == 0 {
				tr, err = m.Delete(&inquiry, actor, now)
			} else {
				continue
			}
		}
		if err != nil {
			continue
		}

		require.Equal(t, inquiry.Seq+len(tr.Entries), tr.Inquiry.Seq)
		inquiry = tr.Inquiry
		log = append(log, tr.Entries...)

		p, err := Replay(log)
		require.NoError(t, err, "seed %d step %d", seed, step)
		require.True(t, p.Matches(&inquiry), "seed %d step %d: %+v vs %+v", seed, step, p, inquiry)
		assert.Equal(t, inquiry.UpdatedAt, p.UpdatedAt)
	}
}

func TestReplayEquivalence(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		walk(t, seed)
	}
}

func TestReplayRejectsCorruptLogs(t *testing.T) {
	m := newTestMachine()
	inquiry, log := newInquiry(t, m)
	accepted, err := m.Accept(&inquiry, entity.Supplier, t0)
	require.NoError(t, err)
	full := append(log, accepted.Entries...)

	_, err = Replay(nil)
	require.ErrorIs(t, err, ErrCorruptHistory)

	_, err = Replay(full[1:])
	require.ErrorIs(t, err, ErrCorruptHistory, "gap in seq")

	bad := append([]entity.HistoryEntry(nil), full...)
	bad = append(bad, entity.HistoryEntry{Seq: 3, Action: entity.ActionCountered, Actor: entity.Buyer, Offer: &entity.Offer{}})
	_, err = Replay(bad)
	require.ErrorIs(t, err, ErrCorruptHistory, "counter after accept")

	first := full[0]
	first.Action = entity.ActionRevived
	_, err = Replay([]entity.HistoryEntry{first})
	require.ErrorIs(t, err, ErrCorruptHistory)
}

func TestProjectionMatchesDetectsDrift(t *testing.T) {
	m := newTestMachine()
	inquiry, log := newInquiry(t, m)

	p, err := Replay(log)
	require.NoError(t, err)
	require.True(t, p.Matches(&inquiry))

	drifted := inquiry.Clone()
	drifted.Round = 2
	assert.False(t, p.Matches(&drifted))

	drifted = inquiry.Clone()
	drifted.Proposed = &entity.Offer{Price: decimal.NewFromInt(1), Quantity: 1}
	assert.False(t, p.Matches(&drifted))
}
