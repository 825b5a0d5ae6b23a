package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/negotiation"
	"negotiation-api/internal/repo"
	"negotiation-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// memStore is an in-memory stand-in for every repository, with the same
// conditional-write contract as the postgres implementation.
type memStore struct {
	mu        sync.Mutex
	users     map[string]uuid.UUID
	gigs      map[uuid.UUID]entity.Gig
	gigReads  int
	inquiries map[uuid.UUID]entity.Inquiry
	history   map[uuid.UUID][]entity.HistoryEntry
	pingErr   error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]uuid.UUID{},
		gigs:      map[uuid.UUID]entity.Gig{},
		inquiries: map[uuid.UUID]entity.Inquiry{},
		history:   map[uuid.UUID][]entity.HistoryEntry{},
	}
}

func (m *memStore) repos() *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: m,
		User:        m,
		Gig:         m,
		Inquiry:     m,
		History:     m,
	}
}

func (m *memStore) addUser(username string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[username] = id

	return id
}

func (m *memStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *memStore) GetUserIdByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.users[username]
	if !ok {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	return id, nil
}

func (m *memStore) DoesUserExistById(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uid := range m.users {
		if uid == id {
			return true, nil
		}
	}

	return false, nil
}

func (m *memStore) GetGigById(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gigReads++
	gig, ok := m.gigs[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &gig, nil
}

func (m *memStore) CreateInquiry(ctx context.Context, inquiry *entity.Inquiry, entries []entity.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiries[inquiry.Id] = inquiry.Clone()
	m.history[inquiry.Id] = append([]entity.HistoryEntry(nil), entries...)

	return nil
}

func (m *memStore) GetInquiryById(ctx context.Context, id uuid.UUID) (*entity.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inquiry, ok := m.inquiries[id]
	if !ok || inquiry.Deleted() {
		return nil, repo_errors.ErrNotFound
	}
	c := inquiry.Clone()

	return &c, nil
}

func (m *memStore) GetInquiries(ctx context.Context, filter *entity.InquiryFilter, pg *entity.PaginationInput) ([]entity.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]entity.Inquiry, 0)
	for _, inquiry := range m.inquiries {
		if inquiry.Deleted() {
			continue
		}
		owner := inquiry.BuyerId
		if filter.Role == entity.RoleSupplier {
			owner = inquiry.SupplierId
		}
		if owner != filter.UserId {
			continue
		}

		lapsed := inquiry.Status.Open() && filter.Now.After(inquiry.RespondBy)
		switch {
		case filter.Status == entity.StatusExpired:
			if inquiry.Status != entity.StatusExpired && !lapsed {
				continue
			}
		case filter.Status.Open():
			if inquiry.Status != filter.Status || lapsed {
				continue
			}
		case filter.Status != "":
			if inquiry.Status != filter.Status {
				continue
			}
		}
		matched = append(matched, inquiry.Clone())
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].Id.String() < matched[j].Id.String()
	})

	if pg.Offset >= len(matched) {
		return []entity.Inquiry{}, nil
	}
	end := pg.Offset + pg.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[pg.Offset:end], nil
}

func (m *memStore) SaveTransition(ctx context.Context, next *entity.Inquiry, expectedRound int, expectedSeq int, entries []entity.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.inquiries[next.Id]
	if !ok || stored.Deleted() || stored.Round != expectedRound || stored.Seq != expectedSeq {
		return repo_errors.ErrStaleWrite
	}

	m.inquiries[next.Id] = next.Clone()
	m.history[next.Id] = append(m.history[next.Id], entries...)

	return nil
}

func (m *memStore) GetHistoryByInquiryId(ctx context.Context, inquiryId uuid.UUID) ([]entity.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.history[inquiryId]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return append([]entity.HistoryEntry(nil), entries...), nil
}

// stored returns the raw row, deleted or not.
func (m *memStore) stored(id uuid.UUID) entity.Inquiry {
	m.mu.Lock()
	defer m.mu.Unlock()

	inquiry := m.inquiries[id]

	return inquiry.Clone()
}

func (m *memStore) log(id uuid.UUID) []entity.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]entity.HistoryEntry(nil), m.history[id]...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store    *memStore
	clock    *fakeClock
	metrics  *Metrics
	logs     *logtest.Hook
	svc      *InquiryService
	buyer    uuid.UUID
	supplier uuid.UUID
	outsider uuid.UUID
	gig      entity.Gig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	f := &fixture{
		store:    store,
		clock:    &fakeClock{now: t0},
		metrics:  NewMetrics(prometheus.NewRegistry()),
		buyer:    store.addUser("buyer"),
		supplier: store.addUser("supplier"),
		outsider: store.addUser("outsider"),
	}
	f.gig = entity.Gig{Id: uuid.New(), SupplierId: f.supplier, Title: "Custom mugs", Status: entity.GigActive}
	store.gigs[f.gig.Id] = f.gig

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f.logs = hook

	gigs, err := NewGigCatalog(store, 16)
	require.NoError(t, err)

	f.svc = NewInquiryService(store.repos(), gigs, Dependencies{
		Machine: negotiation.NewMachine(negotiation.NewExpiryPolicy(48*time.Hour), negotiation.NewOfferValidator(200)),
		Clock:   f.clock.Now,
		Logger:  logrus.NewEntry(logger),
		Metrics: f.metrics,
	})

	return f
}
