package repo

import (
	"context"
	"negotiation-api/internal/entity"
	"negotiation-api/internal/repo/pgdb"
	"negotiation-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

// User is the identity provider: who is calling.
type User interface {
	GetUserIdByUsername(ctx context.Context, username string) (uuid.UUID, error)
	DoesUserExistById(ctx context.Context, id uuid.UUID) (bool, error)
}

// Gig is the read-only view of the catalog.
type Gig interface {
	GetGigById(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
}

type Inquiry interface {
	// CreateInquiry stores a new inquiry together with its CREATED entry.
	CreateInquiry(ctx context.Context, inquiry *entity.Inquiry, entries []entity.HistoryEntry) error
	GetInquiryById(ctx context.Context, id uuid.UUID) (*entity.Inquiry, error)
	GetInquiries(ctx context.Context, filter *entity.InquiryFilter, pg *entity.PaginationInput) ([]entity.Inquiry, error)
	// SaveTransition writes next and appends entries in one transaction, provided
	// the stored row is still at expectedRound/expectedSeq. Otherwise it returns
	// repo_errors.ErrStaleWrite and writes nothing.
	SaveTransition(ctx context.Context, next *entity.Inquiry, expectedRound int, expectedSeq int, entries []entity.HistoryEntry) error
}

type History interface {
	GetHistoryByInquiryId(ctx context.Context, inquiryId uuid.UUID) ([]entity.HistoryEntry, error)
}

type Repositories struct {
	Diagnostics
	User
	Gig
	Inquiry
	History
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		User:        pgdb.NewUserRepo(p),
		Gig:         pgdb.NewGigRepo(p),
		Inquiry:     pgdb.NewInquiryRepo(p),
		History:     pgdb.NewHistoryRepo(p),
	}
}
