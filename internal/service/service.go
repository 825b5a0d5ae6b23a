package service

import (
	"context"
	"time"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/negotiation"
	"negotiation-api/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Identity interface {
	ResolveUsername(ctx context.Context, username string) (uuid.UUID, error)
}

type Inquiry interface {
	CreateInquiry(ctx context.Context, input *entity.CreateInquiryInput) (*entity.NegotiationOutputModel, error)

	GetInquiry(ctx context.Context, inquiryId string, actorId string) (*entity.InquiryOutputModel, error)
	GetHistory(ctx context.Context, inquiryId string, actorId string) ([]entity.HistoryEntryOutputModel, error)
	ListInquiries(ctx context.Context, input *entity.ListInquiriesInput) ([]entity.InquiryOutputModel, error)

	Counter(ctx context.Context, input *entity.CounterInput) (*entity.NegotiationOutputModel, error)
	Accept(ctx context.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error)
	Reject(ctx context.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error)
	Revive(ctx context.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error)
	DeleteInquiry(ctx context.Context, inquiryId string, actorId string, round int) error
}

type Services struct {
	Diagnostics Diagnostics
	Identity    Identity
	Inquiry     Inquiry
}

// Clock is the source of "now" for deadlines and history timestamps.
type Clock func() time.Time

type Dependencies struct {
	Machine      *negotiation.Machine
	Clock        Clock
	Logger       *logrus.Entry
	Metrics      *Metrics
	GigCacheSize int
}

func NewServices(repos *repo.Repositories, deps Dependencies) (*Services, error) {
	gigs, err := NewGigCatalog(repos.Gig, deps.GigCacheSize)
	if err != nil {
		return nil, err
	}

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Identity:    NewIdentityService(repos),
		Inquiry:     NewInquiryService(repos, gigs, deps),
	}, nil
}
