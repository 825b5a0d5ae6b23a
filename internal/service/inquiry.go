package service

import (
	"context"
	"errors"
	"time"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/negotiation"
	"negotiation-api/internal/repo"
	"negotiation-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 5

type InquiryService struct {
	userRepo    repo.User
	inquiryRepo repo.Inquiry
	historyRepo repo.History
	gigs        *GigCatalog
	machine     *negotiation.Machine
	now         Clock
	log         *logrus.Entry
	metrics     *Metrics
}

func NewInquiryService(repos *repo.Repositories, gigs *GigCatalog, deps Dependencies) *InquiryService {
	s := &InquiryService{
		userRepo:    repos.User,
		inquiryRepo: repos.Inquiry,
		historyRepo: repos.History,
		gigs:        gigs,
		machine:     deps.Machine,
		now:         deps.Clock,
		log:         deps.Logger,
		metrics:     deps.Metrics,
	}
	if s.machine == nil {
		s.machine = negotiation.NewMachine(negotiation.NewExpiryPolicy(0), negotiation.NewOfferValidator(0))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.log = s.log.WithField("component", "inquiry-service")

	return s
}

func (s *InquiryService) CreateInquiry(ctx context.Context, input *entity.CreateInquiryInput) (out *entity.NegotiationOutputModel, err error) {
	started := time.Now()
	defer func() { s.metrics.observe(entity.ActionCreated, started, err) }()

	buyerId, err := uuid.Parse(input.BuyerId)
	if err != nil {
		return nil, ErrUserNotFound
	}
	gigId, err := uuid.Parse(input.GigId)
	if err != nil {
		return nil, ErrGigNotFound
	}

	buyerExists, err := s.userRepo.DoesUserExistById(ctx, buyerId)
	if err != nil {
		return nil, err
	}
	if !buyerExists {
		return nil, ErrUserNotFound
	}

	gig, err := s.gigs.Get(ctx, gigId)
	if err != nil {
		return nil, err
	}
	if gig.Status != entity.GigActive {
		return nil, ErrGigNotAvailable
	}
	if gig.SupplierId == buyerId {
		return nil, negotiation.ErrForbidden
	}

	tr, err := s.machine.Create(negotiation.NewInquiry{
		BuyerId:    buyerId,
		SupplierId: gig.SupplierId,
		GigId:      gig.Id,
		Ask: negotiation.Proposal{
			Price:    input.Price,
			Quantity: input.Quantity,
			Message:  input.Message,
		},
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err = s.inquiryRepo.CreateInquiry(ctx, &tr.Inquiry, tr.Entries); err != nil {
		s.log.WithError(err).Error("store new inquiry")
		return nil, err
	}
	s.logTransition(&tr)

	return &entity.NegotiationOutputModel{
		Inquiry:     s.render(&tr.Inquiry, tr.Inquiry.Status, tr.Inquiry.CreatedAt, gig.Title),
		LatestEntry: mapEntry(tr.Latest()),
	}, nil
}

func (s *InquiryService) GetInquiry(ctx context.Context, inquiryId string, actorId string) (*entity.InquiryOutputModel, error) {
	inquiry, _, err := s.load(ctx, inquiryId, actorId)
	if err != nil {
		return nil, err
	}

	inquiry, err = s.expire(ctx, inquiry, s.now())
	if err != nil {
		return nil, err
	}

	return s.render(inquiry, inquiry.Status, s.now(), s.gigs.Title(ctx, inquiry.GigId)), nil
}

func (s *InquiryService) GetHistory(ctx context.Context, inquiryId string, actorId string) ([]entity.HistoryEntryOutputModel, error) {
	inquiry, _, err := s.load(ctx, inquiryId, actorId)
	if err != nil {
		return nil, err
	}

	inquiry, err = s.expire(ctx, inquiry, s.now())
	if err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.GetHistoryByInquiryId(ctx, inquiry.Id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrInquiryNotFound
		}

		return nil, err
	}

	projection, err := negotiation.Replay(entries)
	if err != nil || !projection.Matches(inquiry) {
		s.log.WithFields(logrus.Fields{
			"inquiry_id": inquiry.Id,
			"round":      inquiry.Round,
			"seq":        inquiry.Seq,
		}).WithError(err).Warn("inquiry row diverges from its history")
	}

	return mapEntries(entries), nil
}

func (s *InquiryService) ListInquiries(ctx context.Context, input *entity.ListInquiriesInput) ([]entity.InquiryOutputModel, error) {
	userId, err := uuid.Parse(input.UserId)
	if err != nil {
		return nil, ErrUserNotFound
	}

	pg := input.Page
	if pg == nil {
		pg = entity.NewPaginationInput(defaultListLimit, 0)
	}

	now := s.now()
	inquiries, err := s.inquiryRepo.GetInquiries(ctx, &entity.InquiryFilter{
		UserId: userId,
		Role:   input.Role,
		Status: input.Status,
		Now:    now,
	}, pg)
	if err != nil {
		return nil, err
	}

	out := make([]entity.InquiryOutputModel, 0, len(inquiries))
	for i := range inquiries {
		inquiry := &inquiries[i]
		status := inquiry.Status
		if s.machine.Expiry().IsExpired(inquiry, now) {
			status = entity.StatusExpired
		}
		out = append(out, *s.render(inquiry, status, now, s.gigs.Title(ctx, inquiry.GigId)))
	}

	return out, nil
}

func (s *InquiryService) Counter(ctx context.Context, input *entity.CounterInput) (*entity.NegotiationOutputModel, error) {
	proposal := negotiation.Proposal{
		Price:    input.Price,
		Quantity: input.Quantity,
		Message:  input.Message,
	}

	return s.act(ctx, entity.ActionCountered, input.InquiryId, input.ActorId, input.Round,
		func(inquiry *entity.Inquiry, actor entity.Party, now time.Time) (negotiation.Transition, error) {
			return s.machine.Counter(inquiry, actor, proposal, now)
		})
}

func (s *InquiryService) Accept(ctx context.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error) {
	return s.act(ctx, entity.ActionAccepted, inquiryId, actorId, round, s.machine.Accept)
}

func (s *InquiryService) Reject(ctx context.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error) {
	return s.act(ctx, entity.ActionRejected, inquiryId, actorId, round, s.machine.Reject)
}

func (s *InquiryService) Revive(ctx context.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error) {
	return s.act(ctx, entity.ActionRevived, inquiryId, actorId, round, s.machine.Revive)
}

func (s *InquiryService) DeleteInquiry(ctx context.Context, inquiryId string, actorId string, round int) error {
	_, err := s.act(ctx, entity.ActionDeleted, inquiryId, actorId, round, s.machine.Delete)

	return err
}

type step func(inquiry *entity.Inquiry, actor entity.Party, now time.Time) (negotiation.Transition, error)

// act runs one party action: load, authorize, check the round, commit a lapsed
// deadline if needed, compute the transition and store it conditionally.
func (s *InquiryService) act(ctx context.Context, action entity.Action, inquiryId string, actorId string, round int, next step) (out *entity.NegotiationOutputModel, err error) {
	started := time.Now()
	defer func() { s.metrics.observe(action, started, err) }()

	inquiry, actor, err := s.load(ctx, inquiryId, actorId)
	if err != nil {
		return nil, err
	}
	if inquiry.Round != round {
		return nil, negotiation.ErrStaleRound
	}

	now := s.now()
	// Revive commits the lapse itself, in the same write as the revival.
	if action != entity.ActionRevived {
		inquiry, err = s.expire(ctx, inquiry, now)
		if err != nil {
			return nil, err
		}
		if inquiry.Round != round {
			return nil, negotiation.ErrStaleRound
		}
	}

	tr, err := next(inquiry, actor, now)
	if err != nil {
		return nil, err
	}

	if err = s.save(ctx, inquiry, &tr); err != nil {
		return nil, err
	}
	s.logTransition(&tr)

	return &entity.NegotiationOutputModel{
		Inquiry:     s.render(&tr.Inquiry, tr.Inquiry.Status, now, s.gigs.Title(ctx, tr.Inquiry.GigId)),
		LatestEntry: mapEntry(tr.Latest()),
	}, nil
}

func (s *InquiryService) load(ctx context.Context, inquiryId string, actorId string) (*entity.Inquiry, entity.Party, error) {
	id, err := uuid.Parse(inquiryId)
	if err != nil {
		return nil, "", ErrInquiryNotFound
	}
	userId, err := uuid.Parse(actorId)
	if err != nil {
		return nil, "", negotiation.ErrForbidden
	}

	inquiry, err := s.inquiryRepo.GetInquiryById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, "", ErrInquiryNotFound
		}

		return nil, "", err
	}

	party, ok := inquiry.PartyOf(userId)
	if !ok {
		return nil, "", negotiation.ErrForbidden
	}

	return inquiry, party, nil
}

// expire commits a lapsed deadline and returns the inquiry as stored
// afterwards. Losing the write race to another request is not an error: the
// winner's state is reloaded instead.
func (s *InquiryService) expire(ctx context.Context, inquiry *entity.Inquiry, now time.Time) (*entity.Inquiry, error) {
	tr, ok := s.machine.Expire(inquiry, now)
	if !ok {
		return inquiry, nil
	}

	err := s.save(ctx, inquiry, &tr)
	if errors.Is(err, negotiation.ErrStaleRound) {
		reloaded, err := s.inquiryRepo.GetInquiryById(ctx, inquiry.Id)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrInquiryNotFound
			}

			return nil, err
		}

		return reloaded, nil
	}
	if err != nil {
		return nil, err
	}

	s.metrics.expired()
	s.logTransition(&tr)

	return &tr.Inquiry, nil
}

func (s *InquiryService) save(ctx context.Context, prev *entity.Inquiry, tr *negotiation.Transition) error {
	err := s.inquiryRepo.SaveTransition(ctx, &tr.Inquiry, prev.Round, prev.Seq, tr.Entries)
	if err != nil {
		if errors.Is(err, repo_errors.ErrStaleWrite) {
			return negotiation.ErrStaleRound
		}

		s.log.WithError(err).WithField("inquiry_id", prev.Id).Error("store transition")
		return err
	}

	return nil
}

func (s *InquiryService) render(inquiry *entity.Inquiry, status entity.InquiryStatus, now time.Time, gigTitle string) *entity.InquiryOutputModel {
	return mapInquiry(inquiry, status, s.machine.Expiry().Remaining(inquiry, now), gigTitle)
}

func (s *InquiryService) logTransition(tr *negotiation.Transition) {
	latest := tr.Latest()
	entry := s.log.WithFields(logrus.Fields{
		"inquiry_id": tr.Inquiry.Id,
		"action":     latest.Action,
		"actor":      latest.Actor,
		"round":      tr.Inquiry.Round,
		"status":     tr.Inquiry.Status,
	})
	if tr.Inquiry.Status.Terminal() && tr.Inquiry.Agreed != nil {
		entry = entry.WithFields(logrus.Fields{
			"agreed_price":    tr.Inquiry.Agreed.Price.StringFixed(2),
			"agreed_quantity": tr.Inquiry.Agreed.Quantity,
		})
	}
	entry.Info("inquiry transition committed")
}
