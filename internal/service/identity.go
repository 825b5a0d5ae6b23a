package service

import (
	"context"
	"errors"

	"negotiation-api/internal/repo"
	"negotiation-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type IdentityService struct {
	userRepo repo.User
}

func NewIdentityService(repos *repo.Repositories) *IdentityService {
	return &IdentityService{repos.User}
}

func (s *IdentityService) ResolveUsername(ctx context.Context, username string) (uuid.UUID, error) {
	if username == "" {
		return uuid.Nil, ErrUserNotFound
	}

	userId, err := s.userRepo.GetUserIdByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return uuid.Nil, ErrUserNotFound
		}

		return uuid.Nil, err
	}

	return userId, nil
}
