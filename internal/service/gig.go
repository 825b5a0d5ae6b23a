package service

import (
	"context"
	"errors"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/repo"
	"negotiation-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

// GigCatalog is the read-only view of gig listings. Titles are served from an
// LRU cache; availability checks always go to the store.
type GigCatalog struct {
	gigRepo repo.Gig
	cache   *lru.Cache
}

func NewGigCatalog(gigRepo repo.Gig, size int) (*GigCatalog, error) {
	if size <= 0 {
		size = 1024
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &GigCatalog{gigRepo: gigRepo, cache: cache}, nil
}

func (c *GigCatalog) Get(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	gig, err := c.gigRepo.GetGigById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}
	c.cache.Add(id, gig)

	return gig, nil
}

// Title is display metadata only; a failed lookup yields "".
func (c *GigCatalog) Title(ctx context.Context, id uuid.UUID) string {
	if v, ok := c.cache.Get(id); ok {
		return v.(*entity.Gig).Title
	}

	gig, err := c.Get(ctx, id)
	if err != nil {
		return ""
	}

	return gig.Title
}
