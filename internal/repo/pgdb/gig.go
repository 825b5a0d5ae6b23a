package pgdb

import (
	"context"
	"database/sql"
	"negotiation-api/internal/entity"
	"negotiation-api/internal/repo/repo_errors"
	"negotiation-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type GigRepo struct {
	*postgres.Postgres
}

func NewGigRepo(pgdb *postgres.Postgres) *GigRepo {
	return &GigRepo{pgdb}
}

func (r *GigRepo) GetGigById(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	getGigSql, args, err := r.SqlBuilder.
		Select("id", "supplier_id", "title", "status").
		From("gig").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build gig lookup")
	}

	var gig entity.Gig
	err = r.Database.QueryRowContext(ctx, getGigSql, args...).
		Scan(&gig.Id, &gig.SupplierId, &gig.Title, &gig.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, errors.Wrap(err, "select gig")
	}

	return &gig, nil
}
