package pgdb

import (
	"context"
	"database/sql"
	"negotiation-api/internal/repo/repo_errors"
	"negotiation-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) GetUserIdByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	sqlReq, args, err := r.SqlBuilder.
		Select("id").
		From("app_user").
		Where("username = ?", username).
		ToSql()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "build user lookup")
	}

	var userId uuid.UUID
	err = r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repo_errors.ErrNotFound
		}

		return uuid.Nil, errors.Wrap(err, "select user by username")
	}

	return userId, nil
}

func (r *UserRepo) DoesUserExistById(ctx context.Context, id uuid.UUID) (bool, error) {
	sqlReq, args, err := r.SqlBuilder.
		Select("id").
		From("app_user").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "build user lookup")
	}

	var uid uuid.UUID
	err = r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, errors.Wrap(err, "select user by id")
	}

	return true, nil
}
