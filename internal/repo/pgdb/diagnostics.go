package pgdb

import (
	"context"
	"negotiation-api/pkg/postgres"

	"github.com/pkg/errors"
)

type DiagnosticsRepo struct {
	*postgres.Postgres
}

func NewDiagnosticsRepo(pgdb *postgres.Postgres) *DiagnosticsRepo {
	return &DiagnosticsRepo{pgdb}
}

func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	if err := r.Database.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping database")
	}

	return nil
}
