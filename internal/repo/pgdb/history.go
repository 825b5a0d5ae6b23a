package pgdb

import (
	"context"
	"database/sql"
	"negotiation-api/internal/entity"
	"negotiation-api/internal/repo/repo_errors"
	"negotiation-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// negotiation_history is insert-only: this package never updates or deletes
// its rows.
type HistoryRepo struct {
	*postgres.Postgres
}

func NewHistoryRepo(pgdb *postgres.Postgres) *HistoryRepo {
	return &HistoryRepo{pgdb}
}

func (r *HistoryRepo) GetHistoryByInquiryId(ctx context.Context, inquiryId uuid.UUID) ([]entity.HistoryEntry, error) {
	getHistorySql, args, err := r.SqlBuilder.
		Select("id", "inquiry_id", "seq", "created_at", "actor", "action", "price", "quantity", "message").
		From("negotiation_history").
		Where("inquiry_id = ?", inquiryId).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build history lookup")
	}

	rows, err := r.Database.QueryContext(ctx, getHistorySql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select history")
	}
	defer rows.Close()

	entries := make([]entity.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry    entity.HistoryEntry
			price    decimal.NullDecimal
			quantity sql.NullInt64
		)
		if err := rows.Scan(&entry.Id, &entry.InquiryId, &entry.Seq, &entry.Timestamp,
			&entry.Actor, &entry.Action, &price, &quantity, &entry.Message); err != nil {
			return entries, errors.Wrap(err, "scan history entry")
		}
		entry.Offer = nullableOffer(price, quantity)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return entries, errors.Wrap(err, "iterate history")
	}
	if len(entries) == 0 {
		return nil, repo_errors.ErrNotFound
	}

	return entries, nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, p *postgres.Postgres, entries []entity.HistoryEntry) error {
	if len(entries) == 0 {
		return errors.New("transition without history entry")
	}

	query := p.SqlBuilder.
		Insert("negotiation_history").
		Columns("id", "inquiry_id", "seq", "actor", "action", "price", "quantity", "message", "created_at")
	for _, e := range entries {
		query = query.Values(e.Id, e.InquiryId, e.Seq, e.Actor, e.Action, offerPrice(e.Offer), offerQuantity(e.Offer), e.Message, e.Timestamp)
	}

	insertHistorySql, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "build history insert")
	}

	if _, err = tx.ExecContext(ctx, insertHistorySql, args...); err != nil {
		if isUniqueViolation(err) {
			return repo_errors.ErrStaleWrite
		}

		return errors.Wrap(err, "insert history")
	}

	return nil
}
