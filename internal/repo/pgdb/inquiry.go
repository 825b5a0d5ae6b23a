package pgdb

import (
	"context"
	"database/sql"
	"negotiation-api/internal/entity"
	"negotiation-api/internal/repo/repo_errors"
	"negotiation-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var inquiryColumns = []string{
	"id", "buyer_id", "supplier_id", "gig_id", "status", "round", "seq",
	"requested_price", "requested_quantity",
	"proposed_price", "proposed_quantity",
	"agreed_price", "agreed_quantity",
	"last_actor", "message", "created_at", "updated_at", "respond_by", "deleted_at",
}

type InquiryRepo struct {
	*postgres.Postgres
}

func NewInquiryRepo(pgdb *postgres.Postgres) *InquiryRepo {
	return &InquiryRepo{pgdb}
}

func (r *InquiryRepo) CreateInquiry(ctx context.Context, inquiry *entity.Inquiry, entries []entity.HistoryEntry) error {
	createInquirySql, args, err := r.SqlBuilder.
		Insert("inquiry").
		Columns(inquiryColumns...).
		Values(
			inquiry.Id, inquiry.BuyerId, inquiry.SupplierId, inquiry.GigId, inquiry.Status, inquiry.Round, inquiry.Seq,
			inquiry.Requested.Price, inquiry.Requested.Quantity,
			offerPrice(inquiry.Proposed), offerQuantity(inquiry.Proposed),
			offerPrice(inquiry.Agreed), offerQuantity(inquiry.Agreed),
			inquiry.LastActor, inquiry.Message, inquiry.CreatedAt, inquiry.UpdatedAt, inquiry.RespondBy, inquiry.DeletedAt,
		).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build inquiry insert")
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin inquiry insert")
	}

	if _, err = tx.ExecContext(ctx, createInquirySql, args...); err != nil {
		return rollback(tx, errors.Wrap(err, "insert inquiry"))
	}

	if err = insertHistory(ctx, tx, r.Postgres, entries); err != nil {
		return rollback(tx, err)
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit inquiry insert")
	}

	return nil
}

func (r *InquiryRepo) GetInquiryById(ctx context.Context, id uuid.UUID) (*entity.Inquiry, error) {
	getInquirySql, args, err := r.SqlBuilder.
		Select(inquiryColumns...).
		From("inquiry").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build inquiry lookup")
	}

	inquiry, err := scanInquiry(r.Database.QueryRowContext(ctx, getInquirySql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, errors.Wrap(err, "select inquiry")
	}

	return inquiry, nil
}

func (r *InquiryRepo) GetInquiries(ctx context.Context, filter *entity.InquiryFilter, pg *entity.PaginationInput) ([]entity.Inquiry, error) {
	query := r.SqlBuilder.
		Select(inquiryColumns...).
		From("inquiry").
		Where("deleted_at IS NULL")

	if filter.Role == entity.RoleSupplier {
		query = query.Where("supplier_id = ?", filter.UserId)
	} else {
		query = query.Where("buyer_id = ?", filter.UserId)
	}

	// A lapsed inquiry reads as EXPIRED before anyone commits it, so status
	// filters look at the deadline as well as the stored status.
	switch {
	case filter.Status == entity.StatusExpired:
		query = query.Where(squirrel.Or{
			squirrel.Eq{"status": entity.StatusExpired},
			squirrel.And{
				squirrel.Eq{"status": []string{string(entity.StatusPending), string(entity.StatusNegotiating)}},
				squirrel.Lt{"respond_by": filter.Now},
			},
		})
	case filter.Status.Open():
		query = query.Where("status = ?", filter.Status).Where("respond_by >= ?", filter.Now)
	case filter.Status != "":
		query = query.Where("status = ?", filter.Status)
	}

	getInquiriesSql, args, err := query.
		OrderBy("updated_at DESC", "id ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build inquiry listing")
	}

	rows, err := r.Database.QueryContext(ctx, getInquiriesSql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select inquiries")
	}
	defer rows.Close()

	inquiries := make([]entity.Inquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return inquiries, errors.Wrap(err, "scan inquiry")
		}
		inquiries = append(inquiries, *inquiry)
	}
	if err = rows.Err(); err != nil {
		return inquiries, errors.Wrap(err, "iterate inquiries")
	}

	return inquiries, nil
}

func (r *InquiryRepo) SaveTransition(ctx context.Context, next *entity.Inquiry, expectedRound int, expectedSeq int, entries []entity.HistoryEntry) error {
	updateInquirySql, args, err := r.SqlBuilder.
		Update("inquiry").
		Set("status", next.Status).
		Set("round", next.Round).
		Set("seq", next.Seq).
		Set("proposed_price", offerPrice(next.Proposed)).
		Set("proposed_quantity", offerQuantity(next.Proposed)).
		Set("agreed_price", offerPrice(next.Agreed)).
		Set("agreed_quantity", offerQuantity(next.Agreed)).
		Set("last_actor", next.LastActor).
		Set("updated_at", next.UpdatedAt).
		Set("respond_by", next.RespondBy).
		Set("deleted_at", next.DeletedAt).
		Where("id = ?", next.Id).
		Where("round = ?", expectedRound).
		Where("seq = ?", expectedSeq).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build inquiry update")
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin inquiry update")
	}

	res, err := tx.ExecContext(ctx, updateInquirySql, args...)
	if err != nil {
		return rollback(tx, errors.Wrap(err, "update inquiry"))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return rollback(tx, errors.Wrap(err, "update inquiry"))
	}
	if affected == 0 {
		return rollback(tx, repo_errors.ErrStaleWrite)
	}

	if err = insertHistory(ctx, tx, r.Postgres, entries); err != nil {
		return rollback(tx, err)
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit inquiry update")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInquiry(row rowScanner) (*entity.Inquiry, error) {
	var (
		inquiry                    entity.Inquiry
		proposedPrice, agreedPrice decimal.NullDecimal
		proposedQty, agreedQty     sql.NullInt64
		deletedAt                  sql.NullTime
	)

	err := row.Scan(
		&inquiry.Id, &inquiry.BuyerId, &inquiry.SupplierId, &inquiry.GigId, &inquiry.Status, &inquiry.Round, &inquiry.Seq,
		&inquiry.Requested.Price, &inquiry.Requested.Quantity,
		&proposedPrice, &proposedQty,
		&agreedPrice, &agreedQty,
		&inquiry.LastActor, &inquiry.Message, &inquiry.CreatedAt, &inquiry.UpdatedAt, &inquiry.RespondBy, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if !inquiry.Status.Valid() {
		return nil, errors.Errorf("inquiry %s has unknown status %q", inquiry.Id, inquiry.Status)
	}

	inquiry.Proposed = nullableOffer(proposedPrice, proposedQty)
	inquiry.Agreed = nullableOffer(agreedPrice, agreedQty)
	if deletedAt.Valid {
		t := deletedAt.Time
		inquiry.DeletedAt = &t
	}

	return &inquiry, nil
}

func nullableOffer(price decimal.NullDecimal, quantity sql.NullInt64) *entity.Offer {
	if !price.Valid || !quantity.Valid {
		return nil
	}

	return &entity.Offer{Price: price.Decimal, Quantity: quantity.Int64}
}

func offerPrice(o *entity.Offer) any {
	if o == nil {
		return nil
	}

	return o.Price
}

func offerQuantity(o *entity.Offer) any {
	if o == nil {
		return nil
	}

	return o.Quantity
}

func rollback(tx *sql.Tx, cause error) error {
	if e := tx.Rollback(); e != nil {
		return errors.Wrapf(cause, "rollback: %v", e)
	}

	return cause
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
