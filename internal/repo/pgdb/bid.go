package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo/repo_errors"
	"pilot-bidding-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

// CreateBid relies on UNIQUE (invitation_id) on the bid table. Concurrent
// inserts for one invitation block on the index until the first commits,
// then fail with a unique violation.
func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.Bid, error) {
	const op = "pgdb.BidRepo.CreateBid"

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	createBidReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("invitation_id", "status", "price_amount", "currency", "eta_days", "notes", "submitted_at").
		Values(input.InvitationId, input.Status, input.PriceAmount, input.Currency,
			input.EtaDays, input.Notes, input.SubmittedAt).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	err = tx.QueryRowContext(ctx, createBidReq, args...).Scan(&bidId)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return nil, fmt.Errorf("%s: rollback: %w", op, e)
		}

		if isUniqueViolation(err) {
			return nil, repo_errors.ErrAlreadyExists
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updateStatusReq, args, _ := r.SqlBuilder.
		Update("invitation").
		Set("status", common.InviteBidSubmitted).
		Where("id = ?", input.InvitationId).
		Where("status = ?", common.InvitePending).
		ToSql()

	res, err := tx.ExecContext(ctx, updateStatusReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return nil, fmt.Errorf("%s: rollback: %w", op, e)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return nil, fmt.Errorf("%s: rollback: %w", op, e)
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return nil, repo_errors.ErrStatusChanged
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, repo_errors.ErrAlreadyExists
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &entity.Bid{
		Id:           bidId,
		InvitationId: input.InvitationId,
		Status:       input.Status,
		PriceAmount:  input.PriceAmount,
		Currency:     input.Currency,
		EtaDays:      input.EtaDays,
		Notes:        input.Notes,
		SubmittedAt:  input.SubmittedAt,
	}, nil
}

func (r *BidRepo) GetBidByInvitationId(ctx context.Context, invitationId uuid.UUID) (*entity.Bid, error) {
	const op = "pgdb.BidRepo.GetBidByInvitationId"

	getBidReq, args, _ := r.SqlBuilder.
		Select("id", "invitation_id", "status", "price_amount", "currency", "eta_days", "notes", "submitted_at").
		From("bid").
		Where("invitation_id = ?", invitationId).
		ToSql()

	var bid entity.Bid
	var notes sql.NullString
	err := r.Database.QueryRowContext(ctx, getBidReq, args...).Scan(
		&bid.Id, &bid.InvitationId, &bid.Status, &bid.PriceAmount,
		&bid.Currency, &bid.EtaDays, &notes, &bid.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if notes.Valid {
		bid.Notes = &notes.String
	}

	return &bid, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
