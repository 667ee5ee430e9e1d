package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo/repo_errors"
	"pilot-bidding-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var invitationColumns = []string{
	"id", "enquiry_id", "pilot_id", "token_hash", "status", "expires_at", "created_at",
}

type InvitationRepo struct {
	*postgres.Postgres
}

func NewInvitationRepo(pgdb *postgres.Postgres) *InvitationRepo {
	return &InvitationRepo{pgdb}
}

func (r *InvitationRepo) GetInvitationByTokenHash(ctx context.Context, tokenHash string) (*entity.Invitation, error) {
	return r.getInvitation(ctx, "pgdb.InvitationRepo.GetInvitationByTokenHash", squirrel.Eq{"token_hash": tokenHash})
}

func (r *InvitationRepo) GetInvitationById(ctx context.Context, id uuid.UUID) (*entity.Invitation, error) {
	return r.getInvitation(ctx, "pgdb.InvitationRepo.GetInvitationById", squirrel.Eq{"id": id})
}

func (r *InvitationRepo) getInvitation(ctx context.Context, op string, where squirrel.Eq) (*entity.Invitation, error) {
	sqlReq, args, err := r.SqlBuilder.
		Select(invitationColumns...).
		From("invitation").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var inv entity.Invitation
	err = r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(
		&inv.Id, &inv.EnquiryId, &inv.PilotId, &inv.TokenHash, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &inv, nil
}
