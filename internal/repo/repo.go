package repo

import (
	"context"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo/memdb"
	"pilot-bidding-api/internal/repo/pgdb"
	"pilot-bidding-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Enquiry interface {
	GetEnquiryById(ctx context.Context, id uuid.UUID) (*entity.Enquiry, error)
}

type Invitation interface {
	// GetInvitationByTokenHash matches the digest exactly; there is no
	// prefix or partial lookup.
	GetInvitationByTokenHash(ctx context.Context, tokenHash string) (*entity.Invitation, error)
	GetInvitationById(ctx context.Context, id uuid.UUID) (*entity.Invitation, error)
}

type Bid interface {
	// CreateBid inserts the bid and moves its invitation from pending to
	// bid_submitted atomically. A second bid for the same invitation fails
	// with repo_errors.ErrAlreadyExists.
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.Bid, error)
	GetBidByInvitationId(ctx context.Context, invitationId uuid.UUID) (*entity.Bid, error)
}

type Repositories struct {
	Diagnostics
	Enquiry
	Invitation
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Enquiry:     pgdb.NewEnquiryRepo(p),
		Invitation:  pgdb.NewInvitationRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}

func NewMemoryRepositories(db *memdb.DB) *Repositories {
	return &Repositories{
		Diagnostics: db,
		Enquiry:     db,
		Invitation:  db,
		Bid:         db,
	}
}
