// Package memdb is an in-memory implementation of the enquiry, invitation
// and bid stores. It keeps the same uniqueness guarantees as the Postgres
// schema: one invitation per token digest, one invitation per
// (enquiry, pilot) and one bid per invitation.
package memdb

import (
	"context"
	"fmt"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo/repo_errors"
	"sync"

	"github.com/google/uuid"
)

type pilotKey struct {
	enquiryId uuid.UUID
	pilotId   uuid.UUID
}

type DB struct {
	mu sync.RWMutex

	enquiries   map[uuid.UUID]entity.Enquiry
	invitations map[uuid.UUID]entity.Invitation
	byTokenHash map[string]uuid.UUID
	byPilot     map[pilotKey]uuid.UUID

	// keyed by invitation id: the unique index on bid.invitation_id
	bids map[uuid.UUID]entity.Bid
}

func New() *DB {
	return &DB{
		enquiries:   make(map[uuid.UUID]entity.Enquiry),
		invitations: make(map[uuid.UUID]entity.Invitation),
		byTokenHash: make(map[string]uuid.UUID),
		byPilot:     make(map[pilotKey]uuid.UUID),
		bids:        make(map[uuid.UUID]entity.Bid),
	}
}

func (db *DB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (db *DB) AddEnquiry(e entity.Enquiry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.enquiries[e.Id]; ok {
		return fmt.Errorf("enquiry %s: %w", e.Id, repo_errors.ErrAlreadyExists)
	}
	db.enquiries[e.Id] = e

	return nil
}

func (db *DB) AddInvitation(inv entity.Invitation) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.enquiries[inv.EnquiryId]; !ok {
		return fmt.Errorf("enquiry %s: %w", inv.EnquiryId, repo_errors.ErrNotFound)
	}
	if !common.ValidInviteStatus(inv.Status) {
		return fmt.Errorf("invitation %s: invalid status %q", inv.Id, inv.Status)
	}
	if _, ok := db.invitations[inv.Id]; ok {
		return fmt.Errorf("invitation %s: %w", inv.Id, repo_errors.ErrAlreadyExists)
	}
	if _, ok := db.byTokenHash[inv.TokenHash]; ok {
		return fmt.Errorf("invitation token: %w", repo_errors.ErrAlreadyExists)
	}
	key := pilotKey{inv.EnquiryId, inv.PilotId}
	if _, ok := db.byPilot[key]; ok {
		return fmt.Errorf("invitation for pilot %s on enquiry %s: %w", inv.PilotId, inv.EnquiryId, repo_errors.ErrAlreadyExists)
	}

	db.invitations[inv.Id] = inv
	db.byTokenHash[inv.TokenHash] = inv.Id
	db.byPilot[key] = inv.Id

	return nil
}

func (db *DB) GetEnquiryById(ctx context.Context, id uuid.UUID) (*entity.Enquiry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	e, ok := db.enquiries[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &e, nil
}

func (db *DB) GetInvitationByTokenHash(ctx context.Context, tokenHash string) (*entity.Invitation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	id, ok := db.byTokenHash[tokenHash]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	inv := db.invitations[id]

	return &inv, nil
}

func (db *DB) GetInvitationById(ctx context.Context, id uuid.UUID) (*entity.Invitation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	inv, ok := db.invitations[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &inv, nil
}

func (db *DB) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	inv, ok := db.invitations[input.InvitationId]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	if _, exists := db.bids[input.InvitationId]; exists {
		return nil, repo_errors.ErrAlreadyExists
	}
	if inv.Status != common.InvitePending {
		return nil, repo_errors.ErrStatusChanged
	}

	bid := entity.Bid{
		Id:           uuid.New(),
		InvitationId: input.InvitationId,
		Status:       input.Status,
		PriceAmount:  input.PriceAmount,
		Currency:     input.Currency,
		EtaDays:      input.EtaDays,
		Notes:        copyString(input.Notes),
		SubmittedAt:  input.SubmittedAt,
	}
	db.bids[input.InvitationId] = bid

	inv.Status = common.InviteBidSubmitted
	db.invitations[inv.Id] = inv

	return &bid, nil
}

func (db *DB) GetBidByInvitationId(ctx context.Context, invitationId uuid.UUID) (*entity.Bid, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	bid, ok := db.bids[invitationId]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	bid.Notes = copyString(bid.Notes)

	return &bid, nil
}

// BidCount returns the number of stored bids across all invitations.
func (db *DB) BidCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.bids)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s

	return &v
}
