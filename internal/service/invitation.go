package service

import (
	"context"
	"errors"
	"fmt"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo"
	"pilot-bidding-api/internal/repo/repo_errors"
	"pilot-bidding-api/internal/token"
	"time"
)

// tokens longer than this are rejected before hashing
const maxTokenLength = 256

type InvitationService struct {
	invitationRepo repo.Invitation
	enquiryRepo    repo.Enquiry
	bidRepo        repo.Bid
	now            func() time.Time
}

func NewInvitationService(repos *repo.Repositories, opts Options) *InvitationService {
	opts = opts.withDefaults()

	return &InvitationService{
		invitationRepo: repos.Invitation,
		enquiryRepo:    repos.Enquiry,
		bidRepo:        repos.Bid,
		now:            opts.Clock,
	}
}

// GetInvitationByToken returns the token holder's view of the invitation.
// An expired or withdrawn invitation is only readable when it already
// carries the holder's bid.
func (s *InvitationService) GetInvitationByToken(ctx context.Context, rawToken string) (*entity.InvitationOutputModel, error) {
	inv, err := resolveInvitation(ctx, s.invitationRepo, rawToken)
	if err != nil {
		return nil, err
	}

	status := effectiveStatus(inv, s.now())

	bid, err := s.bidRepo.GetBidByInvitationId(ctx, inv.Id)
	if err != nil {
		if !errors.Is(err, repo_errors.ErrNotFound) {
			return nil, err
		}
	}

	if bid == nil {
		switch status {
		case common.InviteExpired:
			return nil, ErrInvitationExpired
		case common.InviteWithdrawn:
			return nil, ErrInvitationWithdrawn
		}
	}

	enquiry, err := s.enquiryRepo.GetEnquiryById(ctx, inv.EnquiryId)
	if err != nil {
		return nil, fmt.Errorf("enquiry for invitation %s: %w", inv.Id, err)
	}

	return mapInvitation(inv, status, enquiry, bid), nil
}

// resolveInvitation maps a presented token to its invitation by exact
// equality on the keyed digest; the raw token is never compared. Every
// failure is reported as ErrInvitationNotFound.
func resolveInvitation(ctx context.Context, invitations repo.Invitation, rawToken string) (*entity.Invitation, error) {
	if rawToken == "" || len(rawToken) > maxTokenLength {
		return nil, ErrInvitationNotFound
	}

	inv, err := invitations.GetInvitationByTokenHash(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}

		return nil, err
	}

	return inv, nil
}

// effectiveStatus folds the expiry time into the stored status. Expiry is
// monotonic: once expires_at passes an open invitation reads as expired
// whether or not it holds a bid.
func effectiveStatus(inv *entity.Invitation, now time.Time) string {
	switch inv.Status {
	case common.InvitePending, common.InviteBidSubmitted:
		if !now.Before(inv.ExpiresAt) {
			return common.InviteExpired
		}
	}

	return inv.Status
}
