package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo"
	"pilot-bidding-api/internal/repo/repo_errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const EventBidSubmitted = "EVENT_BID_SUBMITTED"

// upper bound of NUMERIC(12,2)
var maxPriceAmount = decimal.New(1, 10)

type BidService struct {
	bidRepo        repo.Bid
	invitationRepo repo.Invitation
	currency       string
	now            func() time.Time
	events         BidEvents
	log            *slog.Logger
}

func NewBidService(repos *repo.Repositories, opts Options) *BidService {
	opts = opts.withDefaults()

	return &BidService{
		bidRepo:        repos.Bid,
		invitationRepo: repos.Invitation,
		currency:       opts.Currency,
		now:            opts.Clock,
		events:         opts.Events,
		log:            opts.Logger,
	}
}

// SubmitBid creates the one bid an invitation may carry. Field validation
// runs first, then the token, expiry and existing-bid checks in that
// order. The store's unique index on invitation_id decides concurrent
// submissions; losers get a *BidConflictError with the winning bid.
func (s *BidService) SubmitBid(ctx context.Context, rawToken string, input *entity.SubmitBidInput) (*entity.BidOutputModel, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	inv, err := resolveInvitation(ctx, s.invitationRepo, rawToken)
	if err != nil {
		return nil, err
	}

	if err := s.checkOpen(ctx, inv); err != nil {
		return nil, err
	}

	bid, err := s.bidRepo.CreateBid(ctx, &entity.CreateBidInput{
		InvitationId: inv.Id,
		PriceAmount:  input.PriceAmount,
		Currency:     input.Currency,
		EtaDays:      input.EtaDays,
		Notes:        normalizeNotes(input.Notes),
		Status:       common.BidSubmitted,
		SubmittedAt:  s.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrAlreadyExists):
			return nil, s.conflict(ctx, inv)
		case errors.Is(err, repo_errors.ErrStatusChanged):
			fresh, ferr := s.invitationRepo.GetInvitationById(ctx, inv.Id)
			if ferr != nil {
				return nil, ferr
			}
			if cerr := s.checkOpen(ctx, fresh); cerr != nil {
				return nil, cerr
			}

			return nil, fmt.Errorf("invitation %s is %s without a bid", inv.Id, fresh.Status)
		}

		return nil, err
	}

	s.publish(ctx, inv, bid)

	return mapBid(bid), nil
}

// checkOpen reports why inv cannot take a new bid, or nil when it can.
func (s *BidService) checkOpen(ctx context.Context, inv *entity.Invitation) error {
	switch effectiveStatus(inv, s.now()) {
	case common.InviteExpired:
		return ErrInvitationExpired
	case common.InviteWithdrawn:
		return ErrInvitationWithdrawn
	}

	existing, err := s.bidRepo.GetBidByInvitationId(ctx, inv.Id)
	if err == nil {
		return &BidConflictError{Bid: mapBid(existing)}
	}
	if !errors.Is(err, repo_errors.ErrNotFound) {
		return err
	}

	return nil
}

func (s *BidService) conflict(ctx context.Context, inv *entity.Invitation) error {
	existing, err := s.bidRepo.GetBidByInvitationId(ctx, inv.Id)
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return err
	}

	return &BidConflictError{Bid: mapBid(existing)}
}

func (s *BidService) publish(ctx context.Context, inv *entity.Invitation, bid *entity.Bid) {
	event := entity.BidSubmittedEvent{
		Type:         EventBidSubmitted,
		InvitationId: inv.Id.String(),
		EnquiryId:    inv.EnquiryId.String(),
		BidId:        bid.Id.String(),
		SubmittedAt:  bid.SubmittedAt,
	}
	if err := s.events.PublishBidSubmitted(ctx, event); err != nil {
		s.log.Warn("publish bid event failed",
			slog.String("op", "service.BidService.publish"),
			slog.String("bid_id", event.BidId),
			slog.String("error", err.Error()))
	}
}

func (s *BidService) validateInput(input *entity.SubmitBidInput) error {
	if input == nil {
		return &ValidationError{Field: "body", Msg: "is required"}
	}

	if exp := input.PriceAmount.Exponent(); !common.PriceExponentInRange(exp) {
		if exp > 0 {
			return &ValidationError{Field: "price_amount", Msg: "is too large"}
		}

		return &ValidationError{Field: "price_amount", Msg: "must have at most 2 decimal places"}
	}
	if !input.PriceAmount.IsPositive() {
		return &ValidationError{Field: "price_amount", Msg: "must be greater than 0"}
	}
	if !input.PriceAmount.Round(2).Equal(input.PriceAmount) {
		return &ValidationError{Field: "price_amount", Msg: "must have at most 2 decimal places"}
	}
	if input.PriceAmount.GreaterThanOrEqual(maxPriceAmount) {
		return &ValidationError{Field: "price_amount", Msg: "is too large"}
	}

	if input.Currency != s.currency {
		return &ValidationError{Field: "currency", Msg: "must be " + s.currency}
	}

	if input.EtaDays < common.MinEtaDays || input.EtaDays > common.MaxEtaDays {
		return &ValidationError{
			Field: "eta_days",
			Msg:   fmt.Sprintf("must be between %d and %d", common.MinEtaDays, common.MaxEtaDays),
		}
	}

	if input.Notes != nil && utf8.RuneCountInString(*input.Notes) > common.MaxNotesLength {
		return &ValidationError{
			Field: "notes",
			Msg:   fmt.Sprintf("must be at most %d characters", common.MaxNotesLength),
		}
	}

	return nil
}

// normalizeNotes stores blank notes as NULL.
func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
