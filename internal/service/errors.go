package service

import (
	"errors"
	"pilot-bidding-api/internal/entity"
)

var (
	// ErrInvitationNotFound covers unknown, malformed and foreign tokens
	// alike so that responses cannot be used to probe for tokens.
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrInvitationWithdrawn = errors.New("invitation has been withdrawn")
	ErrBidAlreadySubmitted = errors.New("bid already submitted")
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Msg }

// BidConflictError carries the bid that already holds the invitation.
type BidConflictError struct {
	Bid *entity.BidOutputModel
}

func (e *BidConflictError) Error() string { return ErrBidAlreadySubmitted.Error() }

func (e *BidConflictError) Unwrap() error { return ErrBidAlreadySubmitted }
