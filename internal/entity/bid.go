package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Bid struct {
	Id           uuid.UUID       `db:"id"`
	InvitationId uuid.UUID       `db:"invitation_id"`
	Status       string          `db:"status"`
	PriceAmount  decimal.Decimal `db:"price_amount"`
	Currency     string          `db:"currency"`
	EtaDays      int             `db:"eta_days"`
	Notes        *string         `db:"notes"`
	SubmittedAt  time.Time       `db:"submitted_at"`
}

// service input model
type SubmitBidInput struct {
	PriceAmount decimal.Decimal
	Currency    string
	EtaDays     int
	Notes       *string
}

// repo input model
type CreateBidInput struct {
	InvitationId uuid.UUID
	PriceAmount  decimal.Decimal
	Currency     string
	EtaDays      int
	Notes        *string
	Status       string    // should be set: "submitted"
	SubmittedAt  time.Time // should be set by the service clock
	// Id UUID sets automatically
}

// controller model
type BidOutputModel struct {
	Id          string          `json:"id"`
	Status      string          `json:"status"`
	PriceAmount decimal.Decimal `json:"price_amount"`
	Currency    string          `json:"currency"`
	EtaDays     int             `json:"eta_days"`
	Notes       *string         `json:"notes"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// BidSubmittedEvent is published after a bid commits. It carries no
// pricing so that subscribers cannot leak one pilot's quote to another.
type BidSubmittedEvent struct {
	Type         string    `json:"type"`
	InvitationId string    `json:"invitationId"`
	EnquiryId    string    `json:"enquiryId"`
	BidId        string    `json:"bidId"`
	SubmittedAt  time.Time `json:"submittedAt"`
}
