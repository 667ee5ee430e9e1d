package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Invitation struct {
	Id        uuid.UUID `db:"id"`
	EnquiryId uuid.UUID `db:"enquiry_id"`
	PilotId   uuid.UUID `db:"pilot_id"`
	TokenHash string    `db:"token_hash"`
	Status    string    `db:"status"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// controller model, only ever returned to the token holder
type InvitationOutputModel struct {
	InvitationId string             `json:"invitation_id"`
	EnquiryId    string             `json:"enquiry_id"`
	InviteStatus string             `json:"invite_status"`
	ExpiresAt    time.Time          `json:"expires_at"`
	Brief        string             `json:"brief"`
	Enquiry      EnquiryOutputModel `json:"enquiry"`
	Bid          *BidOutputModel    `json:"bid"`
}
