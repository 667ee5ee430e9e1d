package service

import (
	"pilot-bidding-api/internal/entity"
)

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	if b == nil {
		return nil
	}

	return &entity.BidOutputModel{
		Id:          b.Id.String(),
		Status:      b.Status,
		PriceAmount: b.PriceAmount,
		Currency:    b.Currency,
		EtaDays:     b.EtaDays,
		Notes:       b.Notes,
		SubmittedAt: b.SubmittedAt,
	}
}

func mapEnquiry(e *entity.Enquiry) entity.EnquiryOutputModel {
	out := entity.EnquiryOutputModel{
		ServiceSlug:      e.ServiceSlug,
		DateFlexibility:  e.DateFlexibility,
		SiteLocationText: e.SiteLocationText,
		Postcode:         e.Postcode,
	}
	if e.DateNeeded != nil {
		d := e.DateNeeded.Format(entity.DateLayout)
		out.DateNeeded = &d
	}

	return out
}

func mapInvitation(inv *entity.Invitation, status string, e *entity.Enquiry, b *entity.Bid) *entity.InvitationOutputModel {
	return &entity.InvitationOutputModel{
		InvitationId: inv.Id.String(),
		EnquiryId:    inv.EnquiryId.String(),
		InviteStatus: status,
		ExpiresAt:    inv.ExpiresAt,
		Brief:        e.Brief,
		Enquiry:      mapEnquiry(e),
		Bid:          mapBid(b),
	}
}
