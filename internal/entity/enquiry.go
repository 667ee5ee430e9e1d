package entity

import (
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// db model
type Enquiry struct {
	Id               uuid.UUID  `db:"id"`
	ServiceSlug      string     `db:"service_slug"`
	DateNeeded       *time.Time `db:"date_needed"`
	DateFlexibility  string     `db:"date_flexibility"`
	SiteLocationText string     `db:"site_location_text"`
	Postcode         string     `db:"postcode"`
	Brief            string     `db:"brief"` // anonymized
	CreatedAt        time.Time  `db:"created_at"`
}

// controller model
type EnquiryOutputModel struct {
	ServiceSlug      string  `json:"service_slug"`
	DateNeeded       *string `json:"date_needed"`
	DateFlexibility  string  `json:"date_flexibility"`
	SiteLocationText string  `json:"site_location_text"`
	Postcode         string  `json:"postcode"`
}
