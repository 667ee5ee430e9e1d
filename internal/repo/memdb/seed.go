package memdb

import (
	"fmt"
	"io"
	"os"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/token"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture format for local runs. Invitation tokens are
// given in the clear and digested on load.
type Seed struct {
	Enquiries   []SeedEnquiry    `yaml:"enquiries"`
	Invitations []SeedInvitation `yaml:"invitations"`
}

type SeedEnquiry struct {
	Id               string `yaml:"id"`
	ServiceSlug      string `yaml:"service_slug"`
	DateNeeded       string `yaml:"date_needed"` // 2006-01-02, empty when not specified
	DateFlexibility  string `yaml:"date_flexibility"`
	SiteLocationText string `yaml:"site_location_text"`
	Postcode         string `yaml:"postcode"`
	Brief            string `yaml:"brief"`
}

type SeedInvitation struct {
	Id        string `yaml:"id"`
	EnquiryId string `yaml:"enquiry_id"`
	PilotId   string `yaml:"pilot_id"`
	Token     string `yaml:"token"`
	Status    string `yaml:"status"`
	ExpiresAt string `yaml:"expires_at"` // RFC 3339
}

func DecodeSeed(r io.Reader) (*Seed, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var seed Seed
	if err := decoder.Decode(&seed); err != nil {
		if err == io.EOF {
			return &seed, nil
		}

		return nil, fmt.Errorf("decode seed: %w", err)
	}

	return &seed, nil
}

func LoadSeedFile(db *DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	seed, err := DecodeSeed(f)
	if err != nil {
		return err
	}

	return db.ApplySeed(seed, time.Now().UTC())
}

// ApplySeed inserts every fixture. now stamps created_at.
func (db *DB) ApplySeed(seed *Seed, now time.Time) error {
	for i, se := range seed.Enquiries {
		id, err := parseOrNewId(se.Id)
		if err != nil {
			return fmt.Errorf("enquiries[%d].id: %w", i, err)
		}

		e := entity.Enquiry{
			Id:               id,
			ServiceSlug:      se.ServiceSlug,
			DateFlexibility:  se.DateFlexibility,
			SiteLocationText: se.SiteLocationText,
			Postcode:         se.Postcode,
			Brief:            se.Brief,
			CreatedAt:        now,
		}
		if se.DateNeeded != "" {
			d, err := time.Parse(entity.DateLayout, se.DateNeeded)
			if err != nil {
				return fmt.Errorf("enquiries[%d].date_needed: %w", i, err)
			}
			e.DateNeeded = &d
		}

		if err := db.AddEnquiry(e); err != nil {
			return fmt.Errorf("enquiries[%d]: %w", i, err)
		}
	}

	for i, si := range seed.Invitations {
		if si.Token == "" {
			return fmt.Errorf("invitations[%d].token is required", i)
		}

		id, err := parseOrNewId(si.Id)
		if err != nil {
			return fmt.Errorf("invitations[%d].id: %w", i, err)
		}
		enquiryId, err := uuid.Parse(si.EnquiryId)
		if err != nil {
			return fmt.Errorf("invitations[%d].enquiry_id: %w", i, err)
		}
		pilotId, err := parseOrNewId(si.PilotId)
		if err != nil {
			return fmt.Errorf("invitations[%d].pilot_id: %w", i, err)
		}
		expiresAt, err := time.Parse(time.RFC3339, si.ExpiresAt)
		if err != nil {
			return fmt.Errorf("invitations[%d].expires_at: %w", i, err)
		}

		status := si.Status
		if status == "" {
			status = common.InvitePending
		}

		inv := entity.Invitation{
			Id:        id,
			EnquiryId: enquiryId,
			PilotId:   pilotId,
			TokenHash: token.Digest(si.Token),
			Status:    status,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
		if err := db.AddInvitation(inv); err != nil {
			return fmt.Errorf("invitations[%d]: %w", i, err)
		}
	}

	return nil
}

func parseOrNewId(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}

	return uuid.Parse(s)
}
