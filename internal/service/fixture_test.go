package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo"
	"pilot-bidding-api/internal/repo/memdb"
	"pilot-bidding-api/internal/service"
	"pilot-bidding-api/internal/token"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *memdb.DB
	repos    *repo.Repositories
	services *service.Services
	events   *recordedEvents
	enquiry  entity.Enquiry
}

type recordedEvents struct {
	mu     sync.Mutex
	events []entity.BidSubmittedEvent
}

func (r *recordedEvents) PublishBidSubmitted(ctx context.Context, event entity.BidSubmittedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)

	return nil
}

func (r *recordedEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memdb.New()
	enquiry := entity.Enquiry{
		Id:               uuid.New(),
		ServiceSlug:      "agricultural-survey",
		DateFlexibility:  "flexible",
		SiteLocationText: "Near Lincoln",
		Postcode:         "LN1",
		Brief:            "2-hectare arable field survey, NDVI requested",
		CreatedAt:        now.Add(-48 * time.Hour),
	}
	if err := db.AddEnquiry(enquiry); err != nil {
		t.Fatalf("AddEnquiry: %v", err)
	}

	events := &recordedEvents{}
	repos := repo.NewMemoryRepositories(db)
	services := service.NewServices(repos, service.Options{
		Currency: "GBP",
		Clock:    func() time.Time { return now },
		Events:   events,
	})

	return &fixture{db: db, repos: repos, services: services, events: events, enquiry: enquiry}
}

// invite adds an invitation for a fresh pilot and returns its id.
func (f *fixture) invite(t *testing.T, rawToken, status string, expiresAt time.Time) uuid.UUID {
	t.Helper()

	inv := entity.Invitation{
		Id:        uuid.New(),
		EnquiryId: f.enquiry.Id,
		PilotId:   uuid.New(),
		TokenHash: token.Digest(rawToken),
		Status:    status,
		ExpiresAt: expiresAt,
		CreatedAt: now.Add(-24 * time.Hour),
	}
	if err := f.db.AddInvitation(inv); err != nil {
		t.Fatalf("AddInvitation: %v", err)
	}

	return inv.Id
}

func (f *fixture) pending(t *testing.T, rawToken string) uuid.UUID {
	return f.invite(t, rawToken, common.InvitePending, now.Add(7*24*time.Hour))
}

func validBid() *entity.SubmitBidInput {
	notes := "Available next week"

	return &entity.SubmitBidInput{
		PriceAmount: decimal.RequireFromString("1500.00"),
		Currency:    "GBP",
		EtaDays:     5,
		Notes:       &notes,
	}
}
