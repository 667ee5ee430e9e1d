package service

import (
	"context"
	"log/slog"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo"
	"time"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Invitation interface {
	GetInvitationByToken(ctx context.Context, token string) (*entity.InvitationOutputModel, error)
}

type Bid interface {
	SubmitBid(ctx context.Context, token string, input *entity.SubmitBidInput) (*entity.BidOutputModel, error)
}

// BidEvents receives a notification after every committed bid.
type BidEvents interface {
	PublishBidSubmitted(ctx context.Context, event entity.BidSubmittedEvent) error
}

type Options struct {
	// Currency is the only currency bids are accepted in.
	Currency string
	Clock    func() time.Time
	Events   BidEvents
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = common.DefaultCurrency
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Events == nil {
		o.Events = nopEvents{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	return o
}

type Services struct {
	Diagnostics Diagnostics
	Invitation  Invitation
	Bid         Bid
}

func NewServices(repos *repo.Repositories, opts Options) *Services {
	opts = opts.withDefaults()

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Invitation:  NewInvitationService(repos, opts),
		Bid:         NewBidService(repos, opts),
	}
}

type nopEvents struct{}

func (nopEvents) PublishBidSubmitted(context.Context, entity.BidSubmittedEvent) error { return nil }
