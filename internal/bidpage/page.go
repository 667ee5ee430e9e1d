package bidpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"pilot-bidding-api/internal/entity"
	"strings"
	"sync"
)

// Page holds one pilot's view of one invitation. It moves only through
// validTransitions and reports success only once the server has confirmed.
type Page struct {
	api   API
	token string

	mu      sync.Mutex
	state   State
	invite  *entity.InvitationOutputModel
	bid     *entity.BidOutputModel
	form    BidForm
	message string
}

func NewPage(api API, token string) *Page {
	return &Page{api: api, token: token, state: StateLoading}
}

func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Page) Invite() *entity.InvitationOutputModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.invite
}

func (p *Page) Bid() *entity.BidOutputModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bid
}

// Form is the last form handed to Submit, kept for re-editing after a
// failed submission.
func (p *Page) Form() BidForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// Message is the error shown in the error and submit-error states.
func (p *Page) Message() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

func (p *Page) transition(to State, apply func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !IsTransitionAllowed(p.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, p.state, to)
	}
	p.state = to
	if apply != nil {
		apply()
	}
	return nil
}

// Load resolves the token. The page ends in ready-to-bid, already-bid or
// error.
func (p *Page) Load(ctx context.Context) error {
	if st := p.State(); st != StateLoading {
		return fmt.Errorf("%w: load from %s", ErrIllegalTransition, st)
	}

	invite, err := p.api.GetInvite(ctx, p.token)
	if err != nil {
		if terr := p.transition(StateError, func() { p.message = userMessage(err) }); terr != nil {
			return terr
		}
		return err
	}

	next := StateReadyToBid
	if invite.Bid != nil {
		next = StateAlreadyBid
	}
	return p.transition(next, func() {
		p.invite = invite
		p.bid = invite.Bid
	})
}

// Submit sends the form. A form that fails local validation is never sent;
// the page lands in submit-error with the form still editable.
func (p *Page) Submit(ctx context.Context, form BidForm) error {
	if err := p.transition(StateSubmitting, func() {
		p.form = form
		p.message = ""
	}); err != nil {
		return err
	}

	if err := form.Validate(); err != nil {
		if terr := p.transition(StateSubmitError, func() { p.message = err.Error() }); terr != nil {
			return terr
		}
		return err
	}

	bid, err := p.api.SubmitBid(ctx, p.token, form)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict && apiErr.Bid != nil {
			if terr := p.transition(StateAlreadyBid, func() { p.bid = apiErr.Bid }); terr != nil {
				return terr
			}
			return err
		}

		if terr := p.transition(StateSubmitError, func() { p.message = userMessage(err) }); terr != nil {
			return terr
		}
		return err
	}

	return p.transition(StateSubmitted, func() { p.bid = bid })
}

func userMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return GenericErrorMessage
}

// DateNeeded renders an enquiry's date_needed for display.
func DateNeeded(e entity.EnquiryOutputModel) string {
	if e.DateNeeded == nil || *e.DateNeeded == "" {
		return "Not specified"
	}
	return *e.DateNeeded
}

// Render writes a plain-text rendering of the current state.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	state, invite, bid, message := p.state, p.invite, p.bid, p.message
	p.mu.Unlock()

	var b strings.Builder
	switch state {
	case StateLoading:
		b.WriteString("Loading invitation...\n")
	case StateError:
		fmt.Fprintf(&b, "Error: %s\n", message)
	default:
		if invite != nil {
			writeInvite(&b, invite)
		}
		switch state {
		case StateSubmitted:
			b.WriteString("\nBid submitted. Thank you.\n")
			writeBid(&b, bid)
		case StateAlreadyBid:
			b.WriteString("\nYou have already submitted a bid for this job.\n")
			writeBid(&b, bid)
		case StateSubmitting:
			b.WriteString("\nSubmitting bid...\n")
		case StateSubmitError:
			fmt.Fprintf(&b, "\nError: %s\n", message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeInvite(b *strings.Builder, invite *entity.InvitationOutputModel) {
	e := invite.Enquiry
	fmt.Fprintf(b, "Service:     %s\n", e.ServiceSlug)
	fmt.Fprintf(b, "Date needed: %s (%s)\n", DateNeeded(e), e.DateFlexibility)
	fmt.Fprintf(b, "Location:    %s, %s\n", e.SiteLocationText, e.Postcode)
	fmt.Fprintf(b, "Expires:     %s\n", invite.ExpiresAt.Format("2 Jan 2006 15:04 MST"))
	fmt.Fprintf(b, "Brief:       %s\n", invite.Brief)
}

func writeBid(b *strings.Builder, bid *entity.BidOutputModel) {
	if bid == nil {
		return
	}
	fmt.Fprintf(b, "Price: %s %s\n", bid.PriceAmount.StringFixed(2), bid.Currency)
	fmt.Fprintf(b, "ETA:   %d days\n", bid.EtaDays)
}
