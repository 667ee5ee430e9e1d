package bidpage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"pilot-bidding-api/internal/entity"
	"strings"
	"time"
)

// GenericErrorMessage is shown when the server gives no usable message.
const GenericErrorMessage = "Something went wrong. Please try again."

const maxErrorBody = 64 << 10

// API is the part of the invitation API the page consumes.
type API interface {
	GetInvite(ctx context.Context, token string) (*entity.InvitationOutputModel, error)
	SubmitBid(ctx context.Context, token string, form BidForm) (*entity.BidOutputModel, error)
}

// APIError is any non-2xx answer. Bid is set when the server reports the
// bid that already holds the invitation.
type APIError struct {
	StatusCode int
	Message    string
	Bid        *entity.BidOutputModel
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) invitePath(token string) string {
	return c.baseURL + "/api/pilot-invites/" + url.PathEscape(token)
}

func (c *Client) GetInvite(ctx context.Context, token string) (*entity.InvitationOutputModel, error) {
	const op = "bidpage.GetInvite"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.invitePath(token), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var invite entity.InvitationOutputModel
	if err := c.do(req, &invite); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &invite, nil
}

type submitBidRequest struct {
	PriceAmount json.Number `json:"price_amount"`
	Currency    string      `json:"currency"`
	EtaDays     int         `json:"eta_days"`
	Notes       *string     `json:"notes"`
}

type submitBidResponse struct {
	InviteStatus string                 `json:"invite_status"`
	Bid          *entity.BidOutputModel `json:"bid"`
}

func (c *Client) SubmitBid(ctx context.Context, token string, form BidForm) (*entity.BidOutputModel, error) {
	const op = "bidpage.SubmitBid"

	body, err := json.Marshal(submitBidRequest{
		PriceAmount: json.Number(form.PriceAmount.String()),
		Currency:    form.Currency,
		EtaDays:     form.EtaDays,
		Notes:       form.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.invitePath(token)+"/bid/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out submitBidResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out.Bid == nil {
		return nil, fmt.Errorf("%s: response carries no bid", op)
	}
	return out.Bid, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: GenericErrorMessage}

	var body struct {
		Error string                 `json:"error"`
		Bid   *entity.BidOutputModel `json:"bid"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil {
		return apiErr
	}
	if strings.TrimSpace(body.Error) != "" {
		apiErr.Message = body.Error
	}
	apiErr.Bid = body.Bid

	return apiErr
}
