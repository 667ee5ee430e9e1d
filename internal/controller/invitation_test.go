package controller_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pilot-bidding-api/internal/controller"
	"pilot-bidding-api/internal/repo"
	"pilot-bidding-api/internal/repo/memdb"
	"pilot-bidding-api/internal/service"

	"github.com/labstack/echo"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

const seedYAML = `
enquiries:
  - id: 6f1c2a4e-1111-4c3b-9d7e-0a1b2c3d4e5f
    service_slug: agricultural-survey
    date_flexibility: flexible
    site_location_text: Near Lincoln
    postcode: LN1
    brief: 2-hectare arable field survey
  - id: 6f1c2a4e-2222-4c3b-9d7e-0a1b2c3d4e5f
    service_slug: roof-inspection
    date_needed: "2026-11-02"
    date_flexibility: exact
    site_location_text: Church Street
    postcode: YO1
    brief: Slate roof, suspected storm damage
invitations:
  - enquiry_id: 6f1c2a4e-1111-4c3b-9d7e-0a1b2c3d4e5f
    token: abc123
    expires_at: "2026-10-22T12:00:00Z"
  - enquiry_id: 6f1c2a4e-1111-4c3b-9d7e-0a1b2c3d4e5f
    token: other-pilot
    expires_at: "2026-10-22T12:00:00Z"
  - enquiry_id: 6f1c2a4e-2222-4c3b-9d7e-0a1b2c3d4e5f
    token: stale
    expires_at: "2026-10-01T12:00:00Z"
  - enquiry_id: 6f1c2a4e-2222-4c3b-9d7e-0a1b2c3d4e5f
    token: pulled
    status: withdrawn
    expires_at: "2026-10-22T12:00:00Z"
`

func newServer(t *testing.T) *echo.Echo {
	t.Helper()

	seed, err := memdb.DecodeSeed(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("DecodeSeed: %v", err)
	}
	db := memdb.New()
	if err := db.ApplySeed(seed, now.Add(-time.Hour)); err != nil {
		t.Fatalf("ApplySeed: %v", err)
	}

	services := service.NewServices(repo.NewMemoryRepositories(db), service.Options{
		Currency: "GBP",
		Clock:    func() time.Time { return now },
	})

	e := echo.New()
	controller.SetupRoutesHandlers(e, services, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}

	return rec.Code, out
}

func TestGetInvitation(t *testing.T) {
	e := newServer(t)

	code, body := do(t, e, http.MethodGet, "/api/pilot-invites/abc123", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%v)", code, body)
	}
	if body["invite_status"] != "pending" {
		t.Errorf("invite_status = %v, want pending", body["invite_status"])
	}
	if body["bid"] != nil {
		t.Errorf("bid = %v, want null", body["bid"])
	}
	if body["brief"] != "2-hectare arable field survey" {
		t.Errorf("brief = %v", body["brief"])
	}
	enquiry, ok := body["enquiry"].(map[string]interface{})
	if !ok {
		t.Fatalf("enquiry = %v", body["enquiry"])
	}
	if enquiry["date_needed"] != nil {
		t.Errorf("date_needed = %v, want null", enquiry["date_needed"])
	}
	if enquiry["postcode"] != "LN1" {
		t.Errorf("postcode = %v", enquiry["postcode"])
	}
}

func TestGetInvitation_Errors(t *testing.T) {
	e := newServer(t)

	cases := []struct {
		token string
		code  int
	}{
		{"nope", http.StatusNotFound},
		{"abc", http.StatusNotFound},
		{"stale", http.StatusGone},
		{"pulled", http.StatusGone},
	}
	for _, c := range cases {
		code, body := do(t, e, http.MethodGet, "/api/pilot-invites/"+c.token, "")
		if code != c.code {
			t.Errorf("GET %s status = %d, want %d", c.token, code, c.code)
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Errorf("GET %s: missing error message: %v", c.token, body)
		}
	}
}

func TestSubmitBid_Scenario(t *testing.T) {
	e := newServer(t)

	code, body := do(t, e, http.MethodPost, "/api/pilot-invites/abc123/bid/",
		`{"price_amount": 450, "currency": "GBP", "eta_days": 10, "notes": "Can fly Tuesday"}`)
	if code != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201 (%v)", code, body)
	}
	if body["invite_status"] != "bid_submitted" {
		t.Errorf("invite_status = %v, want bid_submitted", body["invite_status"])
	}
	created, ok := body["bid"].(map[string]interface{})
	if !ok {
		t.Fatalf("bid = %v", body["bid"])
	}

	code, body = do(t, e, http.MethodGet, "/api/pilot-invites/abc123", "")
	if code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", code)
	}
	if body["invite_status"] != "bid_submitted" {
		t.Errorf("invite_status = %v, want bid_submitted", body["invite_status"])
	}
	bid, ok := body["bid"].(map[string]interface{})
	if !ok {
		t.Fatalf("bid = %v", body["bid"])
	}
	if bid["price_amount"] != "450" || bid["eta_days"] != float64(10) || bid["currency"] != "GBP" {
		t.Errorf("bid = %v", bid)
	}
	if bid["id"] != created["id"] {
		t.Errorf("bid id = %v, want %v", bid["id"], created["id"])
	}

	code, body = do(t, e, http.MethodPost, "/api/pilot-invites/abc123/bid",
		`{"price_amount": 300, "currency": "GBP", "eta_days": 3}`)
	if code != http.StatusConflict {
		t.Fatalf("repeat POST status = %d, want 409 (%v)", code, body)
	}
	existing, ok := body["bid"].(map[string]interface{})
	if !ok || existing["price_amount"] != "450" || existing["id"] != created["id"] {
		t.Errorf("409 bid = %v, want original", body["bid"])
	}

	_, body = do(t, e, http.MethodGet, "/api/pilot-invites/abc123", "")
	if bid, _ := body["bid"].(map[string]interface{}); bid["price_amount"] != "450" {
		t.Errorf("bid changed after conflict: %v", bid)
	}

	_, body = do(t, e, http.MethodGet, "/api/pilot-invites/other-pilot", "")
	if body["bid"] != nil || body["invite_status"] != "pending" {
		t.Errorf("other pilot sees %v", body)
	}
}

func TestSubmitBid_BadRequests(t *testing.T) {
	e := newServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"price_amount": `},
		{"missing price", `{"currency": "GBP", "eta_days": 10}`},
		{"missing eta", `{"price_amount": 450, "currency": "GBP"}`},
		{"missing currency", `{"price_amount": 450, "eta_days": 10}`},
		{"eta zero", `{"price_amount": 450, "currency": "GBP", "eta_days": 0}`},
		{"eta too long", `{"price_amount": 450, "currency": "GBP", "eta_days": 366}`},
		{"price zero", `{"price_amount": 0, "currency": "GBP", "eta_days": 10}`},
		{"price negative", `{"price_amount": -5, "currency": "GBP", "eta_days": 10}`},
		{"wrong currency", `{"price_amount": 450, "currency": "USD", "eta_days": 10}`},
		{"price exponent huge", `{"price_amount": 1e1000000000, "currency": "GBP", "eta_days": 10}`},
		{"price exponent tiny", `{"price_amount": 1e-1000000000, "currency": "GBP", "eta_days": 10}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, body := do(t, e, http.MethodPost, "/api/pilot-invites/abc123/bid/", c.body)
			if code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%v)", code, body)
			}
		})
	}

	_, body := do(t, e, http.MethodGet, "/api/pilot-invites/abc123", "")
	if body["invite_status"] != "pending" {
		t.Errorf("invite_status = %v after rejected bids, want pending", body["invite_status"])
	}
}

func TestSubmitBid_MissingFieldMessages(t *testing.T) {
	e := newServer(t)

	cases := []struct {
		body string
		want string
	}{
		{`{"currency": "GBP", "eta_days": 10}`, "price_amount is required"},
		{`{"price_amount": 450, "eta_days": 10}`, "currency is required"},
		{`{"price_amount": 450, "currency": "GBP"}`, "eta_days is required"},
		{`{}`, "price_amount is required; currency is required; eta_days is required"},
	}
	for _, c := range cases {
		code, body := do(t, e, http.MethodPost, "/api/pilot-invites/abc123/bid/", c.body)
		if code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.body, code)
		}
		if body["error"] != c.want {
			t.Errorf("%s: error = %v, want %q", c.body, body["error"], c.want)
		}
	}
}

func TestSubmitBid_HugeExponentRejectedQuickly(t *testing.T) {
	e := newServer(t)

	for _, price := range []string{"1e10000000", "1e1000000000", "1e-1000000000", "-1e1000000000"} {
		start := time.Now()
		code, body := do(t, e, http.MethodPost, "/api/pilot-invites/other-pilot/bid/",
			`{"price_amount": `+price+`, "currency": "GBP", "eta_days": 10}`)
		elapsed := time.Since(start)

		if code != http.StatusBadRequest {
			t.Errorf("price %s: status = %d, want 400 (%v)", price, code, body)
		}
		if elapsed > time.Second {
			t.Errorf("price %s: took %v to reject", price, elapsed)
		}
	}
}

func TestSubmitBid_ClosedInvitations(t *testing.T) {
	e := newServer(t)
	valid := `{"price_amount": 450, "currency": "GBP", "eta_days": 10}`

	cases := []struct {
		token string
		code  int
	}{
		{"unknown", http.StatusNotFound},
		{"stale", http.StatusGone},
		{"pulled", http.StatusGone},
	}
	for _, c := range cases {
		code, _ := do(t, e, http.MethodPost, "/api/pilot-invites/"+c.token+"/bid/", valid)
		if code != c.code {
			t.Errorf("POST %s status = %d, want %d", c.token, code, c.code)
		}
	}
}

func TestPing(t *testing.T) {
	e := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}
