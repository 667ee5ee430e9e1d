package bidpage_test

import (
	"testing"

	"pilot-bidding-api/internal/bidpage"
)

var allStates = []bidpage.State{
	bidpage.StateLoading,
	bidpage.StateReadyToBid,
	bidpage.StateSubmitting,
	bidpage.StateSubmitted,
	bidpage.StateAlreadyBid,
	bidpage.StateError,
	bidpage.StateSubmitError,
}

func TestIsTransitionAllowed_Matrix(t *testing.T) {
	allowed := map[[2]bidpage.State]bool{
		{bidpage.StateLoading, bidpage.StateReadyToBid}:     true,
		{bidpage.StateLoading, bidpage.StateAlreadyBid}:     true,
		{bidpage.StateLoading, bidpage.StateError}:          true,
		{bidpage.StateReadyToBid, bidpage.StateSubmitting}:  true,
		{bidpage.StateSubmitting, bidpage.StateSubmitted}:   true,
		{bidpage.StateSubmitting, bidpage.StateSubmitError}: true,
		{bidpage.StateSubmitting, bidpage.StateAlreadyBid}:  true,
		{bidpage.StateSubmitError, bidpage.StateSubmitting}: true,
	}

	for _, from := range allStates {
		for _, to := range allStates {
			want := allowed[[2]bidpage.State{from, to}]
			if got := bidpage.IsTransitionAllowed(from, to); got != want {
				t.Errorf("IsTransitionAllowed(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestState_Terminal(t *testing.T) {
	terminal := map[bidpage.State]bool{
		bidpage.StateSubmitted:  true,
		bidpage.StateAlreadyBid: true,
		bidpage.StateError:      true,
	}
	for _, s := range allStates {
		if got := s.Terminal(); got != terminal[s] {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, terminal[s])
		}
	}
}

// The submit control is never shown once a bid is on record.
func TestState_FormHiddenWhenBidKnown(t *testing.T) {
	for _, s := range []bidpage.State{bidpage.StateSubmitted, bidpage.StateAlreadyBid, bidpage.StateError, bidpage.StateLoading} {
		if s.FormVisible() {
			t.Errorf("%s.FormVisible() = true", s)
		}
	}
}

func TestParseState(t *testing.T) {
	for _, s := range allStates {
		got, err := bidpage.ParseState(string(s))
		if err != nil || got != s {
			t.Errorf("ParseState(%q) = %q, %v", s, got, err)
		}
	}
	for _, bad := range []string{"", "Loading", "ready_to_bid", " submitted"} {
		if _, err := bidpage.ParseState(bad); err == nil {
			t.Errorf("ParseState(%q) should fail", bad)
		}
	}
}
