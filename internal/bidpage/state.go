// Package bidpage is the pilot-facing bid page: a finite state machine
// driven by the invitation API.
//
// Transitions:
//
//	loading      ──► ready-to-bid | already-bid | error
//	ready-to-bid ──► submitting
//	submitting   ──► submitted | submit-error | already-bid
//	submit-error ──► submitting
//
// submit-error keeps the form editable, so a retry goes straight back to
// submitting. submitted, already-bid and error are terminal.
package bidpage

import (
	"errors"
	"fmt"
)

type State string

const (
	StateLoading     State = "loading"
	StateReadyToBid  State = "ready-to-bid"
	StateSubmitting  State = "submitting"
	StateSubmitted   State = "submitted"
	StateAlreadyBid  State = "already-bid"
	StateError       State = "error"
	StateSubmitError State = "submit-error"
)

var ErrIllegalTransition = errors.New("illegal page transition")

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateLoading:     {StateReadyToBid, StateAlreadyBid, StateError},
	StateReadyToBid:  {StateSubmitting},
	StateSubmitting:  {StateSubmitted, StateSubmitError, StateAlreadyBid},
	StateSubmitError: {StateSubmitting},
	// submitted, already-bid and error have no outgoing transitions
}

func ParseState(s string) (State, error) {
	st := State(s)
	switch st {
	case StateLoading, StateReadyToBid, StateSubmitting, StateSubmitted,
		StateAlreadyBid, StateError, StateSubmitError:
		return st, nil
	}
	return "", fmt.Errorf("unknown page state %q", s)
}

func IsTransitionAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// FormVisible reports whether the bid form is shown in this state.
func (s State) FormVisible() bool {
	switch s {
	case StateReadyToBid, StateSubmitting, StateSubmitError:
		return true
	}
	return false
}
