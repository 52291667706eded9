package modcatalog

import (
	"github.com/agentstation/modcatalog/pkg/errors"
)

// State is the phase of an update run.
type State string

// State constants.
const (
	StateIdle        State = "idle"
	StateInitialized State = "initialized"
	StateCollecting  State = "collecting"
	StateFinalizing  State = "finalizing"
	StatePersisted   State = "persisted"
	StateNoOp        State = "noop"
)

// String returns the string representation of a State.
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether the run finished in this state before returning to idle.
func (s State) IsTerminal() bool {
	return s == StatePersisted || s == StateNoOp
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateInitialized
	case StateInitialized:
		return to == StateCollecting || to == StateIdle
	case StateCollecting:
		return to == StateFinalizing || to == StateIdle
	case StateFinalizing:
		return to == StatePersisted || to == StateNoOp
	case StatePersisted, StateNoOp:
		return to == StateIdle
	default:
		return false
	}
}

// transition moves the updater to the next state, rejecting disallowed moves.
func (u *Updater) transition(to State) error {
	if !isAllowedTransition(u.state, to) {
		return &errors.TransitionError{From: u.state.String(), To: to.String()}
	}
	u.logger.Debug().Str("from", u.state.String()).Str("to", to.String()).Msg("Run state changed")
	u.state = to
	return nil
}
