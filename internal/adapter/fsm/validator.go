package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// buildEvents converts a transitions table into looplab/fsm EventDesc format.
// It consolidates transitions with the same event+destination into a single
// EventDesc with multiple source states (e.g. drop from "active" and
// "suspended" both go to "dropped").
func buildEvents(table domain.Transitions) []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range table {
		k := key{event: t.Event, dst: t.Dst}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], t.Src)
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// It creates a short-lived FSM instance per Apply call, initialized with
// the aggregate's current state, because looplab/fsm tracks the current
// state internally.
type Validator struct {
	events []loopfsm.EventDesc
}

// New creates a validator for one lifecycle table.
func New(table domain.Transitions) *Validator {
	return &Validator{events: buildEvents(table)}
}

// Apply checks if the given event is valid from the current state and
// returns the destination state. Returns a domain.TransitionError if
// the transition is not allowed. A self-transition that the table
// allows (deactivating an inactive tenant) succeeds unchanged.
func (v *Validator) Apply(ctx context.Context, current, event string) (string, error) {
	machine := loopfsm.NewFSM(current, v.events, nil)

	if err := machine.Event(ctx, event); err != nil {
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return current, nil
		}
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) {
			return "", &domain.TransitionError{
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return machine.Current(), nil
}
