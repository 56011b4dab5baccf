package domain

// Transition defines a valid state change: an event moves an aggregate from Src to Dst.
type Transition struct {
	Event string
	Src   string
	Dst   string
}

// Transitions is a lifecycle table. The FSM adapter builds the state machine
// that gates every lifecycle event from it.
type Transitions []Transition
