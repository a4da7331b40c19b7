package reveal

import (
	"github.com/qmuntal/stateless"
)

// Lifecycle states
type State stateless.State

var (
	StateRevealing State = "Revealing" // visible text is a strict prefix, still growing
	StateSettled   State = "Settled"   // terminal: visible text equals the full text
)

// Lifecycle triggers
type Trigger stateless.Trigger

var (
	TriggerTick   Trigger = "Tick"   // one more character became visible
	TriggerSettle Trigger = "Settle" // the final character became visible
)

// Lifecycle is the display state machine of a single assistant message.
// It starts revealing, re-enters that state on every tick, and settles
// exactly once. Settled is terminal: further ticks are rejected, which
// is what guarantees a schedule never mutates a settled message.
type Lifecycle struct {
	fsm *stateless.StateMachine
}

func NewLifecycle() *Lifecycle {
	fsm := stateless.NewStateMachine(StateRevealing)
	fsm.Configure(StateRevealing).
		PermitReentry(TriggerTick).
		Permit(TriggerSettle, StateSettled)
	return &Lifecycle{fsm: fsm}
}

// Tick records a single-character advance. Returns an error once settled.
func (l *Lifecycle) Tick() error {
	return l.fsm.Fire(TriggerTick)
}

// Settle transitions the message to its terminal state.
func (l *Lifecycle) Settle() error {
	return l.fsm.Fire(TriggerSettle)
}

// Settled reports whether the message reached its terminal state.
func (l *Lifecycle) Settled() bool {
	return l.fsm.MustState() == stateless.State(StateSettled)
}
