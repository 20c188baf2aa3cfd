package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// ErrInvalidStatusTransition is returned when a status would break the
// command lifecycle (a second terminal status, complete without accepted,
// accepted after error, ...).
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// Phase is the lifecycle position of a command, derived from its statuses.
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseAccepted Phase = "accepted"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// Lifecycle is the per-command state machine:
//
//	pending -> accepted -> complete
//	pending -> error
//
// Events are named after the status being appended.
type Lifecycle struct {
	fsm *fsm.FSM
}

// NewLifecycle returns a lifecycle for a command with no statuses yet.
func NewLifecycle() *Lifecycle {
	events := fsm.Events{
		{Name: string(StatusAccepted), Src: []string{string(PhasePending)}, Dst: string(PhaseAccepted)},
		{Name: string(StatusComplete), Src: []string{string(PhaseAccepted)}, Dst: string(PhaseComplete)},
		{Name: string(StatusError), Src: []string{string(PhasePending)}, Dst: string(PhaseError)},
	}

	return &Lifecycle{fsm: fsm.NewFSM(string(PhasePending), events, fsm.Callbacks{})}
}

// ReplayLifecycle rebuilds the lifecycle of a command from its recorded
// statuses. Returns ErrInvalidStatusTransition if the history itself is invalid.
func ReplayLifecycle(ctx context.Context, statuses []Status) (*Lifecycle, error) {
	l := NewLifecycle()
	for i, s := range statuses {
		if err := l.Apply(ctx, s); err != nil {
			return nil, fmt.Errorf("status %d: %w", i, err)
		}
	}
	return l, nil
}

// Apply advances the lifecycle by one status.
func (l *Lifecycle) Apply(ctx context.Context, s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}

	from := l.fsm.Current()
	if err := l.fsm.Event(ctx, string(s)); err != nil {
		return fmt.Errorf("%w: %s after %s", ErrInvalidStatusTransition, s, from)
	}
	return nil
}

// Can reports whether s may be appended next.
func (l *Lifecycle) Can(s Status) bool {
	return l.fsm.Can(string(s))
}

// Phase returns the current lifecycle position.
func (l *Lifecycle) Phase() Phase {
	return Phase(l.fsm.Current())
}

// Terminal reports whether the command has reached complete or error.
func (l *Lifecycle) Terminal() bool {
	p := l.Phase()
	return p == PhaseComplete || p == PhaseError
}
