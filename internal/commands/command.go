// Package commands implements the output commands the agent can post on the
// link, and the contract they all follow.
//
// A command reads its parameters from the record, validates all of them, and
// only then mutates robot state through the registry. User mistakes (missing
// or malformed parameters, unknown waypoints) end in a single error status
// and a false return. Integration faults, such as a missing robot state or a
// status that cannot be written, are returned as errors instead and must
// abort the dispatch cycle.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
)

// ErrNoRobotState is returned when a command that needs the robot snapshot
// is executed without one. It means the bridge is wired incorrectly.
var ErrNoRobotState = errors.New("robot state unavailable")

// Command is implemented by every output command.
type Command interface {
	// Name is the command name the agent uses on the link.
	Name() string

	// Execute interprets cmd against robot state. It returns true when the
	// command was accepted and completed, false when it was rejected with an
	// error status. A non-nil error is a fault and no longer a verdict on cmd.
	Execute(ctx context.Context, reg robot.Registry, agent link.StatusWriter, cmd *link.Command, state *robot.State, out *Output) (bool, error)
}

// Output holds the cross-cutting settings that shape how effects are
// represented back to the agent. A nil Output reports the defaults.
type Output struct {
	mu       sync.RWMutex
	floatYaw bool
}

// NewOutput returns output settings with the given yaw encoding.
func NewOutput(floatYaw bool) *Output {
	return &Output{floatYaw: floatYaw}
}

// FloatYaw reports whether waypoint bearings are reported as floats.
func (o *Output) FloatYaw() bool {
	if o == nil {
		return true
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.floatYaw
}

// SetFloatYaw switches the yaw encoding used for waypoints added from now on.
func (o *Output) SetFloatYaw(v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.floatYaw = v
}

// YawFormat returns the current encoding as robot.YawFormatFloat or robot.YawFormatInt.
func (o *Output) YawFormat() string {
	if o.FloatYaw() {
		return robot.YawFormatFloat
	}
	return robot.YawFormatInt
}

// accept emits accepted followed by complete.
func accept(ctx context.Context, agent link.StatusWriter, cmd *link.Command) error {
	if err := agent.AddStatus(ctx, cmd, link.StatusAccepted); err != nil {
		return fmt.Errorf("failed to add %s status to command %s: %w", link.StatusAccepted, cmd.ID, err)
	}
	if err := agent.AddStatus(ctx, cmd, link.StatusComplete); err != nil {
		return fmt.Errorf("failed to add %s status to command %s: %w", link.StatusComplete, cmd.ID, err)
	}
	return nil
}

// reject emits the single error status.
func reject(ctx context.Context, agent link.StatusWriter, cmd *link.Command) error {
	if err := agent.AddStatus(ctx, cmd, link.StatusError); err != nil {
		return fmt.Errorf("failed to add %s status to command %s: %w", link.StatusError, cmd.ID, err)
	}
	return nil
}
