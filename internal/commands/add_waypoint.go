package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/dyluth/spsbridge/pkg/log"
)

// AddWaypointName is the link name of AddWaypoint.
const AddWaypointName = "add-waypoint"

// AddWaypoint registers a waypoint at the robot's current position, with x
// and y optionally overridden by the command's attributes.
type AddWaypoint struct {
	log log.Logger
}

var _ Command = (*AddWaypoint)(nil)

// NewAddWaypoint returns the add-waypoint command.
func NewAddWaypoint(logger log.Logger) *AddWaypoint {
	return &AddWaypoint{log: logger.WithName(AddWaypointName)}
}

// Name returns AddWaypointName.
func (c *AddWaypoint) Name() string { return AddWaypointName }

// Execute registers the waypoint. A missing id or a malformed x or y rejects
// the command; a nil state or a pose without x and y is a fault.
func (c *AddWaypoint) Execute(ctx context.Context, reg robot.Registry, agent link.StatusWriter, cmd *link.Command, state *robot.State, out *Output) (bool, error) {
	id, ok := requiredID(cmd)
	if !ok {
		c.log.Warn("No id on command", "command_id", cmd.ID)
		return false, reject(ctx, agent, cmd)
	}

	if state == nil {
		return false, fmt.Errorf("%s %s: %w", AddWaypointName, cmd.ID, ErrNoRobotState)
	}
	if len(state.Pose.Pos) < 2 {
		return false, fmt.Errorf("%s %s: %w: pose has %d components", AddWaypointName, cmd.ID, ErrNoRobotState, len(state.Pose.Pos))
	}

	pos := state.Pose.Copy().Pos

	// x before y; the first malformed coordinate ends the command.
	for i, key := range []string{"x", "y"} {
		v, present, err := floatParam(cmd, key)
		if err != nil {
			c.log.Warn("Rejecting command", "command_id", cmd.ID, "id", id, "reason", err.Error())
			return false, reject(ctx, agent, cmd)
		}
		if present {
			pos[i] = v
		}
	}

	c.log.Debug("Adding waypoint", "command_id", cmd.ID, "id", id, "x", pos[0], "y", pos[1])
	reg.AddWaypoint(pos, id, out.FloatYaw())

	if err := accept(ctx, agent, cmd); err != nil {
		return false, err
	}
	return true, nil
}
