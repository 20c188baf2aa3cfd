package commands

import (
	"context"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/dyluth/spsbridge/pkg/log"
)

// DisableWaypointName is the link name of DisableWaypoint.
const DisableWaypointName = "disable-waypoint"

// DisableWaypoint disables a registered waypoint.
type DisableWaypoint struct {
	log log.Logger
}

var _ Command = (*DisableWaypoint)(nil)

// NewDisableWaypoint returns the disable-waypoint command.
func NewDisableWaypoint(logger log.Logger) *DisableWaypoint {
	return &DisableWaypoint{log: logger.WithName(DisableWaypointName)}
}

// Name returns DisableWaypointName.
func (c *DisableWaypoint) Name() string { return DisableWaypointName }

// Execute disables the waypoint named by id, rejecting unknown ids.
func (c *DisableWaypoint) Execute(ctx context.Context, reg robot.Registry, agent link.StatusWriter, cmd *link.Command, _ *robot.State, _ *Output) (bool, error) {
	return toggleWaypoint(ctx, c.log, reg.DisableWaypoint, agent, cmd)
}

// toggleWaypoint runs the shared id -> registry call -> status flow of the
// commands that act on one existing waypoint.
func toggleWaypoint(ctx context.Context, logger log.Logger, apply func(id string) bool, agent link.StatusWriter, cmd *link.Command) (bool, error) {
	id, ok := requiredID(cmd)
	if !ok {
		logger.Warn("No id on command", "command_id", cmd.ID)
		return false, reject(ctx, agent, cmd)
	}

	logger.Debug("Applying to waypoint", "command_id", cmd.ID, "id", id)

	if !apply(id) {
		logger.Warn("No such waypoint", "command_id", cmd.ID, "id", id)
		return false, reject(ctx, agent, cmd)
	}

	if err := accept(ctx, agent, cmd); err != nil {
		return false, err
	}
	return true, nil
}
