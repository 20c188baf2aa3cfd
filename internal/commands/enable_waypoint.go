package commands

import (
	"context"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/dyluth/spsbridge/pkg/log"
)

// Link names of the remaining waypoint commands.
const (
	EnableWaypointName = "enable-waypoint"
	RemoveWaypointName = "remove-waypoint"
	ClearWaypointsName = "clear-waypoints"
)

// EnableWaypoint re-enables a disabled waypoint.
type EnableWaypoint struct {
	log log.Logger
}

// NewEnableWaypoint returns the enable-waypoint command.
func NewEnableWaypoint(logger log.Logger) *EnableWaypoint {
	return &EnableWaypoint{log: logger.WithName(EnableWaypointName)}
}

// Name returns EnableWaypointName.
func (c *EnableWaypoint) Name() string { return EnableWaypointName }

// Execute enables the waypoint named by id, rejecting unknown ids.
func (c *EnableWaypoint) Execute(ctx context.Context, reg robot.Registry, agent link.StatusWriter, cmd *link.Command, _ *robot.State, _ *Output) (bool, error) {
	return toggleWaypoint(ctx, c.log, reg.EnableWaypoint, agent, cmd)
}

// RemoveWaypoint deletes a waypoint from the registry.
type RemoveWaypoint struct {
	log log.Logger
}

// NewRemoveWaypoint returns the remove-waypoint command.
func NewRemoveWaypoint(logger log.Logger) *RemoveWaypoint {
	return &RemoveWaypoint{log: logger.WithName(RemoveWaypointName)}
}

// Name returns RemoveWaypointName.
func (c *RemoveWaypoint) Name() string { return RemoveWaypointName }

// Execute removes the waypoint named by id, rejecting unknown ids.
func (c *RemoveWaypoint) Execute(ctx context.Context, reg robot.Registry, agent link.StatusWriter, cmd *link.Command, _ *robot.State, _ *Output) (bool, error) {
	return toggleWaypoint(ctx, c.log, reg.RemoveWaypoint, agent, cmd)
}

// ClearWaypoints removes every waypoint. It takes no parameters and cannot be rejected.
type ClearWaypoints struct {
	log log.Logger
}

// NewClearWaypoints returns the clear-waypoints command.
func NewClearWaypoints(logger log.Logger) *ClearWaypoints {
	return &ClearWaypoints{log: logger.WithName(ClearWaypointsName)}
}

// Name returns ClearWaypointsName.
func (c *ClearWaypoints) Name() string { return ClearWaypointsName }

// Execute empties the registry and always completes.
func (c *ClearWaypoints) Execute(ctx context.Context, reg robot.Registry, agent link.StatusWriter, cmd *link.Command, _ *robot.State, _ *Output) (bool, error) {
	c.log.Debug("Clearing waypoints", "command_id", cmd.ID)
	reg.ClearWaypoints()

	if err := accept(ctx, agent, cmd); err != nil {
		return false, err
	}
	return true, nil
}

var (
	_ Command = (*EnableWaypoint)(nil)
	_ Command = (*RemoveWaypoint)(nil)
	_ Command = (*ClearWaypoints)(nil)
)
