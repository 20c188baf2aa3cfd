package commands

import (
	"context"
	"testing"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDisableWaypoint_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("disables an existing waypoint", func(t *testing.T) {
		logger, _ := newObservedLogger(t)
		reg := robot.NewWaypoints()
		reg.AddWaypoint([]float64{1, 1, 0}, "wp1", true)
		agent := &recordingAgent{}

		ok, err := NewDisableWaypoint(logger).Execute(ctx, reg, agent, newCommand(DisableWaypointName, map[string]string{"id": "wp1"}), nil, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, acceptedComplete, agent.written)
		assert.False(t, reg.Waypoints()[0].Enabled)
	})

	t.Run("disabling twice still succeeds", func(t *testing.T) {
		logger, _ := newObservedLogger(t)
		reg := robot.NewWaypoints()
		reg.AddWaypoint([]float64{1, 1, 0}, "wp1", true)
		cmd := NewDisableWaypoint(logger)

		for i := 0; i < 2; i++ {
			ok, err := cmd.Execute(ctx, reg, &recordingAgent{}, newCommand(DisableWaypointName, map[string]string{"id": "wp1"}), nil, nil)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("unknown waypoint", func(t *testing.T) {
		logger, logs := newObservedLogger(t)
		agent := &recordingAgent{}

		ok, err := NewDisableWaypoint(logger).Execute(ctx, robot.NewWaypoints(), agent, newCommand(DisableWaypointName, map[string]string{"id": "ghost"}), nil, nil)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, errorOnly, agent.written)

		warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
		require.Len(t, warnings, 1)
		assert.Equal(t, "No such waypoint", warnings[0].Message)
		assert.Equal(t, "ghost", warnings[0].ContextMap()["id"])
	})

	t.Run("missing id", func(t *testing.T) {
		logger, _ := newObservedLogger(t)
		agent := &recordingAgent{}

		ok, err := NewDisableWaypoint(logger).Execute(ctx, robot.NewWaypoints(), agent, newCommand(DisableWaypointName, nil), nil, nil)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, errorOnly, agent.written)
	})

	t.Run("rejection that cannot be written is a fault", func(t *testing.T) {
		logger, _ := newObservedLogger(t)
		agent := &recordingAgent{failOn: link.StatusError}

		_, err := NewDisableWaypoint(logger).Execute(ctx, robot.NewWaypoints(), agent, newCommand(DisableWaypointName, map[string]string{"id": "ghost"}), nil, nil)
		assert.ErrorIs(t, err, errStatusWrite)
	})
}

func TestWaypointMaintenanceCommands(t *testing.T) {
	ctx := context.Background()
	logger, _ := newObservedLogger(t)
	reg := robot.NewWaypoints()
	reg.AddWaypoint([]float64{1, 1, 0}, "a", true)
	reg.AddWaypoint([]float64{2, 2, 0}, "b", true)
	reg.DisableWaypoint("a")

	ok, err := NewEnableWaypoint(logger).Execute(ctx, reg, &recordingAgent{}, newCommand(EnableWaypointName, map[string]string{"id": "a"}), nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, reg.Waypoints()[0].Enabled)

	ok, err = NewEnableWaypoint(logger).Execute(ctx, reg, &recordingAgent{}, newCommand(EnableWaypointName, map[string]string{"id": "zzz"}), nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewRemoveWaypoint(logger).Execute(ctx, reg, &recordingAgent{}, newCommand(RemoveWaypointName, map[string]string{"id": "a"}), nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, reg.Waypoints(), 1)
	assert.Equal(t, "b", reg.Waypoints()[0].ID)

	ok, err = NewRemoveWaypoint(logger).Execute(ctx, reg, &recordingAgent{}, newCommand(RemoveWaypointName, map[string]string{"id": "a"}), nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	agent := &recordingAgent{}
	ok, err = NewClearWaypoints(logger).Execute(ctx, reg, agent, newCommand(ClearWaypointsName, nil), nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, acceptedComplete, agent.written)
	assert.Empty(t, reg.Waypoints())
}
