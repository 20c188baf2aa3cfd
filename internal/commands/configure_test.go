package commands

import (
	"context"
	"testing"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_Execute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		params    map[string]string
		wantOK    bool
		wantFloat bool
	}{
		{"switch to int", map[string]string{"yaw-format": "int"}, true, false},
		{"switch to float", map[string]string{"yaw-format": "float"}, true, true},
		{"absent is a no-op", nil, true, true},
		{"unknown value", map[string]string{"yaw-format": "degrees"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newObservedLogger(t)
			out := NewOutput(true)
			if tt.params["yaw-format"] == "float" {
				out.SetFloatYaw(false)
			}
			agent := &recordingAgent{}

			ok, err := NewConfigure(logger).Execute(ctx, robot.NewWaypoints(), agent, newCommand(ConfigureName, tt.params), nil, out)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFloat, out.FloatYaw())
			if tt.wantOK {
				assert.Equal(t, acceptedComplete, agent.written)
			} else {
				assert.Equal(t, errorOnly, agent.written)
			}
		})
	}
}

func TestConfigure_AffectsLaterWaypoints(t *testing.T) {
	ctx := context.Background()
	logger, _ := newObservedLogger(t)
	reg := robot.NewWaypoints()
	out := NewOutput(true)

	_, err := NewConfigure(logger).Execute(ctx, reg, &recordingAgent{}, newCommand(ConfigureName, map[string]string{"yaw-format": "int"}), nil, out)
	require.NoError(t, err)

	_, err = NewAddWaypoint(logger).Execute(ctx, reg, &recordingAgent{}, newCommand(AddWaypointName, map[string]string{"id": "wp"}), stateAt(0, 0, 0, 0), out)
	require.NoError(t, err)

	require.Len(t, reg.Waypoints(), 1)
	assert.False(t, reg.Waypoints()[0].FloatYaw)
	assert.Equal(t, robot.YawFormatInt, out.YawFormat())
}

func TestConfigure_NilOutputIsFault(t *testing.T) {
	logger, _ := newObservedLogger(t)
	agent := &recordingAgent{}

	_, err := NewConfigure(logger).Execute(context.Background(), robot.NewWaypoints(), agent, newCommand(ConfigureName, map[string]string{"yaw-format": "int"}), nil, nil)
	assert.ErrorIs(t, err, ErrNoOutput)
	assert.Empty(t, agent.written)
}

func TestOutput_NilDefaults(t *testing.T) {
	var out *Output
	assert.True(t, out.FloatYaw())
	assert.Equal(t, robot.YawFormatFloat, out.YawFormat())
}
