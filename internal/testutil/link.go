// Package testutil provides a throwaway link for tests that drive the
// bridge end to end against an in-memory Redis.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	waitTimeout  = 2 * time.Second
	waitInterval = 10 * time.Millisecond
)

// LinkEnvironment is an isolated link backed by miniredis
type LinkEnvironment struct {
	T            *testing.T
	Redis        *miniredis.Miniredis
	Client       *link.Client
	InstanceName string
}

// SetupLink starts miniredis and connects a link client to it.
// Both are closed when the test ends.
func SetupLink(t *testing.T, instanceName string) *LinkEnvironment {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := link.NewClient(&redis.Options{Addr: mr.Addr()}, instanceName)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return &LinkEnvironment{
		T:            t,
		Redis:        mr,
		Client:       client,
		InstanceName: instanceName,
	}
}

// URL returns a redis:// URL for the environment's server
func (env *LinkEnvironment) URL() string {
	return "redis://" + env.Redis.Addr()
}

// WaitForTerminal blocks until the command carries a complete or error status
func (env *LinkEnvironment) WaitForTerminal(commandID string) *link.Command {
	env.T.Helper()

	var found *link.Command
	require.Eventually(env.T, func() bool {
		cmd, err := env.Client.GetCommand(context.Background(), commandID)
		if err != nil {
			return false
		}
		if _, terminal := cmd.Terminal(); !terminal {
			return false
		}
		found = cmd
		return true
	}, waitTimeout, waitInterval, "command %s never reached a terminal status", commandID)

	return found
}

// WaitForWaypoints blocks until the link's waypoint mirror holds count entries
func (env *LinkEnvironment) WaitForWaypoints(count int) []link.Waypoint {
	env.T.Helper()

	var found []link.Waypoint
	require.Eventually(env.T, func() bool {
		waypoints, err := env.Client.ListWaypoints(context.Background())
		if err != nil || len(waypoints) != count {
			return false
		}
		found = waypoints
		return true
	}, waitTimeout, waitInterval, "waypoint mirror never held %d entries", count)

	return found
}
