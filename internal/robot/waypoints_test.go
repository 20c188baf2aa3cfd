package robot

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaypoints_AddAndReplace(t *testing.T) {
	reg := NewWaypoints()

	pos := []float64{1, 2, 0}
	reg.AddWaypoint(pos, "A", true)
	pos[0] = 99 // registry keeps its own copy

	got := reg.Waypoints()
	require.Len(t, got, 1)
	assert.Equal(t, []float64{1, 2, 0}, got[0].Pos)
	assert.True(t, got[0].Enabled)
	assert.True(t, got[0].FloatYaw)

	reg.DisableWaypoint("A")
	reg.AddWaypoint([]float64{5, 5, 0}, "A", false)

	got = reg.Waypoints()
	require.Len(t, got, 1, "same id replaces the existing waypoint")
	assert.Equal(t, []float64{5, 5, 0}, got[0].Pos)
	assert.True(t, got[0].Enabled, "replacement is enabled")
	assert.False(t, got[0].FloatYaw)
}

func TestWaypoints_EnableDisableRemove(t *testing.T) {
	reg := NewWaypoints()
	reg.AddWaypoint([]float64{0, 0, 0}, "B", true)

	t.Run("unknown ids report false", func(t *testing.T) {
		assert.False(t, reg.DisableWaypoint("unknown"))
		assert.False(t, reg.EnableWaypoint("unknown"))
		assert.False(t, reg.RemoveWaypoint("unknown"))
	})

	t.Run("disable then enable", func(t *testing.T) {
		assert.True(t, reg.DisableWaypoint("B"))
		assert.False(t, reg.Waypoints()[0].Enabled)

		assert.True(t, reg.EnableWaypoint("B"))
		assert.True(t, reg.Waypoints()[0].Enabled)
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, reg.RemoveWaypoint("B"))
		assert.Empty(t, reg.Waypoints())
		assert.False(t, reg.RemoveWaypoint("B"))
	})
}

func TestWaypoints_ClearAndOrdering(t *testing.T) {
	reg := NewWaypoints()
	reg.AddWaypoint([]float64{0, 0, 0}, "charlie", true)
	reg.AddWaypoint([]float64{0, 0, 0}, "alpha", true)
	reg.AddWaypoint([]float64{0, 0, 0}, "bravo", true)

	got := reg.Waypoints()
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].ID)
	assert.Equal(t, "bravo", got[1].ID)
	assert.Equal(t, "charlie", got[2].ID)

	reg.ClearWaypoints()
	assert.Empty(t, reg.Waypoints())
}

func TestWaypoints_ConcurrentMutations(t *testing.T) {
	reg := NewWaypoints()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			reg.AddWaypoint([]float64{float64(i), 0, 0}, id, true)
			reg.DisableWaypoint(id)
			_ = reg.Waypoints()
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.Waypoints(), 26)
}

func TestWaypoint_Observe(t *testing.T) {
	pose := Pose{Pos: []float64{1, 1, 0}, Yaw: 0}

	t.Run("float yaw", func(t *testing.T) {
		wp := Waypoint{ID: "A", Pos: []float64{2, 2, 0}, Enabled: true, FloatYaw: true}
		obs := wp.Observe(pose)

		assert.Equal(t, "A", obs.ID)
		assert.InDelta(t, math.Sqrt2, obs.Distance, 1e-9)
		assert.InDelta(t, 45.0, obs.Yaw, 1e-9)
		assert.Equal(t, YawFormatFloat, obs.YawFormat)
		assert.True(t, obs.Enabled)
	})

	t.Run("int yaw rounds to whole degrees", func(t *testing.T) {
		wp := Waypoint{ID: "B", Pos: []float64{4, 2, 0}, FloatYaw: false}
		obs := wp.Observe(pose)

		assert.Equal(t, YawFormatInt, obs.YawFormat)
		assert.Equal(t, math.Round(obs.Yaw), obs.Yaw)
		assert.InDelta(t, 18.0, obs.Yaw, 1e-9) // atan2(1, 3) = 18.43 degrees
	})

	t.Run("bearing is relative to heading", func(t *testing.T) {
		wp := Waypoint{ID: "C", Pos: []float64{1, 2, 0}, FloatYaw: true}
		obs := wp.Observe(Pose{Pos: []float64{1, 1, 0}, Yaw: math.Pi / 2})

		assert.InDelta(t, 0.0, obs.Yaw, 1e-9)
	})

	t.Run("bearing wraps to (-180, 180]", func(t *testing.T) {
		wp := Waypoint{ID: "D", Pos: []float64{0, 0.999, 0}, FloatYaw: true}
		obs := wp.Observe(Pose{Pos: []float64{1, 1, 0}, Yaw: -math.Pi / 2})

		assert.LessOrEqual(t, obs.Yaw, 180.0)
		assert.Greater(t, obs.Yaw, -180.0)
	})
}

func TestWaypoint_ObserveLargeHeading(t *testing.T) {
	wp := Waypoint{ID: "E", Pos: []float64{1, 1, 0}, FloatYaw: true}

	for _, yaw := range []float64{1e10, 1e17, -1e300} {
		done := make(chan float64, 1)
		go func() { done <- wp.Observe(Pose{Pos: []float64{0, 0, 0}, Yaw: yaw}).Yaw }()

		select {
		case got := <-done:
			assert.LessOrEqual(t, got, 180.0, "yaw=%g", yaw)
			assert.Greater(t, got, -180.0, "yaw=%g", yaw)
		case <-time.After(time.Second):
			t.Fatalf("Observe did not return for heading %g", yaw)
		}
	}
}

func TestNormalizeRadians(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, normalizeRadians(tt.in), 1e-9, "normalizeRadians(%g)", tt.in)
	}
}
