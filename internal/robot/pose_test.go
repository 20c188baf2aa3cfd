package robot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkPoseProvider(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := link.NewClient(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	provider := &LinkPoseProvider{Client: client}
	ctx := context.Background()

	t.Run("no pose published yet", func(t *testing.T) {
		_, err := provider.CurrentPose(ctx)
		assert.ErrorIs(t, err, ErrNoPose)
	})

	t.Run("returns published pose", func(t *testing.T) {
		require.NoError(t, client.SetPose(ctx, &link.Pose{Pos: []float64{2, 3, 0}, Yaw: 0.5}))

		pose, err := provider.CurrentPose(ctx)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 3, 0}, pose.Pos)
		assert.Equal(t, 0.5, pose.Yaw)
	})
}

func TestStaticPoseProvider(t *testing.T) {
	_, err := StaticPoseProvider{}.CurrentPose(context.Background())
	assert.ErrorIs(t, err, ErrNoPose)

	p := StaticPoseProvider{Pose: Pose{Pos: []float64{2, 3, 0}}}
	pose, err := p.CurrentPose(context.Background())
	require.NoError(t, err)

	pose.Pos[0] = 42
	assert.Equal(t, 2.0, p.Pose.Pos[0], "provider hands out copies")
}
