package robot

import (
	"context"
	"errors"
	"fmt"

	"github.com/dyluth/spsbridge/pkg/link"
)

// ErrNoPose is returned by a PoseProvider that has no estimate yet.
var ErrNoPose = errors.New("no pose available")

// Pose is the robot's current position. Pos is a fixed-length vector
// (x, y, z); Yaw is the heading in radians.
type Pose struct {
	Pos []float64
	Yaw float64
}

// Copy returns a pose whose position vector does not alias p's.
func (p Pose) Copy() Pose {
	pos := make([]float64, len(p.Pos))
	copy(pos, p.Pos)
	return Pose{Pos: pos, Yaw: p.Yaw}
}

// State is the read-only robot snapshot handed to commands for one cycle.
type State struct {
	Pose Pose
}

// PoseProvider yields the robot's current pose.
type PoseProvider interface {
	CurrentPose(ctx context.Context) (Pose, error)
}

// LinkPoseProvider reads the pose the estimator publishes on the link.
type LinkPoseProvider struct {
	Client *link.Client
}

var _ PoseProvider = (*LinkPoseProvider)(nil)

// CurrentPose returns ErrNoPose until a pose has been published.
func (p *LinkPoseProvider) CurrentPose(ctx context.Context) (Pose, error) {
	lp, err := p.Client.GetPose(ctx)
	if err != nil {
		if link.IsNotFound(err) {
			return Pose{}, ErrNoPose
		}
		return Pose{}, fmt.Errorf("failed to read pose: %w", err)
	}
	return Pose{Pos: lp.Pos, Yaw: lp.Yaw}, nil
}

// StaticPoseProvider always returns the same pose. Used for simulation and tests.
type StaticPoseProvider struct {
	Pose Pose
}

func (p StaticPoseProvider) CurrentPose(context.Context) (Pose, error) {
	if len(p.Pose.Pos) == 0 {
		return Pose{}, ErrNoPose
	}
	return p.Pose.Copy(), nil
}
