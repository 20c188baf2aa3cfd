package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/spf13/cobra"
)

var (
	poseX, poseY, poseZ, poseYaw float64
)

var poseCmd = &cobra.Command{
	Use:   "pose",
	Short: "Show the robot pose published on the link",
	Args:  cobra.NoArgs,
	RunE:  runPoseShow,
}

var poseSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Publish a robot pose on the link (simulation and testing)",
	Long: `Publish a robot pose on the link as the pose estimator would.

The dispatcher uses the published pose as the robot state for add-waypoint
and for the waypoint distances and bearings it mirrors to the agent.

Example:
  spsbridge pose set --x 2 --y 3 --yaw 1.57`,
	Args: cobra.NoArgs,
	RunE: runPoseSet,
}

func init() {
	poseSetCmd.Flags().Float64Var(&poseX, "x", 0, "X position in metres")
	poseSetCmd.Flags().Float64Var(&poseY, "y", 0, "Y position in metres")
	poseSetCmd.Flags().Float64Var(&poseZ, "z", 0, "Z position in metres")
	poseSetCmd.Flags().Float64Var(&poseYaw, "yaw", 0, "Heading in radians")
	poseSetCmd.MarkFlagRequired("x")
	poseSetCmd.MarkFlagRequired("y")

	poseCmd.AddCommand(poseSetCmd)
	rootCmd.AddCommand(poseCmd)
}

func runPoseSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	pose := &link.Pose{Pos: []float64{poseX, poseY, poseZ}, Yaw: poseYaw}
	if err := client.SetPose(ctx, pose); err != nil {
		return printer.Error("failed to publish pose", err.Error(), nil)
	}

	printer.Success("Pose published: x=%g y=%g z=%g yaw=%g\n", poseX, poseY, poseZ, poseYaw)
	return nil
}

func runPoseShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	pose, err := client.GetPose(ctx)
	if err != nil {
		if link.IsNotFound(err) {
			printer.Warning("No pose published on instance %s\n", cfg.Instance)
			return nil
		}
		return printer.Error("failed to read pose", err.Error(), nil)
	}

	printer.Info("Position: %s\n", formatVector(pose.Pos))
	printer.Info("Yaw:      %g rad\n", pose.Yaw)
	return nil
}

func formatVector(v []float64) string {
	s := "("
	for i, c := range v {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%g", c)
	}
	return s + ")"
}
