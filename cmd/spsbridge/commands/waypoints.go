package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var waypointsCmd = &cobra.Command{
	Use:   "waypoints",
	Short: "Show the waypoints mirrored to the agent",
	Long: `Show the waypoint registry as the agent sees it: position, planar
distance from the robot and bearing relative to the robot heading.`,
	Args: cobra.NoArgs,
	RunE: runWaypoints,
}

func init() {
	rootCmd.AddCommand(waypointsCmd)
}

func runWaypoints(cmd *cobra.Command, args []string) error {
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

	waypoints, err := client.ListWaypoints(ctx)
	if err != nil {
		return printer.Error("failed to read waypoints", err.Error(), nil)
	}

	if len(waypoints) == 0 {
		printer.Info("No waypoints on instance %s\n", cfg.Instance)
		return nil
	}

	fmt.Fprintln(printer.Out(), waypointTable(waypoints))
	return nil
}

func waypointTable(waypoints []link.Waypoint) *uitable.Table {
	table := uitable.New()
	table.AddRow("ID", "X", "Y", "Z", "DISTANCE", "YAW", "ENABLED")

	for _, wp := range waypoints {
		yaw := strconv.FormatFloat(wp.Yaw, 'f', 2, 64)
		if wp.YawFormat == "int" {
			yaw = strconv.FormatFloat(wp.Yaw, 'f', 0, 64)
		}
		table.AddRow(
			wp.ID,
			strconv.FormatFloat(wp.X, 'f', 2, 64),
			strconv.FormatFloat(wp.Y, 'f', 2, 64),
			strconv.FormatFloat(wp.Z, 'f', 2, 64),
			strconv.FormatFloat(wp.Distance, 'f', 2, 64),
			yaw,
			strconv.FormatBool(wp.Enabled),
		)
	}
	return table
}
