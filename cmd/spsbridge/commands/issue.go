package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/internal/watch"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	issueWait    bool
	issueTimeout time.Duration
)

var issueCmd = &cobra.Command{
	Use:   "issue COMMAND [KEY=VALUE...]",
	Short: "Post a command on the link as the agent would",
	Long: `Post an output command on the link, the way the reasoning agent does.

Examples:
  # Add a waypoint at the robot's current position
  spsbridge issue add-waypoint id=home

  # Add a waypoint at explicit coordinates and wait for the outcome
  spsbridge issue add-waypoint id=dock x=1.5 y=-2 --wait

  # Report waypoint bearings in whole degrees
  spsbridge issue configure yaw-format=int`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIssue,
}

func init() {
	issueCmd.Flags().BoolVarP(&issueWait, "wait", "w", false, "Wait for the command to reach a terminal status")
	issueCmd.Flags().DurationVar(&issueTimeout, "timeout", 10*time.Second, "How long --wait waits")
	rootCmd.AddCommand(issueCmd)
}

// parseParams turns KEY=VALUE arguments into command parameters.
// Values may be empty; keys may not.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected KEY=VALUE)", arg)
		}
		if _, dup := params[key]; dup {
			return nil, fmt.Errorf("parameter %q given more than once", key)
		}
		params[key] = value
	}
	return params, nil
}

func runIssue(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	params, err := parseParams(args[1:])
	if err != nil {
		return printer.Error("invalid parameters", err.Error(), []string{"Pass parameters as KEY=VALUE, e.g. id=home x=1.5"})
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	// Subscribe before posting so the terminal status event cannot be missed.
	var sub *link.Subscription[*link.StatusEvent]
	if issueWait {
		sub, err = client.SubscribeStatusEvents(ctx)
		if err != nil {
			return fmt.Errorf("failed to subscribe to status events: %w", err)
		}
		defer sub.Close()
	}

	record := &link.Command{
		ID:     uuid.New().String(),
		Name:   args[0],
		Params: params,
	}
	if err := client.CreateCommand(ctx, record); err != nil {
		return printer.Error("failed to post command", err.Error(), nil)
	}

	printer.Success("Posted %s command %s\n", record.Name, record.ID)

	if !issueWait {
		return nil
	}

	status, err := watch.WaitForTerminalStatus(ctx, sub, record.ID, issueTimeout)
	if err != nil {
		return printer.ErrorWithContext(
			"no terminal status",
			err.Error(),
			map[string]string{"Command": record.ID, "Instance": cfg.Instance},
			[]string{"Check that `spsbridge run` is running for this instance"},
		)
	}

	if status == link.StatusError {
		return printer.ErrorWithContext(
			"command rejected",
			fmt.Sprintf("The bridge reported %s for %s.", status, record.Name),
			map[string]string{"Command": record.ID},
			[]string{"Run `spsbridge run --log.level=debug` to see why it was rejected"},
		)
	}

	printer.Success("%s %s\n", record.Name, status)
	return nil
}
