package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/internal/resolver"
	"github.com/dyluth/spsbridge/internal/watch"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/spf13/cobra"
)

var (
	statusWait    bool
	statusTimeout time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status COMMAND_ID",
	Short: "Show the lifecycle of a command on the link",
	Long: `Show a command's parameters and status history.

COMMAND_ID may be a full UUID or a unique prefix of at least 6 characters.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWait, "wait", "w", false, "Poll until the command reaches a terminal status")
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 10*time.Second, "How long --wait polls")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	commandID, err := resolver.ResolveCommandID(ctx, client, args[0])
	if err != nil {
		var ambiguous *resolver.AmbiguousError
		switch {
		case errors.As(err, &ambiguous):
			return printer.Error("ambiguous command ID", ambiguous.Describe(), []string{"Use a longer prefix or the full ID"})
		case resolver.IsNotFoundError(err):
			return printer.Error(
				"command not found",
				fmt.Sprintf("No command matching %s on instance %s.", args[0], cfg.Instance),
				[]string{"Commands are retired shortly after they finish. List live ones with:\n  spsbridge list"},
			)
		default:
			return printer.Error("invalid command ID", err.Error(), nil)
		}
	}

	var record *link.Command
	if statusWait {
		record, err = watch.PollForTerminalStatus(ctx, client, commandID, statusTimeout)
	} else {
		record, err = client.GetCommand(ctx, commandID)
	}
	if err != nil {
		if link.IsNotFound(err) {
			return printer.Error(
				"command not found",
				fmt.Sprintf("No command %s on instance %s.", commandID, cfg.Instance),
				[]string{"Commands are retired shortly after they finish. List live ones with:\n  spsbridge list"},
			)
		}
		return printer.Error("failed to read command", err.Error(), nil)
	}

	printCommand(record)
	return nil
}

func printCommand(record *link.Command) {
	printer.Info("ID:       %s\n", record.ID)
	printer.Info("Command:  %s\n", record.Name)
	printer.Info("Created:  %s\n", time.UnixMilli(record.CreatedAtMs).UTC().Format(time.RFC3339))

	if len(record.Params) > 0 {
		keys := make([]string, 0, len(record.Params))
		for k := range record.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		printer.Info("Params:\n")
		for _, k := range keys {
			printer.Info("  %s=%s\n", k, record.Params[k])
		}
	}

	printer.Info("Status:   %s\n", printer.Status(record.Statuses))
}
