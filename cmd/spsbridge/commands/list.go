package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dyluth/spsbridge/internal/filter"
	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/internal/timespec"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var (
	listOutputFormat string
	listSince        string
	listUntil        string
	listCommand      string
	listPhase        string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the commands currently on the link",
	Long: `List the commands currently on the link, oldest first.

Output Formats:
  default - Human-readable table
  jsonl   - Line-delimited JSON, one command per line

Filters:
  --since, --until  - creation time bounds (duration like 5m, or RFC3339)
  --command         - glob on the command name ("*-waypoint")
  --phase           - pending, accepted, complete or error

Examples:
  # Rejected waypoint commands from the last ten minutes
  spsbridge list --command "*-waypoint" --phase error --since 10m`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "default", "Output format: default or jsonl")
	listCmd.Flags().StringVar(&listSince, "since", "", "Show commands created after time (duration or RFC3339)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Show commands created before time (duration or RFC3339)")
	listCmd.Flags().StringVar(&listCommand, "command", "", "Filter by command name (glob pattern)")
	listCmd.Flags().StringVar(&listPhase, "phase", "", "Filter by lifecycle phase")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if listOutputFormat != "default" && listOutputFormat != "jsonl" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", listOutputFormat),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	sinceMs, untilMs, err := timespec.ParseRange(listSince, listUntil, time.Now())
	if err != nil {
		return printer.Error("invalid time filter", err.Error(), []string{"Use a duration like 5m or an RFC3339 timestamp"})
	}

	criteria := &filter.Criteria{
		SinceTimestampMs: sinceMs,
		UntilTimestampMs: untilMs,
		NameGlob:         listCommand,
		Phase:            link.Phase(listPhase),
	}
	if err := criteria.Validate(); err != nil {
		return printer.Error("invalid filter", err.Error(), nil)
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

	records, err := client.ListCommands(ctx)
	if err != nil {
		return printer.Error("failed to list commands", err.Error(), nil)
	}
	records = criteria.Apply(records)

	if listOutputFormat == "jsonl" {
		enc := json.NewEncoder(printer.Out())
		for _, record := range records {
			if err := enc.Encode(record); err != nil {
				return fmt.Errorf("failed to encode command: %w", err)
			}
		}
		return nil
	}

	if len(records) == 0 {
		if criteria.HasFilters() {
			printer.Info("No commands match the filters on instance %s\n", cfg.Instance)
			return nil
		}
		printer.Info("No commands on instance %s\n", cfg.Instance)
		return nil
	}

	fmt.Fprintln(printer.Out(), commandTable(records))
	return nil
}

func commandTable(records []*link.Command) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ID", "COMMAND", "PARAMS", "STATUS", "CREATED")

	for _, record := range records {
		table.AddRow(
			record.ID,
			record.Name,
			formatParams(record.Params),
			printer.Status(record.Statuses),
			time.UnixMilli(record.CreatedAtMs).UTC().Format(time.RFC3339),
		)
	}
	return table
}

// formatParams renders parameters as sorted KEY=VALUE pairs.
func formatParams(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
