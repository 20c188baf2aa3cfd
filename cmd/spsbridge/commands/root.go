package commands

import (
	"fmt"
	"strings"

	"github.com/dyluth/spsbridge/internal/config"
	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/pkg/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath   string
	instanceName string
	logOpts      = log.NewOptions()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spsbridge",
	Short: "spsbridge - command bridge between a reasoning agent and a robot",
	Long: `spsbridge connects a symbolic reasoning agent to a robot's waypoint
subsystem over a Redis-backed link.

The agent posts output commands (add-waypoint, disable-waypoint, ...) on the
link. The bridge executes each one exactly once against the robot, reports
its lifecycle back as statuses (accepted, complete, error) and mirrors the
waypoint registry so the agent can observe it.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if errs := logOpts.Validate(); len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, err := range errs {
				msgs[i] = err.Error()
			}
			return printer.Error("invalid log options", strings.Join(msgs, "\n"), nil)
		}
		log.Init(logOpts)
		return nil
	},
	// Unknown flags on the root command must fail rather than be ignored
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Errors are printed by the printer package, not by cobra
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to spsbridge.yml (defaults and environment are used if the default file is absent)")
	flags.StringVarP(&instanceName, "name", "n", "", "Robot instance name (overrides the configuration)")
	logOpts.AddFlags(flags)
}
