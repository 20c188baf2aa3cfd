package commands

import (
	"fmt"

	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default spsbridge.yml",
	Long: `Write a default spsbridge.yml with every setting at its default value.

Use --force to overwrite an existing file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	// Note: -f is not used for --force to stay clear of other short flags
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing spsbridge.yml")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write spsbridge.yml into")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !forceInit {
		if err := scaffold.CheckExisting(initDir); err != nil {
			return err
		}
	}

	created, err := scaffold.Initialize(initDir, forceInit)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	printer.Success("Initialized spsbridge configuration\n")
	for _, path := range created {
		printer.Info("  created %s\n", path)
	}
	printer.Info("\nNext: run 'spsbridge run' to start the dispatcher\n")
	return nil
}
