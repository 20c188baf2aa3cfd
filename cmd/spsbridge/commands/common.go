package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dyluth/spsbridge/internal/config"
	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/spf13/cobra"
)

// loadConfig reads the configuration named by --config. The default path is
// optional; an explicitly given one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{"Fix spsbridge.yml or the SPS_* / REDIS_URL environment variables"},
		)
	}

	if instanceName != "" {
		cfg.Instance = instanceName
		if err := cfg.Validate(); err != nil {
			return nil, printer.Error("invalid instance name", err.Error(), nil)
		}
	}

	return cfg, nil
}

// connect opens a link client for the configured instance and verifies Redis is reachable.
func connect(ctx context.Context, cfg *config.Config) (*link.Client, error) {
	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		return nil, printer.Error("invalid redis_url", err.Error(), nil)
	}

	client, err := link.NewClient(redisOpts, cfg.Instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create link client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"redis unavailable",
			fmt.Sprintf("Could not reach Redis: %v", err),
			map[string]string{"Redis": cfg.RedisURL, "Instance": cfg.Instance},
			[]string{"Start Redis or point REDIS_URL at a running server"},
		)
	}

	return client, nil
}
