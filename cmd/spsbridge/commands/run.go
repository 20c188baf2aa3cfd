package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmds "github.com/dyluth/spsbridge/internal/commands"
	"github.com/dyluth/spsbridge/internal/dispatcher"
	"github.com/dyluth/spsbridge/internal/printer"
	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the command dispatcher",
	Long: `Run the dispatcher daemon for one robot instance.

The dispatcher executes every command the agent posts on the link, reads the
robot pose published on the link, and serves /healthz and /metrics on the
configured health address. It stops on SIGINT/SIGTERM, and exits with status
1 if a command faults (for example when no robot state is available).`,
	Args: cobra.NoArgs,
	RunE: runDispatcher,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDispatcher(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.Std().WithValues("instance", cfg.Instance)
	redis.SetLogger(log.RedisLogger{Logger: logger.WithName("redis")})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error(err, "Error closing link client")
		}
	}()

	d := dispatcher.New(
		client,
		cmds.NewCatalog(logger),
		robot.NewWaypoints(),
		&robot.LinkPoseProvider{Client: client},
		cmds.NewOutput(cfg.FloatYaw()),
		dispatcher.Options{
			CycleInterval: cfg.Dispatcher.CycleInterval,
			RetainCycles:  *cfg.Dispatcher.RetainCycles,
		},
		logger,
	)

	health := dispatcher.NewHealthServer(cfg.Health.Addr, client, d.Metrics(), logger)
	if err := health.Start(); err != nil {
		return printer.Error("failed to start health server", err.Error(), nil)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := health.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "Error shutting down health server")
		}
	}()

	if err := d.Run(ctx); err != nil {
		return printer.ErrorWithContext(
			"dispatcher fault",
			err.Error(),
			map[string]string{"Instance": cfg.Instance},
			[]string{"Check that the pose estimator is publishing and that Redis is writable"},
		)
	}

	logger.Info("Dispatcher stopped")
	return nil
}
