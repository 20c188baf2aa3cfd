package commands

import (
	"context"
	"errors"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/dyluth/spsbridge/pkg/log"
)

// ConfigureName is the link name of Configure; ParamYawFormat is its one attribute.
const (
	ConfigureName  = "configure"
	ParamYawFormat = "yaw-format"
)

// ErrNoOutput is returned when configure runs without output settings to change.
var ErrNoOutput = errors.New("output settings unavailable")

// Configure changes output settings at runtime.
type Configure struct {
	log log.Logger
}

var _ Command = (*Configure)(nil)

// NewConfigure returns the configure command.
func NewConfigure(logger log.Logger) *Configure {
	return &Configure{log: logger.WithName(ConfigureName)}
}

// Name returns ConfigureName.
func (c *Configure) Name() string { return ConfigureName }

// Execute applies yaw-format when present. An unknown format rejects the
// command; a nil out is a fault.
func (c *Configure) Execute(ctx context.Context, _ robot.Registry, agent link.StatusWriter, cmd *link.Command, _ *robot.State, out *Output) (bool, error) {
	format, ok := cmd.Param(ParamYawFormat)
	if ok {
		switch format {
		case robot.YawFormatFloat, robot.YawFormatInt:
		default:
			c.log.Warn("Unknown yaw format", "command_id", cmd.ID, "yaw_format", format)
			return false, reject(ctx, agent, cmd)
		}

		if out == nil {
			return false, ErrNoOutput
		}
		out.SetFloatYaw(format == robot.YawFormatFloat)
		c.log.Info("Yaw format changed", "command_id", cmd.ID, "yaw_format", format)
	}

	if err := accept(ctx, agent, cmd); err != nil {
		return false, err
	}
	return true, nil
}
