package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/dyluth/spsbridge/pkg/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errStatusWrite = errors.New("link unavailable")

// recordingAgent is a StatusWriter that keeps statuses in memory.
type recordingAgent struct {
	written []link.Status
	failOn  link.Status
}

func (a *recordingAgent) AddStatus(_ context.Context, cmd *link.Command, s link.Status) error {
	if a.failOn != "" && s == a.failOn {
		return errStatusWrite
	}
	a.written = append(a.written, s)
	cmd.Statuses = append(cmd.Statuses, s)
	return nil
}

func newCommand(name string, params map[string]string) *link.Command {
	return &link.Command{ID: uuid.New().String(), Name: name, Params: params}
}

func newObservedLogger(t *testing.T) (log.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return log.FromZap(zap.New(core)), logs
}

func stateAt(x, y, z, yaw float64) *robot.State {
	return &robot.State{Pose: robot.Pose{Pos: []float64{x, y, z}, Yaw: yaw}}
}

var (
	acceptedComplete = []link.Status{link.StatusAccepted, link.StatusComplete}
	errorOnly        = []link.Status{link.StatusError}
)
