// Package watch waits for commands on the link to reach a terminal status.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/spsbridge/pkg/link"
)

// PollInterval is how often PollForTerminalStatus re-reads the command.
const PollInterval = 200 * time.Millisecond

// PollForTerminalStatus polls a command until it carries a terminal status.
// Returns an error if the command is missing or retired before that is seen.
func PollForTerminalStatus(ctx context.Context, client *link.Client, commandID string, timeout time.Duration) (*link.Command, error) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for command %s after %v", commandID, timeout)

		case <-ticker.C:
			cmd, err := client.GetCommand(ctx, commandID)
			if err != nil {
				if link.IsNotFound(err) {
					return nil, fmt.Errorf("command %s not found (it may have been retired)", commandID)
				}
				return nil, fmt.Errorf("failed to query command: %w", err)
			}

			if _, terminal := cmd.Terminal(); terminal {
				return cmd, nil
			}
		}
	}
}

// WaitForTerminalStatus reads status events until one reports a terminal
// status for commandID. Subscribe before posting the command so the event
// cannot be missed.
func WaitForTerminalStatus(ctx context.Context, sub *link.Subscription[*link.StatusEvent], commandID string, timeout time.Duration) (link.Status, error) {
	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-timeoutCh:
			return "", fmt.Errorf("timeout waiting for command %s after %v", commandID, timeout)

		case event, ok := <-sub.Events():
			if !ok {
				return "", fmt.Errorf("status subscription closed while waiting for command %s", commandID)
			}
			if event.CommandID == commandID && event.Status.IsTerminal() {
				return event.Status, nil
			}
		}
	}
}
