package link

import (
	"fmt"

	"github.com/google/uuid"
)

// Command is one output command posted by the agent on the link.
// Params holds the command's attributes; Statuses is append-only and only
// ever grows through Client.AddStatus.
type Command struct {
	ID          string            `json:"id"`            // UUID - unique identifier for this command
	Name        string            `json:"name"`          // Command name, selects the implementation (e.g. "add-waypoint")
	Params      map[string]string `json:"params"`        // Attribute name -> string value
	Statuses    []Status          `json:"statuses"`      // Lifecycle statuses in the order they were written
	CreatedAtMs int64             `json:"created_at_ms"` // Unix timestamp in milliseconds when the command was posted
}

// Status is a lifecycle marker attached to a command.
type Status string

const (
	// StatusAccepted indicates the parameters validated and the effect will be or was applied
	StatusAccepted Status = "accepted"

	// StatusComplete is terminal: the command was fully processed
	StatusComplete Status = "complete"

	// StatusError is terminal: validation or application failed and the command was abandoned
	StatusError Status = "error"
)

// Pose is the robot pose as published on the link by the pose estimator.
type Pose struct {
	Pos         []float64 `json:"pos"`           // x, y, z in metres
	Yaw         float64   `json:"yaw"`           // heading in radians
	UpdatedAtMs int64     `json:"updated_at_ms"` // Unix timestamp in milliseconds of the estimate
}

// Waypoint is the agent-facing view of one registered waypoint, relative to
// the robot pose at the time it was mirrored.
type Waypoint struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Distance  float64 `json:"distance"`
	Yaw       float64 `json:"yaw"`        // bearing to the waypoint relative to the robot heading, degrees
	YawFormat string  `json:"yaw_format"` // "float" or "int"
	Enabled   bool    `json:"enabled"`
}

// Param returns the value of a command attribute and whether it was present.
func (c *Command) Param(key string) (string, bool) {
	if c.Params == nil {
		return "", false
	}
	v, ok := c.Params[key]
	return v, ok
}

// Terminal returns the terminal status carried by the command, if any.
func (c *Command) Terminal() (Status, bool) {
	for _, s := range c.Statuses {
		if s.IsTerminal() {
			return s, true
		}
	}
	return "", false
}

// Validate checks if the Command has valid field values.
func (c *Command) Validate() error {
	if !isValidUUID(c.ID) {
		return fmt.Errorf("invalid command ID: not a valid UUID")
	}

	if c.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	for key := range c.Params {
		if key == "" {
			return fmt.Errorf("command parameter name cannot be empty")
		}
	}

	for i, s := range c.Statuses {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid status at index %d: %w", i, err)
		}
	}

	return nil
}

// Validate checks if the Status is a valid enum value.
func (s Status) Validate() error {
	switch s {
	case StatusAccepted, StatusComplete, StatusError:
		return nil
	default:
		return fmt.Errorf("unknown status: %q", s)
	}
}

// IsTerminal reports whether no further status may follow s.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusError
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
