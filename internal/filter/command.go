package filter

import (
	"fmt"
	"path/filepath"

	"github.com/dyluth/spsbridge/pkg/link"
)

// Criteria selects commands for listing. All set criteria must match.
type Criteria struct {
	SinceTimestampMs int64      // 0 = no lower bound
	UntilTimestampMs int64      // 0 = no upper bound
	NameGlob         string     // glob on the command name, e.g. "*-waypoint"
	Phase            link.Phase // lifecycle phase, empty = any
}

// Validate rejects malformed globs and unknown phases.
func (c *Criteria) Validate() error {
	if c.NameGlob != "" {
		if _, err := filepath.Match(c.NameGlob, ""); err != nil {
			return fmt.Errorf("invalid command pattern %q: %w", c.NameGlob, err)
		}
	}

	switch c.Phase {
	case "", link.PhasePending, link.PhaseAccepted, link.PhaseComplete, link.PhaseError:
		return nil
	default:
		return fmt.Errorf("unknown phase %q (expected pending, accepted, complete or error)", c.Phase)
	}
}

// Matches reports whether cmd satisfies every criterion.
func (c *Criteria) Matches(cmd *link.Command) bool {
	if c.SinceTimestampMs > 0 && cmd.CreatedAtMs < c.SinceTimestampMs {
		return false
	}
	if c.UntilTimestampMs > 0 && cmd.CreatedAtMs > c.UntilTimestampMs {
		return false
	}

	if c.NameGlob != "" {
		if matched, err := filepath.Match(c.NameGlob, cmd.Name); err != nil || !matched {
			return false
		}
	}

	if c.Phase != "" && PhaseOf(cmd) != c.Phase {
		return false
	}

	return true
}

// HasFilters returns true if any criterion is set.
func (c *Criteria) HasFilters() bool {
	return c.SinceTimestampMs > 0 ||
		c.UntilTimestampMs > 0 ||
		c.NameGlob != "" ||
		c.Phase != ""
}

// Apply returns the commands that match, preserving order.
func (c *Criteria) Apply(cmds []*link.Command) []*link.Command {
	if !c.HasFilters() {
		return cmds
	}
	out := make([]*link.Command, 0, len(cmds))
	for _, cmd := range cmds {
		if c.Matches(cmd) {
			out = append(out, cmd)
		}
	}
	return out
}

// PhaseOf derives the lifecycle phase from the last recorded status.
func PhaseOf(cmd *link.Command) link.Phase {
	if len(cmd.Statuses) == 0 {
		return link.PhasePending
	}
	return link.Phase(cmd.Statuses[len(cmd.Statuses)-1])
}
