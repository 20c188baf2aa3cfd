// Package resolver expands short command ID prefixes typed on the CLI.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/google/uuid"
)

// MinShortIDLength is the minimum accepted prefix length.
const MinShortIDLength = 6

// CommandLister is satisfied by *link.Client.
type CommandLister interface {
	ListCommands(ctx context.Context) ([]*link.Command, error)
}

// ResolveCommandID resolves a prefix against the live commands on the link.
// A full UUID is returned unchanged without a lookup.
func ResolveCommandID(ctx context.Context, lister CommandLister, shortID string) (string, error) {
	if _, err := uuid.Parse(shortID); err == nil && len(shortID) == 36 {
		return shortID, nil
	}

	if len(shortID) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}

	cmds, err := lister.ListCommands(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to search for command: %w", err)
	}

	var matches []string
	for _, cmd := range cmds {
		if strings.HasPrefix(cmd.ID, shortID) {
			matches = append(matches, cmd.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// NotFoundError indicates no live command matched the prefix.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no commands found matching '%s'", e.ShortID)
}

// AmbiguousError indicates several live commands matched the prefix.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d commands", e.ShortID, len(e.Matches))
}

// Describe lists the matching IDs, at most ten of them.
func (e *AmbiguousError) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' matches %d commands:\n", e.ShortID, len(e.Matches))

	shown := e.Matches
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, id := range shown {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	if len(e.Matches) > 10 {
		fmt.Fprintf(&b, "  ...and %d more\n", len(e.Matches)-10)
	}
	return b.String()
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	var target *AmbiguousError
	return errors.As(err, &target)
}
