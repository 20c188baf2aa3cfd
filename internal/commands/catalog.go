package commands

import (
	"fmt"
	"sort"

	"github.com/dyluth/spsbridge/pkg/log"
)

// Catalog maps command names to their implementations.
type Catalog struct {
	commands map[string]Command
}

// NewCatalog returns a catalog holding every built-in command.
func NewCatalog(logger log.Logger) *Catalog {
	c := &Catalog{commands: make(map[string]Command)}

	for _, cmd := range []Command{
		NewAddWaypoint(logger),
		NewDisableWaypoint(logger),
		NewEnableWaypoint(logger),
		NewRemoveWaypoint(logger),
		NewClearWaypoints(logger),
		NewConfigure(logger),
	} {
		if err := c.Register(cmd); err != nil {
			panic(err)
		}
	}

	return c
}

// Register adds cmd under its name. Names must be unique.
func (c *Catalog) Register(cmd Command) error {
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command has no name")
	}
	if _, exists := c.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	c.commands[name] = cmd
	return nil
}

// Lookup returns the command registered under name.
func (c *Catalog) Lookup(name string) (Command, bool) {
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
