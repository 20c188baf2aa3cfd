package link

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCommand_Validate(t *testing.T) {
	valid := func() *Command {
		return &Command{ID: uuid.New().String(), Name: "add-waypoint", Params: map[string]string{"id": "wp"}}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.ID = "123"
	assert.ErrorContains(t, c.Validate(), "invalid command ID")

	c = valid()
	c.Name = ""
	assert.ErrorContains(t, c.Validate(), "name cannot be empty")

	c = valid()
	c.Params[""] = "x"
	assert.ErrorContains(t, c.Validate(), "parameter name cannot be empty")

	c = valid()
	c.Statuses = []Status{StatusAccepted, "bogus"}
	assert.ErrorContains(t, c.Validate(), "invalid status at index 1")
}

func TestCommand_Param(t *testing.T) {
	var c Command
	_, ok := c.Param("id")
	assert.False(t, ok)

	c.Params = map[string]string{"id": ""}
	v, ok := c.Param("id")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestCommand_Terminal(t *testing.T) {
	c := &Command{Statuses: []Status{StatusAccepted}}
	_, ok := c.Terminal()
	assert.False(t, ok)

	c.Statuses = append(c.Statuses, StatusComplete)
	s, ok := c.Terminal()
	assert.True(t, ok)
	assert.Equal(t, StatusComplete, s)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusComplete.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
}
