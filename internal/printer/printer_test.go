package printer

import (
	"bytes"
	"testing"

	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	noColor := color.NoColor
	color.NoColor = true

	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		SetOutput(nil, nil)
		color.NoColor = noColor
	})
	return &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		_, errOut := capture(t)
		err := Error("Test Error", "This is a test error", []string{})
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
		assert.Contains(t, errOut.String(), "This is a test error")
	})

	t.Run("numbers multiple suggestions", func(t *testing.T) {
		_, errOut := capture(t)
		err := Error("Test Error", "Explanation", []string{"First option", "Second option"})
		require.Equal(t, "Test Error", err.Error())
		assert.Contains(t, errOut.String(), "Either:")
		assert.Contains(t, errOut.String(), "  2. Second option")
	})
}

func TestErrorWithContext(t *testing.T) {
	_, errOut := capture(t)
	err := ErrorWithContext("Test Error", "Explanation", map[string]string{"Instance": "rover"}, []string{"Fix it"})
	require.Equal(t, "Test Error", err.Error())
	assert.Contains(t, errOut.String(), "  Instance: rover")
	assert.Contains(t, errOut.String(), "Fix it")
}

func TestSuccessAndWarning(t *testing.T) {
	out, _ := capture(t)

	Success("posted %s\n", "abc")
	Warning("slow\n")

	assert.Equal(t, "✓ posted abc\n⚠️  slow\n", out.String())
}

func TestStatus(t *testing.T) {
	capture(t)

	assert.Equal(t, "pending", Status(nil))
	assert.Equal(t, "accepted → complete", Status([]link.Status{link.StatusAccepted, link.StatusComplete}))
	assert.Equal(t, "error", Status([]link.Status{link.StatusError}))
}
