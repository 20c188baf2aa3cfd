package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashToCommand(t *testing.T) {
	hash := map[string]string{"id": "abc", "name": "configure", "created_at_ms": "1700000000000"}

	t.Run("nil params become empty map", func(t *testing.T) {
		cmd, err := HashToCommand(hash, nil, []string{"accepted"})
		require.NoError(t, err)
		assert.NotNil(t, cmd.Params)
		assert.Equal(t, []Status{StatusAccepted}, cmd.Statuses)
		assert.Equal(t, int64(1700000000000), cmd.CreatedAtMs)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		bad := map[string]string{"id": "abc", "name": "configure", "created_at_ms": "soon"}
		_, err := HashToCommand(bad, nil, nil)
		assert.ErrorContains(t, err, "created_at_ms")
	})

	t.Run("corrupt status list", func(t *testing.T) {
		_, err := HashToCommand(hash, nil, []string{"accepted", "done"})
		assert.ErrorContains(t, err, "invalid status at index 1")
	})
}

func TestParamsToHash(t *testing.T) {
	assert.Nil(t, ParamsToHash(nil))
	assert.Nil(t, ParamsToHash(map[string]string{}))
	assert.Equal(t, map[string]interface{}{"id": "wp"}, ParamsToHash(map[string]string{"id": "wp"}))
}

func TestJSONToPose_Malformed(t *testing.T) {
	_, err := JSONToPose("{not json")
	assert.ErrorContains(t, err, "failed to unmarshal pose")
}

func TestHashToWaypoints_Malformed(t *testing.T) {
	_, err := HashToWaypoints(map[string]string{"wp": "[]"})
	assert.ErrorContains(t, err, "failed to unmarshal waypoint wp")
}
