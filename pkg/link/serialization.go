package link

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between Go structs and Redis values
//
// A command is spread over three keys: a hash with its identity, a hash with
// its parameters (already string-to-string, so stored as-is) and a list with
// its statuses. Pose and waypoints are small JSON documents.

// CommandToHash converts the identity fields of a Command to a Redis hash.
// Params and Statuses live under their own keys.
func CommandToHash(c *Command) map[string]interface{} {
	return map[string]interface{}{
		"id":            c.ID,
		"name":          c.Name,
		"created_at_ms": c.CreatedAtMs,
	}
}

// HashToCommand rebuilds a Command from its identity hash, parameter hash and
// status list as read from Redis.
func HashToCommand(hash map[string]string, params map[string]string, statuses []string) (*Command, error) {
	createdAtMs, err := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at_ms field: %w", err)
	}

	if params == nil {
		params = map[string]string{}
	}

	parsed := make([]Status, 0, len(statuses))
	for i, raw := range statuses {
		s := Status(raw)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid status at index %d: %w", i, err)
		}
		parsed = append(parsed, s)
	}

	return &Command{
		ID:          hash["id"],
		Name:        hash["name"],
		Params:      params,
		Statuses:    parsed,
		CreatedAtMs: createdAtMs,
	}, nil
}

// ParamsToHash converts command parameters to the form HSET expects.
// Returns nil when there are no parameters (HSET with no fields is an error).
func ParamsToHash(params map[string]string) map[string]interface{} {
	if len(params) == 0 {
		return nil
	}
	hash := make(map[string]interface{}, len(params))
	for k, v := range params {
		hash[k] = v
	}
	return hash
}

// PoseToJSON encodes a pose for storage under PoseKey.
func PoseToJSON(p *Pose) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pose: %w", err)
	}
	return string(data), nil
}

// JSONToPose decodes a pose stored under PoseKey.
func JSONToPose(raw string) (*Pose, error) {
	var p Pose
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pose: %w", err)
	}
	return &p, nil
}

// WaypointsToHash converts waypoint observations to the id -> JSON hash
// stored under WaypointsKey.
func WaypointsToHash(waypoints []Waypoint) (map[string]interface{}, error) {
	hash := make(map[string]interface{}, len(waypoints))
	for _, w := range waypoints {
		data, err := json.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal waypoint %s: %w", w.ID, err)
		}
		hash[w.ID] = string(data)
	}
	return hash, nil
}

// HashToWaypoints decodes the waypoint mirror hash.
func HashToWaypoints(hash map[string]string) ([]Waypoint, error) {
	waypoints := make([]Waypoint, 0, len(hash))
	for id, raw := range hash {
		var w Waypoint
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, fmt.Errorf("failed to unmarshal waypoint %s: %w", id, err)
		}
		waypoints = append(waypoints, w)
	}
	return waypoints, nil
}
