package link

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced by instance name so that
// several robots can share one Redis server.
//
// Key pattern: sps:{instance_name}:{entity}[:{id}]
// Channel pattern: sps:{instance_name}:{event_type}_events

// CommandKey returns the Redis key for a command hash.
// Pattern: sps:{instance_name}:command:{command_id}
func CommandKey(instanceName, commandID string) string {
	return fmt.Sprintf("sps:%s:command:%s", instanceName, commandID)
}

// CommandParamsKey returns the Redis key for a command's parameter hash.
// Pattern: sps:{instance_name}:command:{command_id}:params
func CommandParamsKey(instanceName, commandID string) string {
	return fmt.Sprintf("sps:%s:command:%s:params", instanceName, commandID)
}

// CommandStatusKey returns the Redis key for a command's status list.
// Pattern: sps:{instance_name}:command:{command_id}:status
func CommandStatusKey(instanceName, commandID string) string {
	return fmt.Sprintf("sps:%s:command:%s:status", instanceName, commandID)
}

// CommandsKey returns the Redis key for the ZSET indexing live commands by creation time.
// Pattern: sps:{instance_name}:commands
func CommandsKey(instanceName string) string {
	return fmt.Sprintf("sps:%s:commands", instanceName)
}

// PoseKey returns the Redis key holding the latest robot pose as JSON.
// Pattern: sps:{instance_name}:pose
func PoseKey(instanceName string) string {
	return fmt.Sprintf("sps:%s:pose", instanceName)
}

// WaypointsKey returns the Redis key for the waypoint mirror hash (id -> JSON).
// Pattern: sps:{instance_name}:waypoints
func WaypointsKey(instanceName string) string {
	return fmt.Sprintf("sps:%s:waypoints", instanceName)
}

// CommandEventsChannel returns the Pub/Sub channel announcing new commands.
// Pattern: sps:{instance_name}:command_events
func CommandEventsChannel(instanceName string) string {
	return fmt.Sprintf("sps:%s:command_events", instanceName)
}

// StatusEventsChannel returns the Pub/Sub channel announcing appended statuses.
// Pattern: sps:{instance_name}:status_events
func StatusEventsChannel(instanceName string) string {
	return fmt.Sprintf("sps:%s:status_events", instanceName)
}
