// Package link provides type-safe Go definitions and the Redis-backed symbolic
// link shared between a reasoning agent and the spsbridge dispatcher.
//
// # Overview
//
// The link is the shared workspace where the agent posts output commands and
// the bridge reports back how each command was handled. The agent observes the
// link once per reasoning cycle, so every status written here becomes part of
// its world model on the next cycle.
//
// # Core Concepts
//
// Commands are named attribute sets: a command name (for example
// "add-waypoint") plus string parameters ("id", "x", "y"). Each command
// carries an append-only list of statuses.
//
// Statuses form a closed vocabulary: accepted, complete and error. A command
// either ends with a single error, or with accepted followed by complete.
// The Lifecycle type enforces this, and Client.AddStatus refuses any append
// that would break it.
//
// The link also carries the robot pose published by the pose estimator and a
// mirror of the waypoint registry, which is what the agent reads back.
//
// # Usage Example
//
//	client, err := link.NewClient(&redis.Options{Addr: "localhost:6379"}, "default")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cmd := &link.Command{
//		ID:     uuid.New().String(),
//		Name:   "add-waypoint",
//		Params: map[string]string{"id": "dock", "x": "1.5"},
//	}
//	if err := client.CreateCommand(ctx, cmd); err != nil {
//		log.Fatal(err)
//	}
//
// # Redis Schema
//
// All Redis keys follow the pattern: sps:{instance_name}:{entity}[:{id}]
//
// Command: sps:{instance_name}:command:{command_id}
// Command params: sps:{instance_name}:command:{command_id}:params
// Command statuses: sps:{instance_name}:command:{command_id}:status
// Command index: sps:{instance_name}:commands
// Pose: sps:{instance_name}:pose
// Waypoints: sps:{instance_name}:waypoints
//
// Pub/Sub channels: sps:{instance_name}:{event_type}_events
package link
