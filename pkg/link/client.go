package link

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxStatusRetries bounds the optimistic-locking retries of AddStatus.
const maxStatusRetries = 3

// StatusWriter appends lifecycle statuses to commands.
// *Client is the production implementation.
type StatusWriter interface {
	AddStatus(ctx context.Context, cmd *Command, s Status) error
}

var _ StatusWriter = (*Client)(nil)

// StatusEvent is published on the status events channel whenever a status is appended.
type StatusEvent struct {
	CommandID string `json:"command_id"`
	Name      string `json:"name"`
	Status    Status `json:"status"`
}

// Client provides instance-scoped Redis operations for the link.
// All keys and channels are automatically namespaced with the instance name.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a new link client for the specified instance.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - instanceName: robot instance identifier (must not be empty)
//
// Returns an error if instanceName is empty.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// InstanceName returns the namespace this client operates in.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// CreateCommand posts a new command on the link and publishes an event.
// The command must not carry statuses yet. CreatedAtMs is stamped when zero.
func (c *Client) CreateCommand(ctx context.Context, cmd *Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	if len(cmd.Statuses) > 0 {
		return fmt.Errorf("invalid command: new commands cannot carry statuses")
	}

	if cmd.CreatedAtMs == 0 {
		cmd.CreatedAtMs = time.Now().UnixMilli()
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, CommandKey(c.instanceName, cmd.ID), CommandToHash(cmd))
		if params := ParamsToHash(cmd.Params); params != nil {
			pipe.HSet(ctx, CommandParamsKey(c.instanceName, cmd.ID), params)
		}
		pipe.ZAdd(ctx, CommandsKey(c.instanceName), redis.Z{
			Score:  float64(cmd.CreatedAtMs),
			Member: cmd.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write command to Redis: %w", err)
	}

	cmdJSON, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command for event: %w", err)
	}

	if err := c.rdb.Publish(ctx, CommandEventsChannel(c.instanceName), cmdJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish command event: %w", err)
	}

	return nil
}

// GetCommand retrieves a command with its parameters and statuses.
// Returns (nil, redis.Nil) if the command doesn't exist.
// Use IsNotFound() to check for not-found errors.
func (c *Client) GetCommand(ctx context.Context, commandID string) (*Command, error) {
	hash, err := c.rdb.HGetAll(ctx, CommandKey(c.instanceName, commandID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read command from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hash) == 0 {
		return nil, redis.Nil
	}

	params, err := c.rdb.HGetAll(ctx, CommandParamsKey(c.instanceName, commandID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read command params from Redis: %w", err)
	}

	statuses, err := c.rdb.LRange(ctx, CommandStatusKey(c.instanceName, commandID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read command statuses from Redis: %w", err)
	}

	cmd, err := HashToCommand(hash, params, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize command: %w", err)
	}

	return cmd, nil
}

// ListCommands returns every live command in creation order.
// Index entries whose command has vanished are skipped.
func (c *Client) ListCommands(ctx context.Context) ([]*Command, error) {
	ids, err := c.rdb.ZRange(ctx, CommandsKey(c.instanceName), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read command index: %w", err)
	}

	commands := make([]*Command, 0, len(ids))
	for _, id := range ids {
		cmd, err := c.GetCommand(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		commands = append(commands, cmd)
	}

	return commands, nil
}

// AddStatus appends s to the command's status list and to cmd.Statuses.
//
// The stored history is replayed through a Lifecycle under WATCH, so a status
// that would break the lifecycle is rejected with ErrInvalidStatusTransition
// and nothing is written. Returns redis.Nil if the command doesn't exist.
func (c *Client) AddStatus(ctx context.Context, cmd *Command, s Status) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	cmdKey := CommandKey(c.instanceName, cmd.ID)
	statusKey := CommandStatusKey(c.instanceName, cmd.ID)

	var history []Status
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, cmdKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check command existence: %w", err)
		}
		if exists == 0 {
			return redis.Nil
		}

		raw, err := tx.LRange(ctx, statusKey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to read command statuses: %w", err)
		}

		history = make([]Status, 0, len(raw)+1)
		for _, r := range raw {
			history = append(history, Status(r))
		}

		lifecycle, err := ReplayLifecycle(ctx, history)
		if err != nil {
			return err
		}
		if err := lifecycle.Apply(ctx, s); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, statusKey, string(s))
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxStatusRetries; attempt++ {
		err = c.rdb.Watch(ctx, txf, cmdKey, statusKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		if IsNotFound(err) || errors.Is(err, ErrInvalidStatusTransition) {
			return err
		}
		return fmt.Errorf("failed to append status to Redis: %w", err)
	}

	cmd.Statuses = append(history, s)

	eventJSON, err := json.Marshal(StatusEvent{CommandID: cmd.ID, Name: cmd.Name, Status: s})
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	if err := c.rdb.Publish(ctx, StatusEventsChannel(c.instanceName), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	return nil
}

// RetireCommand removes a command, its parameters and statuses from the link.
// Retiring a command that doesn't exist is not an error.
func (c *Client) RetireCommand(ctx context.Context, commandID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx,
			CommandKey(c.instanceName, commandID),
			CommandParamsKey(c.instanceName, commandID),
			CommandStatusKey(c.instanceName, commandID),
		)
		pipe.ZRem(ctx, CommandsKey(c.instanceName), commandID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to retire command: %w", err)
	}
	return nil
}

// SetPose publishes the robot pose. UpdatedAtMs is stamped when zero.
func (c *Client) SetPose(ctx context.Context, p *Pose) error {
	if len(p.Pos) == 0 {
		return fmt.Errorf("invalid pose: position vector cannot be empty")
	}
	for i, v := range p.Pos {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid pose: position component %d is not finite", i)
		}
	}
	if math.IsNaN(p.Yaw) || math.IsInf(p.Yaw, 0) {
		return fmt.Errorf("invalid pose: yaw is not finite")
	}

	if p.UpdatedAtMs == 0 {
		p.UpdatedAtMs = time.Now().UnixMilli()
	}

	raw, err := PoseToJSON(p)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, PoseKey(c.instanceName), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write pose to Redis: %w", err)
	}
	return nil
}

// GetPose returns the latest published pose.
// Returns (nil, redis.Nil) if no pose has been published yet.
func (c *Client) GetPose(ctx context.Context) (*Pose, error) {
	raw, err := c.rdb.Get(ctx, PoseKey(c.instanceName)).Result()
	if err != nil {
		if IsNotFound(err) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("failed to read pose from Redis: %w", err)
	}
	return JSONToPose(raw)
}

// PutWaypoints replaces the waypoint mirror with the given observations.
func (c *Client) PutWaypoints(ctx context.Context, waypoints []Waypoint) error {
	hash, err := WaypointsToHash(waypoints)
	if err != nil {
		return err
	}

	key := WaypointsKey(c.instanceName)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(hash) > 0 {
			pipe.HSet(ctx, key, hash)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write waypoints to Redis: %w", err)
	}
	return nil
}

// ListWaypoints returns the mirrored waypoints sorted by id.
// Returns an empty slice if none are registered (not an error).
func (c *Client) ListWaypoints(ctx context.Context) ([]Waypoint, error) {
	hash, err := c.rdb.HGetAll(ctx, WaypointsKey(c.instanceName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read waypoints from Redis: %w", err)
	}

	waypoints, err := HashToWaypoints(hash)
	if err != nil {
		return nil, err
	}

	sort.Slice(waypoints, func(i, j int) bool { return waypoints[i].ID < waypoints[j].ID })
	return waypoints, nil
}

// Subscription represents an active Pub/Sub subscription.
// Caller must call Close() when done to clean up resources.
type Subscription[T any] struct {
	events <-chan T
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of decoded events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription[T]) Events() <-chan T {
	return s.events
}

// Errors returns the channel of subscription errors.
// The subscription continues after errors - undecodable messages are skipped.
func (s *Subscription[T]) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Subscription[T]) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeCommandEvents subscribes to command creation events for this instance.
// Events are delivered on a buffered channel (size 10). Redis Pub/Sub is
// at-most-once, so consumers must not rely on seeing every event.
func (c *Client) SubscribeCommandEvents(ctx context.Context) (*Subscription[*Command], error) {
	return subscribe[Command](ctx, c.rdb, CommandEventsChannel(c.instanceName), "command")
}

// SubscribeStatusEvents subscribes to status append events for this instance.
func (c *Client) SubscribeStatusEvents(ctx context.Context) (*Subscription[*StatusEvent], error) {
	return subscribe[StatusEvent](ctx, c.rdb, StatusEventsChannel(c.instanceName), "status")
}

func subscribe[T any](ctx context.Context, rdb *redis.Client, channel, kind string) (*Subscription[*T], error) {
	pubsub := rdb.Subscribe(ctx, channel)

	// Wait for the subscription to be confirmed so no event published after
	// this call returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	eventsChan := make(chan *T, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				event := new(T)
				if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal %s event: %w", kind, err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription[*T]{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound returns true if the error is a Redis "key not found" error (redis.Nil).
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
