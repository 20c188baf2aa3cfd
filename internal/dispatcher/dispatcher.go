// Package dispatcher drives command execution: it discovers command records
// on the link, runs each one at most once through the command catalog,
// retires records the agent has had time to observe and mirrors the waypoint
// registry back onto the link.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/spsbridge/internal/commands"
	"github.com/dyluth/spsbridge/internal/robot"
	"github.com/dyluth/spsbridge/pkg/link"
	"github.com/dyluth/spsbridge/pkg/log"
)

const (
	DefaultCycleInterval = 100 * time.Millisecond
	DefaultRetainCycles  = 1
)

// Options tunes a Dispatcher.
type Options struct {
	// CycleInterval is the period of the fallback ticker in Run.
	// Zero means DefaultCycleInterval.
	CycleInterval time.Duration

	// RetainCycles is how many further cycles a terminal record stays on the
	// link before it is retired. Zero retires it in the cycle it finished;
	// negative means DefaultRetainCycles.
	RetainCycles int

	// Metrics receives the dispatcher's measurements. A private set is
	// created when nil.
	Metrics *Metrics
}

// CycleReport summarizes one dispatch cycle.
type CycleReport struct {
	Cycle     int
	Accepted  int // records that completed
	Rejected  int // records that ended in an error status, unknown names included
	Skipped   int // records that already carried statuses when first seen
	Retired   int
	Waypoints int // waypoints mirrored to the link
}

// Executed returns the number of records Execute was called on this cycle.
func (r CycleReport) Executed() int {
	return r.Accepted + r.Rejected
}

// Dispatcher owns the per-process dispatch loop.
// It is not safe for concurrent use; Run and Cycle must not overlap.
type Dispatcher struct {
	client  *link.Client
	catalog *commands.Catalog
	reg     robot.Registry
	poses   robot.PoseProvider
	out     *commands.Output
	metrics *Metrics
	log     log.Logger

	cycleInterval time.Duration
	retainCycles  int

	cycle     int
	completed map[string]int // command id -> cycle it was seen terminal
}

// New creates a dispatcher.
func New(client *link.Client, catalog *commands.Catalog, reg robot.Registry, poses robot.PoseProvider, out *commands.Output, opts Options, logger log.Logger) *Dispatcher {
	if opts.CycleInterval <= 0 {
		opts.CycleInterval = DefaultCycleInterval
	}
	if opts.RetainCycles < 0 {
		opts.RetainCycles = DefaultRetainCycles
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	return &Dispatcher{
		client:        client,
		catalog:       catalog,
		reg:           reg,
		poses:         poses,
		out:           out,
		metrics:       opts.Metrics,
		log:           logger.WithName("dispatcher"),
		cycleInterval: opts.CycleInterval,
		retainCycles:  opts.RetainCycles,
		completed:     make(map[string]int),
	}
}

// Metrics returns the collectors the dispatcher records into.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Run executes a cycle whenever a command event arrives and at least every
// CycleInterval, until ctx is cancelled or a cycle faults.
func (d *Dispatcher) Run(ctx context.Context) error {
	sub, err := d.client.SubscribeCommandEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to command events: %w", err)
	}
	defer sub.Close()

	d.log.Info("Dispatcher started", "instance", d.client.InstanceName(), "cycle_interval", d.cycleInterval.String(), "retain_cycles", d.retainCycles)

	ticker := time.NewTicker(d.cycleInterval)
	defer ticker.Stop()

	// Pick up records posted while the bridge was down.
	if err := d.runCycle(ctx); err != nil {
		return err
	}

	events := sub.Events()
	errs := sub.Errors()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("Dispatcher shutting down")
			return nil

		case cmd, ok := <-events:
			if !ok {
				// Subscription gone; keep going on the ticker alone.
				d.log.Warn("Command event subscription closed")
				events = nil
				continue
			}
			d.log.Debug("Command event received", "command_id", cmd.ID, "name", cmd.Name)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			d.log.Warn("Command event subscription error", "error", err.Error())
			continue

		case <-ticker.C:
		}

		if err := d.runCycle(ctx); err != nil {
			return err
		}
	}
}

func (d *Dispatcher) runCycle(ctx context.Context) error {
	// A started cycle runs to the end even if ctx is cancelled meanwhile.
	report, err := d.Cycle(context.WithoutCancel(ctx))
	if err != nil {
		d.log.Error(err, "Dispatch cycle aborted", "cycle", report.Cycle)
		return fmt.Errorf("dispatch cycle %d: %w", report.Cycle, err)
	}
	if report.Executed() > 0 || report.Retired > 0 {
		d.log.Debug("Dispatch cycle finished",
			"cycle", report.Cycle,
			"accepted", report.Accepted,
			"rejected", report.Rejected,
			"retired", report.Retired)
	}
	return nil
}

// Cycle runs one dispatch pass: every non-terminal record on the link is
// executed once against a single robot snapshot, terminal records past their
// retention are retired, and the waypoint mirror is refreshed.
//
// A returned error is a fault. The cycle stops at the faulting record.
func (d *Dispatcher) Cycle(ctx context.Context) (CycleReport, error) {
	d.cycle++
	report := CycleReport{Cycle: d.cycle}

	records, err := d.client.ListCommands(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list commands: %w", err)
	}

	state, err := d.snapshot(ctx)
	if err != nil {
		return report, err
	}

	for _, cmd := range records {
		if _, done := d.completed[cmd.ID]; done {
			continue
		}

		// A record with statuses was dispatched before, possibly by a
		// process that faulted halfway. It is never executed again.
		if len(cmd.Statuses) > 0 {
			if _, terminal := cmd.Terminal(); !terminal {
				d.log.Warn("Abandoning partially processed command", "command_id", cmd.ID, "name", cmd.Name, "statuses", len(cmd.Statuses))
			}
			d.completed[cmd.ID] = d.cycle
			report.Skipped++
			continue
		}

		ok, err := d.execute(ctx, cmd, state)
		if err != nil {
			return report, err
		}

		d.completed[cmd.ID] = d.cycle
		if ok {
			report.Accepted++
		} else {
			report.Rejected++
		}
	}

	retired, err := d.retire(ctx)
	report.Retired = retired
	if err != nil {
		return report, err
	}

	mirrored, err := d.mirror(ctx, state)
	report.Waypoints = mirrored
	if err != nil {
		return report, err
	}

	d.metrics.CyclesTotal.Inc()
	return report, nil
}

// snapshot takes the robot state for this cycle. No pose yet means nil state.
func (d *Dispatcher) snapshot(ctx context.Context) (*robot.State, error) {
	pose, err := d.poses.CurrentPose(ctx)
	if err != nil {
		if errors.Is(err, robot.ErrNoPose) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read robot pose: %w", err)
	}
	return &robot.State{Pose: pose}, nil
}

func (d *Dispatcher) execute(ctx context.Context, cmd *link.Command, state *robot.State) (bool, error) {
	impl, found := d.catalog.Lookup(cmd.Name)
	if !found {
		d.log.Warn("Unknown command", "command_id", cmd.ID, "name", cmd.Name)
		d.metrics.CommandsTotal.WithLabelValues(cmd.Name, OutcomeUnknown).Inc()
		if err := d.client.AddStatus(ctx, cmd, link.StatusError); err != nil {
			return false, fmt.Errorf("failed to reject unknown command %s: %w", cmd.ID, err)
		}
		return false, nil
	}

	start := time.Now()
	ok, err := impl.Execute(ctx, d.reg, d.client, cmd, state, d.out)
	d.metrics.CommandDuration.WithLabelValues(cmd.Name).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		d.metrics.CommandsTotal.WithLabelValues(cmd.Name, OutcomeFault).Inc()
		return false, fmt.Errorf("command %s (%s): %w", cmd.ID, cmd.Name, err)
	case ok:
		d.metrics.CommandsTotal.WithLabelValues(cmd.Name, OutcomeAccepted).Inc()
	default:
		d.metrics.CommandsTotal.WithLabelValues(cmd.Name, OutcomeRejected).Inc()
	}

	d.log.Info("Command executed", "command_id", cmd.ID, "name", cmd.Name, "accepted", ok)
	return ok, nil
}

// retire removes records that have been terminal for retainCycles cycles.
func (d *Dispatcher) retire(ctx context.Context) (int, error) {
	retired := 0
	for id, seen := range d.completed {
		if d.cycle-seen < d.retainCycles {
			continue
		}
		if err := d.client.RetireCommand(ctx, id); err != nil {
			return retired, fmt.Errorf("failed to retire command %s: %w", id, err)
		}
		delete(d.completed, id)
		retired++
	}
	return retired, nil
}

// mirror publishes the registry as seen from the current pose.
func (d *Dispatcher) mirror(ctx context.Context, state *robot.State) (int, error) {
	var pose robot.Pose
	if state != nil {
		pose = state.Pose
	}

	waypoints := d.reg.Waypoints()
	observed := make([]link.Waypoint, 0, len(waypoints))
	active := 0
	for _, wp := range waypoints {
		observed = append(observed, wp.Observe(pose))
		if wp.Enabled {
			active++
		}
	}

	if err := d.client.PutWaypoints(ctx, observed); err != nil {
		return 0, fmt.Errorf("failed to mirror waypoints: %w", err)
	}

	d.metrics.WaypointsActive.Set(float64(active))
	return len(observed), nil
}
