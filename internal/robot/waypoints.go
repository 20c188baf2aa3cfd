package robot

import (
	"math"
	"sort"
	"sync"

	"github.com/dyluth/spsbridge/pkg/link"
)

// Yaw encodings of a waypoint's relative bearing, as reported back to the agent.
const (
	YawFormatFloat = "float"
	YawFormatInt   = "int"
)

// Waypoint is one entry of the waypoint registry.
type Waypoint struct {
	ID       string
	Pos      []float64
	Enabled  bool
	FloatYaw bool // bearing is reported as a float rather than whole degrees
}

// Registry is the write-capable side of the waypoint subsystem that commands
// request mutations through. Implementations serialize their own mutations.
type Registry interface {
	// AddWaypoint registers an enabled waypoint, replacing any waypoint with the same id.
	AddWaypoint(pos []float64, id string, floatYaw bool)

	// DisableWaypoint returns false if no waypoint has the id.
	DisableWaypoint(id string) bool

	// EnableWaypoint returns false if no waypoint has the id.
	EnableWaypoint(id string) bool

	// RemoveWaypoint returns false if no waypoint has the id.
	RemoveWaypoint(id string) bool

	// ClearWaypoints removes every waypoint.
	ClearWaypoints()

	// Waypoints returns a copy of the registry sorted by id.
	Waypoints() []Waypoint
}

// Waypoints is the in-memory Registry.
type Waypoints struct {
	mu   sync.Mutex
	byID map[string]*Waypoint
}

var _ Registry = (*Waypoints)(nil)

// NewWaypoints returns an empty registry.
func NewWaypoints() *Waypoints {
	return &Waypoints{byID: make(map[string]*Waypoint)}
}

func (w *Waypoints) AddWaypoint(pos []float64, id string, floatYaw bool) {
	stored := make([]float64, len(pos))
	copy(stored, pos)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.byID[id] = &Waypoint{ID: id, Pos: stored, Enabled: true, FloatYaw: floatYaw}
}

func (w *Waypoints) DisableWaypoint(id string) bool {
	return w.setEnabled(id, false)
}

func (w *Waypoints) EnableWaypoint(id string) bool {
	return w.setEnabled(id, true)
}

func (w *Waypoints) setEnabled(id string, enabled bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	wp, ok := w.byID[id]
	if !ok {
		return false
	}
	wp.Enabled = enabled
	return true
}

func (w *Waypoints) RemoveWaypoint(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byID[id]; !ok {
		return false
	}
	delete(w.byID, id)
	return true
}

func (w *Waypoints) ClearWaypoints() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byID = make(map[string]*Waypoint)
}

func (w *Waypoints) Waypoints() []Waypoint {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Waypoint, 0, len(w.byID))
	for _, wp := range w.byID {
		pos := make([]float64, len(wp.Pos))
		copy(pos, wp.Pos)
		out = append(out, Waypoint{ID: wp.ID, Pos: pos, Enabled: wp.Enabled, FloatYaw: wp.FloatYaw})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Observe describes the waypoint relative to pose p the way the agent sees it:
// planar distance and the bearing off the robot heading in degrees, rounded
// to whole degrees unless the waypoint was registered with float yaw.
func (wp Waypoint) Observe(p Pose) link.Waypoint {
	dx := component(wp.Pos, 0) - component(p.Pos, 0)
	dy := component(wp.Pos, 1) - component(p.Pos, 1)

	bearing := normalizeRadians(math.Atan2(dy, dx) - p.Yaw)
	yaw := bearing * 180 / math.Pi

	format := YawFormatFloat
	if !wp.FloatYaw {
		format = YawFormatInt
		yaw = math.Round(yaw)
	}

	return link.Waypoint{
		ID:        wp.ID,
		X:         component(wp.Pos, 0),
		Y:         component(wp.Pos, 1),
		Z:         component(wp.Pos, 2),
		Distance:  math.Hypot(dx, dy),
		Yaw:       yaw,
		YawFormat: format,
		Enabled:   wp.Enabled,
	}
}

func component(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// normalizeRadians maps a into (-pi, pi].
func normalizeRadians(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
