package dock

import (
	"log/slog"
	"sync"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// DragState tracks the coordinator's gesture state machine:
// Idle → Dragging → {Migrating | Reordering | Cancelled} → Idle.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragMigrating
	DragReordering
	DragCancelled
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "Idle"
	case DragDragging:
		return "Dragging"
	case DragMigrating:
		return "Migrating"
	case DragReordering:
		return "Reordering"
	case DragCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// DragSession is the ephemeral shared state of an in-flight gesture. At most
// one exists system-wide; it is populated only while the coordinator is in
// the Dragging state and is never persisted.
type DragSession struct {
	CardID          string
	SourceSurfaceID string
	StartedAt       time.Time
}

// DefaultClearGrace is how long the session slot outlives dragend. In some
// event orderings drop on the receiving surface is still pending when dragend
// fires on the source; clearing immediately would make a legitimate drop look
// stale.
const DefaultClearGrace = 150 * time.Millisecond

// DragCoordinator mediates drag gestures that may cross surface boundaries.
// It is the only component aware of more than one surface at a time: each
// surface reads the shared session slot to decide between local-reorder and
// migration handling. Slot semantics are last-writer-wins with a single
// outstanding gesture, which the UI event model guarantees.
type DragCoordinator struct {
	host   *LayoutHost
	logger *slog.Logger
	tracer oteltrace.Tracer

	// mu guards session and gen: the grace clear runs on a timer goroutine
	// while every other access stays on the UI loop.
	mu      sync.Mutex
	session *DragSession
	gen     int

	state DragState

	grace    time.Duration
	schedule func(time.Duration, func())
	now      func() time.Time
}

// NewDragCoordinator creates a coordinator over the given host.
func NewDragCoordinator(host *LayoutHost, logger *slog.Logger) *DragCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DragCoordinator{
		host:     host,
		logger:   logger,
		state:    DragIdle,
		grace:    DefaultClearGrace,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		now:      time.Now,
	}
}

// State returns the current gesture state.
func (c *DragCoordinator) State() DragState { return c.state }

// Session returns a copy of the shared session slot. ok is false when the
// slot is empty; surfaces must treat that as a normal condition.
func (c *DragCoordinator) Session() (DragSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return DragSession{}, false
	}
	return *c.session, true
}

// BeginDrag populates the session slot for a gesture starting on a panel's
// header chrome. A new gesture overwrites any stale slot (last writer wins).
func (c *DragCoordinator) BeginDrag(cardID, sourceSurfaceID string) {
	c.mu.Lock()
	c.gen++
	c.session = &DragSession{
		CardID:          cardID,
		SourceSurfaceID: sourceSurfaceID,
		StartedAt:       c.now(),
	}
	c.mu.Unlock()
	c.state = DragDragging
	c.logger.Debug("drag started", "panel", cardID, "source", sourceSurfaceID)
}

// IsForeign reports whether the slot holds a gesture that originated on a
// different surface, i.e. whether surfaceID should mark itself an accepting
// drop target. Empty or same-surface slots fall back to local handling.
func (c *DragCoordinator) IsForeign(surfaceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.SourceSurfaceID != surfaceID
}

// HandleDrop resolves a drop event on targetSurfaceID. If the slot indicates
// a foreign source the panel migrates; the return value reports whether
// migration handled the drop. A false return means the slot was empty or
// same-surface and the receiving surface should perform its ordinary local
// reorder instead.
func (c *DragCoordinator) HandleDrop(targetSurfaceID string, index int) bool {
	c.mu.Lock()
	if c.session == nil || c.session.SourceSurfaceID == targetSurfaceID {
		local := c.session != nil
		c.mu.Unlock()
		if local {
			// The receiving surface performs the reorder synchronously;
			// dragend settles the machine back to Idle.
			c.state = DragReordering
		}
		return false
	}
	sess := *c.session
	c.mu.Unlock()
	c.state = DragMigrating
	c.Migrate(sess.CardID, sess.SourceSurfaceID, targetSurfaceID, index)
	c.state = DragIdle
	return true
}

// EndDrag corresponds to dragend, which fires whether or not a drop
// succeeded. The slot is cleared after a short grace delay rather than
// immediately: a pending drop on the receiving surface may still need it.
// A gesture that ends without resolving passes through Cancelled.
func (c *DragCoordinator) EndDrag() {
	if c.state == DragDragging {
		c.state = DragCancelled
		c.logger.Debug("drag cancelled without drop")
	}
	c.state = DragIdle
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	c.schedule(c.grace, func() { c.clearSession(gen) })
}

// clearSession drops the slot unless a newer gesture has taken it.
func (c *DragCoordinator) clearSession(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.session = nil
}
