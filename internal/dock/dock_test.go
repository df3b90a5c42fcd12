package dock

import (
	"io"
	"log/slog"
	"time"
)

// stubRenderer records lifecycle calls for assertions.
type stubRenderer struct {
	inits    int
	updates  int
	disposes int
	lastW    int
	lastH    int
}

func (r *stubRenderer) Init(Params)   { r.inits++ }
func (r *stubRenderer) Update(Params) { r.updates++ }
func (r *stubRenderer) Layout(w, h int) {
	r.lastW, r.lastH = w, h
}
func (r *stubRenderer) Dispose() { r.disposes++ }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testFactories registers the sidebar content types used across tests.
func testFactories() *FactorySet {
	set := NewFactorySet(testLogger())
	for _, typ := range []string{"explorer", "search", "outline", "graph"} {
		set.Register(typ, Provider{New: func(Params) Renderer { return &stubRenderer{} }})
	}
	return set
}

// manualScheduler queues deferred funcs so tests control when the
// grace-delay clear actually runs.
type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) schedule(_ time.Duration, fn func()) {
	m.pending = append(m.pending, fn)
}

func (m *manualScheduler) fire() {
	queued := m.pending
	m.pending = nil
	for _, fn := range queued {
		fn()
	}
}

// newTestRig builds a host with left/right sidebar surfaces and a
// coordinator whose grace clear is manually driven.
func newTestRig() (*LayoutHost, *Surface, *Surface, *DragCoordinator, *manualScheduler) {
	host := NewLayoutHost(testLogger())
	left := NewSurface("left", host, testFactories(), testLogger())
	right := NewSurface("right", host, testFactories(), testLogger())
	coord := NewDragCoordinator(host, testLogger())
	sched := &manualScheduler{}
	coord.schedule = sched.schedule
	return host, left, right, coord, sched
}
