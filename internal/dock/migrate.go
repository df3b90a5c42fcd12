package dock

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// SetTracer enables span emission around migrations. A nil tracer (the
// default) disables tracing entirely.
func (c *DragCoordinator) SetTracer(t oteltrace.Tracer) {
	c.tracer = t
}

// Migrate transfers ownership of cardID from the source surface to the
// target surface, preserving the panel's type, title, params, expansion and
// size. index < 0 appends at the end.
//
// Every race resolves quietly: a torn-down source or target aborts, a panel
// already moved or removed aborts, and a double-drop that finds the panel
// already at the target is an idempotent success. The remove and add happen
// inside this one synchronous call, so the instant where the panel belongs
// to neither surface is invisible to any UI-triggered mutation; externally
// scheduled observers (autosave) defer their reads to the next scheduler
// turn and only ever see the pre- or post-migration state.
func (c *DragCoordinator) Migrate(cardID, sourceSurfaceID, targetSurfaceID string, index int) bool {
	if c.tracer != nil {
		_, span := c.tracer.Start(context.Background(), "dock.migrate",
			oteltrace.WithAttributes(
				attribute.String("dock.panel", cardID),
				attribute.String("dock.source", sourceSurfaceID),
				attribute.String("dock.target", targetSurfaceID),
			))
		defer span.End()
	}

	source := c.host.Surface(sourceSurfaceID)
	if source == nil {
		c.logger.Debug("migration aborted, source surface gone", "source", sourceSurfaceID, "panel", cardID)
		return false
	}
	target := c.host.Surface(targetSurfaceID)
	if target == nil {
		c.logger.Debug("migration aborted, target surface gone", "target", targetSurfaceID, "panel", cardID)
		return false
	}
	if target.GetPanel(cardID) != nil {
		// Double-drop race: the panel already arrived. Success, no duplicate.
		return true
	}
	p := source.GetPanel(cardID)
	if p == nil {
		c.logger.Debug("migration aborted, panel absent at source", "source", sourceSurfaceID, "panel", cardID)
		return false
	}

	snap := p.snapshot()
	opts := PanelOptions{
		ID:        snap.ID,
		Title:     snap.Title,
		Params:    snap.Params,
		Collapsed: !snap.Expanded,
		Size:      snap.Size,
	}

	// Remove and re-add form one synchronous unit. The target resolves the
	// content type against its own namespace; an unrecognized type falls
	// back to the placeholder renderer like any other add.
	source.RemovePanel(cardID)
	if index >= 0 {
		target.AddPanelAt(snap.Type, opts, index)
	} else {
		target.AddPanel(snap.Type, opts)
	}

	c.logger.Info("panel migrated",
		"panel", cardID,
		"type", snap.Type,
		"source", sourceSurfaceID,
		"target", targetSurfaceID)
	return true
}
