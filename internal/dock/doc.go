// Package dock implements the dockable-panel layout engine.
//
// Core abstractions:
//   - Panel: A unit of dockable content with a unique id, content-type key, and display chrome
//   - Surface: A container managing one screen region's ordered set of panels
//   - LayoutHost: Explicit registry of live surfaces and last-known panel params
//   - DragCoordinator: Mediates drag gestures that may cross surface boundaries
//   - Renderer/FactorySet: The content-provider contract (init/update/layout/dispose)
//   - Descriptor: Derived serialization snapshot of all surfaces
//
// All mutation is synchronous and single-gesture: structural operations apply in
// call order within a surface, and the drag-session slot is the only coordination
// point between surfaces. A missing panel or surface is a normal condition, never
// an error; nothing in this package is fatal to the host application.
package dock
