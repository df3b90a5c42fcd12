// Package ui composes the workbench screen with Bubble Tea.
//
// Core pieces:
//   - Workbench: the root model; owns the layout host, the three docking
//     surfaces and the drag coordinator, and routes input by AppMode
//   - SurfaceView: renders one docking surface as a stacked or tabbed column
//   - FocusManager: rotates focus across the panels of every surface
//   - KeybindRegistry / KeyHandler: SPC-leader key sequences
//   - Regions: splits the terminal into chrome and surface rectangles
package ui
