// Package providers holds the content factories the workbench registers with
// the docking layer: vault explorer, search, outline, graph stats, markdown
// preview and an embedded console. Each is an ordinary Renderer; the docking
// core knows them only through their factory registrations.
package providers
