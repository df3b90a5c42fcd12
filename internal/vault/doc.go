// Package vault indexes a directory of markdown notes: parsing frontmatter,
// wikilinks and headings, maintaining a SQLite-backed graph of notes and the
// links between them, and watching the directory for changes. It is one of
// the layout engine's external collaborators; the docking core only ever
// sees it through content factories.
package vault
