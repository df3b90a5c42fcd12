package vault

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Index is the SQLite-backed note graph. All methods are safe to call with
// ids that no longer exist; lookups return zero values and deletes are
// no-ops, matching the rest of the system's tolerance for races.
type Index struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	uuid       TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	node_type  TEXT NOT NULL DEFAULT 'note',
	hash       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_nodes_path ON nodes(path);

CREATE TABLE IF NOT EXISTS edges (
	src_uuid TEXT NOT NULL,
	dst_uuid TEXT NOT NULL,
	relation TEXT NOT NULL,
	weight   REAL NOT NULL DEFAULT 1.0,
	source   TEXT NOT NULL DEFAULT 'content',
	PRIMARY KEY (src_uuid, dst_uuid, relation)
);

CREATE TABLE IF NOT EXISTS tags (
	object_id TEXT NOT NULL,
	tag       TEXT NOT NULL,
	PRIMARY KEY (object_id, tag)
);

CREATE TABLE IF NOT EXISTS aliases (
	object_id TEXT NOT NULL,
	alias     TEXT NOT NULL,
	PRIMARY KEY (object_id, alias)
);
`

// OpenIndex opens (or creates) the index database at path. ":memory:" gives
// an ephemeral index for tests.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// UpsertNode inserts or replaces a node, keyed by uuid. CreatedAt is
// preserved across updates of an existing node.
func (ix *Index) UpsertNode(n Node) error {
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}
	if n.NodeType == "" {
		n.NodeType = "note"
	}
	_, err := ix.db.Exec(`
		INSERT INTO nodes (uuid, path, title, content, node_type, hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			content = excluded.content,
			node_type = excluded.node_type,
			hash = excluded.hash,
			updated_at = excluded.updated_at`,
		n.UUID, n.Path, n.Title, n.Content, n.NodeType, n.Hash,
		n.CreatedAt.Unix(), n.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert node %s: %w", n.UUID, err)
	}
	return nil
}

// UpsertEdge inserts or replaces a directed edge.
func (ix *Index) UpsertEdge(e Edge) error {
	if e.Weight == 0 {
		e.Weight = 1.0
	}
	if e.Source == "" {
		e.Source = "content"
	}
	_, err := ix.db.Exec(`
		INSERT INTO edges (src_uuid, dst_uuid, relation, weight, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(src_uuid, dst_uuid, relation) DO UPDATE SET
			weight = excluded.weight,
			source = excluded.source`,
		e.SrcUUID, e.DstUUID, e.Relation, e.Weight, e.Source)
	if err != nil {
		return fmt.Errorf("upsert edge %s->%s: %w", e.SrcUUID, e.DstUUID, err)
	}
	return nil
}

// NodeByPath returns the node for a vault-relative path, or nil.
func (ix *Index) NodeByPath(path string) (*Node, error) {
	row := ix.db.QueryRow(`
		SELECT uuid, path, title, content, node_type, hash, created_at, updated_at
		FROM nodes WHERE path = ?`, path)
	return scanNode(row)
}

// NodeByUUID returns the node with the given id, or nil.
func (ix *Index) NodeByUUID(id string) (*Node, error) {
	row := ix.db.QueryRow(`
		SELECT uuid, path, title, content, node_type, hash, created_at, updated_at
		FROM nodes WHERE uuid = ?`, id)
	return scanNode(row)
}

// AllNodes returns every node ordered by path.
func (ix *Index) AllNodes() ([]Node, error) {
	rows, err := ix.db.Query(`
		SELECT uuid, path, title, content, node_type, hash, created_at, updated_at
		FROM nodes ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()
	return collectNodes(rows)
}

// SearchNodes returns nodes whose title or content contains the query,
// ordered by title. Ranking beyond containment is the caller's concern.
func (ix *Index) SearchNodes(query string) ([]Node, error) {
	like := "%" + query + "%"
	rows, err := ix.db.Query(`
		SELECT uuid, path, title, content, node_type, hash, created_at, updated_at
		FROM nodes
		WHERE title LIKE ? OR content LIKE ?
		ORDER BY title`, like, like)
	if err != nil {
		return nil, fmt.Errorf("search nodes: %w", err)
	}
	defer rows.Close()
	return collectNodes(rows)
}

// GraphData returns the full node/edge snapshot.
func (ix *Index) GraphData() (GraphData, error) {
	nodes, err := ix.AllNodes()
	if err != nil {
		return GraphData{}, err
	}
	rows, err := ix.db.Query(`SELECT src_uuid, dst_uuid, relation, weight, source FROM edges`)
	if err != nil {
		return GraphData{}, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()
	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.SrcUUID, &e.DstUUID, &e.Relation, &e.Weight, &e.Source); err != nil {
			return GraphData{}, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return GraphData{Nodes: nodes, Edges: edges}, rows.Err()
}

// DeleteNode removes a node, its outgoing and incoming edges, and its tags
// and aliases. Unknown ids are a no-op.
func (ix *Index) DeleteNode(id string) error {
	if _, err := ix.db.Exec(`DELETE FROM nodes WHERE uuid = ?`, id); err != nil {
		return fmt.Errorf("delete node %s: %w", id, err)
	}
	if _, err := ix.db.Exec(`DELETE FROM edges WHERE src_uuid = ? OR dst_uuid = ?`, id, id); err != nil {
		return fmt.Errorf("delete edges for %s: %w", id, err)
	}
	if _, err := ix.db.Exec(`DELETE FROM tags WHERE object_id = ?`, id); err != nil {
		return fmt.Errorf("delete tags for %s: %w", id, err)
	}
	if _, err := ix.db.Exec(`DELETE FROM aliases WHERE object_id = ?`, id); err != nil {
		return fmt.Errorf("delete aliases for %s: %w", id, err)
	}
	return nil
}

// DeleteEdgesFrom removes a node's outgoing edges, used before re-syncing
// its links.
func (ix *Index) DeleteEdgesFrom(id string) error {
	if _, err := ix.db.Exec(`DELETE FROM edges WHERE src_uuid = ?`, id); err != nil {
		return fmt.Errorf("delete edges from %s: %w", id, err)
	}
	return nil
}

// SaveTags replaces the tag set for an object.
func (ix *Index) SaveTags(objectID string, tags []string) error {
	if _, err := ix.db.Exec(`DELETE FROM tags WHERE object_id = ?`, objectID); err != nil {
		return fmt.Errorf("clear tags for %s: %w", objectID, err)
	}
	for _, tag := range tags {
		if _, err := ix.db.Exec(`INSERT OR IGNORE INTO tags (object_id, tag) VALUES (?, ?)`, objectID, tag); err != nil {
			return fmt.Errorf("save tag %s: %w", tag, err)
		}
	}
	return nil
}

// TagsFor returns an object's tags in sorted order.
func (ix *Index) TagsFor(objectID string) ([]string, error) {
	rows, err := ix.db.Query(`SELECT tag FROM tags WHERE object_id = ? ORDER BY tag`, objectID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

// SaveAliases replaces the alias set for an object.
func (ix *Index) SaveAliases(objectID string, aliases []string) error {
	if _, err := ix.db.Exec(`DELETE FROM aliases WHERE object_id = ?`, objectID); err != nil {
		return fmt.Errorf("clear aliases for %s: %w", objectID, err)
	}
	for _, alias := range aliases {
		if _, err := ix.db.Exec(`INSERT OR IGNORE INTO aliases (object_id, alias) VALUES (?, ?)`, objectID, alias); err != nil {
			return fmt.Errorf("save alias %s: %w", alias, err)
		}
	}
	return nil
}

// AliasesFor returns an object's aliases in sorted order.
func (ix *Index) AliasesFor(objectID string) ([]string, error) {
	rows, err := ix.db.Query(`SELECT alias FROM aliases WHERE object_id = ? ORDER BY alias`, objectID)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

// Stats summarizes the index.
func (ix *Index) Stats() (Statistics, error) {
	var s Statistics
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&s.NoteCount); err != nil {
		return s, fmt.Errorf("count nodes: %w", err)
	}
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&s.EdgeCount); err != nil {
		return s, fmt.Errorf("count edges: %w", err)
	}
	if err := ix.db.QueryRow(`SELECT COUNT(DISTINCT tag) FROM tags`).Scan(&s.TagCount); err != nil {
		return s, fmt.Errorf("count tags: %w", err)
	}
	return s, nil
}

// ClearAll wipes every table, used before a full re-sync.
func (ix *Index) ClearAll() error {
	for _, table := range []string{"nodes", "edges", "tags", "aliases"} {
		if _, err := ix.db.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func scanNode(row *sql.Row) (*Node, error) {
	var n Node
	var created, updated int64
	err := row.Scan(&n.UUID, &n.Path, &n.Title, &n.Content, &n.NodeType, &n.Hash, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan node: %w", err)
	}
	n.CreatedAt = time.Unix(created, 0)
	n.UpdatedAt = time.Unix(updated, 0)
	return &n, nil
}

func collectNodes(rows *sql.Rows) ([]Node, error) {
	var out []Node
	for rows.Next() {
		var n Node
		var created, updated int64
		if err := rows.Scan(&n.UUID, &n.Path, &n.Title, &n.Content, &n.NodeType, &n.Hash, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.CreatedAt = time.Unix(created, 0)
		n.UpdatedAt = time.Unix(updated, 0)
		out = append(out, n)
	}
	return out, rows.Err()
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan string: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
