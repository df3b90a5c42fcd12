package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Node is one indexed note.
type Node struct {
	UUID      string
	Path      string // vault-relative, forward slashes
	Title     string
	Content   string
	NodeType  string
	Hash      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edge is a directed link between two notes.
type Edge struct {
	SrcUUID  string
	DstUUID  string
	Relation string // "wikilink", "embed", "external"
	Weight   float64
	Source   string // where the relation came from, e.g. "content"
}

// GraphData is the full node/edge snapshot consumed by the graph panel.
type GraphData struct {
	Nodes []Node
	Edges []Edge
}

// Statistics summarizes the vault for the status bar and graph panel.
type Statistics struct {
	NoteCount int
	EdgeCount int
	TagCount  int
}

// pathNamespace keys deterministic note ids off the vault-relative path.
var pathNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("notedeck:vault"))

// PathID derives a stable UUID from a vault-relative path. The same path
// always yields the same id, so re-syncing a file updates its node in place.
func PathID(relativePath string) string {
	return uuid.NewSHA1(pathNamespace, []byte(relativePath)).String()
}

// ContentHash returns a hex digest used for change detection during sync.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
