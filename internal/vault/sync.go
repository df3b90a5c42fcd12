package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SyncResult reports what a sync pass touched.
type SyncResult struct {
	Scanned int
	Updated int
	Skipped int
	Removed int
}

// Syncer walks markdown files into the index. Unchanged files (same content
// hash) are skipped; deleted files are pruned on full syncs.
type Syncer struct {
	index  *Index
	logger *slog.Logger
}

// NewSyncer creates a syncer over the given index.
func NewSyncer(index *Index, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{index: index, logger: logger}
}

// SyncFull walks every .md file under vaultPath into the index and removes
// nodes whose files are gone.
func (s *Syncer) SyncFull(vaultPath string) (SyncResult, error) {
	var result SyncResult
	seen := make(map[string]bool)

	err := filepath.WalkDir(vaultPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories (e.g. .obsidian, .git) are not notes.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(vaultPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = true
		result.Scanned++
		updated, err := s.syncOne(vaultPath, rel)
		if err != nil {
			// One unreadable file must not fail the whole pass.
			s.logger.Warn("skipping unreadable note", "path", rel, "error", err)
			result.Skipped++
			return nil
		}
		if updated {
			result.Updated++
		} else {
			result.Skipped++
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walk vault: %w", err)
	}

	// Prune nodes whose files vanished.
	nodes, err := s.index.AllNodes()
	if err != nil {
		return result, err
	}
	for _, n := range nodes {
		if !seen[n.Path] {
			if err := s.index.DeleteNode(n.UUID); err != nil {
				return result, err
			}
			result.Removed++
		}
	}

	s.logger.Info("vault sync complete",
		"scanned", result.Scanned, "updated", result.Updated,
		"skipped", result.Skipped, "removed", result.Removed)
	return result, nil
}

// SyncFile syncs a single vault-relative path, typically in response to a
// watcher event. A missing file removes the node.
func (s *Syncer) SyncFile(vaultPath, rel string) error {
	rel = filepath.ToSlash(rel)
	if _, err := os.Stat(filepath.Join(vaultPath, rel)); os.IsNotExist(err) {
		node, lookErr := s.index.NodeByPath(rel)
		if lookErr != nil || node == nil {
			return lookErr
		}
		return s.index.DeleteNode(node.UUID)
	}
	_, err := s.syncOne(vaultPath, rel)
	return err
}

// syncOne parses and indexes one file. Returns whether the index changed.
func (s *Syncer) syncOne(vaultPath, rel string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(vaultPath, rel))
	if err != nil {
		return false, fmt.Errorf("read note: %w", err)
	}
	content := string(data)
	hash := ContentHash(content)
	id := PathID(rel)

	if existing, err := s.index.NodeByUUID(id); err == nil && existing != nil && existing.Hash == hash {
		return false, nil
	}

	parsed := Parse(content)
	node := Node{
		UUID:    id,
		Path:    rel,
		Title:   parsed.Title,
		Content: parsed.Content,
		Hash:    hash,
	}
	if err := s.index.UpsertNode(node); err != nil {
		return false, err
	}
	if err := s.index.SaveTags(id, parsed.Tags); err != nil {
		return false, err
	}
	if err := s.index.SaveAliases(id, parsed.Aliases); err != nil {
		return false, err
	}

	// Re-derive outgoing edges from scratch; link targets resolve to the
	// node at "<target>.md", whether or not it exists yet.
	if err := s.index.DeleteEdgesFrom(id); err != nil {
		return false, err
	}
	for _, target := range parsed.Wikilinks {
		dst := PathID(target + ".md")
		edge := Edge{SrcUUID: id, DstUUID: dst, Relation: "wikilink"}
		if err := s.index.UpsertEdge(edge); err != nil {
			return false, err
		}
	}
	return true, nil
}
