package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileNode is one entry in the vault's file tree. Directories sort before
// files; hidden entries are excluded.
type FileNode struct {
	Name     string
	Path     string // vault-relative, forward slashes
	IsDir    bool
	Children []FileNode
}

// BuildTree reads the vault's directory structure. Only markdown files and
// the directories containing them are included.
func BuildTree(vaultPath string) (FileNode, error) {
	root, err := buildNode(vaultPath, vaultPath)
	if err != nil {
		return FileNode{}, fmt.Errorf("build file tree: %w", err)
	}
	root.Name = filepath.Base(vaultPath)
	return root, nil
}

func buildNode(path, base string) (FileNode, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return FileNode{}, err
	}
	node := FileNode{
		Name:  filepath.Base(path),
		Path:  filepath.ToSlash(rel),
		IsDir: true,
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return FileNode{}, err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		child := filepath.Join(path, e.Name())
		if e.IsDir() {
			sub, err := buildNode(child, base)
			if err != nil {
				return FileNode{}, err
			}
			// Skip directories with no markdown beneath them.
			if len(sub.Children) > 0 {
				node.Children = append(node.Children, sub)
			}
			continue
		}
		if !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		relFile, err := filepath.Rel(base, child)
		if err != nil {
			return FileNode{}, err
		}
		node.Children = append(node.Children, FileNode{
			Name: e.Name(),
			Path: filepath.ToSlash(relFile),
		})
	}
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	return node, nil
}

// Walk visits every node depth-first, reporting nesting depth.
func (n FileNode) Walk(fn func(node FileNode, depth int)) {
	n.walk(fn, 0)
}

func (n FileNode) walk(fn func(FileNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
