package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"media-indexer/internal/logging"
)

// BuildTree builds the directory hierarchy for root. It returns nil if root
// does not exist at build time; the scanner's existence check already gates
// the overall cycle, so a vanished root is "no tree", not an error.
//
// Hidden directories (name starting with ".") are pruned entirely: no node,
// no descent. A listing error at any directory yields that node with
// whatever children were discoverable, and traversal continues.
func BuildTree(root string) *DirectoryNode {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	return buildNode(root, "")
}

func buildNode(absPath, relPath string) *DirectoryNode {
	node := &DirectoryNode{Path: relPath}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		// Partial node: keep whatever ReadDir managed to return
		logging.Warn("Listing %s: %v", absPath, err)
	}

	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		childRel := e.Name()
		if relPath != "" {
			childRel = relPath + "/" + e.Name()
		}
		node.Children = append(node.Children, buildNode(filepath.Join(absPath, e.Name()), childRel))
	}

	sort.Slice(node.Children, func(i, j int) bool {
		return strings.ToLower(node.Children[i].Path) < strings.ToLower(node.Children[j].Path)
	})

	return node
}
