package tree

import (
	"path/filepath"
	"strings"

	"github.com/projtree/projtree/config"
)

// Exclusion policy: pure predicates deciding whether an entity is hidden from
// the tree. Evaluated fresh on every refresh since the project configuration
// may change between refreshes.

// isDirExcluded reports whether a directory entity is hidden from the tree
func isDirExcluded(path string, cfg *config.Project) bool {
	if cfg.IsExcludedDirName(filepath.Base(path)) {
		return true
	}
	return !cfg.ShowHiddenPaths && cfg.IsPathHidden(path)
}

// isFileExcluded reports whether a file entity is hidden from the tree. The
// dotted-segment rule only applies below root: a project living under a
// dotted ancestor (~/.config/proj) must not hide its whole tree.
func isFileExcluded(path, root string, cfg *config.Project) bool {
	if cfg.IsDefinition(path) {
		return true
	}
	if cfg.ShowHiddenPaths {
		return false
	}
	return cfg.IsPathHidden(path) ||
		hasHiddenSegment(relBelow(path, root)) ||
		cfg.IsHiddenExtension(filepath.Ext(path))
}

// relBelow returns the portion of path below root, or path unchanged when it
// is not under root
func relBelow(path, root string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

// hasHiddenSegment reports whether any path segment carries the hidden
// marker (a leading dot)
func hasHiddenSegment(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if len(seg) > 1 && seg[0] == '.' {
			return true
		}
	}
	return false
}
