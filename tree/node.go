// Package tree implements the in-memory mirror of a filesystem subtree that
// backs a UI tree widget. The Tree owns the node structure and the path index;
// the reconciler in this package keeps both in sync with disk incrementally,
// populating directory levels lazily as they become visible.
//
// All mutation runs on the single goroutine that owns the Tree. The path
// index may be read concurrently by external collaborators.
package tree

import (
	"os"
	"path/filepath"
	"time"
)

// Kind discriminates the node variants of the tree
type Kind uint8

const (
	// KindDir is a node backed by a directory entity
	KindDir Kind = iota
	// KindFile is a node backed by a file entity
	KindFile
	// KindPlaceholder is the sentinel child of a non-empty, not-yet-populated
	// directory node; it carries no entity and is never indexed
	KindPlaceholder
	// KindOutput is the project output directory, kept and refreshed in place
	// across populates unless its path becomes hidden
	KindOutput
	// KindReferences is the virtual classpath group under the project root;
	// always kept, its children mirror the configured classpaths
	KindReferences
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	case KindPlaceholder:
		return "placeholder"
	case KindOutput:
		return "output"
	case KindReferences:
		return "references"
	}
	return "unknown"
}

// placeholderLabel is what the sentinel child displays while a directory's
// real children are deferred
const placeholderLabel = "..."

// Node is the in-memory representation of one filesystem entity. The backing
// path is the node's identity for the lifetime of the tree; children are
// exclusively owned and kept in display order (directories before files,
// case-insensitive lexical within each group). Parent is a back-reference,
// not ownership.
type Node struct {
	kind     Kind
	path     string // absolute backing path; synthetic for references nodes
	label    string
	parent   *Node
	children []*Node
	cpRoot   *Node // nearest ancestor classpath node, or itself; nil outside any classpath
	size     int64
	modTime  time.Time
	dirty    bool // dir kinds only: children stale, materialize on expand
	expanded bool
	released bool
}

func newDirNode(path string) *Node {
	return &Node{kind: KindDir, path: path, label: filepath.Base(path)}
}

func newFileNode(path string) *Node {
	return &Node{kind: KindFile, path: path, label: filepath.Base(path)}
}

func newPlaceholderNode() *Node {
	return &Node{kind: KindPlaceholder, label: placeholderLabel}
}

// Label returns the node's display label
func (n *Node) Label() string { return n.label }

// Path returns the node's absolute backing path
func (n *Node) Path() string { return n.path }

// Kind returns the node's variant
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the owning parent node; nil for the root and for detached
// nodes
func (n *Node) Parent() *Node { return n.parent }

// IsDir reports whether the node is directory-like. The output and
// references kinds sort with directories and accept children.
func (n *Node) IsDir() bool {
	return n.kind == KindDir || n.kind == KindOutput || n.kind == KindReferences
}

// Dirty reports whether a directory node's children are stale and deferred
func (n *Node) Dirty() bool { return n.dirty }

// Expanded reports whether the UI currently shows this node open
func (n *Node) Expanded() bool { return n.expanded }

// Size returns the entity size recorded at the last refresh (files only)
func (n *Node) Size() int64 { return n.size }

// ModTime returns the entity modification time recorded at the last refresh
func (n *Node) ModTime() time.Time { return n.modTime }

// ClasspathRoot returns the nearest ancestor node designated as a source
// root, the node itself if it is one, or nil
func (n *Node) ClasspathRoot() *Node { return n.cpRoot }

// Children returns a copy of the node's children in display order
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children without copying
func (n *Node) ChildCount() int { return len(n.children) }

// hasPlaceholder reports whether the node's sole child is the sentinel
func (n *Node) hasPlaceholder() bool {
	return len(n.children) == 1 && n.children[0].kind == KindPlaceholder
}

// insertChildAt links child into the child list at position i and sets the
// parent back-reference
func (n *Node) insertChildAt(i int, child *Node) {
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
}

// removeChild unlinks child from the child list and clears its parent
// back-reference. Returns false if child is not a child of n.
func (n *Node) removeChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// hasAncestor reports whether a is n itself or appears on n's parent chain
func (n *Node) hasAncestor(a *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}

// detach unlinks the node from its current parent, if any
func (n *Node) detach() {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

// refreshInfo re-reads the entity's metadata from disk. A vanished entity is
// tolerated; stale values simply remain until the parent's next diff removes
// the node.
func (n *Node) refreshInfo() {
	info, err := os.Stat(n.path)
	if err != nil {
		return
	}
	n.size = info.Size()
	n.modTime = info.ModTime()
}

// indexable reports whether the node owns an index entry for its path.
// Placeholders carry no entity; references nodes and their children shadow
// paths owned by real nodes.
func (n *Node) indexable() bool {
	return n.kind == KindDir || n.kind == KindFile || n.kind == KindOutput
}
