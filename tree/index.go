package tree

import "github.com/puzpuzpuz/xsync/v4"

// Index is the path → node lookup table scoped to one tree. The reconciler
// is the only writer; entries are stored when a node is linked into the tree
// and deleted when it is disposed, always in the same step, so readers never
// observe a dangling entry.
//
// The map is safe for concurrent reads so other subsystems (e.g. an IDE-wide
// "find node for this file" lookup) can share it without coordinating with
// the refresh cycle.
type Index struct {
	nodes *xsync.Map[string, *Node]
}

func newIndex() *Index {
	return &Index{nodes: xsync.NewMap[string, *Node]()}
}

// Lookup returns the node representing path, if one is currently linked into
// the tree
func (ix *Index) Lookup(path string) (*Node, bool) {
	return ix.nodes.Load(path)
}

// Size returns the number of indexed entities
func (ix *Index) Size() int {
	return ix.nodes.Size()
}

// Range iterates over all entries. The snapshot semantics are those of the
// underlying concurrent map.
func (ix *Index) Range(fn func(path string, n *Node) bool) {
	ix.nodes.Range(fn)
}

func (ix *Index) store(n *Node) {
	ix.nodes.Store(n.path, n)
}

// remove deletes the entry for n only if n still owns it; a fresh node may
// already have replaced an evicted one at the same path
func (ix *Index) remove(n *Node) {
	if cur, ok := ix.nodes.Load(n.path); ok && cur == n {
		ix.nodes.Delete(n.path)
	}
}
