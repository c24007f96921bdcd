package tree

// insertOrdered places child into parent's child list preserving the display
// order: directories before files, case-insensitive lexical order within each
// group. Label ties resolve first-found-wins. Returns the insertion position.
//
// Placement is also where the tree-wide pending-select signal is consumed: if
// the new node's backing path matches, it becomes the selection.
func (t *Tree) insertOrdered(parent, child *Node) int {
	pos := len(parent.children)
	for i, existing := range parent.children {
		if existing.IsDir() && !child.IsDir() {
			continue
		}
		if (child.IsDir() && !existing.IsDir()) || t.collator.CompareString(existing.label, child.label) > 0 {
			pos = i
			break
		}
	}
	parent.insertChildAt(pos, child)

	if t.pendingSelect != "" && t.pendingSelect == child.path {
		t.selected = child
		t.pendingSelect = ""
		t.log.Debug().Str("path", child.path).Msg("pending selection placed")
	}
	return pos
}

// attach links a new node under parent at its ordered position and indexes it
// in the same step
func (t *Tree) attach(parent, child *Node) {
	t.insertOrdered(parent, child)
	if child.indexable() {
		t.index.store(child)
	}
}

// reattach moves an existing node under a new parent, keeping its index entry
func (t *Tree) reattach(parent, child *Node) {
	child.detach()
	t.insertOrdered(parent, child)
}
