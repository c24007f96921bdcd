package tree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/projtree/projtree"
)

// Refresh brings a directory node back in sync with disk. It is the entry
// point of the reconciler, called when the node is created and whenever a
// disk change is detected.
//
// Population is lazy: a collapsed node only marks itself dirty (with a
// placeholder standing in so the UI shows an expandable affordance) and
// materializes its children on the next expansion. An expanded node, or one
// containing the pending-select path, populates immediately. With recursive
// set, already-present child directories are refreshed too.
//
// Ordinary filesystem races (entries vanishing mid-scan) degrade to "entity
// not present"; genuine I/O errors such as permission failures propagate to
// the caller. Observers are notified once per completed call.
func (t *Tree) Refresh(n *Node, recursive bool) error {
	if n == nil || n.released {
		return nil
	}
	switch n.kind {
	case KindFile, KindPlaceholder:
		n.refreshInfo()
		return nil
	case KindReferences:
		t.syncReferences(n)
		t.notifyRefreshed(n)
		return nil
	}

	n.cpRoot = t.resolveClasspathRoot(n)

	dirs, files, exists, err := listDir(n.path)
	if err != nil {
		return err
	}

	empty := !exists || len(dirs)+len(files) == 0
	if !empty {
		if len(n.children) == 0 {
			// First discovery: stand in a placeholder so the UI offers
			// expansion without paying for the listing below this level.
			n.insertChildAt(0, newPlaceholderNode())
		}
		if n.expanded || t.pendingSelectWithin(n) {
			if err := t.populateChildren(n, recursive); err != nil {
				return err
			}
		} else {
			n.dirty = true
		}
	} else if len(n.children) > 0 {
		// Directory emptied out from under us: clear the stale children.
		if err := t.populateChildren(n, recursive); err != nil {
			return err
		}
	}

	t.notifyRefreshed(n)
	return nil
}

// BeforeExpand is the lazy-load trigger, to be called right before the UI
// opens a directory node. Only the immediate level is materialized; newly
// created child directories are free to mark themselves dirty in turn.
func (t *Tree) BeforeExpand(n *Node) error {
	if !n.dirty {
		return nil
	}
	if err := t.populateChildren(n, false); err != nil {
		return err
	}
	n.dirty = false
	return nil
}

// populateChildren diffs the node's children against the current directory
// listing: present entities keep their nodes, new ones are created and
// inserted in order, vanished ones are disposed. Files may be re-parented
// under sibling files afterwards per the mapping protocol.
func (t *Tree) populateChildren(n *Node, recursive bool) error {
	n.dirty = false
	if n.hasPlaceholder() {
		n.removeChild(n.children[0])
	}

	// Every current child is a removal candidate until the diff confirms its
	// entity still exists. The output node is kept and refreshed in place
	// unless its path is now hidden; the references group is always kept.
	// Files carrying mapped children contribute those grandchildren too, so
	// they are re-evaluated independently of their designated parent.
	candidates := make(map[*Node]struct{})
	for _, c := range n.Children() {
		switch c.kind {
		case KindOutput:
			if !t.cfg.ShowHiddenPaths && t.cfg.IsPathHidden(c.path) {
				candidates[c] = struct{}{}
			} else if err := t.Refresh(c, recursive); err != nil {
				return err
			}
		case KindReferences:
			t.syncReferences(c)
		default:
			candidates[c] = struct{}{}
			if c.kind == KindFile {
				for _, gc := range c.children {
					candidates[gc] = struct{}{}
				}
			}
		}
	}

	dirs, files, exists, err := listDir(n.path)
	if err != nil {
		return err
	}
	if exists {
		if err := t.diffDirs(n, dirs, candidates, recursive); err != nil {
			return err
		}
		if err := t.diffFiles(n, files, candidates); err != nil {
			return err
		}
	}

	for c := range candidates {
		t.dispose(c)
	}
	return nil
}

// diffDirs reconciles the subdirectory entities of n. An indexed entry of an
// incompatible kind (a foreign node occupying the path) is evicted and
// replaced by a fresh directory node.
func (t *Tree) diffDirs(n *Node, dirs []string, candidates map[*Node]struct{}, recursive bool) error {
	for _, path := range dirs {
		if isDirExcluded(path, t.cfg) {
			continue
		}
		if existing, ok := t.index.Lookup(path); ok {
			if existing.kind == KindDir || existing.kind == KindOutput {
				delete(candidates, existing)
				// A collapsed, dirty child is not forced on a non-recursive
				// refresh; that is the lazy contract.
				if recursive {
					if err := t.Refresh(existing, true); err != nil {
						return err
					}
				}
				continue
			}
			t.log.Debug().Str("path", path).Str("kind", existing.kind.String()).
				Msg("evicting foreign node")
			delete(candidates, existing)
			t.dispose(existing)
		}
		child := newDirNode(path)
		t.attach(n, child)
		if err := t.Refresh(child, recursive); err != nil {
			return err
		}
	}
	return nil
}

// diffFiles reconciles the file entities of n in two passes. The first pass
// creates or refreshes a node for every listed file; the second computes the
// mapping result for the listing and re-parents files whose designated parent
// differs from their current one. Re-parenting must wait for the first pass
// since a mapping may reference a sibling whose node was only just created.
func (t *Tree) diffFiles(n *Node, files []string, candidates map[*Node]struct{}) error {
	listed := make(map[string]struct{}, len(files))
	for _, path := range files {
		if isFileExcluded(path, t.root.path, t.cfg) {
			continue
		}
		listed[path] = struct{}{}
		if existing, ok := t.index.Lookup(path); ok {
			if existing.kind == KindFile {
				existing.refreshInfo()
				delete(candidates, existing)
				continue
			}
			t.log.Debug().Str("path", path).Str("kind", existing.kind.String()).
				Msg("evicting foreign node")
			delete(candidates, existing)
			t.dispose(existing)
		}
		child := newFileNode(path)
		t.attach(n, child)
		child.refreshInfo()
	}

	mapping := t.resolveMappings(files)
	for _, path := range files {
		if isFileExcluded(path, t.root.path, t.cfg) {
			continue
		}
		node, ok := t.index.Lookup(path)
		if !ok {
			continue
		}
		desired := n
		if target, mapped := mapping.Resolve(path); mapped {
			// A missing mapping target is not an error; the file simply
			// parents under the directory itself. The target must be part of
			// the current listing so the diff cannot dispose it afterwards,
			// and must not sit below the node being moved: mutually mapped
			// files would otherwise detach a parent cycle from the tree.
			if _, present := listed[target]; present {
				if p, indexed := t.index.Lookup(target); indexed && !p.hasAncestor(node) {
					desired = p
				}
			}
		}
		if node.parent != desired {
			t.reattach(desired, node)
		}
	}
	return nil
}

// resolveMappings runs every registered mapping handler over the directory's
// file listing and merges their entries first-write-wins. If no handler adds
// anything, the built-in companion rule applies for projects of the matching
// language variant with grouping enabled.
func (t *Tree) resolveMappings(files []string) *projtree.MappingRequest {
	req := projtree.NewMappingRequest(files)
	for _, h := range t.handlers {
		h.MapFiles(req)
	}
	if req.Len() == 0 && t.cfg.Language == "as3" && t.cfg.GroupCompanions {
		projtree.PairCompanions(req, t.cfg.Companions)
	}
	return req
}

// dispose detaches a node and releases its subtree: every released node drops
// its index entry in the same step, so a partially applied diff can never
// leave a dangling entry.
func (t *Tree) dispose(n *Node) {
	if n.released {
		return
	}
	n.detach()
	t.release(n)
}

func (t *Tree) release(n *Node) {
	n.released = true
	if n.indexable() {
		t.index.remove(n)
	}
	if t.selected == n {
		t.selected = nil
	}
	for _, c := range n.children {
		c.parent = nil
		t.release(c)
	}
	n.children = nil
	t.log.Trace().Str("path", n.path).Msg("node disposed")
}

// resolveClasspathRoot recomputes the classpath-ancestor reference from the
// parent chain
func (t *Tree) resolveClasspathRoot(n *Node) *Node {
	if t.cfg.IsClasspath(n.path) {
		return n
	}
	if n.parent != nil {
		return n.parent.cpRoot
	}
	return nil
}

// pendingSelectWithin reports whether the pending-select path sits directly
// inside this directory, which forces immediate population even while
// collapsed
func (t *Tree) pendingSelectWithin(n *Node) bool {
	return t.pendingSelect != "" && filepath.Dir(t.pendingSelect) == n.path
}

// listDir lists a directory's entries split into subdirectory and file paths.
// A missing directory is reported via exists rather than an error; anything
// else (permission, device failure) propagates.
func listDir(path string) (dirs, files []string, exists bool, err error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	for _, e := range entries {
		full := filepath.Join(path, e.Name())
		if e.IsDir() {
			dirs = append(dirs, full)
		} else {
			files = append(files, full)
		}
	}
	return dirs, files, true, nil
}
