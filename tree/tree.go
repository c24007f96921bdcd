package tree

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/projtree/projtree"
	"github.com/projtree/projtree/config"
	"github.com/projtree/projtree/internal/util"
)

// Tree mirrors one project directory into a node structure for a UI tree
// widget. It owns the root node, the path index and the cross-cutting UI
// signals (pending selection, refresh notifications).
//
// All methods that mutate the tree must run on a single goroutine; observers
// and mapping handlers are invoked synchronously on that goroutine and must
// not trigger a nested refresh of the node being refreshed.
type Tree struct {
	id            uuid.UUID
	root          *Node
	index         *Index
	cfg           *config.Project
	handlers      []projtree.MappingHandler
	observers     []projtree.RefreshObserver
	pendingSelect string
	selected      *Node
	collator      *collate.Collator // mutated by CompareString; owned by the tree's writer goroutine
	log           zerolog.Logger
}

// Option configures a Tree at construction time
type Option func(*Tree)

// WithObserver registers an observer notified once per completed directory
// refresh
func WithObserver(ob projtree.RefreshObserver) Option {
	return func(t *Tree) { t.observers = append(t.observers, ob) }
}

// WithMappingHandler appends a mapping handler; handlers run in registration
// order on every directory refresh
func WithMappingHandler(h projtree.MappingHandler) Option {
	return func(t *Tree) { t.handlers = append(t.handlers, h) }
}

// New creates a tree rooted at rootPath and performs the root's initial
// refresh. The root starts collapsed, so a non-empty directory defers its
// children behind a placeholder until the first Expand.
func New(rootPath string, cfg *config.Project, opts ...Option) (*Tree, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	t := &Tree{
		id:       uuid.New(),
		cfg:      cfg,
		index:    newIndex(),
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
	t.log = util.GetLogger("tree").With().Str("tree", t.id.String()).Logger()
	for _, opt := range opts {
		opt(t)
	}

	root := newDirNode(abs)
	t.root = root
	t.index.store(root)

	if err := t.Refresh(root, false); err != nil {
		return nil, err
	}
	t.log.Info().Str("root", abs).Msg("tree created")
	return t, nil
}

// ID returns the tree's session identifier, stamped on refresh events
func (t *Tree) ID() uuid.UUID { return t.id }

// Root returns the root directory node
func (t *Tree) Root() *Node { return t.root }

// Index exposes the path → node lookup table for external read-only use
func (t *Tree) Index() *Index { return t.index }

// Config returns the project policy the tree consults on refreshes
func (t *Tree) Config() *config.Project { return t.cfg }

// Lookup returns the node currently representing path, if any
func (t *Tree) Lookup(path string) (*Node, bool) {
	return t.index.Lookup(path)
}

// SetPendingSelect arms the one-shot selection signal: the next node placed
// with this backing path becomes the selection. Refreshing the containing
// directory is forced even while collapsed.
func (t *Tree) SetPendingSelect(path string) {
	t.pendingSelect = path
}

// Selected returns the currently selected node, if any
func (t *Tree) Selected() *Node { return t.selected }

// Expand marks a directory node open in the UI and materializes its deferred
// children. Only the immediate level is populated; newly discovered child
// directories defer their own children in turn.
func (t *Tree) Expand(n *Node) error {
	if err := t.BeforeExpand(n); err != nil {
		return err
	}
	n.expanded = true
	return nil
}

// Collapse marks a directory node closed in the UI
func (t *Tree) Collapse(n *Node) {
	n.expanded = false
}

// ExpandAll expands n and every directory node below it. Mostly useful for
// non-interactive consumers that want the whole subtree materialized.
func (t *Tree) ExpandAll(n *Node) error {
	if !n.IsDir() {
		return nil
	}
	if err := t.Expand(n); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := t.ExpandAll(c); err != nil {
			return err
		}
	}
	return nil
}

// AttachReferencesNode adds the virtual classpath group under the project
// root. Its children mirror the configured classpaths and are re-synced in
// place on every populate; the group itself is never removed by the diff.
func (t *Tree) AttachReferencesNode(label string) *Node {
	refs := &Node{
		kind:  KindReferences,
		path:  "refs:" + t.root.path,
		label: label,
	}
	t.insertOrdered(t.root, refs)
	t.syncReferences(refs)
	return refs
}

// AttachOutputNode adds the project output directory node under the root,
// backed by the configured output path. Returns nil if the project has no
// output path.
func (t *Tree) AttachOutputNode() *Node {
	if t.cfg.OutputPath == "" {
		return nil
	}
	out := &Node{
		kind:  KindOutput,
		path:  filepath.Clean(t.cfg.OutputPath),
		label: filepath.Base(t.cfg.OutputPath),
	}
	t.attach(t.root, out)
	return out
}

// syncReferences rebuilds the children of a references node from the current
// classpath configuration. Entries are virtual; the real directory nodes for
// these paths live elsewhere in the tree and keep their index entries.
func (t *Tree) syncReferences(refs *Node) {
	refs.children = refs.children[:0]
	for _, cp := range t.cfg.Classpaths {
		cp = filepath.Clean(cp)
		entry := &Node{
			kind:  KindReferences,
			path:  "refs:" + cp,
			label: filepath.Base(cp),
		}
		t.insertOrdered(refs, entry)
	}
}

func (t *Tree) notifyRefreshed(n *Node) {
	ev := projtree.RefreshEvent{Tree: t.id, Node: n}
	for _, ob := range t.observers {
		ob.NodeRefreshed(ev)
	}
}
