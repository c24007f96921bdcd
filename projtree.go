// Package projtree contains the domain types and extension-point contracts for
// the project tree mirror. The tree itself lives in the tree subpackage; this
// package only defines what external collaborators see: read-only node
// information, refresh notifications, and the file mapping protocol.
package projtree

import "github.com/google/uuid"

// NodeInfo provides read-only access to node information for external consumers
type NodeInfo interface {
	// Label returns the node's display label (last path component)
	Label() string

	// Path returns the absolute backing path of the node
	Path() string

	// IsDir returns true for directory-like nodes (directories, the project
	// output folder and the references group)
	IsDir() bool

	// Dirty reports whether a directory node's children are stale and will be
	// materialized on the next expansion
	Dirty() bool
}

// RefreshEvent is delivered to observers once per completed directory refresh.
// Observers may inspect the node but must not trigger a nested refresh of the
// same node from the handler.
type RefreshEvent struct {
	Tree uuid.UUID // id of the tree the node belongs to
	Node NodeInfo  // the directory node that was refreshed
}

// RefreshObserver receives refresh notifications
type RefreshObserver interface {
	NodeRefreshed(ev RefreshEvent)
}

// RefreshObserverFunc adapts a plain function to a [RefreshObserver]
type RefreshObserverFunc func(ev RefreshEvent)

func (f RefreshObserverFunc) NodeRefreshed(ev RefreshEvent) { f(ev) }
