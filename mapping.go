package projtree

import (
	"path/filepath"
	"strings"
)

// MappingRequest is handed to every registered [MappingHandler] during a
// directory refresh. It is seeded with the full file listing of one directory;
// handlers add file → designated-parent entries to re-parent a file node under
// a sibling file node instead of the containing directory.
//
// A request lives for a single refresh call only and must not be retained.
// Entries are directional and single-level: chains are never followed.
type MappingRequest struct {
	files   []string
	fileSet map[string]struct{}
	mapping map[string]string
}

// NewMappingRequest creates a request seeded with the sibling file paths of
// one directory listing
func NewMappingRequest(files []string) *MappingRequest {
	req := &MappingRequest{
		files:   files,
		fileSet: make(map[string]struct{}, len(files)),
		mapping: make(map[string]string),
	}
	for _, f := range files {
		req.fileSet[f] = struct{}{}
	}
	return req
}

// Files returns the sibling file paths the request was seeded with
func (r *MappingRequest) Files() []string {
	return r.files
}

// Contains reports whether path is part of the seeded listing
func (r *MappingRequest) Contains(path string) bool {
	_, ok := r.fileSet[path]
	return ok
}

// Map records file → parent. The first handler to map a file wins; later
// writes for the same file are dropped and Map returns false.
func (r *MappingRequest) Map(file, parent string) bool {
	if _, exists := r.mapping[file]; exists {
		return false
	}
	r.mapping[file] = parent
	return true
}

// Resolve returns the designated parent recorded for file, if any
func (r *MappingRequest) Resolve(file string) (string, bool) {
	parent, ok := r.mapping[file]
	return parent, ok
}

// Len returns the number of mapping entries recorded so far
func (r *MappingRequest) Len() int {
	return len(r.mapping)
}

// MappingHandler is the extension point for re-parenting files. Handlers run
// in registration order within a single refresh; see [MappingRequest].
type MappingHandler interface {
	MapFiles(req *MappingRequest)
}

// MappingHandlerFunc adapts a plain function to a [MappingHandler]
type MappingHandlerFunc func(req *MappingRequest)

func (f MappingHandlerFunc) MapFiles(req *MappingRequest) { f(req) }

// PairCompanions records an entry for every file whose extension appears in
// companions (companion extension → base extension, e.g. ".as" → ".mxml") and
// whose same-stem base file is present in the listing. Existing entries are
// never overwritten.
func PairCompanions(req *MappingRequest, companions map[string]string) {
	for _, file := range req.Files() {
		ext := strings.ToLower(filepath.Ext(file))
		baseExt, ok := companions[ext]
		if !ok {
			continue
		}
		base := strings.TrimSuffix(file, filepath.Ext(file)) + baseExt
		if req.Contains(base) {
			req.Map(file, base)
		}
	}
}
