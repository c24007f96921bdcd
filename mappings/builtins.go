package mappings

import (
	"github.com/projtree/projtree"
	"github.com/projtree/projtree/config"
)

type BuiltInHandlerType = string

const (
	CompanionHandlerType BuiltInHandlerType = "companions"
)

// RegisterBuiltins registers all built-in mapping handlers by default, or
// only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, cfg *config.Project, handlers ...BuiltInHandlerType) {
	if len(handlers) == 0 {
		handlers = append(handlers, CompanionHandlerType)
	}

	for _, key := range handlers {
		switch key {
		case CompanionHandlerType:
			r.Register(CompanionHandlerType, NewCompanionHandler(cfg))
		}
	}
}

// NewCompanionHandler returns a handler grouping companion files under their
// same-stem base file, e.g. Button.as under Button.mxml. The pairing table
// and the feature flag come from the project configuration, re-read on every
// request.
func NewCompanionHandler(cfg *config.Project) projtree.MappingHandler {
	return projtree.MappingHandlerFunc(func(req *projtree.MappingRequest) {
		if !cfg.GroupCompanions {
			return
		}
		projtree.PairCompanions(req, cfg.Companions)
	})
}
