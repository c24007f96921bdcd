package config

import "github.com/projtree/projtree/internal/util"

// CLI verbosity values, mapped onto internal log levels by [NewProject]
const (
	ErrorVerbose = 1
	WarnVerbose  = 2
	InfoVerbose  = 3
	DebugVerbose = 4
	TraceVerbose = 5
)

// Default configuration values. See [Project] for field descriptions.
const (
	DefaultLanguage        = "as3"
	DefaultShowHiddenPaths = false
	DefaultGroupCompanions = true
	DefaultLogLvl          = util.InfoLevel
)

// DefaultExcludedDirs are directory base names hidden from the tree
// regardless of the hidden-path settings
var DefaultExcludedDirs = []string{".git", ".svn", ".hg", "node_modules", "__pycache__"}

// DefaultHiddenExtensions are file extensions the file-type policy marks
// hidden when hidden paths are not shown
var DefaultHiddenExtensions = []string{".bak", ".tmp", ".swp"}

// DefaultCompanions pairs companion file extensions with the base extension
// they group under when the built-in mapping rule applies
var DefaultCompanions = map[string]string{".as": ".mxml"}
