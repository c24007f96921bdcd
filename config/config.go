package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/projtree/projtree/internal/util"
)

// Project is the read-only policy object the tree consults on every refresh.
// It describes one open project: which paths are hidden, which directories are
// source roots, and which files never appear in the tree.
//
// The reconciler re-evaluates the predicates below on each refresh, so a
// Project may be mutated between (never during) refresh calls.
type Project struct {
	Language         string            // Project language variant, e.g. "as3"
	DefinitionPath   string            // The project's own definition file; never shown in the tree
	OutputPath       string            // Build output directory; surfaced as the project output node
	Classpaths       []string          // Source root directories
	CompileTargets   []string          // Files compiled directly by the project
	HiddenPaths      []string          // Paths the project marks hidden (files or whole subtrees)
	ExcludedDirs     []string          // Directory base names always hidden (case-insensitive)
	HiddenExtensions []string          // File extensions hidden when hidden paths are not shown
	Companions       map[string]string // Companion ext -> base ext for the built-in grouping rule
	ShowHiddenPaths  bool              // When true the hidden-path rules are ignored
	GroupCompanions  bool              // Feature flag for the built-in companion grouping rule
	LogLvl           util.LogLevel
}

// ProjectOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Project] for field
// descriptions. LogLvl here is the 1-5 CLI verbosity, not the internal level.
type ProjectOverride struct {
	Language         *string           `yaml:"language,omitempty" json:"language,omitempty"`
	DefinitionPath   *string           `yaml:"definition_path,omitempty" json:"definition_path,omitempty"`
	OutputPath       *string           `yaml:"output_path,omitempty" json:"output_path,omitempty"`
	Classpaths       []string          `yaml:"classpaths,omitempty" json:"classpaths,omitempty"`
	CompileTargets   []string          `yaml:"compile_targets,omitempty" json:"compile_targets,omitempty"`
	HiddenPaths      []string          `yaml:"hidden_paths,omitempty" json:"hidden_paths,omitempty"`
	ExcludedDirs     []string          `yaml:"excluded_dirs,omitempty" json:"excluded_dirs,omitempty"`
	HiddenExtensions []string          `yaml:"hidden_extensions,omitempty" json:"hidden_extensions,omitempty"`
	Companions       map[string]string `yaml:"companions,omitempty" json:"companions,omitempty"`
	ShowHiddenPaths  *bool             `yaml:"show_hidden_paths,omitempty" json:"show_hidden_paths,omitempty"`
	GroupCompanions  *bool             `yaml:"group_companions,omitempty" json:"group_companions,omitempty"`
	LogLvl           *int              `yaml:"log_lvl,omitempty" json:"log_lvl,omitempty"`
}

// NewProject creates a Project from defaults with any non-nil override fields
// applied on top
func NewProject(override *ProjectOverride) *Project {
	cfg := &Project{
		Language:         DefaultLanguage,
		ExcludedDirs:     DefaultExcludedDirs,
		HiddenExtensions: DefaultHiddenExtensions,
		Companions:       DefaultCompanions,
		ShowHiddenPaths:  DefaultShowHiddenPaths,
		GroupCompanions:  DefaultGroupCompanions,
		LogLvl:           DefaultLogLvl,
	}
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Project. Slice and map
// fields replace the existing value wholesale rather than appending.
func (c *Project) Merge(override *ProjectOverride) {
	if override.Language != nil {
		c.Language = *override.Language
	}
	if override.DefinitionPath != nil {
		c.DefinitionPath = *override.DefinitionPath
	}
	if override.OutputPath != nil {
		c.OutputPath = *override.OutputPath
	}
	if override.Classpaths != nil {
		c.Classpaths = override.Classpaths
	}
	if override.CompileTargets != nil {
		c.CompileTargets = override.CompileTargets
	}
	if override.HiddenPaths != nil {
		c.HiddenPaths = override.HiddenPaths
	}
	if override.ExcludedDirs != nil {
		c.ExcludedDirs = override.ExcludedDirs
	}
	if override.HiddenExtensions != nil {
		c.HiddenExtensions = override.HiddenExtensions
	}
	if override.Companions != nil {
		c.Companions = override.Companions
	}
	if override.ShowHiddenPaths != nil {
		c.ShowHiddenPaths = *override.ShowHiddenPaths
	}
	if override.GroupCompanions != nil {
		c.GroupCompanions = *override.GroupCompanions
	}
	if override.LogLvl != nil {
		verbose := *override.LogLvl
		if verbose < ErrorVerbose {
			verbose = ErrorVerbose
		}
		if verbose > TraceVerbose {
			verbose = TraceVerbose
		}
		levels := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
		c.LogLvl = levels[verbose-1]
	}
}

// IsPathHidden reports whether the project marks path hidden, either directly
// or via a hidden ancestor
func (c *Project) IsPathHidden(path string) bool {
	path = filepath.Clean(path)
	for _, hidden := range c.HiddenPaths {
		hidden = filepath.Clean(hidden)
		if strings.EqualFold(hidden, path) {
			return true
		}
		if len(path) > len(hidden) && strings.EqualFold(hidden, path[:len(hidden)]) &&
			path[len(hidden)] == filepath.Separator {
			return true
		}
	}
	return false
}

// IsClasspath reports whether path is one of the project's source roots
func (c *Project) IsClasspath(path string) bool {
	return containsPath(c.Classpaths, path)
}

// IsCompileTarget reports whether path is compiled directly by the project
func (c *Project) IsCompileTarget(path string) bool {
	return containsPath(c.CompileTargets, path)
}

// IsDefinition reports whether path is the project's own definition file
func (c *Project) IsDefinition(path string) bool {
	return c.DefinitionPath != "" &&
		strings.EqualFold(filepath.Clean(c.DefinitionPath), filepath.Clean(path))
}

// IsExcludedDirName reports whether a directory base name is always excluded
func (c *Project) IsExcludedDirName(name string) bool {
	for _, excluded := range c.ExcludedDirs {
		if strings.EqualFold(excluded, name) {
			return true
		}
	}
	return false
}

// IsHiddenExtension reports whether the file-type policy marks ext hidden
func (c *Project) IsHiddenExtension(ext string) bool {
	for _, hidden := range c.HiddenExtensions {
		if strings.EqualFold(hidden, ext) {
			return true
		}
	}
	return false
}

func containsPath(paths []string, path string) bool {
	path = filepath.Clean(path)
	for _, p := range paths {
		if strings.EqualFold(filepath.Clean(p), path) {
			return true
		}
	}
	return false
}

// LoadOverrideFile loads a project override from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadOverrideFile(path string) (*ProjectOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ProjectOverride

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown project file extension: %s", path)
	}

	return &override, nil
}

// NewProjectFromFile creates a Project by merging file overrides with
// defaults. Convenience wrapper combining [NewProject], [LoadOverrideFile]
// and [Project.Merge].
func NewProjectFromFile(path string) (*Project, error) {
	override, err := LoadOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewProject(override), nil
}
