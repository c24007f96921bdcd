package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/projtree/projtree"
	"github.com/projtree/projtree/config"
	"github.com/projtree/projtree/internal/util"
	"github.com/projtree/projtree/mappings"
	"github.com/projtree/projtree/tree"
	"github.com/projtree/projtree/watch"
)

func main() {
	var (
		projectFile string
		verbose     int
		watchMode   bool
		selectPath  string
	)
	flag.StringVar(&projectFile, "project", "", "Path to project definition file (.yaml/.yml/.json)")
	flag.StringVar(&projectFile, "p", "", "--project (shorthand)")
	flag.BoolVar(&watchMode, "watch", false, "Keep running and re-print the tree on disk changes")
	flag.BoolVar(&watchMode, "w", false, "--watch (shorthand)")
	flag.StringVar(&selectPath, "select", "", "Path to select once it appears in the tree")
	flag.IntVar(&verbose, "verbose", 3, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", 3, "--verbose (shorthand)")
	flag.Parse()

	if verbose < config.ErrorVerbose {
		verbose = config.ErrorVerbose
	}
	if verbose > config.TraceVerbose {
		verbose = config.TraceVerbose
	}
	cfg := config.NewProject(&config.ProjectOverride{LogLvl: &verbose})
	if projectFile != "" {
		override, err := config.LoadOverrideFile(projectFile)
		if err != nil {
			util.InitializeLogger(util.ErrorLevel)
			errLogger := util.GetLogger("main")
			errLogger.Fatal().Err(err).Str("project", projectFile).Msg("Failed to load project file")
		}
		cfg.Merge(override)
		if cfg.DefinitionPath == "" {
			cfg.DefinitionPath = projectFile
		}
	}
	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")

	root := flag.Arg(0)
	if root == "" {
		logger.Fatal().Msg("Project root not specified; it must be passed as the argument")
	}

	reg := mappings.NewRegistry()
	mappings.RegisterBuiltins(reg, cfg)

	opts := []tree.Option{
		tree.WithObserver(projtree.RefreshObserverFunc(func(ev projtree.RefreshEvent) {
			logger.Debug().Str("path", ev.Node.Path()).Msg("node refreshed")
		})),
	}
	for _, h := range reg.Handlers() {
		opts = append(opts, tree.WithMappingHandler(h))
	}

	t, err := tree.New(root, cfg, opts...)
	if err != nil {
		logger.Fatal().Err(err).Str("root", root).Msg("Failed to create tree")
	}
	if selectPath != "" {
		t.SetPendingSelect(selectPath)
	}
	if cfg.OutputPath != "" {
		t.AttachOutputNode()
	}
	if len(cfg.Classpaths) > 0 {
		t.AttachReferencesNode("References")
	}

	if err := t.ExpandAll(t.Root()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to expand tree")
	}
	printTree(t)

	if !watchMode {
		return
	}

	w, err := watch.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create watcher")
	}
	defer w.Close()

	watched := make(map[string]struct{})
	syncWatches(t, w, watched)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	logger.Info().Str("root", root).Msg("Watching for changes")

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			node, found := t.Lookup(ev.Dir)
			if !found {
				continue
			}
			if err := t.Refresh(node, false); err != nil {
				logger.Error().Err(err).Str("dir", ev.Dir).Msg("Refresh failed")
				continue
			}
			syncWatches(t, w, watched)
			printTree(t)
		case sig := <-signalChan:
			logger.Info().Str("signal", sig.String()).Msg("Received signal, exiting")
			return
		}
	}
}

// syncWatches reconciles the watch set with the tree: every directory whose
// children are currently materialized is watched, dirty (deferred) ones are
// refreshed lazily on the next expansion instead, and directories that left
// the tree are unwatched.
func syncWatches(t *tree.Tree, w *watch.Watcher, watched map[string]struct{}) {
	logger := util.GetLogger("main")

	current := make(map[string]struct{})
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n.Kind() != tree.KindDir && n.Kind() != tree.KindOutput {
			return
		}
		if n.Dirty() {
			return
		}
		current[n.Path()] = struct{}{}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(t.Root())

	for dir := range watched {
		if _, ok := current[dir]; !ok {
			if err := w.Unwatch(dir); err != nil {
				logger.Debug().Err(err).Str("dir", dir).Msg("Failed to unwatch directory")
			}
			delete(watched, dir)
		}
	}
	for dir := range current {
		if _, ok := watched[dir]; ok {
			continue
		}
		if err := w.Watch(dir); err != nil {
			logger.Debug().Err(err).Str("dir", dir).Msg("Failed to watch directory")
			continue
		}
		watched[dir] = struct{}{}
	}
}

func printTree(t *tree.Tree) {
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		marker := ""
		switch {
		case t.Selected() == n:
			marker = " *"
		case t.Config().IsCompileTarget(n.Path()):
			marker = " (target)"
		}
		fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth), n.Label(), marker)
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	walk(t.Root(), 0)
}
