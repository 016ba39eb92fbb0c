// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// lddCacheSize bounds the number of library dependency lists kept in memory
// when dependencies of dependencies are gathered.
const lddCacheSize = 4096

// lddFunc returns the raw output of 'ldd' for a path.
type lddFunc func(ctx context.Context, path string) (string, error)

// runLdd runs 'ldd' on path. Its exit status is ignored: static files and
// scripts make ldd fail and simply have no dependencies.
func runLdd(ctx context.Context, path string) (string, error) {
	res, err := u.ExecuteRunCmd(ctx, u.RunOptions{Name: "ldd", Args: []string{path}})
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// GraphBuilder walks a filesystem and records, for every dynamically linked
// executable, the shared libraries it resolves at load time.
type GraphBuilder struct {
	Root       string
	Skip       []string
	Workers    int
	FullDeps   bool
	Classifier Classifier

	ldd   lddFunc
	cache *lru.Cache[string, map[string]string]
}

// NewGraphBuilder returns a builder which classifies executables with
// classifier and resolves their dependencies with 'ldd'.
//
// It returns the builder and an error if any, otherwise it returns nil.
func NewGraphBuilder(root string, skip []string, classifier Classifier) (*GraphBuilder, error) {
	cache, err := lru.New[string, map[string]string](lddCacheSize)
	if err != nil {
		return nil, err
	}
	return &GraphBuilder{
		Root:       root,
		Skip:       skip,
		Workers:    1,
		Classifier: classifier,
		ldd:        runLdd,
		cache:      cache,
	}, nil
}

// Build walks the filesystem and builds the graph. Any failure of the
// classifier or any unexpected ldd output aborts the whole build.
//
// It returns the graph and an error if any, otherwise it returns nil.
func (b *GraphBuilder) Build(ctx context.Context) (*u.DylibGraph, error) {

	executables, err := findExecutables(ctx, b.Root, b.Skip)
	if err != nil {
		return nil, err
	}
	u.PrintInfo(fmt.Sprintf("%d executable files found", len(executables)))

	graph := u.NewDylibGraph()
	var mu sync.Mutex

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, exe := range executables {
		if gctx.Err() != nil {
			break
		}
		exe := exe
		g.Go(func() error {
			return b.analyse(gctx, exe, graph, &mu)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return graph, nil
}

// analyse classifies one executable and records its dependencies.
func (b *GraphBuilder) analyse(ctx context.Context, exe string, graph *u.DylibGraph,
	mu *sync.Mutex) error {

	desc, dynamic, err := b.Classifier.Classify(ctx, exe)
	if err != nil {
		return fmt.Errorf("classify %s: %w", exe, err)
	}
	if !dynamic {
		return nil
	}

	links, err := b.links(ctx, exe)
	if err != nil {
		return err
	}

	var libLinks map[string]map[string]string
	if b.FullDeps {
		if libLinks, err = b.fullDeps(ctx, links); err != nil {
			return err
		}
	}

	mu.Lock()
	defer mu.Unlock()

	graph.Dyns[exe] = desc
	if len(links) > 0 {
		graph.Links[exe] = links
	}
	for lib, deps := range libLinks {
		if len(deps) > 0 {
			graph.Links[lib] = deps
		}
	}
	return nil
}

// links runs and parses 'ldd' for a path.
func (b *GraphBuilder) links(ctx context.Context, path string) (map[string]string, error) {
	output, err := b.ldd(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ldd %s: %w", path, err)
	}
	links, err := parseLDD(output)
	if err != nil {
		return nil, fmt.Errorf("ldd %s: %w", path, err)
	}
	return links, nil
}

// fullDeps gathers the dependencies of every library reachable from links.
// Results of 'ldd' are cached so that a library shared by many executables is
// analysed once.
//
// It returns a map library path -> dependencies and an error if any,
// otherwise it returns nil.
func (b *GraphBuilder) fullDeps(ctx context.Context,
	links map[string]string) (map[string]map[string]string, error) {

	result := make(map[string]map[string]string)
	queue := resolvedPaths(links)

	for len(queue) > 0 {
		lib := queue[0]
		queue = queue[1:]
		if _, done := result[lib]; done {
			continue
		}

		deps, ok := b.cache.Get(lib)
		if ok {
			u.Logger().Debug("ldd cache hit", zap.String("path", lib))
		} else {
			var err error
			if deps, err = b.links(ctx, lib); err != nil {
				return nil, err
			}
			b.cache.Add(lib, deps)
		}

		result[lib] = deps
		queue = append(queue, resolvedPaths(deps)...)
	}

	return result, nil
}

// resolvedPaths returns the sorted absolute paths of a dependency map.
func resolvedPaths(links map[string]string) []string {
	paths := make([]string, 0, len(links))
	for _, path := range links {
		if filepath.IsAbs(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}
