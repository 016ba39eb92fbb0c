// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const unreached = math.MaxInt

// UsageChecker tells which executables of a graph depend, directly or
// through their libraries, on a library identified by a soname prefix.
//
// Results are memoized per path. The graph given by ldd is expected to be
// acyclic; when it is not, a dependency leading back to a path being explored
// does not count as a use and the cycle is recorded.
type UsageChecker struct {
	graph  *u.DylibGraph
	prefix string

	memo    map[string]bool
	onStack map[string]int
	stack   []string

	cycles    [][]string
	cycleKeys map[string]bool

	// expansions counts the paths whose dependencies have been explored.
	expansions int
}

// NewUsageChecker returns a checker of the library whose soname starts with
// prefix.
func NewUsageChecker(graph *u.DylibGraph, prefix string) *UsageChecker {
	return &UsageChecker{
		graph:     graph,
		prefix:    prefix,
		memo:      make(map[string]bool),
		onStack:   make(map[string]int),
		cycleKeys: make(map[string]bool),
	}
}

// Uses checks if path uses the library. A path without links entry does not
// use it.
func (c *UsageChecker) Uses(path string) bool {
	used, _ := c.visit(path)
	return used
}

// visit explores path depth first. The returned depth is the lowest stack
// depth of an unfinished path reached from path, or unreached.
func (c *UsageChecker) visit(path string) (bool, int) {
	deps, ok := c.graph.Links[path]
	if !ok {
		return false, unreached
	}
	if used, ok := c.memo[path]; ok {
		return used, unreached
	}
	if depth, ok := c.onStack[path]; ok {
		c.recordCycle(depth, path)
		return false, depth
	}

	depth := len(c.stack)
	c.stack = append(c.stack, path)
	c.onStack[path] = depth
	c.expansions++

	used := false
	low := unreached
	for _, soname := range sortedKeys(deps) {
		if strings.HasPrefix(soname, c.prefix) {
			used = true
			break
		}
		depUsed, depLow := c.visit(deps[soname])
		if depLow < low {
			low = depLow
		}
		if depUsed {
			used = true
			break
		}
	}

	c.stack = c.stack[:depth]
	delete(c.onStack, path)

	if used {
		c.memo[path] = true
		return true, unreached
	}

	// A negative answer reached through an unfinished ancestor may change
	// once that ancestor is finished.
	if low >= depth {
		c.memo[path] = false
		return false, unreached
	}
	return false, low
}

func (c *UsageChecker) recordCycle(depth int, path string) {
	cycle := append(append([]string{}, c.stack[depth:]...), path)
	key := strings.Join(cycle, "\x00")
	if c.cycleKeys[key] {
		return
	}
	c.cycleKeys[key] = true
	c.cycles = append(c.cycles, cycle)
	u.Logger().Debug("dependency cycle", zap.Strings("cycle", cycle))
}

// Cycles returns the dependency cycles met so far. Each cycle starts and ends
// with the same path.
func (c *UsageChecker) Cycles() [][]string {
	return c.cycles
}

// Users returns the sorted dynamically linked executables which use the
// library.
func (c *UsageChecker) Users() []string {
	users := make([]string, 0)
	for _, exe := range sortedKeys(c.graph.Dyns) {
		if c.Uses(exe) {
			users = append(users, exe)
		}
	}
	return users
}

// UsersGraph returns the edges which lead each user to the library together
// with the colours of the users and of the library.
func (c *UsageChecker) UsersGraph() (map[string][]string, map[string]string) {
	data := make(map[string][]string)
	colours := make(map[string]string)

	queue := c.Users()
	for _, user := range queue {
		colours[user] = u.ColorRoot
	}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if _, done := data[path]; done {
			continue
		}

		deps := c.graph.Links[path]
		edges := make([]string, 0)
		for _, soname := range sortedKeys(deps) {
			target := deps[soname]
			if strings.HasPrefix(soname, c.prefix) {
				if len(target) == 0 {
					target = soname
				}
				colours[target] = u.ColorTarget
				edges = append(edges, target)
			} else if c.Uses(target) {
				edges = append(edges, target)
				queue = append(queue, target)
			}
		}
		data[path] = edges
	}

	return data, colours
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
