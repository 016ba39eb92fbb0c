// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"os/exec"
	"sort"

	"github.com/awalterschulze/gographviz"
)

// Colours used to highlight nodes of a dependency graph.
const (
	ColorTarget = "red"
	ColorRoot   = "green"
)

// createGraph builds a directed graph where each key of data is linked to
// each of its values. colorsMap associates optional colours to nodes.
//
// It returns the graph and an error if any, otherwise it returns nil.
func createGraph(graphName string, data map[string][]string,
	colorsMap map[string]string) (*gographviz.Escape, error) {

	graph := gographviz.NewEscape()
	if err := graph.SetName(graphName); err != nil {
		return nil, err
	}
	if err := graph.SetDir(true); err != nil {
		return nil, err
	}

	// Sort keys so that the dot file is stable between runs
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	added := make(map[string]bool)
	addNode := func(name string) error {
		if added[name] {
			return nil
		}
		added[name] = true
		attrs := map[string]string{}
		if c, ok := colorsMap[name]; ok {
			attrs["color"] = c
			attrs["style"] = "filled"
		}
		return graph.AddNode(graphName, name, attrs)
	}

	for _, key := range keys {
		if err := addNode(key); err != nil {
			return nil, err
		}
		for _, value := range data[key] {
			if err := addNode(value); err != nil {
				return nil, err
			}
			if err := graph.AddEdge(key, value, true, nil); err != nil {
				return nil, err
			}
		}
	}

	return graph, nil
}

// GenerateGraph saves a dependency graph into fullPathName.dot. If the
// graphviz 'dot' binary is available, the graph is also rendered as
// fullPathName.svg.
//
// It returns an error if any, otherwise it returns nil.
func GenerateGraph(graphName, fullPathName string, data map[string][]string,
	colorsMap map[string]string) error {

	graph, err := createGraph(graphName, data, colorsMap)
	if err != nil {
		return err
	}

	if err := WriteToFile(fullPathName+".dot", []byte(graph.String())); err != nil {
		return err
	}
	PrintOk("Graph saved into " + fullPathName + ".dot")

	if _, err := exec.LookPath("dot"); err != nil {
		PrintWarning("'dot' not found: graph is not rendered as svg")
		return nil
	}

	if out, err := ExecuteCommand("dot", []string{"-Tsvg", fullPathName + ".dot",
		"-o", fullPathName + ".svg"}); err != nil {
		PrintWarning("cannot render graph: " + out)
		return nil
	}
	PrintOk("Graph rendered into " + fullPathName + ".svg")

	return nil
}
