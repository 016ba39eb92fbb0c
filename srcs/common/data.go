// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

// Exported struct that represents the shared-library graph of a filesystem.
// It is produced by the graph builder and consumed by the usage checker.
type DylibGraph struct {
	// Links maps an executable (or a library when full dependencies are
	// gathered) to its direct dependencies: soname -> resolved path.
	Links map[string]map[string]string `json:"links"`
	// Dyns maps each dynamically linked executable to its classification
	// output.
	Dyns map[string]string `json:"dyns"`
}

// NewDylibGraph returns an empty graph.
func NewDylibGraph() *DylibGraph {
	return &DylibGraph{
		Links: make(map[string]map[string]string),
		Dyns:  make(map[string]string),
	}
}

// Exported struct that represents a symbol binding reported by the dynamic
// linker.
type Binding struct {
	PID  int     `json:"pid"`
	Src  string  `json:"src"`
	Dst  string  `json:"dst"`
	Sym  string  `json:"sym"`
	Vers *string `json:"vers"`
}

// Exported type that represents the bindings of each traced program.
type BindingData map[string][]Binding
