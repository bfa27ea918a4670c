// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolchain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/makeproj/toolconf"
)

// DefaultName is the name of the default toolchain.
const DefaultName = "GNU"

// Registry holds toolchain descriptors by name.
type Registry struct {
	mu sync.RWMutex
	m  map[string]*Descriptor
}

// NewRegistry returns a registry with the builtin toolchains.
func NewRegistry() *Registry {
	r := &Registry{m: map[string]*Descriptor{}}
	for _, d := range Builtin() {
		r.m[d.Name] = d
	}
	return r
}

// Register adds d, replacing a descriptor of the same name.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("toolchain without name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[d.Name]; ok {
		log.Infof("toolchain %s is overridden", d.Name)
	}
	r.m[d.Name] = d
	return nil
}

// Lookup returns the descriptor of the name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.m[name]
	return d, ok
}

// Names returns registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.m))
	for n := range r.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Tool returns the tool of the kind of the named toolchain.
// It returns nil for an unknown toolchain or a missing tool, so that
// option resolution yields empty strings for broken toolchains.
func (r *Registry) Tool(name string, k toolconf.Kind) toolconf.Tool {
	d, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return d.ToolFor(k)
}
