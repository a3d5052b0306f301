// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package registry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Resource identifies one resource known to the index.
type Resource struct {
	Type string `yaml:"type"`
	ID   int    `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// Resources is an in-memory resource index. It answers the existence
// queries of resource link fields and is safe for concurrent use.
type Resources struct {
	mu    sync.RWMutex
	byKey map[string]map[int]Resource
}

// NewResources creates an empty index.
func NewResources() *Resources {
	return &Resources{byKey: make(map[string]map[int]Resource)}
}

// Add records a resource, replacing any with the same type and ID.
func (r *Resources) Add(res Resource) error {
	if len(res.Type) != 4 {
		return fmt.Errorf("resource type %q must be 4 characters", res.Type)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byKey[res.Type]
	if ids == nil {
		ids = make(map[int]Resource)
		r.byKey[res.Type] = ids
	}
	ids[res.ID] = res
	return nil
}

// Remove forgets a resource.
func (r *Resources) Remove(typ string, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byKey[typ], id)
}

// ResourceExists implements template.ResourceResolver.
func (r *Resources) ResourceExists(typ string, id int) bool {
	_, ok := r.Lookup(typ, id)
	return ok
}

// Lookup returns the resource with the given type and ID.
func (r *Resources) Lookup(typ string, id int) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byKey[typ][id]
	return res, ok
}

// List returns every resource ordered by type, then ID.
func (r *Resources) List() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Resource
	for _, ids := range r.byKey {
		for _, res := range ids {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type resourceFile struct {
	Resources []Resource `yaml:"resources"`
}

// ReadResources decodes a YAML resource index:
//
//	resources:
//	  - {type: PICT, id: 128, name: Splash}
func ReadResources(rd io.Reader) (*Resources, error) {
	var f resourceFile
	if err := yaml.NewDecoder(rd).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode resource index: %w", err)
	}
	idx := NewResources()
	for _, res := range f.Resources {
		if err := idx.Add(res); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// LoadResources reads a YAML resource index from path.
func LoadResources(path string) (*Resources, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadResources(f)
}
