// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package registry keeps named templates that can be replaced at runtime
// while structures built from earlier versions stay valid.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/andrews05/ResForge-sub001/template"
)

// ErrNotFound is returned for template names that are not registered.
var ErrNotFound = errors.New("template not found")

// Registry provides thread-safe template management with hot swap.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	versions  map[string]uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		templates: make(map[string]*template.Template),
		versions:  make(map[string]uint64),
	}
}

// Register parses a binary template and adds or replaces it under name,
// returning the new version.
func (r *Registry) Register(name string, data []byte) (uint64, error) {
	// Parse before taking the write lock.
	t, err := template.Parse(name, data)
	if err != nil {
		return 0, fmt.Errorf("parse template %q: %w", name, err)
	}
	return r.Put(t), nil
}

// RegisterYAML parses a YAML template and registers it under its own name,
// or under fallback if the YAML names none.
func (r *Registry) RegisterYAML(fallback string, data []byte) (uint64, error) {
	t, err := template.ParseYAML(data)
	if err != nil {
		return 0, fmt.Errorf("parse template %q: %w", fallback, err)
	}
	if t.Name == "" {
		t.Name = fallback
	}
	return r.Put(t), nil
}

// Put adds or replaces t under t.Name. Structures already built from the
// previous version are unaffected.
func (r *Registry) Put(t *template.Template) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Name] = t
	r.versions[t.Name]++
	return r.versions[t.Name]
}

// Get returns the current template for name, or nil.
func (r *Registry) Get(name string) *template.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[name]
}

// Version returns the current version of name, or 0 if it was never
// registered.
func (r *Registry) Version(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[name]
}

// Remove drops name. Its version counter is kept so a later registration
// continues the sequence.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.templates[name]
	delete(r.templates, name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds a new structure from the current version of name.
func (r *Registry) Open(name string, opts template.Options) (*template.Structure, error) {
	t := r.Get(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s := template.NewStructure(t, opts)
	return s, s.Err()
}

// Decode opens name and reads data into the new structure.
func (r *Registry) Decode(name string, data []byte, opts template.Options) (*template.Structure, error) {
	s, err := r.Open(name, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Load(data); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDir registers every template file in dir: binary templates (.tmpl),
// YAML templates (.yaml, .yml) and compact formats (.fmt). It returns the
// names registered.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		name := strings.TrimSuffix(entry.Name(), ext)
		path := filepath.Join(dir, entry.Name())
		switch ext {
		case ".tmpl", ".yaml", ".yml", ".fmt":
		default:
			continue
		}
		registered, err := r.LoadFile(name, path)
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, registered)
	}
	return loaded, nil
}

// LoadFile registers the template file at path, choosing the parser by
// extension, and returns the name it was registered under: the name a YAML
// template gives itself, otherwise name.
func (r *Registry) LoadFile(name, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var t *template.Template
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		t, err = template.ParseYAML(data)
	case ".fmt":
		t, err = template.ParseCompact(strings.TrimSpace(string(data)))
		if err == nil {
			t.Name = ""
		}
	default:
		t, err = template.Parse(name, data)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	r.Put(t)
	return t.Name, nil
}
