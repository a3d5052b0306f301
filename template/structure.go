// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package template interprets binary data through declarative templates.
// A Template is an ordered list of descriptors, each a 4-character type tag
// and a label. A Structure builds a tree of typed, editable elements from a
// template, reads bytes into it and writes them back out exactly.
package template

import (
	"errors"
	"io"
	"log"

	"github.com/andrews05/ResForge-sub001/stream"
)

// Options configures a Structure.
type Options struct {
	// Resolver answers resource link queries. It may be nil.
	Resolver ResourceResolver

	// Logger receives recoverable events such as truncated data. Nil
	// discards them.
	Logger *log.Logger

	// OnChange is called once for every user edit.
	OnChange func(e Element)
}

// Structure is one runtime tree built from a template. Structures never
// share nodes, so any number may be built from one Template.
type Structure struct {
	tmpl   *Template
	opts   Options
	logger *log.Logger
	root   *ElementList
	err    error
	dirty  bool
	base   int // stream position of the structure's first byte in the current pass
}

// NewStructure builds and configures a tree for t. A template that fails
// to configure yields a structure holding a single ErrorElement; Err
// returns the cause.
func NewStructure(t *Template, opts Options) *Structure {
	s := &Structure{tmpl: t, opts: opts, logger: opts.Logger}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	s.reset()
	return s
}

// reset discards the tree and rebuilds it from the template.
func (s *Structure) reset() {
	s.err = nil
	s.dirty = false
	root, err := newList(s, nil, s.tmpl.descs)
	if err == nil {
		s.root = root
		err = root.configure()
	}
	if err != nil {
		s.err = err
		s.root = &ElementList{owner: s}
		s.root.insertAt(0, newErrorElement(err))
	}
}

// Template returns the structure's template.
func (s *Structure) Template() *Template {
	return s.tmpl
}

// Root returns the top-level element list.
func (s *Structure) Root() *ElementList {
	return s.root
}

// Err returns the configuration error, if any.
func (s *Structure) Err() error {
	return s.err
}

// Dirty reports whether the structure differs from the data last read,
// either through edits or because the data had to be repaired.
func (s *Structure) Dirty() bool {
	return s.dirty
}

func (s *Structure) markChanged(e Element) {
	s.dirty = true
	if s.opts.OnChange != nil {
		s.opts.OnChange(e)
	}
}

// Read rebuilds the tree and decodes r into it.
//
// Truncated data is not an error: the fields that could not be read keep
// their defaults, counted lists are padded to their counters and the
// structure is marked dirty. Any other failure leaves a fresh default tree
// and is returned.
func (s *Structure) Read(r *stream.Reader) error {
	s.reset()
	if s.err != nil {
		return s.err
	}
	s.base = r.Position()
	err := s.root.read(r)
	switch {
	case errors.Is(err, ErrInsufficientData):
		s.logger.Printf("%s: %v", s.tmpl.Name, err)
		if err := s.root.pad(); err != nil {
			s.reset()
			return err
		}
		s.dirty = true
	case err != nil:
		s.reset()
		return err
	case r.Remaining() > 0:
		s.logger.Printf("%s: ignoring %d trailing bytes", s.tmpl.Name, r.Remaining())
		s.dirty = true
	}
	return nil
}

// Load reads data into the structure.
func (s *Structure) Load(data []byte) error {
	return s.Read(stream.NewReader(data))
}

// Write encodes the tree to w.
func (s *Structure) Write(w *stream.Writer) error {
	if s.err != nil {
		return s.err
	}
	s.base = w.BytesWritten()
	return s.root.write(w)
}

// Bytes encodes the tree to a new buffer.
func (s *Structure) Bytes() ([]byte, error) {
	w := stream.NewWriter()
	if err := s.Write(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
