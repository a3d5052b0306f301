// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"strings"
)

// Descriptor is one immutable template record: a 4-character type tag and
// its label text.
//
// The label's first line has the form DisplayLabel[=MetaValue]; an optional
// second line is free-form subtext.
type Descriptor struct {
	Tag   string
	Label string
}

// DisplayLabel returns the label text before any '='.
func (d Descriptor) DisplayLabel() string {
	display, _, _ := splitLabel(d.Label)
	return display
}

// MetaValue returns the type-specific text after the first '='.
func (d Descriptor) MetaValue() string {
	_, meta, _ := splitLabel(d.Label)
	return meta
}

// Subtext returns the label's second line.
func (d Descriptor) Subtext() string {
	_, _, sub := splitLabel(d.Label)
	return sub
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s %q", d.Tag, d.Label)
}

func splitLabel(label string) (display, meta, subtext string) {
	first := label
	if i := strings.IndexAny(label, "\r\n"); i >= 0 {
		first = label[:i]
		subtext = strings.TrimLeft(label[i:], "\r\n")
	}
	display = first
	if i := strings.IndexByte(first, '='); i >= 0 {
		display = first[:i]
		meta = first[i+1:]
	}
	return display, meta, subtext
}

func lineBreaks(label string) int {
	label = strings.ReplaceAll(label, "\r\n", "\n")
	return strings.Count(label, "\n") + strings.Count(label, "\r")
}

func joinLabel(display, meta, subtext string) string {
	label := display
	if meta != "" {
		label += "=" + meta
	}
	if subtext != "" {
		label += "\n" + subtext
	}
	return label
}

// Template is a named, immutable sequence of descriptors. A Template may be
// shared by any number of structures; each builds its own runtime tree.
type Template struct {
	Name  string
	descs []Descriptor
}

// NewTemplate validates descs and returns a template holding a copy of them.
func NewTemplate(name string, descs []Descriptor) (*Template, error) {
	for i, d := range descs {
		if len(d.Tag) != 4 {
			return nil, &SchemaError{Tag: d.Tag, Label: d.Label, Msg: fmt.Sprintf("record %d: type tag must be 4 characters", i)}
		}
		if !KnownTag(d.Tag) {
			return nil, &SchemaError{Tag: d.Tag, Label: d.Label, Msg: fmt.Sprintf("record %d: unknown type tag", i)}
		}
		if lineBreaks(d.Label) > 1 {
			return nil, &SchemaError{Tag: d.Tag, Label: d.Label, Msg: fmt.Sprintf("record %d: label has more than two lines", i)}
		}
	}
	t := &Template{Name: name, descs: make([]Descriptor, len(descs))}
	copy(t.descs, descs)
	return t, nil
}

// Descriptors returns a copy of the template's descriptors.
func (t *Template) Descriptors() []Descriptor {
	out := make([]Descriptor, len(t.descs))
	copy(out, t.descs)
	return out
}

// Len returns the number of descriptors.
func (t *Template) Len() int {
	return len(t.descs)
}
