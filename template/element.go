// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"

	"github.com/andrews05/ResForge-sub001/stream"
)

// Element is one runtime field node. Every element belongs to exactly one
// ElementList and implements configure/read/write for its type tag.
type Element interface {
	Tag() string
	Label() string
	Subtext() string
	Visible() bool
	List() *ElementList

	node() *element
	configure() error
	read(r *stream.Reader) error
	write(w *stream.Writer) error
}

// Valuer is implemented by elements holding an editable decoded value.
type Valuer interface {
	Element
	Value() any
	SetValue(v any) error
}

// Displayer is implemented by elements with a textual rendering of their
// value, such as a case label in place of the raw number.
type Displayer interface {
	Display() string
}

// Container is implemented by elements owning nested element lists.
type Container interface {
	Element
	Children() []*ElementList
}

// padder is implemented by elements that complete themselves with default
// content after a truncated read.
type padder interface {
	pad() error
}

// element holds the state shared by all field types.
type element struct {
	desc    Descriptor
	label   string
	meta    string
	subtext string
	list    *ElementList
	hidden  bool
}

func newBase(d Descriptor) element {
	display, meta, sub := splitLabel(d.Label)
	return element{desc: d, label: display, meta: meta, subtext: sub}
}

func (e *element) Tag() string        { return e.desc.Tag }
func (e *element) Label() string      { return e.label }
func (e *element) Subtext() string    { return e.subtext }
func (e *element) Visible() bool      { return !e.hidden }
func (e *element) List() *ElementList { return e.list }
func (e *element) node() *element     { return e }
func (e *element) configure() error   { return nil }

// Descriptor returns the template record the element was built from.
func (e *element) Descriptor() Descriptor { return e.desc }

func (e *element) errorf(format string, args ...any) error {
	return &SchemaError{Tag: e.desc.Tag, Label: e.desc.Label, Msg: fmt.Sprintf(format, args...)}
}

func (e *element) mismatchf(r *stream.Reader, format string, args ...any) error {
	return &DataMismatchError{Tag: e.desc.Tag, Label: e.label, Offset: r.Position(), Msg: fmt.Sprintf(format, args...)}
}

func (e *element) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %q: %w", e.desc.Tag, e.label, err)
}

// isLast reports whether the element is the final node of its list.
func (e *element) isLast() bool {
	l := e.list
	return l != nil && len(l.elements) > 0 && l.elements[len(l.elements)-1].node() == e
}

// requireEnd enforces that a field consuming all remaining data sits at
// the true end of the available data.
func (e *element) requireEnd() error {
	if !e.isLast() || !e.list.endsWithData() {
		return &UnboundedFieldError{Tag: e.desc.Tag, Label: e.desc.Label}
	}
	return nil
}

// changed reports a user edit to the owning structure.
func (e *element) changed(self Element) {
	if e.list != nil && e.list.owner != nil {
		e.list.owner.markChanged(self)
	}
}

// relative converts a stream position into an offset from the start of
// the structure.
func (e *element) relative(pos int) int {
	if s := e.structure(); s != nil {
		return pos - s.base
	}
	return pos
}

func (e *element) structure() *Structure {
	if e.list == nil {
		return nil
	}
	return e.list.owner
}

// markDirty flags data that will not be written back as read.
func (e *element) markDirty() {
	if s := e.structure(); s != nil {
		s.dirty = true
	}
}

// logf reports a recoverable event to the owning structure's logger.
func (e *element) logf(format string, args ...any) {
	if s := e.structure(); s != nil {
		s.logger.Printf("%s %q: %s", e.desc.Tag, e.label, fmt.Sprintf(format, args...))
	}
}

// ErrorElement stands in for a structure whose template failed to
// configure, carrying the failure message.
type ErrorElement struct {
	element
	Err error
}

func newErrorElement(err error) *ErrorElement {
	return &ErrorElement{
		element: newBase(Descriptor{Tag: "ERR ", Label: err.Error()}),
		Err:     err,
	}
}

func (e *ErrorElement) read(r *stream.Reader) error  { return nil }
func (e *ErrorElement) write(w *stream.Writer) error { return nil }
