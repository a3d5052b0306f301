// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"encoding/binary"
	"slices"

	"github.com/andrews05/ResForge-sub001/stream"
)

// ElementList is the ordered sequence of elements at one nesting level.
//
// The cursor is the index of the element currently being configured, read
// or written. Composite elements use it to consume the descriptors that
// follow them. parent is the enclosing composite (nil at top level) and is
// never owned by the list.
type ElementList struct {
	elements []Element
	cursor   int
	parent   Element
	owner    *Structure
}

// newList builds unconfigured elements for descs.
func newList(owner *Structure, parent Element, descs []Descriptor) (*ElementList, error) {
	l := &ElementList{
		elements: make([]Element, 0, len(descs)),
		parent:   parent,
		owner:    owner,
	}
	for _, d := range descs {
		e, err := newElement(d)
		if err != nil {
			return nil, err
		}
		e.node().list = l
		l.elements = append(l.elements, e)
	}
	return l, nil
}

// Len returns the number of elements.
func (l *ElementList) Len() int {
	return len(l.elements)
}

// At returns the element at index i.
func (l *ElementList) At(i int) Element {
	return l.elements[i]
}

// Elements returns a copy of the list's elements.
func (l *ElementList) Elements() []Element {
	out := make([]Element, len(l.elements))
	copy(out, l.elements)
	return out
}

// Parent returns the composite element owning this list, or nil.
func (l *ElementList) Parent() Element {
	return l.parent
}

// Index returns the position of e in the list, or -1. The search starts at
// the cursor and widens in both directions, so elements near the one being
// processed are found without a full scan.
func (l *ElementList) Index(e Element) int {
	if e == nil {
		return -1
	}
	n := e.node()
	for d := 0; l.cursor-d >= 0 || l.cursor+d < len(l.elements); d++ {
		if i := l.cursor + d; i >= 0 && i < len(l.elements) && l.elements[i].node() == n {
			return i
		}
		if i := l.cursor - d; d > 0 && i >= 0 && i < len(l.elements) && l.elements[i].node() == n {
			return i
		}
	}
	return -1
}

// peek returns the element n positions after the cursor without consuming
// it, or nil.
func (l *ElementList) peek(n int) Element {
	i := l.cursor + n
	if i < 0 || i >= len(l.elements) {
		return nil
	}
	return l.elements[i]
}

// pop removes and returns the element immediately after the cursor. With
// tags given, it only pops an element whose tag is one of them.
func (l *ElementList) pop(tags ...string) Element {
	e := l.peek(1)
	if e == nil || (len(tags) > 0 && !hasTag(e, tags)) {
		return nil
	}
	i := l.cursor + 1
	l.elements = append(l.elements[:i], l.elements[i+1:]...)
	return e
}

// insert splices e in immediately after the cursor.
func (l *ElementList) insert(e Element) {
	l.insertAt(l.cursor+1, e)
}

func (l *ElementList) insertAt(i int, e Element) {
	e.node().list = l
	l.elements = append(l.elements, nil)
	copy(l.elements[i+1:], l.elements[i:])
	l.elements[i] = e
}

func (l *ElementList) removeAt(i int) Element {
	e := l.elements[i]
	l.removeRange(i, i+1)
	return e
}

// removeRange removes the elements in [i, j), keeping the cursor on the
// same element when it lies outside the range.
func (l *ElementList) removeRange(i, j int) {
	l.elements = slices.Delete(l.elements, i, j)
	switch {
	case l.cursor >= j:
		l.cursor -= j - i
	case l.cursor > i:
		l.cursor = i
	}
}

// next searches forward from the cursor for an element with one of tags,
// continuing outward through enclosing lists.
func (l *ElementList) next(tags ...string) Element {
	return l.search(l.cursor+1, 1, tags)
}

// previous searches backward from the cursor for an element with one of
// tags, continuing outward through enclosing lists.
func (l *ElementList) previous(tags ...string) Element {
	return l.search(l.cursor-1, -1, tags)
}

func (l *ElementList) search(from, dir int, tags []string) Element {
	for list, i := l, from; list != nil; {
		for ; i >= 0 && i < len(list.elements); i += dir {
			if hasTag(list.elements[i], tags) {
				return list.elements[i]
			}
		}
		if list.parent == nil || list.parent.List() == nil {
			return nil
		}
		outer := list.parent.List()
		i = outer.Index(list.parent) + dir
		list = outer
	}
	return nil
}

// subList removes the elements between the cursor and the matching
// terminator and returns them as a new list owned by the element at the
// cursor. Elements tagged with one of opens nest, so an inner terminator
// does not end the range. The terminator stays in place after the cursor.
func (l *ElementList) subList(terminator string, opens ...string) (*ElementList, error) {
	owner := l.elements[l.cursor]
	depth := 0
	end := -1
	for i := l.cursor + 1; i < len(l.elements); i++ {
		tag := l.elements[i].Tag()
		if tag == terminator {
			if depth == 0 {
				end = i
				break
			}
			depth--
		} else if containsTag(opens, tag) {
			depth++
		}
	}
	if end < 0 {
		return nil, owner.node().errorf("missing closing %s", terminator)
	}
	start := l.cursor + 1
	sub := &ElementList{
		elements: make([]Element, 0, end-start),
		parent:   owner,
		owner:    l.owner,
	}
	for _, e := range l.elements[start:end] {
		e.node().list = sub
		sub.elements = append(sub.elements, e)
	}
	l.elements = append(l.elements[:start], l.elements[end:]...)
	return sub, nil
}

// descriptors returns the template records of the list's elements.
func (l *ElementList) descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(l.elements))
	for _, e := range l.elements {
		out = append(out, e.node().desc)
	}
	return out
}

// endsWithData reports whether the end of this list coincides with the end
// of the data available to it.
func (l *ElementList) endsWithData() bool {
	switch p := l.parent.(type) {
	case nil:
		return true
	case *SizedSection:
		return true
	case *KeyedSection:
		return p.isLast() && p.list.endsWithData()
	}
	return false
}

// configure runs the single linking pass. Elements may pop, insert or carve
// the elements after them, so the length is re-read on every step.
func (l *ElementList) configure() error {
	for l.cursor = 0; l.cursor < len(l.elements); l.cursor++ {
		if err := l.elements[l.cursor].configure(); err != nil {
			return err
		}
	}
	return nil
}

// read decodes every element in order. Lists insert entries while being
// read, so the length is re-read on every step. Any byte order change made
// by a directive at this level is undone when the level completes.
func (l *ElementList) read(r *stream.Reader) error {
	order := r.Order
	defer func() { r.Order = order }()
	for l.cursor = 0; l.cursor < len(l.elements); l.cursor++ {
		if err := l.elements[l.cursor].read(r); err != nil {
			return err
		}
	}
	return nil
}

func (l *ElementList) write(w *stream.Writer) error {
	order := w.Order
	defer func() { w.Order = order }()
	for l.cursor = 0; l.cursor < len(l.elements); l.cursor++ {
		if err := l.elements[l.cursor].write(w); err != nil {
			return err
		}
	}
	return nil
}

// readScoped reads the list as a fresh nesting level in big-endian order.
func (l *ElementList) readScoped(r *stream.Reader) error {
	order := r.Order
	r.Order = binary.BigEndian
	defer func() { r.Order = order }()
	return l.read(r)
}

func (l *ElementList) writeScoped(w *stream.Writer) error {
	order := w.Order
	w.Order = binary.BigEndian
	defer func() { w.Order = order }()
	return l.write(w)
}

// encodedAt returns the list's bytes as a fresh scope placed offset bytes
// into the structure, so alignment follows the real layout.
func (l *ElementList) encodedAt(offset int) ([]byte, error) {
	defer l.rebase()()
	w := stream.NewWriter()
	w.WriteZeros(offset)
	if err := l.writeScoped(w); err != nil {
		return nil, err
	}
	return w.Bytes()[offset:], nil
}

// decodeAt reads data as a fresh scope placed offset bytes into the
// structure.
func (l *ElementList) decodeAt(data []byte, offset int) error {
	defer l.rebase()()
	r := stream.NewReader(append(make([]byte, offset), data...))
	if err := r.Skip(offset); err != nil {
		return err
	}
	return l.readScoped(r)
}

// rebase measures offsets from stream position 0 until the returned func
// restores the owner's base.
func (l *ElementList) rebase() func() {
	if l.owner == nil {
		return func() {}
	}
	base := l.owner.base
	l.owner.base = 0
	return func() { l.owner.base = base }
}

// pad completes the list after a truncated read.
func (l *ElementList) pad() error {
	for i := 0; i < len(l.elements); i++ {
		if p, ok := l.elements[i].(padder); ok {
			if err := p.pad(); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasTag(e Element, tags []string) bool {
	return containsTag(tags, e.Tag())
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
