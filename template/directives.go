// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"encoding/binary"

	"github.com/andrews05/ResForge-sub001/stream"
)

// endianElement switches the byte order of the following siblings. The
// list restores its order when the level completes.
type endianElement struct {
	element
	little bool
}

func endianBuilder(little bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		e := &endianElement{element: newBase(d), little: little}
		e.hidden = true
		return e
	}
}

func (e *endianElement) order() binary.ByteOrder {
	if e.little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e *endianElement) read(r *stream.Reader) error {
	r.Order = e.order()
	return nil
}

func (e *endianElement) write(w *stream.Writer) error {
	w.Order = e.order()
	return nil
}

// alignElement pads to the next multiple of boundary, measured from the
// start of the structure.
type alignElement struct {
	element
	boundary int
}

func alignBuilder(boundary int) func(Descriptor) Element {
	return func(d Descriptor) Element {
		e := &alignElement{element: newBase(d), boundary: boundary}
		e.hidden = true
		return e
	}
}

func (e *alignElement) padding(pos int) int {
	return (e.boundary - pos%e.boundary) % e.boundary
}

func (e *alignElement) read(r *stream.Reader) error {
	return e.wrap(r.Skip(e.padding(e.relative(r.Position()))))
}

func (e *alignElement) write(w *stream.Writer) error {
	w.WriteZeros(e.padding(e.relative(w.BytesWritten())))
	return nil
}

// dividerElement separates groups of fields and has no data.
type dividerElement struct {
	element
}

func (e *dividerElement) read(r *stream.Reader) error  { return nil }
func (e *dividerElement) write(w *stream.Writer) error { return nil }
