// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"github.com/andrews05/ResForge-sub001/stream"
)

// boolElement is a 16-bit boolean word. Only the high byte is meaningful:
// the value is true iff the word is at least 0x100.
type boolElement struct {
	element
	raw uint16
}

func (e *boolElement) configure() error {
	if e.meta == "" {
		return nil
	}
	b, ok := toBool(e.meta)
	if !ok {
		return e.errorf("invalid default value %q", e.meta)
	}
	e.set(b)
	return nil
}

func (e *boolElement) read(r *stream.Reader) error {
	v, err := r.ReadUint(2)
	if err != nil {
		return e.wrap(err)
	}
	e.raw = uint16(v)
	return nil
}

func (e *boolElement) write(w *stream.Writer) error {
	w.WriteUint(2, uint64(e.raw))
	return nil
}

func (e *boolElement) Value() any { return e.raw >= 0x100 }

func (e *boolElement) SetValue(v any) error {
	b, ok := toBool(v)
	if !ok {
		return typeError(e, v)
	}
	e.set(b)
	e.changed(e)
	return nil
}

func (e *boolElement) set(b bool) {
	if b {
		e.raw = 0x0100
	} else {
		e.raw = 0
	}
}

// flagElement is a 1, 2 or 4 byte flag, true iff non-zero. The wire value
// is kept so an unedited flag round trips exactly.
type flagElement struct {
	element
	size int
	raw  uint64
}

func flagBuilder(size int) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &flagElement{element: newBase(d), size: size}
	}
}

func (e *flagElement) configure() error {
	if e.meta == "" {
		return nil
	}
	b, ok := toBool(e.meta)
	if !ok {
		return e.errorf("invalid default value %q", e.meta)
	}
	e.set(b)
	return nil
}

func (e *flagElement) read(r *stream.Reader) error {
	v, err := r.ReadUint(e.size)
	if err != nil {
		return e.wrap(err)
	}
	e.raw = v
	return nil
}

func (e *flagElement) write(w *stream.Writer) error {
	w.WriteUint(e.size, e.raw)
	return nil
}

func (e *flagElement) Value() any { return e.raw != 0 }

func (e *flagElement) SetValue(v any) error {
	b, ok := toBool(v)
	if !ok {
		return typeError(e, v)
	}
	e.set(b)
	e.changed(e)
	return nil
}

func (e *flagElement) set(b bool) {
	if b {
		e.raw = 1
	} else {
		e.raw = 0
	}
}
