// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"

	"github.com/andrews05/ResForge-sub001/stream"
)

// bitElement is one member of a bitfield group. The first member claims the
// siblings that follow it until the widths fill the container word, and
// does all stream I/O for the group. Members are laid out high to low.
type bitElement struct {
	element
	bits  int
	width int
	shift uint
	value uint64
	lead  *bitElement
	group []*bitElement
}

func bitsBuilder(bits, width int) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &bitElement{element: newBase(d), bits: bits, width: width}
	}
}

func (e *bitElement) mask() uint64 {
	if e.width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(e.width) - 1
}

func (e *bitElement) configure() error {
	if e.meta != "" {
		n, err := parseInt(e.meta)
		if err != nil {
			b, ok := toBool(e.meta)
			if !ok {
				return e.errorf("invalid default value %q", e.meta)
			}
			n = 0
			if b {
				n = 1
			}
		}
		if n < 0 || uint64(n) > e.mask() {
			return e.errorf("invalid default value %q", e.meta)
		}
		e.value = uint64(n)
	}
	if e.lead != nil {
		return nil
	}

	e.lead = e
	e.group = []*bitElement{e}
	total := e.width
	for n := 1; total < e.bits; n++ {
		b, ok := e.list.peek(n).(*bitElement)
		if !ok || b.bits != e.bits || b.lead != nil {
			return e.errorf("bitfield widths sum to %d bits, want %d", total, e.bits)
		}
		b.lead = e
		e.group = append(e.group, b)
		total += b.width
	}
	if total != e.bits {
		return e.errorf("bitfield widths sum to %d bits, want %d", total, e.bits)
	}

	shift := e.bits
	for _, m := range e.group {
		shift -= m.width
		m.shift = uint(shift)
	}
	return nil
}

func (e *bitElement) read(r *stream.Reader) error {
	if e.lead != e {
		return nil
	}
	word, err := r.ReadUint(e.bits / 8)
	if err != nil {
		return e.wrap(err)
	}
	for _, m := range e.group {
		m.value = (word >> m.shift) & m.mask()
	}
	return nil
}

func (e *bitElement) write(w *stream.Writer) error {
	if e.lead != e {
		return nil
	}
	var word uint64
	for _, m := range e.group {
		word |= (m.value & m.mask()) << m.shift
	}
	w.WriteUint(e.bits/8, word)
	return nil
}

// Value returns a bool for single bits and a uint64 otherwise.
func (e *bitElement) Value() any {
	if e.width == 1 {
		return e.value != 0
	}
	return e.value
}

func (e *bitElement) SetValue(v any) error {
	var n uint64
	if b, ok := v.(bool); ok {
		if b {
			n = 1
		}
	} else {
		i, ok := toInt64(v)
		if !ok {
			return typeError(e, v)
		}
		if i < 0 || uint64(i) > e.mask() {
			return e.wrap(fmt.Errorf("value %d does not fit in %d bits", i, e.width))
		}
		n = uint64(i)
	}
	e.value = n
	e.changed(e)
	return nil
}
