// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"math"

	"github.com/andrews05/ResForge-sub001/stream"
)

// Color is an RGB value with components normalized to 0..1.
type Color struct {
	R, G, B float64
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%.3f, %.3f, %.3f)", c.R, c.G, c.B)
}

type colorFormat int

const (
	colorRGB48  colorFormat = iota // three 16-bit words
	colorRGB555                    // 0RRRRRGGGGGBBBBB in 16 bits
	colorRGB888                    // 00RRGGBB in 32 bits
)

// colorElement keeps the raw components and any unused bits of a packed
// word so unedited colors round trip exactly.
type colorElement struct {
	element
	format colorFormat
	comp   [3]uint64
	spare  uint64
}

func colorBuilder(format colorFormat) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &colorElement{element: newBase(d), format: format}
	}
}

// layout returns the word size in bytes and the per-component bit width.
func (e *colorElement) layout() (size int, bits uint) {
	switch e.format {
	case colorRGB555:
		return 2, 5
	case colorRGB888:
		return 4, 8
	}
	return 2, 16
}

func (e *colorElement) read(r *stream.Reader) error {
	size, bits := e.layout()
	if e.format == colorRGB48 {
		for i := range e.comp {
			v, err := r.ReadUint(size)
			if err != nil {
				return e.wrap(err)
			}
			e.comp[i] = v
		}
		return nil
	}
	word, err := r.ReadUint(size)
	if err != nil {
		return e.wrap(err)
	}
	mask := uint64(1)<<bits - 1
	var used uint64
	for i := range e.comp {
		shift := bits * uint(2-i)
		e.comp[i] = (word >> shift) & mask
		used |= mask << shift
	}
	e.spare = word &^ used
	return nil
}

func (e *colorElement) write(w *stream.Writer) error {
	size, bits := e.layout()
	if e.format == colorRGB48 {
		for _, c := range e.comp {
			w.WriteUint(size, c)
		}
		return nil
	}
	word := e.spare
	for i, c := range e.comp {
		word |= c << (bits * uint(2-i))
	}
	w.WriteUint(size, word)
	return nil
}

func (e *colorElement) Value() any {
	_, bits := e.layout()
	scale := float64(uint64(1)<<bits - 1)
	return Color{
		R: float64(e.comp[0]) / scale,
		G: float64(e.comp[1]) / scale,
		B: float64(e.comp[2]) / scale,
	}
}

func (e *colorElement) SetValue(v any) error {
	c, ok := v.(Color)
	if !ok {
		return typeError(e, v)
	}
	_, bits := e.layout()
	scale := float64(uint64(1)<<bits - 1)
	var comp [3]uint64
	for i, f := range []float64{c.R, c.G, c.B} {
		if f < 0 || f > 1 || math.IsNaN(f) {
			return e.wrap(fmt.Errorf("color component %g outside 0..1", f))
		}
		comp[i] = uint64(math.Round(f * scale))
	}
	e.comp = comp
	e.changed(e)
	return nil
}
