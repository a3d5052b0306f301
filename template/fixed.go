// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"math"
	"strconv"

	"github.com/andrews05/ResForge-sub001/stream"
)

// fixedElement is a 32-bit signed fixed point number with fracBits
// fraction bits: 16 for FIXD, 30 for FRAC.
type fixedElement struct {
	element
	fracBits uint
	raw      int32
}

func fixedBuilder(fracBits uint) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &fixedElement{element: newBase(d), fracBits: fracBits}
	}
}

func (e *fixedElement) configure() error {
	if e.meta == "" {
		return nil
	}
	f, err := strconv.ParseFloat(e.meta, 64)
	if err != nil {
		return e.errorf("invalid default value %q", e.meta)
	}
	if err := e.set(f); err != nil {
		return e.errorf("%v", err)
	}
	return nil
}

func (e *fixedElement) read(r *stream.Reader) error {
	v, err := r.ReadInt(4)
	if err != nil {
		return e.wrap(err)
	}
	e.raw = int32(v)
	return nil
}

func (e *fixedElement) write(w *stream.Writer) error {
	w.WriteUint(4, uint64(uint32(e.raw)))
	return nil
}

func (e *fixedElement) Value() any {
	return float64(e.raw) / float64(int64(1)<<e.fracBits)
}

func (e *fixedElement) SetValue(v any) error {
	f, ok := toFloat64(v)
	if !ok {
		return typeError(e, v)
	}
	if err := e.set(f); err != nil {
		return e.wrap(err)
	}
	e.changed(e)
	return nil
}

func (e *fixedElement) set(f float64) error {
	scaled := math.Round(f * float64(int64(1)<<e.fracBits))
	if scaled < math.MinInt32 || scaled > math.MaxInt32 {
		return fmt.Errorf("value %g out of range", f)
	}
	e.raw = int32(scaled)
	return nil
}

// floatElement is an IEEE 754 float of 4 or 8 bytes.
type floatElement struct {
	element
	size int
	raw  uint64
}

func floatBuilder(size int) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &floatElement{element: newBase(d), size: size}
	}
}

func (e *floatElement) configure() error {
	if e.meta == "" {
		return nil
	}
	f, err := strconv.ParseFloat(e.meta, 64)
	if err != nil {
		return e.errorf("invalid default value %q", e.meta)
	}
	e.set(f)
	return nil
}

func (e *floatElement) read(r *stream.Reader) error {
	v, err := r.ReadUint(e.size)
	if err != nil {
		return e.wrap(err)
	}
	e.raw = v
	return nil
}

func (e *floatElement) write(w *stream.Writer) error {
	w.WriteUint(e.size, e.raw)
	return nil
}

func (e *floatElement) Value() any {
	if e.size == 4 {
		return float64(math.Float32frombits(uint32(e.raw)))
	}
	return math.Float64frombits(e.raw)
}

func (e *floatElement) SetValue(v any) error {
	f, ok := toFloat64(v)
	if !ok {
		return typeError(e, v)
	}
	e.set(f)
	e.changed(e)
	return nil
}

func (e *floatElement) set(f float64) {
	if e.size == 4 {
		e.raw = uint64(math.Float32bits(float32(f)))
		return
	}
	e.raw = math.Float64bits(f)
}
