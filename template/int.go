// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"strconv"

	"github.com/andrews05/ResForge-sub001/stream"
)

// RangeValuer is implemented by numeric elements accepting CASR records.
type RangeValuer interface {
	Element
	// RangeValue returns the current value normalized by the case range
	// containing it.
	RangeValue() (int64, CaseRange, bool)
	// SetRangeValue stores the wire value that normalizes to d within r.
	SetRangeValue(r CaseRange, d int64) error
}

// intElement is a fixed-width integer. raw holds the wire bits, masked to
// size bytes.
type intElement struct {
	element
	size    int
	signed  bool
	hex     bool
	keyed   bool
	raw     uint64
	cases   *caseTable
	section *KeyedSection
	outer   Element // set when embedded, for change reports
}

func intBuilder(size int, signed, hex, keyed bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &intElement{element: newBase(d), size: size, signed: signed, hex: hex, keyed: keyed}
	}
}

func (e *intElement) configure() error {
	if err := e.configureCases(); err != nil {
		return err
	}
	if e.meta != "" {
		raw, err := e.parse(e.meta)
		if err != nil {
			return e.errorf("invalid default value: %v", err)
		}
		e.raw = raw
	}
	if e.keyed {
		return configureKeyed(e)
	}
	return nil
}

func (e *intElement) configureCases() error {
	cases, err := absorbCases(&e.element, e.caseKey, true)
	if err != nil {
		return err
	}
	e.cases = cases
	return nil
}

func (e *intElement) read(r *stream.Reader) error {
	v, err := r.ReadUint(e.size)
	if err != nil {
		return e.wrap(err)
	}
	e.raw = v
	return nil
}

func (e *intElement) write(w *stream.Writer) error {
	w.WriteUint(e.size, e.raw)
	return nil
}

func (e *intElement) Value() any {
	if e.signed {
		return e.int64()
	}
	return e.raw
}

func (e *intElement) int64() int64 {
	if e.signed {
		return signExtend(e.raw, e.size)
	}
	return int64(e.raw)
}

func (e *intElement) SetValue(v any) error {
	var raw uint64
	var err error
	switch val := v.(type) {
	case string:
		raw, err = e.parse(val)
	case uint64:
		if val > stream.MaxUint(e.size) {
			err = fmt.Errorf("value %d out of range", val)
		}
		raw = val
	default:
		n, ok := toInt64(v)
		if !ok {
			return typeError(e, v)
		}
		raw, err = e.fromInt(n)
	}
	if err != nil {
		return e.wrap(err)
	}
	return e.store(raw)
}

func (e *intElement) store(raw uint64) error {
	old := e.raw
	e.raw = raw
	if e.section != nil {
		if err := e.section.keyChanged(); err != nil {
			e.raw = old
			return err
		}
	}
	if e.outer != nil {
		e.changed(e.outer)
	} else {
		e.changed(e)
	}
	return nil
}

// Display returns the matching case label, or the number.
func (e *intElement) Display() string {
	if c, ok := e.MatchedCase(); ok {
		return c.Label
	}
	if e.hex {
		return fmt.Sprintf("$%0*X", e.size*2, e.raw)
	}
	if d, _, ok := e.RangeValue(); ok {
		return strconv.FormatInt(d, 10)
	}
	return fmt.Sprint(e.Value())
}

func (e *intElement) Cases() []Case        { return e.cases.list() }
func (e *intElement) Ranges() []CaseRange  { return append([]CaseRange(nil), e.rangesOrNil()...) }
func (e *intElement) caseTable() *caseTable { return e.cases }

func (e *intElement) rangesOrNil() []CaseRange {
	if e.cases == nil {
		return nil
	}
	return e.cases.ranges
}

func (e *intElement) MatchedCase() (Case, bool) {
	c, ok := e.cases.lookup(e.keyValue())
	if !ok {
		return Case{}, false
	}
	return *c, true
}

func (e *intElement) RangeValue() (int64, CaseRange, bool) {
	v := e.int64()
	r, ok := e.cases.rangeFor(v)
	if !ok {
		return 0, CaseRange{}, false
	}
	return r.Normalize(v), r, true
}

func (e *intElement) SetRangeValue(r CaseRange, d int64) error {
	v := r.Denormalize(d)
	if !r.Contains(v) {
		return e.wrap(fmt.Errorf("value %d outside case range %q", d, r.Label))
	}
	raw, err := e.fromInt(v)
	if err != nil {
		return e.wrap(err)
	}
	return e.store(raw)
}

func (e *intElement) keyValue() string {
	return strconv.FormatUint(e.raw, 10)
}

func (e *intElement) restoreKey(key string) {
	e.raw, _ = strconv.ParseUint(key, 10, 64)
}

func (e *intElement) attach(s *KeyedSection) { e.section = s }

// caseKey converts a case literal to the canonical key of its wire value.
func (e *intElement) caseKey(lit string) (string, error) {
	n, err := parseInt(lit)
	if err != nil {
		return "", err
	}
	raw, err := e.fromInt(n)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(raw, 10), nil
}

// parse accepts either a case label or an integer literal.
func (e *intElement) parse(s string) (uint64, error) {
	if c, ok := e.cases.byLabel(s); ok {
		return strconv.ParseUint(c.key, 10, 64)
	}
	n, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	return e.fromInt(n)
}

func (e *intElement) fromInt(n int64) (uint64, error) {
	return fitInt(n, e.size)
}

// fitInt accepts any value representable in size bytes as either signed or
// unsigned and returns its wire bits.
func fitInt(n int64, size int) (uint64, error) {
	if size < 8 {
		bits := uint(size * 8)
		lo := -(int64(1) << (bits - 1))
		hi := int64(1)<<bits - 1
		if n < lo || n > hi {
			return 0, fmt.Errorf("value %d out of range for %d-byte field", n, size)
		}
	}
	return uint64(n) & stream.MaxUint(size), nil
}

func signExtend(raw uint64, size int) int64 {
	if size >= 8 {
		return int64(raw)
	}
	shift := uint(64 - size*8)
	return int64(raw<<shift) >> shift
}
