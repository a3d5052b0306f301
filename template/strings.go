// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/andrews05/ResForge-sub001/stream"
)

// padding is the rule applied after a string's bytes, measured over the
// total consumed length including any terminator or length prefix.
type padding int

const (
	padNone padding = iota
	padEven
	padOdd
)

func (p padding) extra(total int) int {
	switch p {
	case padEven:
		return total % 2
	case padOdd:
		return (total + 1) % 2
	}
	return 0
}

// cstrElement is a MacRoman string that is null terminated (CSTR, ECST,
// OCST), fixed length (Cnnn with terminator, Tnnn without) or runs to the
// end of the data (TXTS).
type cstrElement struct {
	element
	pad        padding
	fixed      int
	terminated bool
	value      string
}

func cstrBuilder(pad padding, fixed int, terminated bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &cstrElement{element: newBase(d), pad: pad, fixed: fixed, terminated: terminated}
	}
}

// MaxLength returns the longest encodable string in bytes, or -1.
func (e *cstrElement) MaxLength() int {
	switch {
	case e.fixed > 0 && e.terminated:
		return e.fixed - 1
	case e.fixed > 0:
		return e.fixed
	}
	return -1
}

func (e *cstrElement) configure() error {
	e.value = e.meta
	if !e.terminated && e.fixed == 0 {
		return e.requireEnd()
	}
	return nil
}

func (e *cstrElement) read(r *stream.Reader) error {
	switch {
	case e.fixed > 0:
		data, err := r.Read(e.fixed)
		if err != nil {
			return e.wrap(err)
		}
		if e.terminated {
			data = untilZero(data)
		} else {
			data = bytes.TrimRight(data, "\x00")
		}
		e.value = decodeMacRoman(data)
		return nil
	case !e.terminated:
		data, _ := r.Read(r.Remaining())
		e.value = decodeMacRoman(data)
		return nil
	}

	rest, _ := r.Peek(r.Remaining())
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		e.value = decodeMacRoman(rest)
		_ = r.Skip(len(rest))
		return e.wrap(fmt.Errorf("%w: missing string terminator", ErrInsufficientData))
	}
	e.value = decodeMacRoman(rest[:i])
	if err := r.Skip(i + 1 + e.pad.extra(i+1)); err != nil {
		_ = r.Skip(i + 1)
		return e.wrap(err)
	}
	return nil
}

func (e *cstrElement) write(w *stream.Writer) error {
	b := encodeMacRoman(e.value)
	if limit := e.MaxLength(); limit >= 0 && len(b) > limit {
		b = b[:limit]
	}
	switch {
	case e.fixed > 0:
		w.Write(b)
		w.WriteZeros(e.fixed - len(b))
	case !e.terminated:
		w.Write(b)
	default:
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		w.Write(b)
		w.WriteZeros(1 + e.pad.extra(len(b)+1))
	}
	return nil
}

func (e *cstrElement) Value() any { return e.value }

func (e *cstrElement) SetValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return typeError(e, v)
	}
	e.value = s
	e.changed(e)
	return nil
}

// pstrElement is a MacRoman string preceded by an unsigned length of 1, 2,
// 4 or 8 bytes. An inclusive prefix counts its own width. A fixed string
// (Pnnn) always occupies fixed bytes including its length byte.
type pstrElement struct {
	element
	prefix    int
	pad       padding
	inclusive bool
	fixed     int
	value     string
}

func pstrBuilder(prefix int, pad padding, inclusive bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &pstrElement{element: newBase(d), prefix: prefix, pad: pad, inclusive: inclusive}
	}
}

// MaxLength returns the longest encodable string in bytes.
func (e *pstrElement) MaxLength() int {
	if e.fixed > 0 {
		return e.fixed - 1
	}
	limit := stream.MaxUint(e.prefix)
	if e.inclusive {
		limit -= uint64(e.prefix)
	}
	if limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(limit)
}

func (e *pstrElement) configure() error {
	e.value = e.meta
	return nil
}

func (e *pstrElement) read(r *stream.Reader) error {
	n, err := r.ReadUint(e.prefix)
	if err != nil {
		return e.wrap(err)
	}
	if e.inclusive {
		if n < uint64(e.prefix) {
			return e.mismatchf(r, "length %d is smaller than its own %d-byte prefix", n, e.prefix)
		}
		n -= uint64(e.prefix)
	}
	if e.fixed > 0 && n > uint64(e.fixed-1) {
		n = uint64(e.fixed - 1)
	}
	// Asking for one byte more than remains reports the shortfall without
	// converting an oversized length to int.
	if n > uint64(r.Remaining()) {
		n = uint64(r.Remaining()) + 1
	}
	data, err := r.Read(int(n))
	if err != nil {
		return e.wrap(err)
	}
	e.value = decodeMacRoman(data)

	skip := e.pad.extra(e.prefix + len(data))
	if e.fixed > 0 {
		skip = e.fixed - 1 - len(data)
	}
	return e.wrap(r.Skip(skip))
}

func (e *pstrElement) write(w *stream.Writer) error {
	b := encodeMacRoman(e.value)
	if limit := e.MaxLength(); len(b) > limit {
		b = b[:limit]
	}
	n := len(b)
	if e.inclusive {
		n += e.prefix
	}
	w.WriteUint(e.prefix, uint64(n))
	w.Write(b)
	if e.fixed > 0 {
		w.WriteZeros(e.fixed - 1 - len(b))
	} else {
		w.WriteZeros(e.pad.extra(e.prefix + len(b)))
	}
	return nil
}

func (e *pstrElement) Value() any { return e.value }

func (e *pstrElement) SetValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return typeError(e, v)
	}
	e.value = s
	e.changed(e)
	return nil
}

// charElement is a single MacRoman character (CHAR) or a four character
// type code (TNAM). The key forms select keyed sections.
type charElement struct {
	element
	size    int
	keyed   bool
	raw     []byte
	cases   *caseTable
	section *KeyedSection
}

func charBuilder(size int, keyed bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &charElement{element: newBase(d), size: size, keyed: keyed, raw: make([]byte, size)}
	}
}

func (e *charElement) configure() error {
	cases, err := absorbCases(&e.element, e.caseKey, false)
	if err != nil {
		return err
	}
	e.cases = cases
	if e.meta != "" {
		b, err := e.parse(e.meta)
		if err != nil {
			return e.errorf("invalid default value: %v", err)
		}
		e.raw = b
	}
	if e.keyed {
		return configureKeyed(e)
	}
	return nil
}

func (e *charElement) read(r *stream.Reader) error {
	data, err := r.Read(e.size)
	if err != nil {
		return e.wrap(err)
	}
	e.raw = append(e.raw[:0], data...)
	return nil
}

func (e *charElement) write(w *stream.Writer) error {
	w.Write(e.raw)
	return nil
}

func (e *charElement) Value() any { return decodeMacRoman(e.raw) }

func (e *charElement) SetValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return typeError(e, v)
	}
	b, err := e.parse(s)
	if err != nil {
		return e.wrap(err)
	}
	old := e.raw
	e.raw = b
	if e.section != nil {
		if err := e.section.keyChanged(); err != nil {
			e.raw = old
			return err
		}
	}
	e.changed(e)
	return nil
}

func (e *charElement) Display() string {
	if c, ok := e.MatchedCase(); ok {
		return c.Label
	}
	return "'" + decodeMacRoman(e.raw) + "'"
}

func (e *charElement) Cases() []Case         { return e.cases.list() }
func (e *charElement) Ranges() []CaseRange   { return nil }
func (e *charElement) caseTable() *caseTable { return e.cases }

func (e *charElement) MatchedCase() (Case, bool) {
	c, ok := e.cases.lookup(e.keyValue())
	if !ok {
		return Case{}, false
	}
	return *c, true
}

func (e *charElement) keyValue() string       { return string(e.raw) }
func (e *charElement) restoreKey(key string)  { e.raw = []byte(key) }
func (e *charElement) attach(s *KeyedSection) { e.section = s }

func (e *charElement) caseKey(lit string) (string, error) {
	b, err := e.literal(lit)
	return string(b), err
}

// parse accepts a case label or a literal, optionally single quoted.
func (e *charElement) parse(s string) ([]byte, error) {
	if c, ok := e.cases.byLabel(s); ok {
		return []byte(c.key), nil
	}
	return e.literal(s)
}

func (e *charElement) literal(s string) ([]byte, error) {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		s = s[1 : len(s)-1]
	}
	b := encodeMacRoman(s)
	if len(b) > e.size {
		return nil, fmt.Errorf("%q is longer than %d bytes", s, e.size)
	}
	fill := byte(' ')
	if e.size == 1 {
		fill = 0
	}
	for len(b) < e.size {
		b = append(b, fill)
	}
	return b, nil
}

func untilZero(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
