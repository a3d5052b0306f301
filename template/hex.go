// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"encoding/hex"
	"strings"

	"github.com/andrews05/ResForge-sub001/stream"
)

// hexElement is a raw byte blob of a fixed size (Hnnn), or of all
// remaining data when size is zero (HEXD).
type hexElement struct {
	element
	size int
	data []byte
}

func (e *hexElement) configure() error {
	if e.meta != "" {
		b, err := parseHex(e.meta)
		if err != nil {
			return e.errorf("invalid default value: %v", err)
		}
		e.data = b
	}
	if e.size > 0 {
		e.data = fitBytes(e.data, e.size)
		return nil
	}
	return e.requireEnd()
}

func (e *hexElement) read(r *stream.Reader) error {
	n := e.size
	if n == 0 {
		n = r.Remaining()
	}
	data, err := r.Read(n)
	if err != nil {
		return e.wrap(err)
	}
	e.data = append([]byte(nil), data...)
	return nil
}

func (e *hexElement) write(w *stream.Writer) error {
	w.Write(e.data)
	return nil
}

func (e *hexElement) Value() any {
	return append([]byte(nil), e.data...)
}

// SetValue accepts bytes or a hex string. Fixed-size blobs are truncated
// or zero extended.
func (e *hexElement) SetValue(v any) error {
	var b []byte
	switch val := v.(type) {
	case []byte:
		b = append([]byte(nil), val...)
	case string:
		var err error
		if b, err = parseHex(val); err != nil {
			return e.wrap(err)
		}
	default:
		return typeError(e, v)
	}
	if e.size > 0 {
		b = fitBytes(b, e.size)
	}
	e.data = b
	e.changed(e)
	return nil
}

func (e *hexElement) Display() string {
	return hex.EncodeToString(e.data)
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "$")
	return hex.DecodeString(strings.ReplaceAll(s, " ", ""))
}

func fitBytes(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size]
	}
	return append(b, make([]byte, size-len(b))...)
}

// fillElement skips bytes on read and writes zeros.
type fillElement struct {
	element
	size int
}

func fillBuilder(size int) func(Descriptor) Element {
	return func(d Descriptor) Element {
		e := &fillElement{element: newBase(d), size: size}
		e.hidden = true
		return e
	}
}

func (e *fillElement) read(r *stream.Reader) error {
	return e.wrap(r.Skip(e.size))
}

func (e *fillElement) write(w *stream.Writer) error {
	w.WriteZeros(e.size)
	return nil
}
