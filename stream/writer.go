// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package stream

import (
	"encoding/binary"
	"fmt"
)

// Writer appends to a growable buffer.
type Writer struct {
	buf []byte

	// Order is the byte order used by WriteUint and PutUintAt.
	Order binary.ByteOrder
}

// NewWriter creates a big-endian writer.
func NewWriter() *Writer {
	return &Writer{
		buf:   make([]byte, 0, 64),
		Order: binary.BigEndian,
	}
}

// Write appends bytes to the buffer.
func (w *Writer) Write(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteUint appends the low size bytes of val in w.Order.
func (w *Writer) WriteUint(size int, val uint64) {
	w.Write(EncodeUint(val, size, w.Order))
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// BytesWritten returns the number of bytes written so far.
func (w *Writer) BytesWritten() int {
	return len(w.buf)
}

// WriteAt overwrites already written bytes starting at off.
func (w *Writer) WriteAt(data []byte, off int) error {
	if off < 0 || off+len(data) > len(w.buf) {
		return fmt.Errorf("backpatch of %d bytes at offset %d outside written range %d", len(data), off, len(w.buf))
	}
	copy(w.buf[off:], data)
	return nil
}

// PutUintAt backpatches a size-byte unsigned integer at off in w.Order.
func (w *Writer) PutUintAt(size int, val uint64, off int) error {
	return w.WriteAt(EncodeUint(val, size, w.Order), off)
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}
