// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package stream

import (
	"encoding/binary"
	"fmt"
)

// Reader reads from an in-memory buffer. Positions are absolute offsets
// into the buffer, also for bounded sub-readers.
type Reader struct {
	data  []byte
	pos   int
	limit int
	saved []int

	// Order is the byte order used by ReadUint and ReadInt.
	Order binary.ByteOrder
}

// NewReader creates a big-endian reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:  data,
		limit: len(data),
		Order: binary.BigEndian,
	}
}

// Position returns the absolute read position.
func (r *Reader) Position() int {
	return r.pos
}

// SetPosition moves the read position. It cannot move past the limit.
func (r *Reader) SetPosition(pos int) error {
	if pos < 0 || pos > r.limit {
		return fmt.Errorf("position %d out of range [0, %d]", pos, r.limit)
	}
	r.pos = pos
	return nil
}

// Limit returns the absolute offset reads cannot cross.
func (r *Reader) Limit() int {
	return r.limit
}

// Remaining returns the number of bytes remaining before the limit.
func (r *Reader) Remaining() int {
	return r.limit - r.pos
}

// PushPosition saves the current position.
func (r *Reader) PushPosition() {
	r.saved = append(r.saved, r.pos)
}

// PopPosition restores the most recently pushed position.
func (r *Reader) PopPosition() {
	n := len(r.saved)
	if n == 0 {
		return
	}
	r.pos = r.saved[n-1]
	r.saved = r.saved[:n-1]
}

// Read reads n bytes and advances the position.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, underflow(n, r.pos, r.Remaining())
	}
	result := r.data[r.pos : r.pos+n]
	r.pos += n
	return result, nil
}

// Peek returns the next n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, underflow(n, r.pos, r.Remaining())
	}
	return r.data[r.pos : r.pos+n], nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Read(n)
	return err
}

// ReadUint reads a size-byte unsigned integer in r.Order.
func (r *Reader) ReadUint(size int) (uint64, error) {
	data, err := r.Read(size)
	if err != nil {
		return 0, err
	}
	return DecodeUint(data, r.Order), nil
}

// ReadInt reads a size-byte two's complement integer in r.Order.
func (r *Reader) ReadInt(size int) (int64, error) {
	data, err := r.Read(size)
	if err != nil {
		return 0, err
	}
	return DecodeInt(data, r.Order), nil
}

// Bounded returns a reader over the next n bytes and advances r past them.
// The sub-reader keeps absolute positions but can never read beyond its
// own limit, regardless of how much of the buffer follows.
func (r *Reader) Bounded(n int) (*Reader, error) {
	if n < 0 || n > r.Remaining() {
		return nil, underflow(n, r.pos, r.Remaining())
	}
	sub := &Reader{
		data:  r.data,
		pos:   r.pos,
		limit: r.pos + n,
		Order: binary.BigEndian,
	}
	r.pos += n
	return sub, nil
}
