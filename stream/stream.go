// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package stream provides position-addressable access to in-memory byte
// buffers for the template interpreter.
//
// A Reader is seekable, supports save/restore of its position and can hand
// out strictly bounded sub-readers that share the parent's buffer and
// absolute offsets. A Writer appends to a growable buffer and supports
// backpatching bytes at an absolute offset once a value is known.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInsufficientData is returned (wrapped) when a read needs more bytes than
// remain before the reader's limit.
var ErrInsufficientData = errors.New("insufficient data")

// DecodeUint decodes an unsigned integer of len(data) bytes (1 to 8).
func DecodeUint(data []byte, order binary.ByteOrder) uint64 {
	var val uint64
	if order == binary.LittleEndian {
		for i := len(data) - 1; i >= 0; i-- {
			val = (val << 8) | uint64(data[i])
		}
	} else {
		for _, b := range data {
			val = (val << 8) | uint64(b)
		}
	}
	return val
}

// DecodeInt decodes a two's complement integer of len(data) bytes.
func DecodeInt(data []byte, order binary.ByteOrder) int64 {
	uval := DecodeUint(data, order)
	bits := uint(len(data) * 8)
	if bits >= 64 {
		return int64(uval)
	}
	signBit := uint64(1) << (bits - 1)
	if uval&signBit != 0 {
		return int64(uval | ^uint64(0)<<bits)
	}
	return int64(uval)
}

// EncodeUint encodes the low size bytes of val.
func EncodeUint(val uint64, size int, order binary.ByteOrder) []byte {
	buf := make([]byte, size)
	if order == binary.LittleEndian {
		for i := 0; i < size; i++ {
			buf[i] = byte(val >> (8 * i))
		}
	} else {
		for i := size - 1; i >= 0; i-- {
			buf[i] = byte(val)
			val >>= 8
		}
	}
	return buf
}

// MaxUint returns the largest unsigned value representable in size bytes.
func MaxUint(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(uint(size)*8) - 1
}

func underflow(n, pos, remaining int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, but only %d remaining",
		ErrInsufficientData, n, pos, remaining)
}
