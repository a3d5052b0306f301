// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"

	"github.com/andrews05/ResForge-sub001/stream"
)

var sizedTags = []string{"BSIZ", "WSIZ", "LSIZ", "QSIZ", "BSKP", "WSKP", "LSKP", "QSKP"}

// SizedSection is a length prefix followed by a child list that can never
// read past the declared length. An inclusive prefix (xSKP) counts its own
// width. The prefix is recomputed on write.
type SizedSection struct {
	element
	prefix    int
	inclusive bool
	child     *ElementList
}

func sizedBuilder(prefix int, inclusive bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &SizedSection{element: newBase(d), prefix: prefix, inclusive: inclusive}
	}
}

// Children returns the bounded child list.
func (e *SizedSection) Children() []*ElementList {
	return []*ElementList{e.child}
}

func (e *SizedSection) configure() error {
	child, err := e.list.subList("SKPE", sizedTags...)
	if err != nil {
		return err
	}
	e.list.pop("SKPE")
	e.child = child
	return child.configure()
}

func (e *SizedSection) read(r *stream.Reader) error {
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
	declared := n
	short := n > uint64(r.Remaining())
	if short {
		n = uint64(r.Remaining())
	}
	sub, err := r.Bounded(int(n))
	if err != nil {
		return e.wrap(err)
	}
	if err := e.child.read(sub); err != nil {
		return err
	}
	if short {
		return e.wrap(fmt.Errorf("%w: section declares %d bytes, only %d present", ErrInsufficientData, declared, n))
	}
	if left := sub.Remaining(); left > 0 {
		e.logf("ignoring %d unread bytes at end of section", left)
		e.markDirty()
	}
	return nil
}

func (e *SizedSection) write(w *stream.Writer) error {
	at := w.BytesWritten()
	w.WriteZeros(e.prefix)
	if err := e.child.writeScoped(w); err != nil {
		return err
	}
	n := uint64(w.BytesWritten() - at - e.prefix)
	if e.inclusive {
		n += uint64(e.prefix)
	}
	if limit := stream.MaxUint(e.prefix); n > limit {
		e.logf("section length %d clamped to %d", n, limit)
		n = limit
	}
	return e.wrap(w.PutUintAt(e.prefix, n, at))
}

func (e *SizedSection) pad() error {
	return e.child.pad()
}
