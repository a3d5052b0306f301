// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"math"

	"github.com/andrews05/ResForge-sub001/stream"
)

type listKind int

const (
	listToEnd          listKind = iota // LSTB: until the data ends
	listZeroTerminated                 // LSTZ: until a zero byte
	listCounted                        // LSTC: as many as the counter says
)

var listTags = []string{"LSTB", "LSTZ", "LSTC"}

// ListHead opens a repeated list. Its entries are sibling nodes between the
// head and the list's tail (LSTE), each owning a fresh copy of the entry
// template.
type ListHead struct {
	element
	kind       listKind
	entryDescs []Descriptor
	tail       *listTail
	counter    *Counter
	entries    int
}

func listBuilder(kind listKind) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &ListHead{element: newBase(d), kind: kind}
	}
}

func (e *ListHead) configure() error {
	body, err := e.list.subList("LSTE", listTags...)
	if err != nil {
		return err
	}
	e.tail = e.list.peek(1).(*listTail)
	e.tail.head = e
	e.entryDescs = body.descriptors()
	if len(e.entryDescs) == 0 {
		return e.errorf("list has no entry fields")
	}

	// Entries are always built from copies, so a detached trial entry
	// validates the entry template without touching the list.
	if _, err := e.buildEntry(true); err != nil {
		return err
	}

	switch e.kind {
	case listCounted:
		if e.counter == nil {
			return e.errorf("counted list has no preceding counter")
		}
		start := e.list.cursor + 1
		for i := 0; i < e.counter.count; i++ {
			if _, err := e.insertEntryAt(start + i); err != nil {
				return err
			}
		}
	case listToEnd:
		if !e.tail.isLast() || !e.list.endsWithData() {
			return &UnboundedFieldError{Tag: e.desc.Tag, Label: e.desc.Label}
		}
	}
	return nil
}

// Counter returns the linked counter of a counted list, or nil.
func (e *ListHead) Counter() *Counter {
	return e.counter
}

// Entries returns the list's current entries.
func (e *ListHead) Entries() []*ListEntry {
	start := e.start()
	out := make([]*ListEntry, 0, e.entries)
	for _, el := range e.list.elements[start : start+e.entries] {
		out = append(out, el.(*ListEntry))
	}
	return out
}

// EntryCount returns the number of entries.
func (e *ListHead) EntryCount() int {
	return e.entries
}

// AddEntry inserts a default entry at index i, keeping any counter in step.
func (e *ListHead) AddEntry(i int) (*ListEntry, error) {
	n := e.entries
	if i < 0 || i > n {
		return nil, fmt.Errorf("entry index %d out of range [0, %d]", i, n)
	}
	if err := e.checkCount(n + 1); err != nil {
		return nil, err
	}
	entry, err := e.insertEntry(i)
	if err != nil {
		return nil, err
	}
	if e.counter != nil {
		e.counter.count = n + 1
	}
	e.changed(e)
	return entry, nil
}

// RemoveEntry removes the entry at index i, keeping any counter in step.
func (e *ListHead) RemoveEntry(i int) error {
	n := e.entries
	if i < 0 || i >= n {
		return fmt.Errorf("entry index %d out of range [0, %d)", i, n)
	}
	if err := e.checkCount(n - 1); err != nil {
		return err
	}
	e.list.removeAt(e.start() + i)
	e.entries--
	if e.counter != nil {
		e.counter.count = n - 1
	}
	e.changed(e)
	return nil
}

func (e *ListHead) checkCount(n int) error {
	if e.counter != nil {
		if e.counter.size == 0 {
			return fmt.Errorf("list has a fixed count of %d", e.counter.count)
		}
		return e.counter.check(n)
	}
	return nil
}

// resize adds or removes entries at the end until there are n.
func (e *ListHead) resize(n int) error {
	start := e.start()
	for e.entries < n {
		if _, err := e.insertEntryAt(start + e.entries); err != nil {
			return err
		}
	}
	if e.entries > n {
		e.list.removeRange(start+n, start+e.entries)
		e.entries = n
	}
	return nil
}

// start returns the parent list index of the first entry.
func (e *ListHead) start() int {
	return e.list.Index(e) + 1
}

func (e *ListHead) buildEntry(configure bool) (*ListEntry, error) {
	entry := &ListEntry{element: newBase(Descriptor{Tag: "ENTR", Label: e.desc.Label}), head: e}
	descs := make([]Descriptor, len(e.entryDescs))
	copy(descs, e.entryDescs)
	sub, err := newList(e.list.owner, entry, descs)
	if err != nil {
		return nil, err
	}
	entry.sub = sub
	if configure {
		if err := sub.configure(); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (e *ListHead) insertEntry(i int) (*ListEntry, error) {
	return e.insertEntryAt(e.start() + i)
}

// insertEntryAt places a new entry at parent list index pos and configures
// it in place, so its fields can see the enclosing lists. The parent cursor
// sits just before the entry while it configures.
func (e *ListHead) insertEntryAt(pos int) (*ListEntry, error) {
	entry, err := e.buildEntry(false)
	if err != nil {
		return nil, err
	}
	e.list.insertAt(pos, entry)
	cursor := e.list.cursor
	e.list.cursor = pos - 1
	err = entry.sub.configure()
	e.list.cursor = cursor
	if err != nil {
		e.list.removeAt(pos)
		return nil, err
	}
	e.entries++
	return entry, nil
}

func (e *ListHead) clearEntries() {
	if e.entries == 0 {
		return
	}
	start := e.start()
	e.list.removeRange(start, start+e.entries)
	e.entries = 0
}

// maybeAppend adds the next entry after the cursor if the data calls for
// one. It runs after the head and after every entry is read. Uncounted
// entries consume at least one byte each, so the data bounds their number.
func (e *ListHead) maybeAppend(r *stream.Reader) error {
	n := e.entries
	more := false
	switch e.kind {
	case listCounted:
		more = n < e.counter.count
	case listZeroTerminated:
		b, err := r.Peek(1)
		more = err == nil && b[0] != 0
	case listToEnd:
		more = r.Remaining() > 0
	}
	if !more {
		return nil
	}
	_, err := e.insertEntryAt(e.list.cursor + 1)
	return err
}

func (e *ListHead) read(r *stream.Reader) error {
	e.clearEntries()
	return e.maybeAppend(r)
}

func (e *ListHead) write(w *stream.Writer) error { return nil }

// pad appends default entries until a counted list matches its counter.
func (e *ListHead) pad() error {
	if e.kind != listCounted {
		return nil
	}
	return e.resize(e.counter.count)
}

// ListEntry is one instance of a list's entry template.
type ListEntry struct {
	element
	head *ListHead
	sub  *ElementList
}

// Head returns the list the entry belongs to.
func (e *ListEntry) Head() *ListHead {
	return e.head
}

func (e *ListEntry) Children() []*ElementList {
	return []*ElementList{e.sub}
}

func (e *ListEntry) read(r *stream.Reader) error {
	start := r.Position()
	if err := e.sub.read(r); err != nil {
		return err
	}
	if r.Position() == start && e.head.kind != listCounted {
		return e.mismatchf(r, "list entry consumed no data")
	}
	return e.head.maybeAppend(r)
}

func (e *ListEntry) write(w *stream.Writer) error {
	return e.sub.write(w)
}

func (e *ListEntry) pad() error {
	return e.sub.pad()
}

// listTail closes a list. A zero-terminated list's terminator byte belongs
// to the tail.
type listTail struct {
	element
	head *ListHead
}

func newListTail(d Descriptor) *listTail {
	e := &listTail{element: newBase(d)}
	e.hidden = true
	return e
}

func (e *listTail) configure() error {
	if e.head == nil {
		return e.errorf("LSTE has no matching list")
	}
	return nil
}

func (e *listTail) read(r *stream.Reader) error {
	if e.head.kind != listZeroTerminated {
		return nil
	}
	return e.wrap(r.Skip(1))
}

func (e *listTail) write(w *stream.Writer) error {
	if e.head.kind == listZeroTerminated {
		w.WriteZeros(1)
	}
	return nil
}

// Counter holds the entry count of the counted list that follows it. The
// zero-based forms store count-1; FCNT has a fixed count and no data.
type Counter struct {
	element
	size      int
	zeroBased bool
	count     int
	head      *ListHead
}

func counterBuilder(size int, zeroBased bool) func(Descriptor) Element {
	return func(d Descriptor) Element {
		return &Counter{element: newBase(d), size: size, zeroBased: zeroBased}
	}
}

func (e *Counter) configure() error {
	if e.meta != "" || e.size == 0 {
		n, err := parseInt(e.meta)
		if err != nil {
			return e.errorf("invalid count %q", e.meta)
		}
		if err := e.check(int(n)); err != nil {
			return e.errorf("%v", err)
		}
		e.count = int(n)
	}
	head, ok := e.list.next("LSTC").(*ListHead)
	if !ok {
		return e.errorf("counter has no following counted list")
	}
	if head.counter != nil {
		return e.errorf("counted list already has a counter")
	}
	head.counter = e
	e.head = head
	return nil
}

// maxCount is the largest count the counter's wire width can hold.
func (e *Counter) maxCount() uint64 {
	limit := uint64(math.MaxInt)
	if e.size > 0 && stream.MaxUint(e.size) < limit {
		limit = stream.MaxUint(e.size)
	}
	return limit
}

func (e *Counter) check(n int) error {
	if n < 0 || uint64(n) > e.maxCount() {
		return fmt.Errorf("count %d out of range [0, %d]", n, e.maxCount())
	}
	return nil
}

func (e *Counter) read(r *stream.Reader) error {
	if e.size == 0 {
		return nil
	}
	raw, err := r.ReadUint(e.size)
	if err != nil {
		return e.wrap(err)
	}
	if e.zeroBased {
		raw = (raw + 1) & stream.MaxUint(e.size)
	}
	if raw > e.maxCount() {
		return e.mismatchf(r, "count %d exceeds %d", raw, e.maxCount())
	}
	e.count = int(raw)
	return nil
}

func (e *Counter) write(w *stream.Writer) error {
	if e.size == 0 {
		return nil
	}
	raw := uint64(e.count)
	if e.zeroBased {
		raw = (raw - 1) & stream.MaxUint(e.size)
	}
	w.WriteUint(e.size, raw)
	return nil
}

// Value returns the entry count.
func (e *Counter) Value() any { return e.count }

// SetValue resizes the linked list.
func (e *Counter) SetValue(v any) error {
	n, ok := toInt64(v)
	if !ok {
		return typeError(e, v)
	}
	if e.size == 0 {
		return e.wrap(fmt.Errorf("fixed count cannot be changed"))
	}
	if err := e.check(int(n)); err != nil {
		return e.wrap(err)
	}
	if err := e.head.resize(int(n)); err != nil {
		return err
	}
	e.count = int(n)
	e.changed(e)
	return nil
}
