// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"time"

	"github.com/andrews05/ResForge-sub001/stream"
)

// macEpoch is the origin of classic Mac OS timestamps.
var macEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateElement is an unsigned 32-bit count of seconds since 1904-01-01 UTC.
type dateElement struct {
	element
	secs uint32
}

func (e *dateElement) configure() error {
	if e.meta == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, e.meta)
	if err != nil {
		return e.errorf("invalid default date %q", e.meta)
	}
	return e.set(t)
}

func (e *dateElement) read(r *stream.Reader) error {
	v, err := r.ReadUint(4)
	if err != nil {
		return e.wrap(err)
	}
	e.secs = uint32(v)
	return nil
}

func (e *dateElement) write(w *stream.Writer) error {
	w.WriteUint(4, uint64(e.secs))
	return nil
}

// Value returns the time in UTC.
func (e *dateElement) Value() any {
	return macEpoch.Add(time.Duration(e.secs) * time.Second)
}

func (e *dateElement) SetValue(v any) error {
	var t time.Time
	switch val := v.(type) {
	case time.Time:
		t = val
	case string:
		var err error
		if t, err = time.Parse(time.RFC3339, val); err != nil {
			return e.wrap(err)
		}
	default:
		return typeError(e, v)
	}
	if err := e.set(t); err != nil {
		return e.wrap(err)
	}
	e.changed(e)
	return nil
}

func (e *dateElement) set(t time.Time) error {
	secs := t.Unix() - macEpoch.Unix()
	if secs < 0 || secs > int64(^uint32(0)) {
		return fmt.Errorf("date %s outside the representable range", t.Format(time.RFC3339))
	}
	e.secs = uint32(secs)
	return nil
}

func (e *dateElement) Display() string {
	return e.Value().(time.Time).Format(time.RFC3339)
}
