// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"strings"
	"testing"
)

// tmpl builds a template from "TAG label" strings.
func tmpl(t testing.TB, fields ...string) *Template {
	t.Helper()
	descs := make([]Descriptor, 0, len(fields))
	for _, f := range fields {
		tag, label, _ := strings.Cut(f, " ")
		descs = append(descs, Descriptor{Tag: tag, Label: label})
	}
	tp, err := NewTemplate("test", descs)
	if err != nil {
		t.Fatalf("NewTemplate() error = %v", err)
	}
	return tp
}

// build configures a structure and fails the test on a template error.
func build(t testing.TB, tp *Template) *Structure {
	t.Helper()
	s := NewStructure(tp, Options{})
	if err := s.Err(); err != nil {
		t.Fatalf("NewStructure() error = %v", err)
	}
	return s
}

func load(t testing.TB, tp *Template, data []byte) *Structure {
	t.Helper()
	s := build(t, tp)
	if err := s.Load(data); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func encode(t testing.TB, s *Structure) []byte {
	t.Helper()
	out, err := s.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	return out
}

// find returns the first element with the given display label.
func find(t testing.TB, s *Structure, label string) Element {
	t.Helper()
	var found Element
	_ = Walk(s.Root(), func(e Element, depth int) error {
		if found == nil && e.Label() == label {
			found = e
		}
		return nil
	})
	if found == nil {
		t.Fatalf("no element labelled %q", label)
	}
	return found
}

func valuer(t testing.TB, s *Structure, label string) Valuer {
	t.Helper()
	v, ok := find(t, s, label).(Valuer)
	if !ok {
		t.Fatalf("element %q holds no value", label)
	}
	return v
}
