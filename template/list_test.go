// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func rawList(t *testing.T, tags ...string) *ElementList {
	t.Helper()
	descs := make([]Descriptor, len(tags))
	for i, tag := range tags {
		descs[i] = Descriptor{Tag: tag}
	}
	l, err := newList(nil, nil, descs)
	if err != nil {
		t.Fatalf("newList() error = %v", err)
	}
	return l
}

func tagsOf(l *ElementList) []string {
	out := make([]string, l.Len())
	for i, e := range l.Elements() {
		out[i] = e.Tag()
	}
	return out
}

func TestListPop(t *testing.T) {
	l := rawList(t, "UBYT", "CASE", "CASE", "UWRD")

	td.Cmp(t, l.peek(3).Tag(), "UWRD")
	td.CmpNil(t, l.peek(4))
	td.CmpNil(t, l.peek(-1))

	td.Cmp(t, l.pop("CASE").Tag(), "CASE")
	td.Cmp(t, tagsOf(l), []string{"UBYT", "CASE", "UWRD"})
	td.CmpNil(t, l.pop("UWRD"))
	td.Cmp(t, l.pop().Tag(), "CASE")
	td.CmpNil(t, l.pop("CASE"))
	td.Cmp(t, tagsOf(l), []string{"UBYT", "UWRD"})
}

func TestListInsertRemove(t *testing.T) {
	l := rawList(t, "UBYT", "UWRD", "ULNG")
	l.cursor = 2

	td.Cmp(t, l.removeAt(0).Tag(), "UBYT")
	td.Cmp(t, l.cursor, 1)

	e, err := newElement(Descriptor{Tag: "DBYT"})
	td.CmpNoError(t, err)
	l.insert(e)
	td.Cmp(t, tagsOf(l), []string{"UWRD", "ULNG", "DBYT"})
	if e.List() != l {
		t.Error("inserted element not owned by the list")
	}
	td.Cmp(t, l.Index(e), 2)
	td.Cmp(t, l.Index(nil), -1)
}

func TestSubListNesting(t *testing.T) {
	l := rawList(t, "WSIZ", "UBYT", "WSIZ", "UWRD", "SKPE", "SKPE", "ULNG")

	sub, err := l.subList("SKPE", sizedTags...)
	td.CmpNoError(t, err)
	td.Cmp(t, tagsOf(sub), []string{"UBYT", "WSIZ", "UWRD", "SKPE"})
	td.Cmp(t, tagsOf(l), []string{"WSIZ", "SKPE", "ULNG"})
	if sub.Parent() != l.At(0) {
		t.Error("sub-list parent is not the element at the cursor")
	}
	for _, e := range sub.Elements() {
		if e.List() != sub {
			t.Errorf("%s not moved into the sub-list", e.Tag())
		}
	}

	if _, err := rawList(t, "WSIZ", "UBYT").subList("SKPE", sizedTags...); err == nil {
		t.Error("subList() without a terminator succeeded")
	}
}

func TestListSearchOutward(t *testing.T) {
	l := rawList(t, "TNAM", "WSIZ", "UBYT", "SKPE", "LSTC")
	l.cursor = 1
	sub, err := l.subList("SKPE", sizedTags...)
	td.CmpNoError(t, err)

	sub.cursor = 0
	if sub.previous("TNAM") != l.At(0) {
		t.Error("previous() did not find TNAM in the enclosing list")
	}
	if sub.next("LSTC") != l.At(3) {
		t.Error("next() did not find LSTC in the enclosing list")
	}
	td.CmpNil(t, sub.next("DLNG"))
	td.CmpNil(t, l.previous("LSTC"))
}

func TestEndsWithData(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		ok     bool
	}{
		{"top level", []string{"UBYT A", "HEXD Rest"}, true},
		{"not last", []string{"HEXD Rest", "UBYT A"}, false},
		{"sized section", []string{"WSIZ S", "HEXD Rest", "SKPE", "UBYT A"}, true},
		{"list entry", []string{"OCNT N", "LSTC L", "HEXD Rest", "LSTE"}, false},
		{"last keyed section", []string{"KUBT K", "CASE A=1", "KEYB A", "TXTS Rest", "KEYE"}, true},
		{"keyed section followed by data", []string{"KUBT K", "CASE A=1", "KEYB A", "TXTS Rest", "KEYE", "UBYT A"}, false},
		{"keyed section in sized section", []string{"WSIZ S", "KUBT K", "CASE A=1", "KEYB A", "TXTS Rest", "KEYE", "SKPE", "UBYT A"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStructure(tmpl(t, tt.fields...), Options{})
			if tt.ok {
				td.CmpNoError(t, s.Err())
				return
			}
			var ue *UnboundedFieldError
			if !errors.As(s.Err(), &ue) {
				t.Errorf("Err() = %v, want UnboundedFieldError", s.Err())
			}
		})
	}
}

func TestWalk(t *testing.T) {
	tp := tmpl(t, "UBYT A", "WSIZ S", "UBYT B", "WSIZ T", "UBYT C", "SKPE", "SKPE", "UBYT D")
	s := build(t, tp)

	type visit struct {
		Label string
		Depth int
	}
	var got []visit
	td.CmpNoError(t, Walk(s.Root(), func(e Element, depth int) error {
		got = append(got, visit{e.Label(), depth})
		return nil
	}))
	td.Cmp(t, got, []visit{{"A", 0}, {"S", 0}, {"B", 1}, {"T", 1}, {"C", 2}, {"D", 0}})

	got = nil
	td.CmpNoError(t, Walk(s.Root(), func(e Element, depth int) error {
		got = append(got, visit{e.Label(), depth})
		if e.Label() == "T" {
			return SkipChildren
		}
		return nil
	}))
	td.Cmp(t, got, []visit{{"A", 0}, {"S", 0}, {"B", 1}, {"T", 1}, {"D", 0}})

	stop := errors.New("stop")
	err := Walk(s.Root(), func(e Element, depth int) error {
		if e.Label() == "B" {
			return stop
		}
		return nil
	})
	td.Cmp(t, err, stop)
}
