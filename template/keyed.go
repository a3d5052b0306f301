// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"strings"

	"github.com/andrews05/ResForge-sub001/stream"
)

// keyField is a case-carrying field whose value selects a keyed section.
type keyField interface {
	Valuer
	keyValue() string
	restoreKey(key string)
	caseKey(lit string) (string, error)
	caseTable() *caseTable
	attach(s *KeyedSection)
}

type variant struct {
	label    string
	keys     []string
	wildcard bool
	descs    []Descriptor
}

// KeyedSection is the active variant of a tagged union. It follows its key
// field and holds exactly one variant's fields at a time.
type KeyedSection struct {
	element
	key      keyField
	variants []*variant
	byKey    map[string]*variant
	wildcard *variant
	active   *variant
	sub      *ElementList
	offset   int // structure offset of the variant body in the last pass
}

// configureKeyed consumes the KEYB ... KEYE bodies following a key field
// and inserts the section node after it.
func configureKeyed(k keyField) error {
	n := k.node()
	l := n.list
	cases := k.caseTable()
	if cases.cases.Len() == 0 {
		return n.errorf("key field has no cases")
	}

	var variants []*variant
	for {
		b := l.pop("KEYB")
		if b == nil {
			break
		}
		bn := b.node()
		body, err := l.subList("KEYE", "KEYB")
		if err != nil {
			return bn.errorf("missing closing KEYE")
		}
		l.pop("KEYE")

		v := &variant{label: bn.label, descs: body.descriptors()}
		sel := bn.meta
		if sel == "" {
			sel = bn.label
		}
		for _, s := range strings.Split(sel, ",") {
			s = strings.TrimSpace(s)
			if s == "*" {
				v.wildcard = true
				continue
			}
			key, ok := resolveSelector(k, s)
			if !ok {
				return bn.errorf("keyed section selects unknown case %q", s)
			}
			v.keys = append(v.keys, key)
		}
		variants = append(variants, v)
	}
	if len(variants) == 0 {
		return n.errorf("key field has no keyed sections")
	}

	s := &KeyedSection{
		element:  newBase(Descriptor{Tag: "KSEC", Label: n.desc.Label}),
		key:      k,
		variants: variants,
		byKey:    make(map[string]*variant),
	}
	for _, v := range variants {
		if v.wildcard {
			if s.wildcard != nil {
				return n.errorf("more than one wildcard keyed section")
			}
			s.wildcard = v
		}
		for _, key := range v.keys {
			if s.byKey[key] != nil {
				return n.errorf("case %s selects more than one keyed section", key)
			}
			s.byKey[key] = v
		}
	}
	if s.wildcard == nil {
		for _, c := range cases.list() {
			if s.byKey[c.key] == nil {
				return n.errorf("case %q has no keyed section", c.Label)
			}
		}
	}

	k.attach(s)
	l.insert(s)
	return nil
}

func resolveSelector(k keyField, s string) (string, bool) {
	cases := k.caseTable()
	if c, ok := cases.byLabel(s); ok {
		return c.key, true
	}
	key, err := k.caseKey(s)
	if err != nil {
		return "", false
	}
	_, ok := cases.lookup(key)
	return key, ok
}

// Key returns the field selecting the variant.
func (e *KeyedSection) Key() Valuer {
	return e.key
}

// Variant returns the label of the active variant.
func (e *KeyedSection) Variant() string {
	if e.active == nil {
		return ""
	}
	return e.active.label
}

func (e *KeyedSection) Display() string {
	return e.Variant()
}

func (e *KeyedSection) Children() []*ElementList {
	return []*ElementList{e.sub}
}

func (e *KeyedSection) variantFor(key string) *variant {
	if v := e.byKey[key]; v != nil {
		return v
	}
	return e.wildcard
}

// configure activates the variant for the key's default value. Without a
// match or wildcard the first variant is used and the key follows it.
func (e *KeyedSection) configure() error {
	v := e.variantFor(e.key.keyValue())
	if v == nil {
		v = e.variants[0]
		e.key.restoreKey(v.keys[0])
	}
	return e.activate(v)
}

func (e *KeyedSection) build(v *variant) (*ElementList, error) {
	descs := make([]Descriptor, len(v.descs))
	copy(descs, v.descs)
	sub, err := newList(e.list.owner, e, descs)
	if err != nil {
		return nil, err
	}
	return sub, sub.configure()
}

func (e *KeyedSection) activate(v *variant) error {
	sub, err := e.build(v)
	if err != nil {
		return err
	}
	e.sub, e.active, e.label = sub, v, v.label
	return nil
}

func (e *KeyedSection) read(r *stream.Reader) error {
	v := e.variantFor(e.key.keyValue())
	if v == nil {
		return e.mismatchf(r, "no keyed section for key value %v", e.key.Value())
	}
	if v != e.active {
		if err := e.activate(v); err != nil {
			return err
		}
	}
	e.offset = e.relative(r.Position())
	return e.sub.readScoped(r)
}

func (e *KeyedSection) write(w *stream.Writer) error {
	e.offset = e.relative(w.BytesWritten())
	return e.sub.writeScoped(w)
}

func (e *KeyedSection) pad() error {
	return e.sub.pad()
}

// keyChanged swaps in the variant for the key's new value. When the old
// and new variants encode to the same length the old bytes are read into
// the new variant; otherwise, or if that read fails, it keeps its defaults.
func (e *KeyedSection) keyChanged() error {
	v := e.variantFor(e.key.keyValue())
	if v == nil {
		return fmt.Errorf("no keyed section for key value %v", e.key.Value())
	}
	if v == e.active {
		return nil
	}
	next, err := e.build(v)
	if err != nil {
		return err
	}
	// Encoding the whole structure places the body at its current offset.
	if s := e.structure(); s != nil {
		if _, err := s.Bytes(); err != nil {
			e.logf("cannot locate section: %v", err)
		}
	}
	if old, err := e.sub.encodedAt(e.offset); err == nil {
		if fresh, err := next.encodedAt(e.offset); err == nil && len(fresh) == len(old) {
			candidate, err := e.build(v)
			if err == nil {
				err = candidate.decodeAt(old, e.offset)
			}
			if err == nil {
				next = candidate
			} else {
				e.logf("keeping defaults for %q: %v", v.label, err)
			}
		}
	}
	e.sub, e.active, e.label = next, v, v.label
	return nil
}
