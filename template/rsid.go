// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"strings"
)

// ResourceResolver answers resource existence queries for linking fields.
type ResourceResolver interface {
	ResourceExists(typ string, id int) bool
}

// rsidElement is a 16-bit signed resource ID. The linked type comes from
// the label's meta value ('TYPE', optionally followed by an ID offset) or
// from the nearest preceding TNAM or KTYP field.
type rsidElement struct {
	intElement
	linkType   string
	offset     int
	typeSource *charElement
}

func newRSID(d Descriptor) Element {
	e := &rsidElement{intElement: intElement{element: newBase(d), size: 2, signed: true}}
	e.outer = e
	return e
}

func (e *rsidElement) configure() error {
	if err := e.configureCases(); err != nil {
		return err
	}
	meta := strings.TrimSpace(e.meta)
	if strings.HasPrefix(meta, "'") {
		end := strings.IndexByte(meta[1:], '\'')
		if end != 4 {
			return e.errorf("resource type must be four characters in quotes")
		}
		e.linkType = meta[1:5]
		meta = strings.TrimSpace(meta[6:])
	}
	if meta != "" {
		off, err := parseInt(strings.TrimPrefix(meta, "+"))
		if err != nil {
			return e.errorf("invalid resource ID offset %q", meta)
		}
		e.offset = int(off)
	}
	if e.linkType == "" {
		if src, ok := e.list.previous("TNAM", "KTYP").(*charElement); ok {
			e.typeSource = src
		}
	}
	return nil
}

// LinkType returns the resource type the ID refers to, or "" if unlinked.
func (e *rsidElement) LinkType() string {
	if e.typeSource != nil {
		return decodeMacRoman(e.typeSource.raw)
	}
	return e.linkType
}

// LinkedID returns the referenced resource ID with the offset applied.
func (e *rsidElement) LinkedID() int {
	return int(e.int64()) + e.offset
}

// Exists reports whether the linked resource is known to the structure's
// resolver.
func (e *rsidElement) Exists() bool {
	s := e.structure()
	typ := e.LinkType()
	if s == nil || s.opts.Resolver == nil || typ == "" {
		return false
	}
	return s.opts.Resolver.ResourceExists(typ, e.LinkedID())
}

func (e *rsidElement) Display() string {
	d := e.intElement.Display()
	if typ := e.LinkType(); typ != "" {
		return "'" + typ + "' " + d
	}
	return d
}
