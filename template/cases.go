// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"strings"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/andrews05/ResForge-sub001/stream"
)

// Case maps one wire value to a display label.
type Case struct {
	Label   string
	Value   string // the value as written in the template
	Subtext string
	key     string
}

// CaseRange covers the closed interval between Lo and Hi. When Normalized
// is set the user-facing value is Norm-based: wire Lo displays as Norm, and
// moving away from Lo toward Hi moves the display value upward, also when
// Lo > Hi (sign inversion).
type CaseRange struct {
	Label      string
	Subtext    string
	Lo, Hi     int64
	Norm       int64
	Normalized bool
}

// Contains reports whether wire value v lies in the range.
func (c CaseRange) Contains(v int64) bool {
	if c.Lo <= c.Hi {
		return v >= c.Lo && v <= c.Hi
	}
	return v >= c.Hi && v <= c.Lo
}

// Normalize maps a wire value to its display value.
func (c CaseRange) Normalize(v int64) int64 {
	if !c.Normalized {
		return v
	}
	if c.Lo <= c.Hi {
		return c.Norm + (v - c.Lo)
	}
	return c.Norm + (c.Lo - v)
}

// Denormalize maps a display value back onto the wire value.
func (c CaseRange) Denormalize(d int64) int64 {
	if !c.Normalized {
		return d
	}
	if c.Lo <= c.Hi {
		return c.Lo + (d - c.Norm)
	}
	return c.Lo - (d - c.Norm)
}

// Cased is implemented by elements that accept CASE and CASR records.
type Cased interface {
	Element
	Cases() []Case
	Ranges() []CaseRange
	// MatchedCase returns the case matching the current value.
	MatchedCase() (Case, bool)
}

// caseTable keeps cases in declaration order, keyed by the owner's
// canonical form of the value.
type caseTable struct {
	cases  *orderedmap.OrderedMap[string, *Case]
	ranges []CaseRange
}

func (t *caseTable) lookup(key string) (*Case, bool) {
	if t == nil {
		return nil, false
	}
	return t.cases.Get(key)
}

// byLabel finds a case by display label.
func (t *caseTable) byLabel(label string) (*Case, bool) {
	if t == nil {
		return nil, false
	}
	for el := t.cases.Front(); el != nil; el = el.Next() {
		if el.Value.Label == label {
			return el.Value, true
		}
	}
	return nil, false
}

func (t *caseTable) list() []Case {
	if t == nil {
		return nil
	}
	out := make([]Case, 0, t.cases.Len())
	for el := t.cases.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value)
	}
	return out
}

func (t *caseTable) rangeFor(v int64) (CaseRange, bool) {
	if t == nil {
		return CaseRange{}, false
	}
	for _, r := range t.ranges {
		if r.Contains(v) {
			return r, true
		}
	}
	return CaseRange{}, false
}

func (t *caseTable) empty() bool {
	return t == nil || (t.cases.Len() == 0 && len(t.ranges) == 0)
}

// absorbCases pops the CASE (and, when allowRanges, CASR) records that
// directly follow the owner. parse converts a case value to the owner's
// canonical key.
func absorbCases(e *element, parse func(string) (string, error), allowRanges bool) (*caseTable, error) {
	t := &caseTable{cases: orderedmap.NewOrderedMap[string, *Case]()}
	for {
		c := e.list.pop("CASE", "CASR")
		if c == nil {
			break
		}
		n := c.node()
		if c.Tag() == "CASR" {
			if !allowRanges {
				return nil, n.errorf("case range is not valid for %s", e.desc.Tag)
			}
			r, err := parseCaseRange(n)
			if err != nil {
				return nil, err
			}
			t.ranges = append(t.ranges, r)
			continue
		}
		value := n.meta
		if value == "" {
			value = n.label
		}
		key, err := parse(value)
		if err != nil {
			return nil, n.errorf("invalid case value: %v", err)
		}
		if _, dup := t.cases.Get(key); dup {
			return nil, n.errorf("duplicate case value %s", value)
		}
		t.cases.Set(key, &Case{Label: n.label, Value: value, Subtext: n.subtext, key: key})
	}
	return t, nil
}

func parseCaseRange(n *element) (CaseRange, error) {
	parts := strings.Split(n.meta, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return CaseRange{}, n.errorf("case range must be lo,hi[,norm]")
	}
	var vals [3]int64
	for i, p := range parts {
		v, err := parseInt(p)
		if err != nil {
			return CaseRange{}, n.errorf("invalid case range: %v", err)
		}
		vals[i] = v
	}
	return CaseRange{
		Label:      n.label,
		Subtext:    n.subtext,
		Lo:         vals[0],
		Hi:         vals[1],
		Norm:       vals[2],
		Normalized: len(parts) == 3,
	}, nil
}

// caseElement is a CASE or CASR record. Owners pop these during their own
// configuration; one reached by the linking pass has no owner.
type caseElement struct {
	element
}

func (e *caseElement) configure() error {
	return e.errorf("case has no preceding field that accepts cases")
}

func (e *caseElement) read(r *stream.Reader) error  { return nil }
func (e *caseElement) write(w *stream.Writer) error { return nil }
