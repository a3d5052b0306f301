// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import "errors"

// SkipChildren may be returned by a WalkFunc to skip a container's lists.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every element visited by Walk.
type WalkFunc func(e Element, depth int) error

// Walk visits the elements of l depth first, in list order, descending
// into the lists of containers.
func Walk(l *ElementList, fn WalkFunc) error {
	return walk(l, 0, fn)
}

func walk(l *ElementList, depth int, fn WalkFunc) error {
	for i := 0; i < l.Len(); i++ {
		e := l.At(i)
		err := fn(e, depth)
		if err == SkipChildren {
			continue
		}
		if err != nil {
			return err
		}
		if c, ok := e.(Container); ok {
			for _, child := range c.Children() {
				if err := walk(child, depth+1, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
