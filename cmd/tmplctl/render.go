// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/andrews05/ResForge-sub001/template"
)

// Columns taken by the label and tag before the value starts.
const labelColumns = 40

type node struct {
	Tag      string `json:"tag"`
	Label    string `json:"label"`
	Value    string `json:"value,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
	Children []node `json:"children,omitempty"`
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// valueWidth is the room left for values on a line of cols columns, or 0
// for no limit.
func valueWidth(cols int) int {
	if cols <= 0 {
		return 0
	}
	if cols-labelColumns < 16 {
		return 16
	}
	return cols - labelColumns
}

func display(e template.Element) string {
	switch v := e.(type) {
	case *template.ListHead:
		return fmt.Sprintf("%d entries", v.EntryCount())
	case *template.ListEntry:
		return ""
	case template.Displayer:
		return v.Display()
	case template.Valuer:
		if s, ok := v.Value().(string); ok {
			return strconv.Quote(s)
		}
		return fmt.Sprint(v.Value())
	}
	return ""
}

// missing reports a resource link whose target the resolver does not know.
func missing(e template.Element) bool {
	link, ok := e.(interface {
		LinkType() string
		Exists() bool
	})
	return ok && link.LinkType() != "" && !link.Exists()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// dumper renders a decoded structure. Links are only checked when a
// resolver is configured.
type dumper struct {
	limit      int
	checkLinks bool
}

func (d dumper) writeTable(out io.Writer, root *template.ElementList) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTAG\tVALUE")
	index := make(map[*template.ListHead]int)
	err := template.Walk(root, func(e template.Element, depth int) error {
		if !e.Visible() {
			return template.SkipChildren
		}
		label := e.Label()
		switch v := e.(type) {
		case *template.ListHead:
			index[v] = 0
		case *template.ListEntry:
			label = fmt.Sprintf("[%d]", index[v.Head()])
			index[v.Head()]++
		}
		value := truncate(display(e), d.limit)
		if d.checkLinks && missing(e) {
			value += " (missing)"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\n", strings.Repeat("  ", depth), label, e.Tag(), value)
		return nil
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func (d dumper) buildNodes(l *template.ElementList) []node {
	var nodes []node
	n := 0
	for _, e := range l.Elements() {
		if !e.Visible() {
			continue
		}
		nd := node{Tag: e.Tag(), Label: e.Label(), Value: display(e), Missing: d.checkLinks && missing(e)}
		if _, ok := e.(*template.ListEntry); ok {
			nd.Label = fmt.Sprintf("[%d]", n)
			n++
		}
		if c, ok := e.(template.Container); ok {
			for _, child := range c.Children() {
				nd.Children = append(nd.Children, d.buildNodes(child)...)
			}
		}
		nodes = append(nodes, nd)
	}
	return nodes
}

func (d dumper) writeJSON(out io.Writer, root *template.ElementList) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(d.buildNodes(root))
}
