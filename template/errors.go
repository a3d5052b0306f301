// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"

	"github.com/andrews05/ResForge-sub001/stream"
)

// ErrInsufficientData reports a buffer shorter than the template expects.
// Structure.Read recovers from it; lower layers return it wrapped.
var ErrInsufficientData = stream.ErrInsufficientData

// SchemaError represents a malformed or contradictory template. It is
// detected while parsing or configuring and aborts configuration.
type SchemaError struct {
	Tag   string
	Label string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Tag == "" {
		return "template error: " + e.Msg
	}
	return fmt.Sprintf("template error at %s %q: %s", e.Tag, e.Label, e.Msg)
}

// UnboundedFieldError reports a field that consumes all remaining data but
// is not positioned at the end of a scope that ends with the data.
type UnboundedFieldError struct {
	Tag   string
	Label string
}

func (e *UnboundedFieldError) Error() string {
	return fmt.Sprintf("template error at %s %q: field consumes all remaining data but is not at the end of the structure", e.Tag, e.Label)
}

// DataMismatchError reports decoded data that violates a template
// invariant. It aborts the read.
type DataMismatchError struct {
	Tag    string
	Label  string
	Offset int
	Msg    string
}

func (e *DataMismatchError) Error() string {
	return fmt.Sprintf("data mismatch at offset %d in %s %q: %s", e.Offset, e.Tag, e.Label, e.Msg)
}
