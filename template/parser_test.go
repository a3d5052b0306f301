// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		label   string
		display string
		meta    string
		subtext string
	}{
		{"Count", "Count", "", ""},
		{"Count=10", "Count", "10", ""},
		{"Range=1,5,0", "Range", "1,5,0", ""},
		{"Name\nShown below", "Name", "", "Shown below"},
		{"Link='PICT'\r\nPicture ID", "Link", "'PICT'", "Picture ID"},
		{"A=b=c", "A", "b=c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			d := Descriptor{Tag: "DWRD", Label: tt.label}
			if got := d.DisplayLabel(); got != tt.display {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.display)
			}
			if got := d.MetaValue(); got != tt.meta {
				t.Errorf("MetaValue() = %q, want %q", got, tt.meta)
			}
			if got := d.Subtext(); got != tt.subtext {
				t.Errorf("Subtext() = %q, want %q", got, tt.subtext)
			}
		})
	}
}

func TestNewTemplateErrors(t *testing.T) {
	tests := []struct {
		name  string
		descs []Descriptor
	}{
		{"short tag", []Descriptor{{Tag: "DWR", Label: "x"}}},
		{"unknown tag", []Descriptor{{Tag: "ZZZZ", Label: "x"}}},
		{"three lines", []Descriptor{{Tag: "DWRD", Label: "a\nb\nc"}}},
		{"zero length string", []Descriptor{{Tag: "C000", Label: "x"}}},
		{"oversized bitfield", []Descriptor{{Tag: "BB09", Label: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTemplate("bad", tt.descs)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("NewTemplate() error = %v, want SchemaError", err)
			}
		})
	}
}

func TestKnownTag(t *testing.T) {
	for _, tag := range []string{"DWRD", "C010", "T004", "P020", "H00A", "F003", "BB03", "LB17", "QB64", "KTYP", "AL16"} {
		if !KnownTag(tag) {
			t.Errorf("KnownTag(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"ENTR", "KSEC", "ERR ", "dwrd", "P101", "WB17", "CXYZ"} {
		if KnownTag(tag) {
			t.Errorf("KnownTag(%q) = true, want false", tag)
		}
	}
}

func TestParseBinary(t *testing.T) {
	data := []byte{
		5, 'C', 'o', 'u', 'n', 't', 'O', 'C', 'N', 'T',
		4, 'L', 'i', 's', 't', 'L', 'S', 'T', 'C',
		4, 'N', 'a', 'm', 'e', 'P', 'S', 'T', 'R',
		0, 'L', 'S', 'T', 'E',
	}

	tp, err := Parse("list", data)
	td.CmpNoError(t, err)
	td.Cmp(t, tp.Descriptors(), []Descriptor{
		{Tag: "OCNT", Label: "Count"},
		{Tag: "LSTC", Label: "List"},
		{Tag: "PSTR", Label: "Name"},
		{Tag: "LSTE", Label: ""},
	})

	out, err := tp.MarshalBinary()
	td.CmpNoError(t, err)
	td.Cmp(t, out, data)
}

func TestParseBinaryMacRoman(t *testing.T) {
	// 0x8E is e-acute in MacRoman.
	data := []byte{3, 'C', 0x8E, 'x', 'C', 'S', 'T', 'R'}
	tp, err := Parse("roman", data)
	td.CmpNoError(t, err)
	td.Cmp(t, tp.Descriptors()[0].Label, "Céx")

	out, err := tp.MarshalBinary()
	td.CmpNoError(t, err)
	td.Cmp(t, out, data)
}

func TestParseBinaryErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated label", []byte{5, 'a', 'b'}},
		{"truncated tag", []byte{1, 'a', 'D', 'W'}},
		{"control character in tag", []byte{0, 'D', 'W', 0x01, 'D'}},
		{"unknown tag", []byte{0, 'N', 'O', 'P', 'E'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad", tt.data)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Errorf("Parse() error = %v, want SchemaError", err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := `
name: Sample
fields:
  - type: DWRD
    label: Count
    meta: "10"
  - type: CSTR
    label: Name
    subtext: Shown in the list
  - {type: UBYT, label: Mode=2}
`
	tp, err := ParseYAML([]byte(src))
	td.CmpNoError(t, err)
	td.Cmp(t, tp.Name, "Sample")
	td.Cmp(t, tp.Descriptors(), []Descriptor{
		{Tag: "DWRD", Label: "Count=10"},
		{Tag: "CSTR", Label: "Name\nShown in the list"},
		{Tag: "UBYT", Label: "Mode=2"},
	})
}

func TestParseYAMLInvalid(t *testing.T) {
	_, err := ParseYAML([]byte("name: x\nfields:\n  - type: NOPE\n    label: y\n"))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Errorf("ParseYAML() error = %v, want SchemaError", err)
	}

	if _, err := ParseYAML([]byte("fields: [")); err == nil {
		t.Error("ParseYAML() succeeded on malformed YAML")
	}
}

func TestParseCompact(t *testing.T) {
	tests := []struct {
		format string
		want   []Descriptor
	}{
		{
			format: ">B:version H:count",
			want: []Descriptor{
				{Tag: "BNDN"},
				{Tag: "UBYT", Label: "version"},
				{Tag: "UWRD", Label: "count"},
			},
		},
		{
			format: "<2h:axis 4x 8s:name",
			want: []Descriptor{
				{Tag: "LNDN"},
				{Tag: "DWRD", Label: "axis_0"},
				{Tag: "DWRD", Label: "axis_1"},
				{Tag: "F004"},
				{Tag: "T008", Label: "name"},
			},
		},
		{
			format: "I:id 16p:title ?:enabled d",
			want: []Descriptor{
				{Tag: "ULNG", Label: "id"},
				{Tag: "P010", Label: "title"},
				{Tag: "BFLG", Label: "enabled"},
				{Tag: "DOUB"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			tp, err := ParseCompact(tt.format)
			td.CmpNoError(t, err)
			td.Cmp(t, tp.Descriptors(), tt.want)
		})
	}
}

func TestParseCompactDecode(t *testing.T) {
	tp, err := ParseCompact(">B:version H:count 2x 3s:tag")
	td.CmpNoError(t, err)

	data := []byte{0x02, 0x01, 0x00, 0xff, 0xff, 'a', 'b', 'c'}
	s := load(t, tp, data)
	td.Cmp(t, valuer(t, s, "version").Value(), uint64(2))
	td.Cmp(t, valuer(t, s, "count").Value(), uint64(256))
	td.Cmp(t, valuer(t, s, "tag").Value(), "abc")

	// Fill bytes are written back as zeros.
	td.Cmp(t, encode(t, s), []byte{0x02, 0x01, 0x00, 0x00, 0x00, 'a', 'b', 'c'})
}

func TestParseCompactErrors(t *testing.T) {
	for _, format := range []string{"y", "4096x"} {
		if _, err := ParseCompact(format); err == nil {
			t.Errorf("ParseCompact(%q) succeeded, want error", format)
		}
	}
}
