// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse parses the binary template wire format.
// Format: repeated records until end of data
// Record: label_length(1) + label(MacRoman) + type_tag(4, ASCII)
func Parse(name string, data []byte) (*Template, error) {
	var descs []Descriptor
	pos := 0
	for pos < len(data) {
		n := int(data[pos])
		pos++
		if pos+n+4 > len(data) {
			return nil, &SchemaError{Msg: fmt.Sprintf("record %d truncated: need %d bytes at offset %d, but only %d remaining",
				len(descs), n+4, pos, len(data)-pos)}
		}
		label := decodeMacRoman(data[pos : pos+n])
		pos += n
		tag := string(data[pos : pos+4])
		pos += 4
		for i := 0; i < 4; i++ {
			if tag[i] < 0x20 || tag[i] > 0x7e {
				return nil, &SchemaError{Tag: tag, Label: label, Msg: fmt.Sprintf("record %d: type tag is not printable ASCII", len(descs))}
			}
		}
		descs = append(descs, Descriptor{Tag: tag, Label: label})
	}
	return NewTemplate(name, descs)
}

// MarshalBinary encodes the template to the binary wire format.
func (t *Template) MarshalBinary() ([]byte, error) {
	var data []byte
	for i, d := range t.descs {
		label := encodeMacRoman(d.Label)
		if len(label) > 255 {
			return nil, fmt.Errorf("record %d: label too long for template: %d bytes (max 255)", i, len(label))
		}
		data = append(data, byte(len(label)))
		data = append(data, label...)
		data = append(data, d.Tag...)
	}
	return data, nil
}

// yamlTemplate is the authoring form of a template.
type yamlTemplate struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Type    string `yaml:"type"`
	Label   string `yaml:"label"`
	Meta    string `yaml:"meta,omitempty"`
	Subtext string `yaml:"subtext,omitempty"`
}

// ParseYAML parses a template from YAML:
//
//	name: Example
//	fields:
//	  - type: DWRD
//	    label: Count
//	    meta: "10"
//	  - {type: CSTR, label: Name}
//
// label may already contain the Display=Meta form; meta and subtext are
// appended when present.
func ParseYAML(data []byte) (*Template, error) {
	var raw yamlTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	descs := make([]Descriptor, 0, len(raw.Fields))
	for _, f := range raw.Fields {
		descs = append(descs, Descriptor{
			Tag:   f.Type,
			Label: joinLabel(f.Label, f.Meta, f.Subtext),
		})
	}
	return NewTemplate(raw.Name, descs)
}

// MarshalYAML encodes the template in its authoring form.
func (t *Template) MarshalYAML() (any, error) {
	out := yamlTemplate{Name: t.Name}
	for _, d := range t.descs {
		display, meta, sub := splitLabel(d.Label)
		out.Fields = append(out.Fields, yamlField{Type: d.Tag, Label: display, Meta: meta, Subtext: sub})
	}
	return out, nil
}
