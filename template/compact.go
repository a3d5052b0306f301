// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"regexp"
	"strconv"
)

// Compact format parsing

var compactFormatPattern = regexp.MustCompile(`(\d*)([a-zA-Z?<>!])(?::(\w+))?`)

var structFormats = map[byte]string{
	'b': "DBYT",
	'B': "UBYT",
	'h': "DWRD",
	'H': "UWRD",
	'i': "DLNG",
	'I': "ULNG",
	'l': "DLNG",
	'L': "ULNG",
	'q': "DQWD",
	'Q': "UQWD",
	'f': "REAL",
	'd': "DOUB",
	'?': "BFLG",
	'c': "CHAR",
}

var byteOrderPrefixes = map[byte]string{
	'>': "BNDN",
	'!': "BNDN",
	'<': "LNDN",
}

// ParseCompact parses a struct-like format string into a template.
// ">B:version H:count 4x 8s:name" reads a byte, a 16-bit word, skips four
// fill bytes and reads eight bytes of text. A leading or embedded '<' or
// '>' switches byte order for the following fields.
func ParseCompact(format string) (*Template, error) {
	var descs []Descriptor
	matches := compactFormatPattern.FindAllStringSubmatch(format, -1)

	for _, match := range matches {
		countStr, fmtChar, name := match[1], match[2][0], match[3]

		if tag, ok := byteOrderPrefixes[fmtChar]; ok {
			descs = append(descs, Descriptor{Tag: tag})
			continue
		}

		count := 1
		if countStr != "" {
			var err error
			count, err = strconv.Atoi(countStr)
			if err != nil || count < 1 || count > 0xfff {
				return nil, &SchemaError{Msg: fmt.Sprintf("invalid repeat count %q in compact format", countStr)}
			}
		}

		switch fmtChar {
		case 'x':
			descs = append(descs, Descriptor{Tag: fmt.Sprintf("F%03X", count), Label: name})
			continue
		case 's':
			descs = append(descs, Descriptor{Tag: fmt.Sprintf("T%03X", count), Label: name})
			continue
		case 'p':
			descs = append(descs, Descriptor{Tag: fmt.Sprintf("P%03X", count), Label: name})
			continue
		}

		tag, ok := structFormats[fmtChar]
		if !ok {
			return nil, &SchemaError{Msg: fmt.Sprintf("unknown format character: %c", fmtChar)}
		}
		for i := 0; i < count; i++ {
			label := name
			if name != "" && count > 1 {
				label = fmt.Sprintf("%s_%d", name, i)
			}
			descs = append(descs, Descriptor{Tag: tag, Label: label})
		}
	}

	return NewTemplate(format, descs)
}
