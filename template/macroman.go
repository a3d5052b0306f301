// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Legacy resource text is MacRoman. Every byte value maps to exactly one
// rune, so decoding then encoding is lossless.

func decodeMacRoman(b []byte) string {
	out, err := charmap.Macintosh.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// encodeMacRoman encodes s, substituting characters MacRoman cannot hold.
func encodeMacRoman(s string) []byte {
	out, err := encoding.ReplaceUnsupported(charmap.Macintosh.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
