// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"strconv"

	"github.com/andrews05/ResForge-sub001/stream"
)

// TagInfo describes one type tag, or one family of numbered tags such as
// Cnnn, accepted in templates.
type TagInfo struct {
	Tag    string
	Family string
}

type tagDef struct {
	tag    string
	family string
	build  func(d Descriptor) Element
}

// Numbered tags carry a hexadecimal byte count, bitfield tags a decimal
// bit width. Both are handled by numberedElement.
var numberedTags = []TagInfo{
	{"Cnnn", "C string, fixed length"},
	{"Tnnn", "text, fixed length"},
	{"Pnnn", "Pascal string, fixed length"},
	{"Hnnn", "hex blob, fixed length"},
	{"Fnnn", "fill bytes"},
	{"BBnn", "bitfield in byte"},
	{"WBnn", "bitfield in word"},
	{"LBnn", "bitfield in long"},
	{"QBnn", "bitfield in quad"},
}

var tagDefs = []tagDef{
	{"DBYT", "signed integer", intBuilder(1, true, false, false)},
	{"DWRD", "signed integer", intBuilder(2, true, false, false)},
	{"DLNG", "signed integer", intBuilder(4, true, false, false)},
	{"DQWD", "signed integer", intBuilder(8, true, false, false)},
	{"UBYT", "unsigned integer", intBuilder(1, false, false, false)},
	{"UWRD", "unsigned integer", intBuilder(2, false, false, false)},
	{"ULNG", "unsigned integer", intBuilder(4, false, false, false)},
	{"UQWD", "unsigned integer", intBuilder(8, false, false, false)},
	{"HBYT", "hex integer", intBuilder(1, false, true, false)},
	{"HWRD", "hex integer", intBuilder(2, false, true, false)},
	{"HLNG", "hex integer", intBuilder(4, false, true, false)},
	{"HQWD", "hex integer", intBuilder(8, false, true, false)},
	{"KBYT", "key integer", intBuilder(1, true, false, true)},
	{"KWRD", "key integer", intBuilder(2, true, false, true)},
	{"KLNG", "key integer", intBuilder(4, true, false, true)},
	{"KQWD", "key integer", intBuilder(8, true, false, true)},
	{"KUBT", "key integer", intBuilder(1, false, false, true)},
	{"KUWD", "key integer", intBuilder(2, false, false, true)},
	{"KULG", "key integer", intBuilder(4, false, false, true)},
	{"KUQD", "key integer", intBuilder(8, false, false, true)},
	{"KHBT", "key integer", intBuilder(1, false, true, true)},
	{"KHWD", "key integer", intBuilder(2, false, true, true)},
	{"KHLG", "key integer", intBuilder(4, false, true, true)},
	{"KHQD", "key integer", intBuilder(8, false, true, true)},

	{"CHAR", "character", charBuilder(1, false)},
	{"TNAM", "type code", charBuilder(4, false)},
	{"KCHR", "key character", charBuilder(1, true)},
	{"KTYP", "key type code", charBuilder(4, true)},

	{"FIXD", "fixed point 16.16", fixedBuilder(16)},
	{"FRAC", "fixed point 2.30", fixedBuilder(30)},
	{"REAL", "float", floatBuilder(4)},
	{"DOUB", "float", floatBuilder(8)},

	{"BOOL", "boolean word", func(d Descriptor) Element { return &boolElement{element: newBase(d)} }},
	{"BFLG", "flag", flagBuilder(1)},
	{"WFLG", "flag", flagBuilder(2)},
	{"LFLG", "flag", flagBuilder(4)},
	{"BBIT", "bitfield in byte", bitsBuilder(8, 1)},
	{"WBIT", "bitfield in word", bitsBuilder(16, 1)},
	{"LBIT", "bitfield in long", bitsBuilder(32, 1)},
	{"QBIT", "bitfield in quad", bitsBuilder(64, 1)},

	{"CASE", "case", caseBuilder},
	{"CASR", "case range", caseBuilder},

	{"CSTR", "C string", cstrBuilder(padNone, 0, true)},
	{"ECST", "C string, even padded", cstrBuilder(padEven, 0, true)},
	{"OCST", "C string, odd padded", cstrBuilder(padOdd, 0, true)},
	{"TXTS", "text to end", cstrBuilder(padNone, 0, false)},
	{"PSTR", "Pascal string", pstrBuilder(1, padNone, false)},
	{"BSTR", "Pascal string", pstrBuilder(1, padNone, false)},
	{"WSTR", "Pascal string", pstrBuilder(2, padNone, false)},
	{"LSTR", "Pascal string", pstrBuilder(4, padNone, false)},
	{"QSTR", "Pascal string", pstrBuilder(8, padNone, false)},
	{"ESTR", "Pascal string, even padded", pstrBuilder(1, padEven, false)},
	{"OSTR", "Pascal string, odd padded", pstrBuilder(1, padOdd, false)},
	{"BSTI", "self-counting string", pstrBuilder(1, padNone, true)},
	{"WSTI", "self-counting string", pstrBuilder(2, padNone, true)},
	{"LSTI", "self-counting string", pstrBuilder(4, padNone, true)},
	{"QSTI", "self-counting string", pstrBuilder(8, padNone, true)},

	{"HEXD", "hex blob to end", func(d Descriptor) Element { return &hexElement{element: newBase(d)} }},
	{"FBYT", "fill bytes", fillBuilder(1)},
	{"FWRD", "fill bytes", fillBuilder(2)},
	{"FLNG", "fill bytes", fillBuilder(4)},
	{"FQWD", "fill bytes", fillBuilder(8)},

	{"COLR", "color", colorBuilder(colorRGB48)},
	{"WCOL", "color", colorBuilder(colorRGB555)},
	{"LCOL", "color", colorBuilder(colorRGB888)},
	{"RSID", "resource link", newRSID},
	{"DATE", "date", func(d Descriptor) Element { return &dateElement{element: newBase(d)} }},
	{"DVDR", "divider", func(d Descriptor) Element { return &dividerElement{element: newBase(d)} }},

	{"BSIZ", "sized section", sizedBuilder(1, false)},
	{"WSIZ", "sized section", sizedBuilder(2, false)},
	{"LSIZ", "sized section", sizedBuilder(4, false)},
	{"QSIZ", "sized section", sizedBuilder(8, false)},
	{"BSKP", "sized section", sizedBuilder(1, true)},
	{"WSKP", "sized section", sizedBuilder(2, true)},
	{"LSKP", "sized section", sizedBuilder(4, true)},
	{"QSKP", "sized section", sizedBuilder(8, true)},
	{"SKPE", "end of sized section", terminatorBuilder},

	{"LSTB", "list to end", listBuilder(listToEnd)},
	{"LSTZ", "zero terminated list", listBuilder(listZeroTerminated)},
	{"LSTC", "counted list", listBuilder(listCounted)},
	{"LSTE", "end of list", func(d Descriptor) Element { return newListTail(d) }},
	{"OCNT", "counter", counterBuilder(2, false)},
	{"BCNT", "counter", counterBuilder(1, false)},
	{"WCNT", "counter", counterBuilder(2, false)},
	{"LCNT", "counter", counterBuilder(4, false)},
	{"ZCNT", "zero-based counter", counterBuilder(2, true)},
	{"BZCT", "zero-based counter", counterBuilder(1, true)},
	{"WZCT", "zero-based counter", counterBuilder(2, true)},
	{"LZCT", "zero-based counter", counterBuilder(4, true)},
	{"FCNT", "fixed counter", counterBuilder(0, false)},

	{"KEYB", "keyed section", terminatorBuilder},
	{"KEYE", "end of keyed section", terminatorBuilder},

	{"BNDN", "big-endian", endianBuilder(false)},
	{"LNDN", "little-endian", endianBuilder(true)},
	{"AWRD", "align", alignBuilder(2)},
	{"ALNG", "align", alignBuilder(4)},
	{"AL08", "align", alignBuilder(8)},
	{"AL16", "align", alignBuilder(16)},
}

var tagIndex = func() map[string]tagDef {
	m := make(map[string]tagDef, len(tagDefs))
	for _, def := range tagDefs {
		m[def.tag] = def
	}
	return m
}()

// Tags lists every accepted tag, numbered families last.
func Tags() []TagInfo {
	out := make([]TagInfo, 0, len(tagDefs)+len(numberedTags))
	for _, def := range tagDefs {
		out = append(out, TagInfo{Tag: def.tag, Family: def.family})
	}
	return append(out, numberedTags...)
}

// KnownTag reports whether tag names a field type.
func KnownTag(tag string) bool {
	_, err := newElement(Descriptor{Tag: tag})
	return err == nil
}

// newElement builds the unconfigured runtime node for d.
func newElement(d Descriptor) (Element, error) {
	if def, ok := tagIndex[d.Tag]; ok {
		return def.build(d), nil
	}
	if e := numberedElement(d); e != nil {
		return e, nil
	}
	return nil, &SchemaError{Tag: d.Tag, Label: d.Label, Msg: "unknown type tag"}
}

func numberedElement(d Descriptor) Element {
	if len(d.Tag) != 4 {
		return nil
	}
	switch d.Tag[:2] {
	case "BB", "WB", "LB", "QB":
		width, err := strconv.ParseUint(d.Tag[2:], 10, 8)
		if err != nil || width == 0 {
			return nil
		}
		bits := map[byte]int{'B': 8, 'W': 16, 'L': 32, 'Q': 64}[d.Tag[0]]
		if int(width) > bits {
			return nil
		}
		return bitsBuilder(bits, int(width))(d)
	}

	n, err := strconv.ParseUint(d.Tag[1:], 16, 16)
	if err != nil || n == 0 {
		return nil
	}
	size := int(n)
	switch d.Tag[0] {
	case 'C':
		return cstrBuilder(padNone, size, true)(d)
	case 'T':
		return cstrBuilder(padNone, size, false)(d)
	case 'P':
		if size > 0x100 {
			return nil
		}
		return &pstrElement{element: newBase(d), prefix: 1, fixed: size}
	case 'H':
		return &hexElement{element: newBase(d), size: size}
	case 'F':
		return fillBuilder(size)(d)
	}
	return nil
}

func caseBuilder(d Descriptor) Element {
	return &caseElement{element: newBase(d)}
}

// terminatorElement is a closing or opening marker (SKPE, KEYB, KEYE) that
// its composite consumes during configuration. One still present when the
// linking pass reaches it is unmatched.
type terminatorElement struct {
	element
}

func terminatorBuilder(d Descriptor) Element {
	return &terminatorElement{element: newBase(d)}
}

func (e *terminatorElement) configure() error {
	switch e.desc.Tag {
	case "KEYB":
		return e.errorf("keyed section has no preceding key field")
	default:
		return e.errorf("%s has no matching opening field", e.desc.Tag)
	}
}

func (e *terminatorElement) read(r *stream.Reader) error  { return nil }
func (e *terminatorElement) write(w *stream.Writer) error { return nil }
