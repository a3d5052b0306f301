// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseInt parses an integer literal. Hex may be written 0x1F or $1F.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var u uint64
	var err error
	if strings.HasPrefix(s, "$") {
		u, err = strconv.ParseUint(s[1:], 16, 64)
	} else {
		u, err = strconv.ParseUint(s, 0, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if neg {
		return -int64(u), nil
	}
	return int64(u), nil
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		return int64(val), true
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		return int64(val), true
	case float32:
		return toInt64(float64(val))
	case string:
		n, err := parseInt(val)
		return n, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	}
	if n, ok := toInt64(v); ok {
		return n != 0, true
	}
	return false, false
}

func typeError(e Element, v any) error {
	return fmt.Errorf("%s %q: cannot set value of type %T", e.Tag(), e.Label(), v)
}
