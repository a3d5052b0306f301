// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package template

import (
	"testing"
)

// benchData is fuzzFields data with 64 list entries.
func benchData() []byte {
	body := []byte{0x00, 64}
	for i := 0; i < 64; i++ {
		body = append(body, 0x03, 'a', 'b', 'c', byte(i))
	}
	data := []byte{0x00, 0x01, 0x02, 0x00, 0x00, 0x00, 0x07}
	data = append(data, byte(len(body)>>8), byte(len(body)))
	data = append(data, body...)
	for i := 0; i < 16; i++ {
		data = append(data, 0x7c, byte(i))
	}
	return data
}

func BenchmarkRead(b *testing.B) {
	tp := tmpl(b, fuzzFields...)
	data := benchData()

	// Warmup and verify
	s := NewStructure(tp, Options{})
	if err := s.Load(data); err != nil {
		b.Fatalf("Load() error = %v", err)
	}
	if s.Dirty() {
		b.Fatal("benchmark data needed repair")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Load(data)
	}
}

func BenchmarkWrite(b *testing.B) {
	s := load(b, tmpl(b, fuzzFields...), benchData())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Bytes()
	}
}

func BenchmarkReadWithParse(b *testing.B) {
	bin, err := tmpl(b, fuzzFields...).MarshalBinary()
	if err != nil {
		b.Fatalf("MarshalBinary() error = %v", err)
	}
	data := benchData()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tp, _ := Parse("bench", bin)
		_ = NewStructure(tp, Options{}).Load(data)
	}
}

func BenchmarkReadLargeList(b *testing.B) {
	tp := tmpl(b, "LSTB Items", "UBYT V", "LSTE")
	data := make([]byte, 1<<16)

	// Warmup and verify
	s := NewStructure(tp, Options{})
	if err := s.Load(data); err != nil {
		b.Fatalf("Load() error = %v", err)
	}
	if n := s.Root().At(0).(*ListHead).EntryCount(); n != len(data) {
		b.Fatalf("EntryCount() = %d, want %d", n, len(data))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Load(data); err != nil {
			b.Fatal(err)
		}
	}
}
