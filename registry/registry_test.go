// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/andrews05/ResForge-sub001/template"
)

// wordTemplate is a binary template holding one UWRD labelled Value.
var wordTemplate = []byte{5, 'V', 'a', 'l', 'u', 'e', 'U', 'W', 'R', 'D'}

// longTemplate is a binary template holding one ULNG labelled Value.
var longTemplate = []byte{5, 'V', 'a', 'l', 'u', 'e', 'U', 'L', 'N', 'G'}

func TestRegisterAndDecode(t *testing.T) {
	r := New()
	v, err := r.Register("sample", wordTemplate)
	td.CmpNoError(t, err)
	td.Cmp(t, v, uint64(1))
	td.Cmp(t, r.Version("sample"), uint64(1))

	s, err := r.Decode("sample", []byte{0x01, 0x02}, template.Options{})
	td.CmpNoError(t, err)
	td.Cmp(t, s.Root().At(0).(template.Valuer).Value(), uint64(0x0102))
}

func TestHotSwap(t *testing.T) {
	r := New()
	_, err := r.Register("sample", wordTemplate)
	td.CmpNoError(t, err)
	before, err := r.Decode("sample", []byte{0x00, 0x07}, template.Options{})
	td.CmpNoError(t, err)

	v, err := r.Register("sample", longTemplate)
	td.CmpNoError(t, err)
	td.Cmp(t, v, uint64(2))

	after, err := r.Decode("sample", []byte{0x00, 0x00, 0x00, 0x07}, template.Options{})
	td.CmpNoError(t, err)
	td.Cmp(t, after.Root().At(0).Tag(), "ULNG")

	// Structures from the previous version keep working.
	out, err := before.Bytes()
	td.CmpNoError(t, err)
	td.Cmp(t, out, []byte{0x00, 0x07})
}

func TestRegisterInvalidKeepsCurrent(t *testing.T) {
	r := New()
	_, err := r.Register("sample", wordTemplate)
	td.CmpNoError(t, err)

	_, err = r.Register("sample", []byte{0, 'N', 'O', 'P', 'E'})
	var se *template.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Register() error = %v, want SchemaError", err)
	}
	td.Cmp(t, r.Version("sample"), uint64(1))
	td.Cmp(t, r.Get("sample").Descriptors()[0].Tag, "UWRD")
}

func TestOpenErrors(t *testing.T) {
	r := New()
	_, err := r.Open("missing", template.Options{})
	td.CmpTrue(t, errors.Is(err, ErrNotFound))

	_, err = r.RegisterYAML("orphan", []byte("fields:\n  - {type: CASE, label: A=1}\n"))
	td.CmpNoError(t, err)
	s, err := r.Open("orphan", template.Options{})
	td.CmpError(t, err)
	td.Cmp(t, s.Root().At(0).Tag(), "ERR ")
}

func TestNamesAndRemove(t *testing.T) {
	r := New()
	for _, name := range []string{"b", "a", "c"} {
		_, err := r.Register(name, wordTemplate)
		td.CmpNoError(t, err)
	}
	td.Cmp(t, r.Names(), []string{"a", "b", "c"})

	td.CmpTrue(t, r.Remove("b"))
	td.CmpFalse(t, r.Remove("b"))
	td.Cmp(t, r.Names(), []string{"a", "c"})
	td.CmpNil(t, r.Get("b"))

	v, err := r.Register("b", wordTemplate)
	td.CmpNoError(t, err)
	td.Cmp(t, v, uint64(2))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"word.tmpl":  wordTemplate,
		"named.yaml": []byte("name: header\nfields:\n  - {type: UBYT, label: Version}\n"),
		"plain.yml":  []byte("fields:\n  - {type: DWRD, label: Delta}\n"),
		"point.fmt":  []byte(">h:x h:y\n"),
		"notes.txt":  []byte("ignored"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.tmpl"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	r := New()
	loaded, err := r.LoadDir(dir)
	td.CmpNoError(t, err)
	td.Cmp(t, loaded, td.Bag("word", "header", "plain", "point"))
	td.Cmp(t, r.Names(), []string{"header", "plain", "point", "word"})

	s, err := r.Decode("point", []byte{0xff, 0xff, 0x00, 0x02}, template.Options{})
	td.CmpNoError(t, err)
	td.Cmp(t, s.Root().At(2).(template.Valuer).Value(), int64(2))
}

func TestLoadDirBadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.tmpl"), []byte{9, 'x'}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := New().LoadDir(dir)
	td.CmpError(t, err)
	td.CmpTrue(t, strings.Contains(err.Error(), "bad.tmpl"))
}

func TestConcurrentSwap(t *testing.T) {
	r := New()
	_, err := r.Register("sample", wordTemplate)
	td.CmpNoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s, err := r.Open("sample", template.Options{})
				if err != nil {
					t.Errorf("Open() error = %v", err)
					return
				}
				if _, err := s.Bytes(); err != nil {
					t.Errorf("Bytes() error = %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		tmpl := wordTemplate
		if i%2 == 0 {
			tmpl = longTemplate
		}
		if _, err := r.Register("sample", tmpl); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	wg.Wait()
	td.Cmp(t, r.Version("sample"), uint64(51))
}

func TestResources(t *testing.T) {
	idx, err := ReadResources(strings.NewReader(`
resources:
  - {type: PICT, id: 128, name: Splash}
  - {type: "snd ", id: 200}
  - {type: PICT, id: -4000}
`))
	td.CmpNoError(t, err)
	td.CmpTrue(t, idx.ResourceExists("PICT", 128))
	td.CmpTrue(t, idx.ResourceExists("snd ", 200))
	td.CmpFalse(t, idx.ResourceExists("PICT", 129))

	res, ok := idx.Lookup("PICT", 128)
	td.CmpTrue(t, ok)
	td.Cmp(t, res.Name, "Splash")
	td.Cmp(t, idx.List(), []Resource{
		{Type: "PICT", ID: -4000},
		{Type: "PICT", ID: 128, Name: "Splash"},
		{Type: "snd ", ID: 200},
	})

	idx.Remove("PICT", 128)
	td.CmpFalse(t, idx.ResourceExists("PICT", 128))
	td.CmpError(t, idx.Add(Resource{Type: "PIC", ID: 1}))

	_, err = ReadResources(strings.NewReader("resources:\n  - {type: LONGER, id: 1}\n"))
	td.CmpError(t, err)

	empty, err := ReadResources(strings.NewReader(""))
	td.CmpNoError(t, err)
	td.Cmp(t, len(empty.List()), 0)
}

func TestResourcesResolveLinks(t *testing.T) {
	idx := NewResources()
	td.CmpNoError(t, idx.Add(Resource{Type: "PICT", ID: 128}))

	r := New()
	_, err := r.RegisterYAML("link", []byte("fields:\n  - {type: RSID, label: \"Picture='PICT'\"}\n"))
	td.CmpNoError(t, err)

	s, err := r.Decode("link", []byte{0x00, 0x80}, template.Options{Resolver: idx})
	td.CmpNoError(t, err)
	link := s.Root().At(0).(interface{ Exists() bool })
	td.CmpTrue(t, link.Exists())
}
