// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Command tmplctl compiles binary templates and decodes data with them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/andrews05/ResForge-sub001/internal/common"
	"github.com/andrews05/ResForge-sub001/registry"
	"github.com/andrews05/ResForge-sub001/template"
)

var version = "dev"

var errDiffers = errors.New("output differs from input")

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}
	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "compile":
		err = compileCmd(args, os.Stdout)
	case "dump":
		err = dumpCmd(args, os.Stdout)
	case "roundtrip":
		err = roundtripCmd(args, os.Stdout)
	case "tags":
		err = tagsCmd(args, os.Stdout)
	default:
		usage(os.Stdout)
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		common.Fatalf("%s: %v", cmd, err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `tmplctl %s <command> [options]

Commands:
  compile   --in <template.yaml|.fmt|.tmpl> --out <template.tmpl|.yaml>
  dump      --template <name|file> --in <data> [--json] [--width <cols>]
  roundtrip --template <name|file> --in <data> [--out <file>]
  tags

Every command accepts --config <tmplctl.yaml>.
`, version)
}

// session holds what a command needs after its flags are parsed.
type session struct {
	cfg    config
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

func start(path string) (*session, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	closer, err := common.SetupLogging(cfg.Logs, "tmplctl")
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, closer: closer}, nil
}

func compileCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file")
	in := fs.String("in", "", "template source")
	outPath := fs.String("out", "", "compiled template")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *outPath == "" {
		return errors.New("required: --in and --out")
	}
	sess, err := start(*configPath)
	if err != nil {
		return err
	}
	defer sess.Close()

	t, err := loadTemplateFile(*in)
	if err != nil {
		return err
	}
	var data []byte
	switch filepath.Ext(*outPath) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(t)
	default:
		data, err = t.MarshalBinary()
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", *outPath, err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		return err
	}
	common.Logf("compiled %s to %s", *in, *outPath)
	fmt.Fprintf(out, "wrote %s (%d fields, %d bytes)\n", *outPath, t.Len(), len(data))
	return nil
}

func dumpCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file")
	tmplRef := fs.String("template", "", "template name or file")
	in := fs.String("in", "", "data file")
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	width := fs.Int("width", 0, "maximum line width, 0 for the terminal width")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tmplRef == "" || *in == "" {
		return errors.New("required: --template and --in")
	}
	sess, err := start(*configPath)
	if err != nil {
		return err
	}
	defer sess.Close()

	s, err := decode(sess.cfg, *tmplRef, *in)
	if err != nil {
		return err
	}
	d := dumper{checkLinks: sess.cfg.Resources != ""}
	if *asJSON {
		return d.writeJSON(out, s.Root())
	}
	cols := *width
	if cols == 0 {
		cols = sess.cfg.Width
	}
	if cols == 0 {
		cols = terminalWidth()
	}
	d.limit = valueWidth(cols)
	return d.writeTable(out, s.Root())
}

func roundtripCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("roundtrip", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file")
	tmplRef := fs.String("template", "", "template name or file")
	in := fs.String("in", "", "data file")
	outPath := fs.String("out", "", "write the re-encoded data here")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tmplRef == "" || *in == "" {
		return errors.New("required: --template and --in")
	}
	sess, err := start(*configPath)
	if err != nil {
		return err
	}
	defer sess.Close()

	original, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	s, err := decode(sess.cfg, *tmplRef, *in)
	if err != nil {
		return err
	}
	encoded, err := s.Bytes()
	if err != nil {
		return err
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
			return err
		}
	}
	if s.Dirty() {
		fmt.Fprintln(out, "input was repaired while reading")
	}
	if off := firstDifference(original, encoded); off >= 0 {
		fmt.Fprintf(out, "differs at offset %d (input %d bytes, output %d bytes)\n", off, len(original), len(encoded))
		return errDiffers
	}
	fmt.Fprintf(out, "identical (%d bytes)\n", len(encoded))
	return nil
}

func tagsCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tags", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tKIND")
	for _, info := range template.Tags() {
		fmt.Fprintf(tw, "%s\t%s\n", info.Tag, info.Family)
	}
	return tw.Flush()
}

// loadTemplateFile parses one template file, choosing the parser by extension.
func loadTemplateFile(path string) (*template.Template, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	reg := registry.New()
	registered, err := reg.LoadFile(name, path)
	if err != nil {
		return nil, err
	}
	return reg.Get(registered), nil
}

// decode resolves ref as a template file, or else as a name in the
// configured template directory, and reads the data file with it.
func decode(cfg config, ref, dataPath string) (*template.Structure, error) {
	reg := registry.New()
	name := ref
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		base := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
		if name, err = reg.LoadFile(base, ref); err != nil {
			return nil, err
		}
	} else if cfg.TemplateDir != "" {
		loaded, err := reg.LoadDir(cfg.TemplateDir)
		if err != nil {
			return nil, err
		}
		common.Logf("loaded %d templates from %s", len(loaded), cfg.TemplateDir)
	}

	opts := template.Options{Logger: common.Logger()}
	if cfg.Resources != "" {
		idx, err := registry.LoadResources(cfg.Resources)
		if err != nil {
			return nil, err
		}
		opts.Resolver = idx
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, err
	}
	return reg.Decode(name, data, opts)
}

func firstDifference(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
