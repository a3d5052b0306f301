// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrews05/ResForge-sub001/internal/common"
)

const defaultConfigPath = "tmplctl.yaml"

type config struct {
	TemplateDir string           `yaml:"templateDir"`
	Resources   string           `yaml:"resources"`
	Width       int              `yaml:"width"`
	Logs        common.LogConfig `yaml:"logs"`
}

// loadConfig reads path. A missing file yields the defaults.
func loadConfig(path string) (config, error) {
	var cfg config
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && err != io.EOF {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if cfg.Width < 0 {
		return cfg, fmt.Errorf("width must not be negative")
	}
	if cfg.Logs.Directory != "" {
		if cfg.Logs.MaxSizeMB == 0 {
			cfg.Logs.MaxSizeMB = 10
		}
		if cfg.Logs.MaxBackups == 0 {
			cfg.Logs.MaxBackups = 3
		}
	}
	return cfg, nil
}
