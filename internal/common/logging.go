// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger = log.New(os.Stderr, "[tmplctl] ", log.LstdFlags|log.Lmicroseconds)
)

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// Logger returns the shared logger, for components that take a *log.Logger.
func Logger() *log.Logger {
	return logger
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// SetupLogging sends the shared logger to stderr and a rotating file named
// name.log in cfg.Directory. An empty directory leaves stderr only.
func SetupLogging(cfg LogConfig, name string) (io.Closer, error) {
	if cfg.Directory == "" {
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, name+".log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
