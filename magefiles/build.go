//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "algtype"
	binaryDir  = "bin"
	cmdDir     = "./cmd/algtype"
)

// Build compiles the algtype binary to bin/ without local paths embedded.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binaryDir, binaryName)
	return sh.RunV(binGo, "build", "-trimpath", "-o", out, cmdDir)
}

// Clean removes bin/ and the coverage profile.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.Rm(coverProfile)
}

// Install installs algtype into GOBIN, or GOPATH/bin when GOBIN is unset.
func Install() error {
	return sh.RunV(binGo, "install", "-trimpath", cmdDir)
}
