//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binLint  = "golangci-lint"
	binGofmt = "gofmt"
)

// Fmt fails when any Go file outside _examples is not gofmt-clean.
func Fmt() error {
	out, err := sh.Output(binGofmt, "-l", "cmd", "internal", "pkg", "tests", "magefiles")
	if err != nil {
		return err
	}
	if files := strings.Fields(out); len(files) > 0 {
		return fmt.Errorf("gofmt needed on %d files: %s", len(files), strings.Join(files, " "))
	}
	return nil
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Lint checks formatting, runs go vet, then golangci-lint.
func Lint() error {
	mg.SerialDeps(Fmt, Vet)
	return sh.RunV(binLint, "run", "./...")
}

// Check runs every lint target and the unit tests.
func Check() {
	mg.SerialDeps(Lint, Test.Unit)
}
