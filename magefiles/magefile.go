//go:build mage

// Package main provides build targets for the algtype project using Mage.
//
// Usage:
//
//	mage build             Compile algtype binary to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests (exclude integration)
//	mage test:integration  Run only integration tests (builds first)
//	mage test:cover        Run unit tests with a coverage profile
//	mage fmt               Fail on files that need gofmt
//	mage vet               Run go vet
//	mage lint              Run fmt, vet and golangci-lint
//	mage check             Run lint and the unit tests
//	mage clean             Remove build artifacts
//	mage install           Install algtype to GOPATH/bin
//	mage stats             Print Go line counts per package as JSON
package main

// Default target to run when none is specified.
var Default = Build
