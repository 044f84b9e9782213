// Package integration runs the built algtype binary end to end.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// algtypeBin is the path to the built algtype binary.
	algtypeBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetAlgtypeBin sets the path to the algtype binary (called from TestMain).
func SetAlgtypeBin(path string) {
	algtypeBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
}

// NewTestEnv creates a new isolated test environment. The config directory
// is not created; "algtype init" creates it.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build algtype: %v", buildErr)
	}
	if algtypeBin == "" {
		t.Fatal("algtype binary not built (algtypeBin is empty)")
	}

	tempDir := t.TempDir()
	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  filepath.Join(tempDir, "config"),
	}
}

// WriteConfig replaces config.yaml in the environment's config directory.
func (e *TestEnv) WriteConfig(body string) {
	e.t.Helper()
	if err := os.MkdirAll(e.Config, 0o755); err != nil {
		e.t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.Config, "config.yaml"), []byte(body), 0o644); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}
}

// CmdResult holds the result of an algtype command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunAlgtype executes the algtype CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunAlgtype(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config}, args...)
	cmd := exec.Command(algtypeBin, allArgs...)
	cmd.Env = append(os.Environ(), "ALGTYPE_OUTPUT=", "ALGTYPE_LIMIT=", "ALGTYPE_LOG_LEVEL=")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run algtype: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunAlgtype executes the algtype CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunAlgtype(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunAlgtype(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("algtype %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Item is one value printed by "algtype --json list" or "value".
type Item struct {
	Index uint64 `json:"index"`
	Value any    `json:"value"`
}
