// Tests for the algtype command tree, run in-process against a temporary
// configuration directory.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/algtype/internal/catalog"
	"github.com/mesh-intelligence/algtype/pkg/powermap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command with args against the config directory dir.
func run(t *testing.T, dir string, args ...string) result {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", dir}, args...))
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	r := run(t, dir, args...)
	require.NoError(t, r.err, "algtype %s", strings.Join(args, " "))
	return r.stdout
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

// --- version, init ---

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "version")
	assert.Contains(t, out, "algtype v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	out := mustRun(t, dir, "init")
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, configFile{Output: "text", Limit: defaultLimit, LogLevel: defaultLogLevel}, cfg)

	out = mustRun(t, dir, "init")
	assert.Contains(t, out, "kept existing")
}

// --- configuration ---

func TestConfigOutputJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: json\n")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "card", "option-bool")), &got))
	assert.Equal(t, map[string]any{"domain": "option-bool", "card": "3"}, got)
}

func TestConfigLimit(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "limit: 2\n")
	assert.Equal(t, "0\t-128\n1\t-127\n", mustRun(t, dir, "list", "int8"))
	assert.Equal(t, "5\t-123\n", mustRun(t, dir, "list", "int8", "--from", "5", "--limit", "1"))
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log_level: loud\n")
	r := run(t, dir, "card", "bool")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))

	writeConfig(t, dir, "output: [\n")
	r = run(t, dir, "card", "bool")
	require.Error(t, r.err)
	assert.Equal(t, exitSysError, exitCode(r.err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	r := run(t, t.TempDir(), "--verbose", "card", "bool")
	require.NoError(t, r.err)
	assert.Equal(t, "2\n", r.stdout)
	assert.Contains(t, r.stderr, "domain resolved")
}

// --- domain commands ---

func TestDomains(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "domains")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "option-bool")

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "--json", "domains")), &infos))
	require.Len(t, infos, len(catalog.All()))
	cards := make(map[string]any)
	for _, info := range infos {
		cards[info["name"].(string)] = info["card"]
	}
	assert.Equal(t, "3", cards["option-bool"])
	assert.Equal(t, "overflow", cards["uint64"])
}

func TestShapeAndCard(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "Sum<One, Sum<Product<bool, One>, Zero>>\n", mustRun(t, dir, "shape", "option-bool"))
	assert.Equal(t, "4\n", mustRun(t, dir, "card", "signal"))
	assert.Equal(t, "65536\n", mustRun(t, dir, "card", "int16"))
	assert.Equal(t, "overflow\n", mustRun(t, dir, "card", "pair-uint64-bool"))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "0\tnull\n1\tfalse\n2\ttrue\n", mustRun(t, dir, "list", "option-bool", "--limit", "0"))
	assert.Equal(t, "2\t\"dim(cool)\"\n3\t\"dim(warm)\"\n", mustRun(t, dir, "list", "signal", "--from", "2"))

	var items []listItem
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "--json", "list", "bool")), &items))
	assert.Equal(t, []listItem{{Index: 0, Value: false}, {Index: 1, Value: true}}, items)

	r := run(t, dir, "list", "bool", "--from", "2")
	assert.ErrorIs(t, r.err, errOutOfRange)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestIndex(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "2\n", mustRun(t, dir, "index", "pair-bool", `{"First": true, "Second": false}`))
	assert.Equal(t, "2\n", mustRun(t, dir, "index", "option-bool", "true"))
	assert.Equal(t, "255\n", mustRun(t, dir, "index", "int8", "127"))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "--json", "index", "signal", `"on"`)), &got))
	assert.Equal(t, map[string]any{"index": float64(1), "count_from": "3"}, got)

	r := run(t, dir, "index", "pair-uint64-bool", `{"First": 18446744073709551615, "Second": true}`)
	assert.ErrorIs(t, r.err, errNoIndex)

	r = run(t, dir, "index", "int8", "300")
	assert.ErrorIs(t, r.err, catalog.ErrBadValue)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestValue(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "-128\n", mustRun(t, dir, "value", "int8", "0"))
	assert.Equal(t, "\"dim(cool)\"\n", mustRun(t, dir, "value", "signal", "2"))
	assert.Equal(t, "[false,true,true]\n", mustRun(t, dir, "value", "bits3", "3"))

	r := run(t, dir, "value", "option-bool", "3")
	assert.ErrorIs(t, r.err, errOutOfRange)

	r = run(t, dir, "value", "option-bool", "-1")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestMap(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "\"off\"\t0\n\"on\"\t1\n\"dim(cool)\"\t2\n\"dim(warm)\"\t3\n", mustRun(t, dir, "map", "signal"))

	var rows []mapRow
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "--json", "map", "option-bool")), &rows))
	assert.Equal(t, []mapRow{{Key: nil, Index: 0}, {Key: false, Index: 1}, {Key: true, Index: 2}}, rows)

	r := run(t, dir, "map", "uint64")
	assert.ErrorIs(t, r.err, powermap.ErrKeyTooWide)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestUnknownDomain(t *testing.T) {
	r := run(t, t.TempDir(), "card", "float64")
	assert.ErrorIs(t, r.err, catalog.ErrUnknownDomain)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitUserError, exitCode(userError(errors.New("x"))))
	assert.Equal(t, exitSysError, exitCode(sysError(errors.New("x"))))
}

func TestSchema(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, t.TempDir(), "schema", "signal")), &got))
	assert.Equal(t, "string", got["type"])
	assert.Len(t, got["enum"], 4)
}
