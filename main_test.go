package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("PGFORMAT_LOG_LEVEL", "error")
	t.Setenv("PGFORMAT_RAW_CHECK", "off")

	var stdout, stderr bytes.Buffer
	argv := append([]string{"-config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	code := run(argv, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Format(t *testing.T) {
	code, out, errOut := runCLI(t, "select %I from %I where %L", "col", "tbl", "it's")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "select col from tbl where 'it''s'\n", out)
}

func TestRun_ArgsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.json")
	require.NoError(t, os.WriteFile(path, []byte(`[["a", null, "b"], null]`), 0644))

	code, out, errOut := runCLI(t, "-args", path, "select * from %I where id in %L and x = %L", "events")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "select * from events where id in ('a', NULL, 'b') and x = NULL\n", out)
}

func TestRun_IdentRequired(t *testing.T) {
	code, out, errOut := runCLI(t, "select %I")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "invalid argument")
}

func TestRun_Statement(t *testing.T) {
	code, out, _ := runCLI(t, "-statement", "select %L;", "a;b")
	require.Equal(t, 0, code)
	assert.Equal(t, "select 'a;b'\n", out)

	code, _, errOut := runCLI(t, "-statement", "select 1 %s", "; drop table x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "multiple SQL statements")
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage: pgformat")
	assert.Contains(t, errOut, usage, "usage text is written verbatim")
	assert.Contains(t, errOut, "%%  a literal percent sign")
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "dev\n", out)
}
