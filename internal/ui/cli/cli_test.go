package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = "def foo(arg1):\n    pass\n"

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := RunWith(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	code, out, _ := run(t, "", "--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "doq "+Version+"\n", out)

	code, out, _ = run(t, "", "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "doq "+Version+"\n", out)
}

func TestRun_Stdin(t *testing.T) {
	t.Chdir(t.TempDir())

	code, out, _ := run(t, src)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "def foo(arg1):\n    \"\"\"foo.\n\n    :param arg1:\n    \"\"\"\n    pass\n", out)
}

func TestRun_FileWriteWithFormatter(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	code, out, _ := run(t, "", "-f", path, "--formatter", "google", "-w")
	require.Equal(t, exitOK, code)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Args:")
	assert.Contains(t, string(data), "arg1:")
}

func TestRun_ProjectConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.cfg"), []byte("[doq]\nformatter = numpy\n"), 0o644))

	code, out, _ := run(t, src)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Parameters\n    ----------")

	// Flags win over the file.
	code, out, _ = run(t, src, "--formatter", "sphinx")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, ":param arg1:")
}

func TestRun_JSONStyle(t *testing.T) {
	t.Chdir(t.TempDir())

	code, out, _ := run(t, src, "-s", "json")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "["), out)
	assert.Contains(t, out, `"start_lineno": 1`)
}

func TestRun_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	code, _, stderr := run(t, src, "--style", "xml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "style must be one of")

	code, _, _ = run(t, src, "--template_path", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, exitError, code)

	code, _, _ = run(t, src, "--no-such-flag")
	assert.Equal(t, exitUsage, code)

	code, _, _ = run(t, "", "-f", filepath.Join(t.TempDir(), "missing.py"))
	assert.Equal(t, exitError, code)
}

func TestRun_PrintCompletion(t *testing.T) {
	t.Chdir(t.TempDir())

	code, out, _ := run(t, "", "--print-completion", "bash")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "bash completion")

	code, _, _ = run(t, "", "--print-completion", "tcsh")
	assert.Equal(t, exitUsage, code)
}

func TestRun_VerboseSummary(t *testing.T) {
	t.Chdir(t.TempDir())

	code, _, stderr := run(t, src, "--verbose")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "doq summary")
}
