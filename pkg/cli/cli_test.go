package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "f(<a> + <b>);"
func sumProgram(a int, b int) string {
	return fmt.Sprintf(`{
		"type": "Program",
		"body": [{"type": "ExpressionStatement", "expression": {
			"type": "CallExpression",
			"callee": {"type": "Identifier", "name": "f"},
			"arguments": [{"type": "BinaryExpression", "operator": "+",
				"left": {"type": "Literal", "value": %d, "raw": "%d"},
				"right": {"type": "Literal", "value": %d, "raw": "%d"}}]
		}}]
	}`, a, a, b, b)
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	args = append(args, "--log-file", filepath.Join(t.TempDir(), "jsfold.log"))
	var stdout, stderr bytes.Buffer
	code := RunWithIO(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestOptimizeStdin(t *testing.T) {
	result := run(t, sumProgram(1, 2), "optimize")
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(3);\n", result.stdout)
}

func TestOptimizeFlags(t *testing.T) {
	result := run(t, sumProgram(1, 2), "optimize", "--minify-whitespace")
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(3);", result.stdout)

	result = run(t, sumProgram(1, 2), "optimize", "--mode", "dce")
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(1 + 2);\n", result.stdout)

	result = run(t, sumProgram(1, 2), "optimize", "--mode", "fast")
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, `invalid mode "fast"`)
}

func TestOptimizeEnvironment(t *testing.T) {
	t.Setenv("JSFOLD_MINIFY_WHITESPACE", "true")
	result := run(t, sumProgram(1, 2), "optimize")
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(3);", result.stdout)
}

func TestOptimizeConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	writeFile(t, configPath, "mode: dce\n")

	result := run(t, sumProgram(1, 2), "optimize", "--config", configPath)
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(1 + 2);\n", result.stdout)

	// Flags win over the config file
	result = run(t, sumProgram(1, 2), "optimize", "--config", configPath, "--mode", "full")
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(3);\n", result.stdout)

	result = run(t, sumProgram(1, 2), "optimize", "--config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "failed to read config file")
}

func TestOptimizeFilesToOutdir(t *testing.T) {
	dir := t.TempDir()
	outdir := filepath.Join(dir, "out")
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, sumProgram(1, 2))
	writeFile(t, b, sumProgram(3, 4))

	result := run(t, "", "optimize", "--outdir", outdir, "--stats", a, b)
	require.Equal(t, 0, result.code, result.stderr)
	assert.Empty(t, result.stdout)

	js, err := os.ReadFile(filepath.Join(outdir, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "f(3);\n", string(js))
	js, err = os.ReadFile(filepath.Join(outdir, "b.js"))
	require.NoError(t, err)
	assert.Equal(t, "f(7);\n", string(js))

	assert.Contains(t, result.stderr, "Refs removed")
	assert.Contains(t, result.stderr, a)
	assert.Contains(t, result.stderr, "Total files 2")
}

func TestOptimizeErrors(t *testing.T) {
	result := run(t, `{"type": "Program", "body": [{"type": "Foo"}]}`, "optimize")
	assert.Equal(t, 1, result.code)
	assert.Empty(t, result.stdout)
	assert.Contains(t, result.stderr, `<stdin>: unsupported node type "Foo"`)
	assert.Contains(t, result.stderr, "1 of 1 files could not be optimized")

	result = run(t, "", "optimize", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "could not read input file")

	result = run(t, "", "optimize", "--watch")
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "--watch needs at least one input file")
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	var stdout, stderr bytes.Buffer
	code := RunWithIO(context.Background(), []string{"optimize", "--log-file", logPath, "--verbose"},
		strings.NewReader(sumProgram(1, 2)), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "msg=optimized")
	assert.Contains(t, string(contents), "passes=2")
	assert.Contains(t, string(contents), "Pass 1 changed the tree")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsfold.yaml")

	result := run(t, "", "init", path)
	require.Equal(t, 0, result.code, result.stderr)
	assert.Contains(t, result.stdout, "Wrote "+path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "mode: full")
	assert.Contains(t, string(contents), "inline_constants: true")

	// The written file is a valid config
	result = run(t, sumProgram(1, 2), "optimize", "--config", path)
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "f(3);\n", result.stdout)

	result = run(t, "", "init", path)
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "failed to write config file")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.json")
	outdir := filepath.Join(dir, "out")
	output := filepath.Join(outdir, "a.js")
	writeFile(t, input, sumProgram(1, 2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr bytes.Buffer
	done := make(chan int)
	go func() {
		done <- RunWithIO(ctx, []string{"optimize", "--watch", "--outdir", outdir, "--log-file", filepath.Join(dir, "log"), input},
			strings.NewReader(""), &stdout, &stderr)
	}()

	hasOutput := func(expected string) func() bool {
		return func() bool {
			js, err := os.ReadFile(output)
			return err == nil && string(js) == expected
		}
	}
	require.Eventually(t, hasOutput("f(3);\n"), 5*time.Second, 10*time.Millisecond)

	writeFile(t, input, sumProgram(2, 2))
	require.Eventually(t, hasOutput("f(4);\n"), 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, stderr.String(), "[watch] build finished")
}
