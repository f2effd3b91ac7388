package api_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/jsfold/internal/test"
	"github.com/evanw/jsfold/pkg/api"
)

// "f(<a> + <b>);"
func sumProgram(a int, b int) []byte {
	return []byte(fmt.Sprintf(`{
		"type": "Program",
		"body": [{"type": "ExpressionStatement", "expression": {
			"type": "CallExpression",
			"callee": {"type": "Identifier", "name": "f"},
			"arguments": [{"type": "BinaryExpression", "operator": "+",
				"left": {"type": "Literal", "value": %d, "raw": "%d"},
				"right": {"type": "Literal", "value": %d, "raw": "%d"}}]
		}}]
	}`, a, a, b, b))
}

// "if (false) g(); h(1 + 2);"
const deadBranch = `{
	"type": "Program",
	"body": [
		{"type": "IfStatement",
			"test": {"type": "Literal", "value": false, "raw": "false"},
			"consequent": {"type": "ExpressionStatement", "expression": {
				"type": "CallExpression", "callee": {"type": "Identifier", "name": "g"}, "arguments": []}},
			"alternate": null},
		{"type": "ExpressionStatement", "expression": {
			"type": "CallExpression", "callee": {"type": "Identifier", "name": "h"},
			"arguments": [{"type": "BinaryExpression", "operator": "+",
				"left": {"type": "Literal", "value": 1, "raw": "1"},
				"right": {"type": "Literal", "value": 2, "raw": "2"}}]}}
	]
}`

func TestOptimize(t *testing.T) {
	result := api.Optimize(sumProgram(1, 2), api.OptimizeOptions{})
	require.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), "f(3);\n")
	assert.True(t, result.Converged)
	assert.Equal(t, 2, result.Passes)
	assert.Empty(t, result.Logs)
}

func TestOptimizeMinifyWhitespace(t *testing.T) {
	result := api.Optimize(sumProgram(1, 2), api.OptimizeOptions{MinifyWhitespace: true})
	require.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), "f(3);")
}

func TestOptimizeDeadCodeOnly(t *testing.T) {
	result := api.Optimize([]byte(deadBranch), api.OptimizeOptions{Mode: api.ModeDeadCodeOnly})
	require.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), "h(1 + 2);\n")

	result = api.Optimize([]byte(deadBranch), api.OptimizeOptions{})
	require.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), "h(3);\n")
}

func TestOptimizeDebugLogs(t *testing.T) {
	result := api.Optimize(sumProgram(1, 2), api.OptimizeOptions{LogLevel: api.LogLevelDebug})
	require.Empty(t, result.Errors)
	require.NotEmpty(t, result.Logs)
	assert.Contains(t, result.Logs[0].Text, "Pass 1 changed the tree")
}

func TestOptimizeErrors(t *testing.T) {
	result := api.Optimize([]byte(`{"type": "Program", "body": [{"type": "Foo"}]}`), api.OptimizeOptions{Sourcefile: "in.json"})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `unsupported node type "Foo" (at offset 0)`, result.Errors[0].Text)
	require.NotNil(t, result.Errors[0].Location)
	assert.Equal(t, "in.json", result.Errors[0].Location.File)
	assert.Nil(t, result.JS)

	result = api.Optimize([]byte(`not json`), api.OptimizeOptions{})
	require.Len(t, result.Errors, 1)
	assert.Nil(t, result.Errors[0].Location)
}

func TestOptimizeAllKeepsJobOrder(t *testing.T) {
	var jobs []api.OptimizeJob
	for i := 0; i < 20; i++ {
		jobs = append(jobs, api.OptimizeJob{Input: sumProgram(i, 1)})
	}

	results, err := api.OptimizeAll(context.Background(), jobs, api.BatchOptions{Parallel: 4})
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, result := range results {
		require.Empty(t, result.Errors)
		assert.Equal(t, fmt.Sprintf("f(%d);\n", i+1), string(result.JS))
	}
}

func TestOptimizeAllReportsErrorsPerJob(t *testing.T) {
	jobs := []api.OptimizeJob{
		{Input: sumProgram(1, 1)},
		{Input: []byte(`{}`)},
		{Input: sumProgram(2, 2)},
	}

	results, err := api.OptimizeAll(context.Background(), jobs, api.BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results[0].Errors)
	assert.Len(t, results[1].Errors, 1)
	assert.Equal(t, "f(4);\n", string(results[2].JS))
}

func TestOptimizeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := api.OptimizeAll(ctx, []api.OptimizeJob{{Input: sumProgram(1, 1)}}, api.BatchOptions{Parallel: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results[0].JS)
}
