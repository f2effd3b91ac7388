package estree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/js_peephole"
	"github.com/evanw/jsfold/internal/js_printer"
	"github.com/evanw/jsfold/internal/logger"
	"github.com/evanw/jsfold/internal/test"
)

func expectLoaded(t *testing.T, source string, expected string) *js_ast.AST {
	t.Helper()
	tree, err := Load([]byte(source))
	require.NoError(t, err)
	test.AssertEqualWithDiff(t, string(js_printer.Print(tree, js_printer.Options{}).JS), expected)
	return tree
}

func expectLoadError(t *testing.T, source string, expected string) {
	t.Helper()
	_, err := Load([]byte(source))
	require.Error(t, err)
	assert.Equal(t, expected, err.Error())
}

func TestLoadAndOptimize(t *testing.T) {
	// let x = 1 + 2;
	// f(x);
	tree := expectLoaded(t, `{
		"type": "Program", "sourceType": "script",
		"body": [
			{"type": "VariableDeclaration", "kind": "let", "declarations": [{
				"type": "VariableDeclarator",
				"id": {"type": "Identifier", "name": "x"},
				"init": {"type": "BinaryExpression", "operator": "+",
					"left": {"type": "Literal", "value": 1, "raw": "1"},
					"right": {"type": "Literal", "value": 2, "raw": "2"}}
			}]},
			{"type": "ExpressionStatement", "expression": {
				"type": "CallExpression", "optional": false,
				"callee": {"type": "Identifier", "name": "f"},
				"arguments": [{"type": "Identifier", "name": "x"}]
			}}
		]
	}`, "let x = 1 + 2;\nf(x);\n")

	assert.False(t, tree.IsModule)
	assert.False(t, tree.HasDirectEval)

	log := logger.NewDeferLog(logger.DeferLogNoVerboseOrDebug)
	result := js_peephole.Run(tree, config.DefaultOptions(), log)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.ReferencesRemoved)
	test.AssertEqualWithDiff(t, string(js_printer.Print(tree, js_printer.Options{}).JS), "let x = 3;\nf(3);\n")
}

func TestBlockScopeShadowing(t *testing.T) {
	// let a = 1;
	// { let a = 2; g(a); }
	// g(a);
	tree := expectLoaded(t, `{
		"type": "Program",
		"body": [
			{"type": "VariableDeclaration", "kind": "let", "declarations": [{
				"type": "VariableDeclarator",
				"id": {"type": "Identifier", "name": "a"},
				"init": {"type": "Literal", "value": 1, "raw": "1"}
			}]},
			{"type": "BlockStatement", "body": [
				{"type": "VariableDeclaration", "kind": "let", "declarations": [{
					"type": "VariableDeclarator",
					"id": {"type": "Identifier", "name": "a"},
					"init": {"type": "Literal", "value": 2, "raw": "2"}
				}]},
				{"type": "ExpressionStatement", "expression": {
					"type": "CallExpression",
					"callee": {"type": "Identifier", "name": "g"},
					"arguments": [{"type": "Identifier", "name": "a"}]
				}}
			]},
			{"type": "ExpressionStatement", "expression": {
				"type": "CallExpression",
				"callee": {"type": "Identifier", "name": "g"},
				"arguments": [{"type": "Identifier", "name": "a"}]
			}}
		]
	}`, "let a = 1;\n{\n  let a = 2;\n  g(a);\n}\ng(a);\n")

	outer := tree.Stmts[0].Data.(*js_ast.SLocal).Decls[0].Binding.Data.(*js_ast.BIdentifier).Ref
	block := tree.Stmts[1].Data.(*js_ast.SBlock)
	inner := block.Stmts[0].Data.(*js_ast.SLocal).Decls[0].Binding.Data.(*js_ast.BIdentifier).Ref
	assert.NotEqual(t, outer, inner)

	innerArg := block.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).Args[0].Data.(*js_ast.EIdentifier)
	outerArg := tree.Stmts[2].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).Args[0].Data.(*js_ast.EIdentifier)
	assert.Equal(t, inner, innerArg.Ref)
	assert.Equal(t, outer, outerArg.Ref)

	// Both calls go to the same global
	first := block.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).Target.Data.(*js_ast.EIdentifier)
	second := tree.Stmts[2].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).Target.Data.(*js_ast.EIdentifier)
	assert.Equal(t, first.Ref, second.Ref)
	assert.True(t, tree.Symbols.IsUnbound(first.Ref))

	reads, writes := tree.Symbols.CountReferences(outer)
	assert.Equal(t, 1, reads)
	assert.Equal(t, 0, writes)
}

func TestVarHoisting(t *testing.T) {
	// f(a); { var a = 1; }
	tree := expectLoaded(t, `{
		"type": "Program",
		"body": [
			{"type": "ExpressionStatement", "expression": {
				"type": "CallExpression",
				"callee": {"type": "Identifier", "name": "f"},
				"arguments": [{"type": "Identifier", "name": "a"}]
			}},
			{"type": "BlockStatement", "body": [
				{"type": "VariableDeclaration", "kind": "var", "declarations": [{
					"type": "VariableDeclarator",
					"id": {"type": "Identifier", "name": "a"},
					"init": {"type": "Literal", "value": 1, "raw": "1"}
				}]}
			]}
		]
	}`, "f(a);\n{\n  var a = 1;\n}\n")

	use := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).Args[0].Data.(*js_ast.EIdentifier)
	decl := tree.Stmts[1].Data.(*js_ast.SBlock).Stmts[0].Data.(*js_ast.SLocal).Decls[0].Binding.Data.(*js_ast.BIdentifier)
	assert.Equal(t, decl.Ref, use.Ref)
	assert.Equal(t, js_ast.SymbolHoisted, tree.Symbols.Get(decl.Ref).Kind)
}

func TestPureComment(t *testing.T) {
	// /* @__PURE__ */ f();
	tree := expectLoaded(t, `{
		"type": "Program", "start": 0, "end": 20,
		"comments": [{"type": "Block", "value": " @__PURE__ ", "start": 0, "end": 15}],
		"body": [
			{"type": "ExpressionStatement", "start": 16, "end": 20, "expression": {
				"type": "CallExpression", "start": 16, "end": 19,
				"callee": {"type": "Identifier", "name": "f", "start": 16, "end": 17},
				"arguments": []
			}}
		]
	}`, "f();\n")

	call := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall)
	assert.True(t, call.CanBeUnwrappedIfUnused)
}

func TestPureCommentUsesRange(t *testing.T) {
	// g(); /* #__PURE__ */ new F();
	tree := expectLoaded(t, `{
		"type": "Program", "range": [0, 28],
		"comments": [{"type": "Block", "value": " #__PURE__ ", "range": [5, 20]}],
		"body": [
			{"type": "ExpressionStatement", "range": [0, 4], "expression": {
				"type": "CallExpression", "range": [0, 3],
				"callee": {"type": "Identifier", "name": "g", "range": [0, 1]},
				"arguments": []
			}},
			{"type": "ExpressionStatement", "range": [21, 29], "expression": {
				"type": "NewExpression", "range": [21, 28],
				"callee": {"type": "Identifier", "name": "F", "range": [25, 26]},
				"arguments": []
			}}
		]
	}`, "g();\nnew F();\n")

	assert.False(t, tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).CanBeUnwrappedIfUnused)
	assert.True(t, tree.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ENew).CanBeUnwrappedIfUnused)
}

func TestNoSideEffectsComment(t *testing.T) {
	// /* #__NO_SIDE_EFFECTS__ */ export function f() {}
	tree := expectLoaded(t, `{
		"type": "Program", "sourceType": "module", "start": 0, "end": 49,
		"comments": [{"type": "Block", "value": " #__NO_SIDE_EFFECTS__ ", "start": 0, "end": 26}],
		"body": [
			{"type": "ExportNamedDeclaration", "start": 27, "end": 49, "specifiers": [], "source": null,
				"declaration": {
					"type": "FunctionDeclaration", "start": 34, "end": 49,
					"id": {"type": "Identifier", "name": "f", "start": 43, "end": 44},
					"params": [], "async": false, "generator": false,
					"body": {"type": "BlockStatement", "start": 47, "end": 49, "body": []}
				}
			}
		]
	}`, "export function f() {\n}\n")

	assert.True(t, tree.IsModule)
	fn := tree.Stmts[0].Data.(*js_ast.SFunction)
	assert.True(t, fn.IsExport)
	assert.True(t, fn.Fn.HasNoSideEffectsComment)
}

func TestDirectEval(t *testing.T) {
	tree := expectLoaded(t, `{
		"type": "Program",
		"body": [
			{"type": "ExpressionStatement", "expression": {
				"type": "CallExpression",
				"callee": {"type": "Identifier", "name": "eval"},
				"arguments": [{"type": "Literal", "value": "x", "raw": "'x'"}]
			}}
		]
	}`, "eval(\"x\");\n")
	assert.True(t, tree.HasDirectEval)
}

func TestLiterals(t *testing.T) {
	expectLoaded(t, `{
		"type": "Program",
		"body": [
			{"type": "ExpressionStatement", "expression": {"type": "Literal", "value": null, "raw": "0x10n", "bigint": "0x10"}},
			{"type": "ExpressionStatement", "expression": {"type": "Literal", "value": null, "raw": "1e999"}},
			{"type": "ExpressionStatement", "expression": {"type": "Literal", "value": null, "raw": "null"}},
			{"type": "ExpressionStatement", "expression": {"type": "Literal", "value": {}, "raw": "/a+/g",
				"regex": {"pattern": "a+", "flags": "g"}}},
			{"type": "ExpressionStatement", "expression": {"type": "Literal", "value": true, "raw": "true"}}
		]
	}`, "16n;\n1 / 0;\nnull;\n/a+/g;\ntrue;\n")
}

func TestLoadErrors(t *testing.T) {
	expectLoadError(t, `[]`, `invalid ESTree JSON: expected an object at the top level`)
	expectLoadError(t, `{"type": "File"}`, `expected a Program node but got "File"`)

	expectLoadError(t, `{"type": "Program", "body": [{"type": "Foo", "start": 3, "end": 4}]}`,
		`unsupported node type "Foo" (at offset 3)`)

	expectLoadError(t, `{"type": "Program", "body": [{
		"type": "WithStatement", "start": 0, "end": 11,
		"object": {"type": "Identifier", "name": "a"},
		"body": {"type": "BlockStatement", "body": []}
	}]}`, `"with" statements are not supported (at offset 0)`)

	_, err := Load([]byte(`{`))
	assert.Error(t, err)
}

func TestReservedWordInModule(t *testing.T) {
	// let yield = 1;
	program := func(sourceType string) string {
		return `{"type": "Program", "sourceType": "` + sourceType + `", "body": [
			{"type": "VariableDeclaration", "kind": "let", "start": 0, "end": 14, "declarations": [{
				"type": "VariableDeclarator",
				"id": {"type": "Identifier", "name": "yield", "start": 4, "end": 9},
				"init": {"type": "Literal", "value": 1, "raw": "1"}
			}]}
		]}`
	}

	expectLoaded(t, program("script"), "let yield = 1;\n")
	expectLoadError(t, program("module"), `"yield" cannot be used as a name in module code (at offset 4)`)
}
