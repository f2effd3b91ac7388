package js_peephole

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/js_printer"
	"github.com/evanw/jsfold/internal/logger"
	"github.com/evanw/jsfold/internal/test"
)

func expectOptimizedWithOptions(t *testing.T, tree *js_ast.AST, options config.Options, expected string) Result {
	t.Helper()
	log := logger.NewDeferLog(logger.DeferLogNoVerboseOrDebug)
	result := Run(tree, options, log)
	assert.Empty(t, log.Done())
	test.AssertEqualWithDiff(t, string(js_printer.Print(tree, js_printer.Options{}).JS), expected)
	return result
}

func expectOptimized(t *testing.T, tree *js_ast.AST, expected string) Result {
	t.Helper()
	return expectOptimizedWithOptions(t, tree, config.DefaultOptions(), expected)
}

func expectDeadCodeOnly(t *testing.T, tree *js_ast.AST, expected string) Result {
	t.Helper()
	options := config.DefaultOptions()
	options.Mode = config.ModeDeadCodeOnly
	return expectOptimizedWithOptions(t, tree, options, expected)
}

func fnBody(stmt js_ast.Stmt) []js_ast.Stmt {
	return stmt.Data.(*js_ast.SFunction).Fn.Body.Block.Stmts
}

func TestFoldArithmetic(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	tree := b.AST(
		test.Let(x, test.Bin(js_ast.BinOpAdd, test.Num(1), test.Bin(js_ast.BinOpMul, test.Num(2), test.Num(3)))),
		test.ExprStmt(test.Call(b.Global("f"), b.Read(x))),
	)
	result := expectOptimized(t, tree, "let x = 7;\nf(7);\n")
	assert.Equal(t, 2, result.Passes)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.ReferencesRemoved)
}

func TestDropUnusedTopLevel(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	tree := b.AST(
		test.Let(x, test.Num(1)),
		test.ExprStmt(test.Call(b.Global("f"), b.Read(x))),
	)
	options := config.DefaultOptions()
	options.DropUnusedTopLevel = true
	result := expectOptimizedWithOptions(t, tree, options, "f(1);\n")
	assert.Equal(t, 3, result.Passes)
}

func TestKeepTopLevelWithoutOption(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	f := b.Hoisted("f")
	tree := b.AST(test.Let(x, test.Num(1)), test.Fn(f))
	expectOptimized(t, tree, "let x = 1;\nfunction f() {\n}\n")
}

func TestDeadBranchKeepsVar(t *testing.T) {
	b := test.NewBuilder()
	a := b.Hoisted("a")
	tree := b.AST(
		test.IfStmt(test.Bool(false), test.Block(test.Var(a, test.Call(b.Global("g")))), js_ast.Stmt{}),
		test.ExprStmt(test.Call(b.Global("h"), b.Read(a))),
	)
	result := expectOptimized(t, tree, "var a;\nh(a);\n")
	assert.Equal(t, 1, result.ReferencesRemoved)
}

func TestDeadBranchRemovesReferences(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(
		test.IfStmt(test.Bool(false), test.ExprStmt(test.Call(b.Global("g"), b.Global("a"), b.Global("b"))), js_ast.Stmt{}),
	)
	result := expectOptimized(t, tree, "")
	assert.Equal(t, 3, result.ReferencesRemoved)
	assert.Equal(t, 2, result.Passes)
	for _, name := range []string{"g", "a", "b"} {
		assert.Empty(t, tree.Symbols.Get(tree.Symbols.UnboundRef(name)).References, name)
	}
}

func TestChainedConstantsConverge(t *testing.T) {
	build := func() *js_ast.AST {
		b := test.NewBuilder()
		f := b.Hoisted("f")
		a := b.Local("a")
		c := b.Local("b")
		d := b.Local("c")
		return b.AST(test.Fn(f,
			test.Let(a, test.Num(1)),
			test.Let(c, b.Read(a)),
			test.Let(d, b.Read(c)),
			test.Return(b.Read(d)),
		))
	}

	result := expectOptimized(t, build(), "function f() {\n  return 1;\n}\n")
	assert.Equal(t, 3, result.Passes)
	assert.True(t, result.Converged)
	assert.Equal(t, 3, result.ReferencesRemoved)

	// Stopping early leaves the declarations for the next pass to remove
	options := config.DefaultOptions()
	options.MaxIterations = 1
	result = expectOptimizedWithOptions(t, build(), options, "function f() {\n  let a = 1;\n  let b = 1;\n  let c = 1;\n  return 1;\n}\n")
	assert.Equal(t, 1, result.Passes)
	assert.False(t, result.Converged)

	options.MaxIterations = 3
	result = expectOptimizedWithOptions(t, build(), options, "function f() {\n  return 1;\n}\n")
	assert.Equal(t, 3, result.Passes)
	assert.True(t, result.Converged)

	options.MaxIterations = 2
	result = expectOptimizedWithOptions(t, build(), options, "function f() {\n  return 1;\n}\n")
	assert.Equal(t, 2, result.Passes)
	assert.False(t, result.Converged)
}

func TestRemoveUnusedDeclKeepsOtherReferences(t *testing.T) {
	b := test.NewBuilder()
	f := b.Hoisted("f")
	x := b.Local("x")
	y := b.Local("y")
	tree := b.AST(test.Fn(f,
		test.Let(x, test.Bin(js_ast.BinOpAdd, test.Num(1), test.Num(2))),
		test.Let(y, test.Call(b.Global("g"))),
		test.ExprStmt(test.Call(b.Global("h"), b.Read(y))),
	))

	before := make([]int, len(tree.Symbols.Symbols))
	for i, symbol := range tree.Symbols.Symbols {
		before[i] = len(symbol.References)
	}

	result := expectOptimized(t, tree, "function f() {\n  let y = g();\n  h(y);\n}\n")
	assert.Equal(t, 2, result.Passes)
	assert.Equal(t, 0, result.ReferencesRemoved)
	for i, symbol := range tree.Symbols.Symbols {
		assert.Len(t, symbol.References, before[i], symbol.OriginalName)
	}
}

func TestVoidCallStaysInTree(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(test.ExprStmt(test.Call(b.Global("h"), test.Un(js_ast.UnOpVoid, test.Call(b.Global("foo"))))))
	result := expectOptimized(t, tree, "h(void foo());\n")
	assert.Equal(t, 1, result.Passes)
	assert.True(t, result.Converged)
	assert.Len(t, tree.Symbols.Get(tree.Symbols.UnboundRef("foo")).References, 1)
}

func TestTypeofKeepsUndeclaredReferenceError(t *testing.T) {
	b := test.NewBuilder()
	y := b.Hoisted("y")
	tree := b.AST(
		test.Var(y, js_ast.Expr{}),
		test.ExprStmt(test.Call(b.Global("h"),
			test.Un(js_ast.UnOpTypeof, test.Bin(js_ast.BinOpComma, test.Num(0), b.Global("x"))),
			test.Un(js_ast.UnOpTypeof, test.Bin(js_ast.BinOpLogicalOr, test.Num(0), b.Global("x"))),
			test.Un(js_ast.UnOpTypeof, test.Bin(js_ast.BinOpComma, test.Num(0), b.Read(y))),
		)),
	)

	// Only a declared name can lose the comma, since "typeof x" never throws
	expectOptimized(t, tree, "var y;\nh(typeof (0, x), typeof (0 || x), typeof y);\n")
}

func TestDeadLexicalDeclInSwitchCase(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	tree := b.AST(js_ast.Stmt{Data: &js_ast.SSwitch{
		Test: b.Global("s"),
		Cases: []js_ast.Case{
			{ValueOrNil: test.Num(0), Body: []js_ast.Stmt{
				{Data: &js_ast.SBreak{}},
				test.Let(x, js_ast.Expr{}),
			}},
			{ValueOrNil: test.Num(1), Body: []js_ast.Stmt{
				test.ExprStmt(b.Assign(x, test.Num(2))),
				test.ExprStmt(test.Call(b.Global("h"), b.Read(x))),
			}},
		},
	}})

	// The assignment in the second clause must still see the declaration
	expectOptimized(t, tree, "switch (s) {\n  case 0:\n    break;\n    let x;\n  case 1:\n    x = 2, h(x);\n}\n")
}

func TestInlineConstantsDisabled(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	tree := b.AST(
		test.Const(x, test.Num(1)),
		test.ExprStmt(test.Call(b.Global("f"), b.Read(x))),
	)
	options := config.DefaultOptions()
	options.InlineConstants = false
	expectOptimizedWithOptions(t, tree, options, "const x = 1;\nf(x);\n")
}

func TestInlineConstantsNotInHoistedFunction(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	g := b.Hoisted("g")
	tree := b.AST(
		test.Const(x, test.Num(1)),
		test.Fn(g, test.Return(b.Read(x))),
	)
	expectOptimized(t, tree, "const x = 1;\nfunction g() {\n  return x;\n}\n")

	// Arrow functions can't be called before the declaration that creates them
	b = test.NewBuilder()
	x = b.Local("x")
	h := b.Local("h")
	arrow := js_ast.Expr{Data: &js_ast.EArrow{
		PreferExpr: true,
		Body:       js_ast.FnBody{Block: js_ast.SBlock{Stmts: []js_ast.Stmt{test.Return(b.Read(x))}}},
	}}
	tree = b.AST(test.Const(x, test.Num(1)), test.Const(h, arrow))
	expectOptimized(t, tree, "const x = 1;\nconst h = () => 1;\n")
}

func TestInlineConstantsNotWithDirectEval(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	tree := b.AST(
		test.Const(x, test.Num(1)),
		test.ExprStmt(test.Call(b.Global("eval"), b.Read(x))),
	)
	tree.HasDirectEval = true
	expectOptimized(t, tree, "const x = 1;\neval(x);\n")
}

func TestIfToExpression(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(
		test.IfStmt(b.Global("a"), test.ExprStmt(test.Call(b.Global("b"))), js_ast.Stmt{}),
		test.ExprStmt(test.Call(b.Global("sep"))),
	)
	expectOptimized(t, tree, "a && b(), sep();\n")

	b = test.NewBuilder()
	tree = b.AST(
		test.IfStmt(test.Un(js_ast.UnOpNot, b.Global("a")), test.ExprStmt(test.Call(b.Global("b"))), test.ExprStmt(test.Call(b.Global("c")))),
	)
	expectOptimized(t, tree, "a ? c() : b();\n")
}

func TestConditionalExpressionFolding(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(test.ExprStmt(test.If(
		test.Bin(js_ast.BinOpStrictEq, test.Un(js_ast.UnOpTypeof, test.Num(1)), test.Str("number")),
		test.Call(b.Global("f")),
		test.Call(b.Global("g")),
	)))
	expectOptimized(t, tree, "f();\n")
}

func TestNullishCoalescing(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(
		test.ExprStmt(test.Call(b.Global("h"), test.Bin(js_ast.BinOpNullishCoalescing, test.Null(), b.Global("x")))),
	)
	expectOptimized(t, tree, "h(x);\n")
}

func TestCallTargetKeepsThis(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(
		test.ExprStmt(test.Call(test.Bin(js_ast.BinOpComma, test.Num(0), test.Dot(b.Global("a"), "b")))),
		test.ExprStmt(test.Call(test.Bin(js_ast.BinOpComma, test.Num(0), b.Global("eval")), test.Str("x"))),
	)
	expectOptimized(t, tree, "(0, a.b)(), (0, eval)(\"x\");\n")

	// Plain identifiers don't pass "this"
	b = test.NewBuilder()
	tree = b.AST(test.ExprStmt(test.Call(test.Bin(js_ast.BinOpComma, test.Num(0), b.Global("f")))))
	expectOptimized(t, tree, "f();\n")
}

func TestReturnUndefined(t *testing.T) {
	b := test.NewBuilder()
	f := b.Hoisted("f")
	tree := b.AST(test.Fn(f, test.Return(test.Undefined())))
	expectOptimized(t, tree, "function f() {\n}\n")
}

func TestDeadCodeAfterReturn(t *testing.T) {
	b := test.NewBuilder()
	f := b.Hoisted("f")
	z := b.Hoisted("z")
	tree := b.AST(test.Fn(f,
		test.ExprStmt(test.Call(b.Global("g"))),
		test.Return(js_ast.Expr{}),
		test.ExprStmt(test.Call(b.Global("h"))),
		test.Var(z, test.Num(1)),
	))
	result := expectOptimized(t, tree, "function f() {\n  g();\n  return;\n  var z;\n}\n")
	assert.True(t, result.Converged)
	assert.Len(t, fnBody(tree.Stmts[0]), 3)
}

func TestDeadCodeAfterThrow(t *testing.T) {
	b := test.NewBuilder()
	f := b.Hoisted("f")
	tree := b.AST(test.Fn(f,
		test.Throw(test.Call(b.Global("g"))),
		test.ExprStmt(test.Call(b.Global("h"))),
	))
	result := expectOptimized(t, tree, "function f() {\n  throw g();\n}\n")
	assert.Equal(t, 1, result.ReferencesRemoved)
}

func TestForLoopWithFalseTest(t *testing.T) {
	b := test.NewBuilder()
	i := b.Local("i")
	tree := b.AST(js_ast.Stmt{Data: &js_ast.SFor{
		InitOrNil: test.Let(i, test.Num(0)),
		TestOrNil: test.Bool(false),
		Body:      test.ExprStmt(test.Call(b.Global("f"), b.Read(i))),
	}})
	result := expectOptimized(t, tree, "")
	assert.Equal(t, 3, result.Passes)
}

func TestEmptyTry(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(js_ast.Stmt{Data: &js_ast.STry{
		Finally: &js_ast.Finally{Block: js_ast.SBlock{Stmts: []js_ast.Stmt{test.ExprStmt(test.Call(b.Global("f")))}}},
	}})
	expectOptimized(t, tree, "f();\n")
}

func TestWhileFalse(t *testing.T) {
	b := test.NewBuilder()
	a := b.Hoisted("a")
	tree := b.AST(test.While(test.Bool(false), test.Block(test.Var(a, test.Num(1)), test.ExprStmt(test.Call(b.Global("f"))))))
	expectOptimized(t, tree, "var a;\n")
}

func TestDeadCodeOnly(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(
		test.IfStmt(test.Bool(true), test.Block(test.ExprStmt(test.Call(b.Global("f")))), test.Block(test.ExprStmt(test.Call(b.Global("g"))))),
		test.ExprStmt(test.Bin(js_ast.BinOpAdd, test.Num(1), test.Num(2))),
		test.ExprStmt(test.Call(b.Global("h"), test.Bin(js_ast.BinOpAdd, test.Num(1), test.Num(2)))),
	)
	result := expectDeadCodeOnly(t, tree, "f();\nh(1 + 2);\n")
	assert.True(t, result.Converged)
}

func TestUnusedPrivateMembers(t *testing.T) {
	b := test.NewBuilder()
	a := b.Symbols.NewSymbol(js_ast.SymbolClass, "A")
	x := b.Symbols.NewSymbol(js_ast.SymbolPrivateMethod, "#x")
	y := b.Symbols.NewSymbol(js_ast.SymbolPrivateField, "#y")
	method := func(stmts ...js_ast.Stmt) js_ast.Expr {
		return js_ast.Expr{Data: &js_ast.EFunction{Fn: js_ast.Fn{Body: js_ast.FnBody{Block: js_ast.SBlock{Stmts: stmts}}}}}
	}
	readY := js_ast.Expr{Data: &js_ast.EIndex{Target: js_ast.Expr{Data: &js_ast.EThis{}}, Index: js_ast.Expr{Data: &js_ast.EPrivateIdentifier{Ref: y}}}}
	tree := b.AST(js_ast.Stmt{Data: &js_ast.SClass{Class: js_ast.Class{
		Name: &js_ast.LocRef{Ref: a},
		Properties: []js_ast.Property{
			{Key: js_ast.Expr{Data: &js_ast.EPrivateIdentifier{Ref: x}}, ValueOrNil: method(), Flags: js_ast.PropertyIsMethod},
			{Key: js_ast.Expr{Data: &js_ast.EPrivateIdentifier{Ref: y}}, InitializerOrNil: test.Num(1)},
			{Key: test.Str("m"), ValueOrNil: method(test.Return(readY)), Flags: js_ast.PropertyIsMethod},
		},
	}}})
	expectOptimized(t, tree, "class A {\n  #y = 1;\n  m() {\n    return this.#y;\n  }\n}\n")
}

func TestPassesAreLogged(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST(test.ExprStmt(test.Call(b.Global("f"), test.Bin(js_ast.BinOpAdd, test.Num(1), test.Num(2)))))
	log := logger.NewDeferLog(logger.DeferLogAll)
	Run(tree, config.DefaultOptions(), log)
	msgs := log.Done()
	require.Len(t, msgs, 1)
	assert.Equal(t, logger.Debug, msgs[0].Kind)
	assert.Equal(t, "Pass 1 changed the tree and removed 0 references", msgs[0].Text)
}

func TestNonConvergence(t *testing.T) {
	b := test.NewBuilder()
	tree := b.AST()

	options := config.DefaultOptions()
	p := newPeephole(tree, options, logger.NewNullLog())
	assert.NotPanics(t, func() { p.reportNonConvergence(maxImplicitIterations) })

	options.Debug = true
	p = newPeephole(tree, options, logger.NewNullLog())
	assert.Panics(t, func() { p.reportNonConvergence(maxImplicitIterations) })
}
