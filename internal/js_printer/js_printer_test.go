package js_printer

import (
	"math"
	"testing"

	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/test"
)

func expectPrinted(t *testing.T, tree *js_ast.AST, expected string) {
	t.Helper()
	test.AssertEqualWithDiff(t, string(Print(tree, Options{}).JS), expected)
}

func expectPrintedMinify(t *testing.T, tree *js_ast.AST, expected string) {
	t.Helper()
	test.AssertEqualWithDiff(t, string(Print(tree, Options{MinifyWhitespace: true}).JS), expected)
}

func expectPrintedExpr(t *testing.T, expr js_ast.Expr, expected string) {
	t.Helper()
	expectPrintedExprWithSymbols(t, &js_ast.SymbolTable{}, expr, expected)
}

func expectPrintedExprWithSymbols(t *testing.T, symbols *js_ast.SymbolTable, expr js_ast.Expr, expected string) {
	t.Helper()
	test.AssertEqualWithDiff(t, PrintExpr(expr, symbols, Options{}), expected)
}

func TestNumber(t *testing.T) {
	expectPrintedExpr(t, test.Num(0), "0")
	expectPrintedExpr(t, test.Num(123), "123")
	expectPrintedExpr(t, test.Num(1000), "1e3")
	expectPrintedExpr(t, test.Num(0.5), "0.5")
	expectPrintedExpr(t, test.Num(0.001), "1e-3")
	expectPrintedExpr(t, test.Num(1.5e100), "15e99")
	expectPrintedExpr(t, test.Num(-1), "-1")
	expectPrintedExpr(t, test.Num(math.NaN()), "0 / 0")
	expectPrintedExpr(t, test.Num(math.Inf(1)), "1 / 0")
	expectPrintedExpr(t, test.Num(math.Inf(-1)), "-1 / 0")

	// Negative numbers and divisions must be wrapped under prefix operators
	expectPrintedExpr(t, test.Un(js_ast.UnOpNeg, test.Num(-1)), "- -1")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpMul, test.Num(2), test.Num(math.NaN())), "2 * (0 / 0)")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpAdd, test.Num(2), test.Num(math.Inf(1))), "2 + 1 / 0")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpSub, test.Num(2), test.Num(-3)), "2 - -3")
	expectPrintedExpr(t, test.Dot(test.Num(1), "toString"), "(1).toString")
}

func TestString(t *testing.T) {
	expectPrintedExpr(t, test.Str("abc"), "\"abc\"")
	expectPrintedExpr(t, test.Str("a\"b"), "'a\"b'")
	expectPrintedExpr(t, test.Str("a'b"), "\"a'b\"")
	expectPrintedExpr(t, test.Str("a\nb\x00"), "\"a\\nb\\0\"")
	expectPrintedExpr(t, test.Str("\u2028"), "\"\\u2028\"")
}

func TestLiterals(t *testing.T) {
	expectPrintedExpr(t, test.Undefined(), "void 0")
	expectPrintedExpr(t, test.Un(js_ast.UnOpNot, test.Undefined()), "!void 0")
	expectPrintedExpr(t, test.Null(), "null")
	expectPrintedExpr(t, test.Bool(true), "true")
	expectPrintedExpr(t, test.BigInt("123"), "123n")
	expectPrintedExpr(t, test.Array(test.Num(1), js_ast.Expr{Data: &js_ast.EMissing{}}), "[1, ,]")
}

func TestOperators(t *testing.T) {
	b := test.NewBuilder()
	a := b.Global("a")

	expectPrintedExpr(t, test.Bin(js_ast.BinOpMul, test.Bin(js_ast.BinOpAdd, test.Num(1), test.Num(2)), test.Num(3)), "(1 + 2) * 3")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpSub, test.Num(1), test.Bin(js_ast.BinOpSub, test.Num(2), test.Num(3))), "1 - (2 - 3)")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpPow, test.Bin(js_ast.BinOpPow, test.Num(2), test.Num(3)), test.Num(4)), "(2 ** 3) ** 4")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpPow, test.Un(js_ast.UnOpNeg, test.Num(2)), test.Num(2)), "(-2) ** 2")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpAdd, test.Num(1), test.Un(js_ast.UnOpPos, test.Num(2))), "1 + +2")
	expectPrintedExpr(t, test.Un(js_ast.UnOpTypeof, test.Str("x")), "typeof \"x\"")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpNullishCoalescing,
		test.Bin(js_ast.BinOpLogicalOr, test.Num(1), test.Num(2)), test.Num(3)), "(1 || 2) ?? 3")
	expectPrintedExpr(t, test.Bin(js_ast.BinOpComma, test.Num(1), test.Num(2)), "1, 2")
	expectPrintedExpr(t, test.If(test.Bool(true), test.Num(1), test.If(test.Bool(false), test.Num(2), test.Num(3))), "true ? 1 : false ? 2 : 3")
	expectPrintedExpr(t, test.If(test.If(test.Bool(true), test.Num(1), test.Num(2)), test.Num(3), test.Num(4)), "(true ? 1 : 2) ? 3 : 4")
	expectPrintedExprWithSymbols(t, &b.Symbols, test.Call(test.Dot(a, "b"), test.Num(1)), "a.b(1)")
	expectPrintedExprWithSymbols(t, &b.Symbols, test.Dot(b.Global("a"), "not valid"), "a[\"not valid\"]")
}

func TestStatements(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	f := b.Hoisted("f")
	tree := b.AST(
		test.Let(x, test.Num(1)),
		test.Fn(f, test.Return(b.Read(x))),
		test.IfStmt(b.Read(x), test.ExprStmt(test.Call(b.Read(f))), test.Block(test.Return(js_ast.Expr{}))),
		test.While(test.Bool(true), test.Block()),
	)
	expectPrinted(t, tree, `let x = 1;
function f() {
  return x;
}
if (x)
  f();
else {
  return;
}
while (true) {
}
`)
	expectPrintedMinify(t, tree, "let x=1;function f(){return x}if(x)f();else{return}while(true){}")
}

func TestAmbiguousElse(t *testing.T) {
	b := test.NewBuilder()
	a := b.Global("a")
	tree := b.AST(test.IfStmt(a, test.IfStmt(b.Global("b"), test.ExprStmt(test.Num(1)), js_ast.Stmt{}), test.ExprStmt(test.Num(2))))
	expectPrinted(t, tree, `if (a) {
  if (b)
    1;
} else
  2;
`)
}

func TestStatementStart(t *testing.T) {
	b := test.NewBuilder()
	obj := js_ast.Expr{Data: &js_ast.EObject{}}
	fn := js_ast.Expr{Data: &js_ast.EFunction{}}
	tree := b.AST(
		test.ExprStmt(test.Dot(obj, "x")),
		test.ExprStmt(test.Call(fn)),
		test.ExprStmt(test.Bin(js_ast.BinOpAdd, test.Num(1), obj)),
	)
	expectPrinted(t, tree, `({}).x;
(function() {
})();
1 + {};
`)
}

func TestShorthandProperty(t *testing.T) {
	b := test.NewBuilder()
	x := b.Local("x")
	obj := js_ast.Expr{Data: &js_ast.EObject{Properties: []js_ast.Property{
		{Key: test.Str("x"), ValueOrNil: b.Read(x)},
		{Key: test.Str("y"), ValueOrNil: b.Read(x)},
		{Key: test.Str("a-b"), ValueOrNil: test.Num(1)},
	}}}
	expectPrinted(t, b.AST(test.Let(x, obj)), "let x = { x, y: x, \"a-b\": 1 };\n")
}
