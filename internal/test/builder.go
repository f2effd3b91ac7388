package test

import (
	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

// Builds trees by hand for tests. Every identifier made here registers a
// reference in the symbol table, the same way the loader does, so reference
// counts are accurate from the start.
type Builder struct {
	Symbols js_ast.SymbolTable
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Local(name string) js_ast.Ref {
	return b.Symbols.NewSymbol(js_ast.SymbolOther, name)
}

func (b *Builder) Hoisted(name string) js_ast.Ref {
	return b.Symbols.NewSymbol(js_ast.SymbolHoisted, name)
}

func (b *Builder) Read(ref js_ast.Ref) js_ast.Expr {
	return js_ast.Expr{Data: b.Symbols.NewIdentifier(ref, js_ast.ReferenceRead)}
}

func (b *Builder) Write(ref js_ast.Ref) js_ast.Expr {
	return js_ast.Expr{Data: b.Symbols.NewIdentifier(ref, js_ast.ReferenceWrite)}
}

func (b *Builder) Global(name string) js_ast.Expr {
	return b.Read(b.Symbols.UnboundRef(name))
}

// "a = value"
func (b *Builder) Assign(ref js_ast.Ref, value js_ast.Expr) js_ast.Expr {
	return js_ast.Assign(b.Write(ref), value)
}

func (b *Builder) AST(stmts ...js_ast.Stmt) *js_ast.AST {
	return &js_ast.AST{Stmts: stmts, Symbols: b.Symbols}
}

func Num(value float64) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ENumber{Value: value}}
}

func Str(value string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EString{Value: helpers.StringToUTF16(value)}}
}

func Bool(value bool) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EBoolean{Value: value}}
}

func BigInt(value string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EBigInt{Value: value}}
}

func Null() js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ENull{}}
}

func Undefined() js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EUndefined{}}
}

func Array(items ...js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EArray{Items: items}}
}

func Bin(op js_ast.OpCode, left js_ast.Expr, right js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
}

func Un(op js_ast.OpCode, value js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EUnary{Op: op, Value: value}}
}

func If(test js_ast.Expr, yes js_ast.Expr, no js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EIf{Test: test, Yes: yes, No: no}}
}

func Call(target js_ast.Expr, args ...js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ECall{Target: target, Args: args}}
}

func Dot(target js_ast.Expr, name string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EDot{Target: target, Name: name}}
}

func ExprStmt(value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SExpr{Value: value}}
}

func local(kind js_ast.LocalKind, ref js_ast.Ref, value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SLocal{Kind: kind, Decls: []js_ast.Decl{{
		Binding:    js_ast.Binding{Data: &js_ast.BIdentifier{Ref: ref}},
		ValueOrNil: value,
	}}}}
}

// Pass a nil expression for a declaration without an initializer
func Var(ref js_ast.Ref, value js_ast.Expr) js_ast.Stmt {
	return local(js_ast.LocalVar, ref, value)
}

func Let(ref js_ast.Ref, value js_ast.Expr) js_ast.Stmt {
	return local(js_ast.LocalLet, ref, value)
}

func Const(ref js_ast.Ref, value js_ast.Expr) js_ast.Stmt {
	return local(js_ast.LocalConst, ref, value)
}

func IfStmt(test js_ast.Expr, yes js_ast.Stmt, noOrNil js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SIf{Test: test, Yes: yes, NoOrNil: noOrNil}}
}

func Block(stmts ...js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SBlock{Stmts: stmts}}
}

func While(test js_ast.Expr, body js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SWhile{Test: test, Body: body}}
}

func Return(valueOrNil js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SReturn{ValueOrNil: valueOrNil}}
}

func Throw(value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SThrow{Value: value}}
}

func Fn(name js_ast.Ref, body ...js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SFunction{Fn: js_ast.Fn{
		Name: &js_ast.LocRef{Ref: name},
		Body: js_ast.FnBody{Block: js_ast.SBlock{Stmts: body}},
	}}}
}
