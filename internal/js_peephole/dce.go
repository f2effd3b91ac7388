package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/logger"
)

// Top-level declarations in a script are properties of the global object and
// can be read by other scripts. "var" and function declarations are hoisted
// out of blocks, so they count as top-level even inside one.
func (p *peephole) canRemoveDecls(isExport bool, isHoisted bool) bool {
	if isExport || p.tree.HasDirectEval {
		return false
	}
	isTopLevel := p.fnDepth == 0 && (isHoisted || p.blockDepth == 0)
	return !isTopLevel || p.options.DropUnusedTopLevel
}

// "let a = 1, b = f();" => "let b = f();"
func (p *peephole) removeUnusedDecls(s *js_ast.SLocal) {
	end := 0
	for _, decl := range s.Decls {
		if id, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok && p.isUnused(id.Ref) &&
			(decl.ValueOrNil.Data == nil || !p.ev.MayHaveSideEffects(decl.ValueOrNil)) {
			p.changed = true
			continue
		}
		s.Decls[end] = decl
		end++
	}
	s.Decls = s.Decls[:end]
}

// Code after a jump never runs. What remains of it is the names declared with
// "var" and whole function declarations, since both are hoisted. Lexical
// declarations in a "case" clause also stay since another clause can still
// refer to them.
func (p *peephole) appendDeadStmt(stmts []js_ast.Stmt, stmt js_ast.Stmt, kind stmtsKind) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		if isBareVar(s) || (kind == stmtsSwitch && s.Kind != js_ast.LocalVar) {
			return append(stmts, stmt)
		}

	case *js_ast.SClass:
		if kind == stmtsSwitch {
			return append(stmts, stmt)
		}
	}

	hoisted, ok := hoistedDecls(stmt, nil)
	if !ok {
		return append(stmts, stmt)
	}
	p.changed = true
	return appendHoistedVar(stmts, stmt.Loc, hoisted)
}

func isBareVar(s *js_ast.SLocal) bool {
	if s.Kind != js_ast.LocalVar {
		return false
	}
	for _, decl := range s.Decls {
		if _, ok := decl.Binding.Data.(*js_ast.BIdentifier); !ok || decl.ValueOrNil.Data != nil {
			return false
		}
	}
	return true
}

func appendHoistedVar(stmts []js_ast.Stmt, loc logger.Loc, decls []js_ast.Decl) []js_ast.Stmt {
	if len(decls) == 0 {
		return stmts
	}
	return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}})
}

// Collects the "var" names declared anywhere in a statement that is about to
// be removed. Returns false if the statement contains something that can't be
// reduced to a "var" declaration, such as a function declaration.
func hoistedDecls(stmt js_ast.Stmt, decls []js_ast.Decl) ([]js_ast.Decl, bool) {
	switch s := stmt.Data.(type) {
	case nil:
		return decls, true

	case *js_ast.SEmpty, *js_ast.SExpr, *js_ast.SThrow, *js_ast.SReturn, *js_ast.SBreak,
		*js_ast.SContinue, *js_ast.SClass, *js_ast.SDebugger:
		return decls, true

	case *js_ast.SLocal:
		if s.Kind == js_ast.LocalVar {
			for _, decl := range s.Decls {
				js_ast.ForEachIdentifierBinding(decl.Binding, func(binding js_ast.Binding, b *js_ast.BIdentifier) {
					decls = append(decls, js_ast.Decl{Binding: js_ast.Binding{Loc: binding.Loc, Data: &js_ast.BIdentifier{Ref: b.Ref}}})
				})
			}
		}
		return decls, true

	case *js_ast.SBlock:
		return hoistedDeclsInStmts(s.Stmts, decls)

	case *js_ast.SIf:
		decls, ok := hoistedDecls(s.Yes, decls)
		if !ok {
			return nil, false
		}
		return hoistedDecls(s.NoOrNil, decls)

	case *js_ast.SWhile:
		return hoistedDecls(s.Body, decls)

	case *js_ast.SDoWhile:
		return hoistedDecls(s.Body, decls)

	case *js_ast.SLabel:
		return hoistedDecls(s.Stmt, decls)

	case *js_ast.SFor:
		decls, ok := hoistedDecls(s.InitOrNil, decls)
		if !ok {
			return nil, false
		}
		return hoistedDecls(s.Body, decls)

	case *js_ast.SForIn:
		decls, ok := hoistedDecls(s.Init, decls)
		if !ok {
			return nil, false
		}
		return hoistedDecls(s.Body, decls)

	case *js_ast.SForOf:
		decls, ok := hoistedDecls(s.Init, decls)
		if !ok {
			return nil, false
		}
		return hoistedDecls(s.Body, decls)

	case *js_ast.STry:
		decls, ok := hoistedDeclsInStmts(s.Block.Stmts, decls)
		if ok && s.Catch != nil {
			decls, ok = hoistedDeclsInStmts(s.Catch.Block.Stmts, decls)
		}
		if ok && s.Finally != nil {
			decls, ok = hoistedDeclsInStmts(s.Finally.Block.Stmts, decls)
		}
		return decls, ok

	case *js_ast.SSwitch:
		for _, c := range s.Cases {
			var ok bool
			if decls, ok = hoistedDeclsInStmts(c.Body, decls); !ok {
				return nil, false
			}
		}
		return decls, true
	}

	// Function declarations, imports, exports, and directives
	return nil, false
}

func hoistedDeclsInStmts(stmts []js_ast.Stmt, decls []js_ast.Decl) ([]js_ast.Decl, bool) {
	for _, stmt := range stmts {
		var ok bool
		if decls, ok = hoistedDecls(stmt, decls); !ok {
			return nil, false
		}
	}
	return decls, true
}

// A "break" or "continue" inside a "do-while" body refers to that loop (or to
// an enclosing label), so the loop can't be unwrapped if it has one
func containsBreakOrContinue(stmt js_ast.Stmt) (found bool) {
	js_ast.Walker{
		Stmt: func(stmt js_ast.Stmt) bool {
			switch stmt.Data.(type) {
			case *js_ast.SBreak, *js_ast.SContinue:
				found = true
			case *js_ast.SFunction, *js_ast.SClass:
				return false
			}
			return !found
		},
		Expr: func(expr js_ast.Expr) bool {
			switch expr.Data.(type) {
			case *js_ast.EFunction, *js_ast.EArrow, *js_ast.EClass:
				return false
			}
			return !found
		},
	}.Stmt1(stmt)
	return
}
