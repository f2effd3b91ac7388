package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/logger"
)

func (p *peephole) mangleStmts(stmts []js_ast.Stmt, kind stmtsKind) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(stmts))
	isControlFlowDead := false

	for _, stmt := range stmts {
		if isControlFlowDead {
			result = p.appendDeadStmt(result, stmt, kind)
			continue
		}

		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			if p.canRemoveDecls(s.IsExport, s.Kind == js_ast.LocalVar) {
				p.removeUnusedDecls(s)
				if len(s.Decls) == 0 {
					continue
				}
			}

		case *js_ast.SFunction:
			// A function declaration doesn't run anything, so only its name matters
			if s.Fn.Name != nil && p.canRemoveDecls(s.IsExport, true) && p.isUnused(s.Fn.Name.Ref) {
				p.changed = true
				continue
			}

		case *js_ast.SClass:
			if s.Class.Name != nil && p.canRemoveDecls(s.IsExport, false) && p.isUnused(s.Class.Name.Ref) &&
				!p.ev.MayHaveSideEffects(js_ast.Expr{Loc: stmt.Loc, Data: &js_ast.EClass{Class: s.Class}}) {
				p.changed = true
				continue
			}

		case *js_ast.SExpr:
			// "a(); b();" => "a(), b();"
			if p.mangleSyntax && len(result) > 0 {
				if prev, ok := result[len(result)-1].Data.(*js_ast.SExpr); ok {
					prev.Value = js_ast.JoinWithComma(prev.Value, s.Value)
					p.changed = true
					continue
				}
			}
		}

		if isJumpStatement(stmt.Data) {
			isControlFlowDead = true
		}
		result = append(result, stmt)
	}

	if p.mangleSyntax && len(result) > 0 {
		switch last := result[len(result)-1].Data.(type) {
		case *js_ast.SReturn:
			// "function f() { a(); return; }" => "function f() { a(); }"
			if kind == stmtsFnBody && last.ValueOrNil.Data == nil {
				p.changed = true
				result = result[:len(result)-1]
			}

		case *js_ast.SContinue:
			// "while (a) { b(); continue; }" => "while (a) { b(); }"
			if kind == stmtsLoopBody && last.Label == nil {
				p.changed = true
				result = result[:len(result)-1]
			}
		}
	}

	return result
}

func (p *peephole) mangleIf(stmts []js_ast.Stmt, loc logger.Loc, s *js_ast.SIf) []js_ast.Stmt {
	// Constant folding using the test expression
	if boolean, ok := p.ev.EvalBoolean(s.Test); ok {
		live, dead := s.Yes, s.NoOrNil
		if !boolean {
			live, dead = s.NoOrNil, s.Yes
		}

		// "if (false) { var a = 1; }" still declares "a"
		var hoisted []js_ast.Decl
		canDrop := true
		if dead.Data != nil {
			hoisted, canDrop = hoistedDecls(dead, nil)
		}

		if canDrop {
			p.changed = true
			stmts = p.appendSideEffects(stmts, s.Test)
			stmts = appendHoistedVar(stmts, dead.Loc, hoisted)
			if live.Data != nil {
				stmts = appendIfBodyPreservingScope(stmts, live)
			}
			return stmts
		}
	}

	if _, ok := s.Yes.Data.(*js_ast.SEmpty); ok && s.NoOrNil.Data == nil {
		// "if (a) {}" => "a;"
		p.changed = true
		return p.appendSideEffects(stmts, s.Test)
	}

	if !p.mangleSyntax {
		return append(stmts, js_ast.Stmt{Loc: loc, Data: s})
	}

	if yes, ok := s.Yes.Data.(*js_ast.SExpr); ok {
		// "yes" is an expression
		if s.NoOrNil.Data == nil {
			p.changed = true
			if not, ok := s.Test.Data.(*js_ast.EUnary); ok && not.Op == js_ast.UnOpNot {
				// "if (!a) b();" => "a || b();"
				return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{
					Value: js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalOr, not.Value, yes.Value)}})
			}

			// "if (a) b();" => "a && b();"
			return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{
				Value: js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalAnd, s.Test, yes.Value)}})
		}

		if no, ok := s.NoOrNil.Data.(*js_ast.SExpr); ok {
			// "if (a) b(); else c();" => "a ? b() : c();"
			p.changed = true
			return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: js_ast.Expr{Loc: loc, Data: &js_ast.EIf{
				Test: s.Test,
				Yes:  yes.Value,
				No:   no.Value,
			}}}})
		}
	} else if _, ok := s.Yes.Data.(*js_ast.SEmpty); ok {
		// "yes" is missing and "no" is not (that case was handled above)
		p.changed = true
		if no, ok := s.NoOrNil.Data.(*js_ast.SExpr); ok {
			if not, ok := s.Test.Data.(*js_ast.EUnary); ok && not.Op == js_ast.UnOpNot {
				// "if (!a) {} else b();" => "a && b();"
				return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{
					Value: js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalAnd, not.Value, no.Value)}})
			}

			// "if (a) {} else b();" => "a || b();"
			return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{
				Value: js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalOr, s.Test, no.Value)}})
		}

		if not, ok := s.Test.Data.(*js_ast.EUnary); ok && not.Op == js_ast.UnOpNot {
			// "if (!a) {} else throw b;" => "if (a) throw b;"
			s.Test = not.Value
		} else {
			// "if (a) {} else throw b;" => "if (!a) throw b;"
			s.Test = js_ast.Not(s.Test)
		}
		s.Yes = s.NoOrNil
		s.NoOrNil = js_ast.Stmt{}
	} else if s.NoOrNil.Data != nil {
		// "if (!a) return b; else return c;" => "if (a) return c; else return b;"
		if not, ok := s.Test.Data.(*js_ast.EUnary); ok && not.Op == js_ast.UnOpNot {
			p.changed = true
			s.Test = not.Value
			s.Yes, s.NoOrNil = s.NoOrNil, s.Yes
		}
	} else if s2, ok := s.Yes.Data.(*js_ast.SIf); ok && s2.NoOrNil.Data == nil {
		// "if (a) if (b) return c;" => "if (a && b) return c;"
		p.changed = true
		s.Test = js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalAnd, s.Test, s2.Test)
		s.Yes = s2.Yes
	}

	return append(stmts, js_ast.Stmt{Loc: loc, Data: s})
}

func (p *peephole) mangleWhile(stmts []js_ast.Stmt, stmt js_ast.Stmt, s *js_ast.SWhile) []js_ast.Stmt {
	// "while (false) { var a; }" => "var a;"
	if boolean, ok := p.ev.EvalBoolean(s.Test); ok && !boolean {
		if hoisted, ok := hoistedDecls(s.Body, nil); ok {
			p.changed = true
			stmts = p.appendSideEffects(stmts, s.Test)
			return appendHoistedVar(stmts, s.Body.Loc, hoisted)
		}
	}
	return append(stmts, stmt)
}

func (p *peephole) mangleDoWhile(stmts []js_ast.Stmt, stmt js_ast.Stmt, s *js_ast.SDoWhile) []js_ast.Stmt {
	// "do { a(); } while (false);" => "a();"
	if boolean, ok := p.ev.EvalBoolean(s.Test); ok && !boolean && !containsBreakOrContinue(s.Body) {
		p.changed = true
		if _, ok := s.Body.Data.(*js_ast.SEmpty); !ok {
			stmts = appendIfBodyPreservingScope(stmts, s.Body)
		}
		return p.appendSideEffects(stmts, s.Test)
	}
	return append(stmts, stmt)
}

func (p *peephole) mangleFor(stmts []js_ast.Stmt, stmt js_ast.Stmt, s *js_ast.SFor) []js_ast.Stmt {
	if s.TestOrNil.Data == nil {
		return append(stmts, stmt)
	}

	boolean, ok := p.ev.EvalBoolean(s.TestOrNil)
	if !ok {
		return append(stmts, stmt)
	}

	if boolean {
		// "for (a; true; b) c();" => "for (a;; b) c();"
		if !p.ev.MayHaveSideEffects(s.TestOrNil) {
			p.changed = true
			s.TestOrNil = js_ast.Expr{}
		}
		return append(stmts, stmt)
	}

	// "for (a(); false;) b();" => "a();"
	hoisted, canDrop := hoistedDecls(s.Body, nil)
	if !canDrop {
		return append(stmts, stmt)
	}
	p.changed = true

	var replacement []js_ast.Stmt
	if s.InitOrNil.Data != nil {
		replacement = append(replacement, s.InitOrNil)
	}
	replacement = p.appendSideEffects(replacement, s.TestOrNil)
	replacement = appendHoistedVar(replacement, s.Body.Loc, hoisted)

	// The test may still read a "let" from the initializer
	if local, ok := s.InitOrNil.Data.(*js_ast.SLocal); ok && local.Kind != js_ast.LocalVar {
		return append(stmts, js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: replacement}})
	}
	return append(stmts, replacement...)
}

func (p *peephole) mangleTry(stmts []js_ast.Stmt, stmt js_ast.Stmt, s *js_ast.STry) []js_ast.Stmt {
	if len(s.Block.Stmts) == 0 {
		// Nothing can throw, so the catch clause never runs
		var hoisted []js_ast.Decl
		if s.Catch != nil {
			var ok bool
			if hoisted, ok = hoistedDeclsInStmts(s.Catch.Block.Stmts, nil); !ok {
				return append(stmts, stmt)
			}
		}

		// "try {} finally { a(); }" => "a();"
		p.changed = true
		stmts = appendHoistedVar(stmts, stmt.Loc, hoisted)
		if s.Finally != nil && len(s.Finally.Block.Stmts) > 0 {
			stmts = appendIfBodyPreservingScope(stmts, js_ast.Stmt{Loc: s.Finally.Loc, Data: &s.Finally.Block})
		}
		return stmts
	}

	// "try { a(); } catch {} finally {}" => "try { a(); } catch {}"
	if s.Catch != nil && s.Finally != nil && len(s.Finally.Block.Stmts) == 0 {
		p.changed = true
		s.Finally = nil
	}
	return append(stmts, stmt)
}

// Keeps whatever part of "expr" has side effects as an expression statement
func (p *peephole) appendSideEffects(stmts []js_ast.Stmt, expr js_ast.Expr) []js_ast.Stmt {
	if !p.ev.MayHaveSideEffects(expr) {
		return stmts
	}
	if p.mangleSyntax {
		if expr = p.simplifyUnusedExpr(expr); expr.Data == nil {
			return stmts
		}
	}
	return append(stmts, js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SExpr{Value: expr}})
}

func appendIfBodyPreservingScope(stmts []js_ast.Stmt, body js_ast.Stmt) []js_ast.Stmt {
	switch s := body.Data.(type) {
	case *js_ast.SEmpty:
		return stmts

	case *js_ast.SBlock:
		if !anyStatementCaresAboutScope(s.Stmts) {
			return append(stmts, s.Stmts...)
		}
		return append(stmts, body)
	}

	if statementCaresAboutScope(body) {
		return append(stmts, js_ast.Stmt{Loc: body.Loc, Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{body}}})
	}
	return append(stmts, body)
}

func stmtsToSingleStmt(loc logger.Loc, stmts []js_ast.Stmt) js_ast.Stmt {
	if len(stmts) == 0 {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}
	}
	if len(stmts) == 1 {
		// "let" and "const" must be put in a block when in a single-statement context
		if s, ok := stmts[0].Data.(*js_ast.SLocal); !ok || s.Kind == js_ast.LocalVar {
			return stmts[0]
		}
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}
}

func isJumpStatement(data js_ast.S) bool {
	switch data.(type) {
	case *js_ast.SBreak, *js_ast.SContinue, *js_ast.SReturn, *js_ast.SThrow:
		return true
	}

	return false
}

func statementCaresAboutScope(stmt js_ast.Stmt) bool {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock, *js_ast.SEmpty, *js_ast.SDebugger, *js_ast.SExpr, *js_ast.SIf,
		*js_ast.SFor, *js_ast.SForIn, *js_ast.SForOf, *js_ast.SDoWhile, *js_ast.SWhile,
		*js_ast.STry, *js_ast.SSwitch, *js_ast.SReturn, *js_ast.SThrow,
		*js_ast.SBreak, *js_ast.SContinue, *js_ast.SDirective:
		return false

	case *js_ast.SLocal:
		return s.Kind != js_ast.LocalVar

	default:
		return true
	}
}

func anyStatementCaresAboutScope(stmts []js_ast.Stmt) bool {
	for _, stmt := range stmts {
		if statementCaresAboutScope(stmt) {
			return true
		}
	}
	return false
}
