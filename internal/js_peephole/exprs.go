package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
)

// Called on every expression after its children have been visited. Returning
// a different expression replaces it. Rewrites that keep the node must only
// mutate it in ways that leave its value unchanged.
func (p *peephole) mangleExpr(expr js_ast.Expr) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		if p.ev.KnownConstant != nil {
			if value, ok := p.ev.KnownConstant(e.Ref); ok {
				return value.ToExpr(expr.Loc)
			}
		}
		return expr

	case *js_ast.EUnary, *js_ast.EBinary, *js_ast.EIf, *js_ast.EDot, *js_ast.EIndex:
		if value, ok := p.ev.EvalExpr(expr); ok {
			return value.ToExpr(expr.Loc)
		}

	case *js_ast.ETemplate:
		if e.TagOrNil.Data == nil {
			if value, ok := p.ev.EvalExpr(expr); ok {
				return value.ToExpr(expr.Loc)
			}
		}
	}

	switch e := expr.Data.(type) {
	case *js_ast.EUnary:
		// "!(a == b)" => "a != b"
		if e.Op == js_ast.UnOpNot {
			if result, ok := js_ast.MaybeSimplifyNot(e.Value); ok {
				return result
			}
		}

	case *js_ast.EBinary:
		return p.mangleBinary(expr, e)

	case *js_ast.EIf:
		return p.mangleIfExpr(expr, e)
	}

	return expr
}

func (p *peephole) mangleBinary(expr js_ast.Expr, e *js_ast.EBinary) js_ast.Expr {
	switch e.Op {
	case js_ast.BinOpComma:
		// "(1, a)" => "a"
		left := p.simplifyUnusedExpr(e.Left)
		if left.Data == nil {
			return e.Right
		}
		if left.Data != e.Left.Data {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: e.Right}}
		}

	case js_ast.BinOpLogicalAnd, js_ast.BinOpLogicalOr:
		if boolean, ok := p.ev.EvalBoolean(e.Left); ok {
			if boolean == (e.Op == js_ast.BinOpLogicalAnd) {
				// "true && a" => "a"
				// "(b(), 0) || a" => "b(), a"
				return p.joinWithUnusedLeft(e.Left, e.Right)
			}

			// "[] || a" => "[]"
			return e.Left
		}

	case js_ast.BinOpNullishCoalescing:
		switch p.ev.ValueType(e.Left) {
		case js_ast.ValueUndetermined:

		case js_ast.ValueNull, js_ast.ValueUndefined:
			// "void b() ?? a" => "b(), a"
			return p.joinWithUnusedLeft(e.Left, e.Right)

		default:
			// "{} ?? a" => "{}"
			return e.Left
		}
	}

	return expr
}

func (p *peephole) mangleIfExpr(expr js_ast.Expr, e *js_ast.EIf) js_ast.Expr {
	// "(a(), true) ? b : c" => "a(), b"
	if boolean, ok := p.ev.EvalBoolean(e.Test); ok {
		if boolean {
			return p.joinWithUnusedLeft(e.Test, e.Yes)
		}
		return p.joinWithUnusedLeft(e.Test, e.No)
	}

	// "!a ? b : c" => "a ? c : b"
	if not, ok := e.Test.Data.(*js_ast.EUnary); ok && not.Op == js_ast.UnOpNot {
		p.changed = true
		e.Test = not.Value
		e.Yes, e.No = e.No, e.Yes
	}

	// "a ? b : b" => "a, b"
	if js_ast.ValuesLookTheSame(e.Yes.Data, e.No.Data) {
		return p.joinWithUnusedLeft(e.Test, e.Yes)
	}

	// "a ? true : false" => "!!a"
	// "a ? false : true" => "!a"
	if yes, ok := e.Yes.Data.(*js_ast.EBoolean); ok {
		if no, ok := e.No.Data.(*js_ast.EBoolean); ok {
			if yes.Value && !no.Value {
				return js_ast.Not(js_ast.Not(e.Test))
			}
			if !yes.Value && no.Value {
				return js_ast.Not(e.Test)
			}
		}
	}

	if id, ok := e.Test.Data.(*js_ast.EIdentifier); ok {
		// "a ? a : b" => "a || b"
		if id2, ok := e.Yes.Data.(*js_ast.EIdentifier); ok && id.Ref == id2.Ref {
			return js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalOr, e.Test, e.No)
		}

		// "a ? b : a" => "a && b"
		if id2, ok := e.No.Data.(*js_ast.EIdentifier); ok && id.Ref == id2.Ref {
			return js_ast.JoinWithLeftAssociativeOp(js_ast.BinOpLogicalAnd, e.Test, e.Yes)
		}
	}

	return expr
}

// Evaluates "left" only for its side effects and then produces "right"
func (p *peephole) joinWithUnusedLeft(left js_ast.Expr, right js_ast.Expr) js_ast.Expr {
	return js_ast.JoinWithComma(p.simplifyUnusedExpr(left), right)
}
