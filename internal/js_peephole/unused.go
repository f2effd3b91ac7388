package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
)

// Returns an expression with the same side effects as "expr" for use where
// the value is discarded, or a nil expression if nothing needs to run. The
// input is never mutated, and it is returned as-is if nothing could be
// simplified, so callers can detect a change by comparing the result.
func (p *peephole) simplifyUnusedExpr(expr js_ast.Expr) js_ast.Expr {
	if !p.ev.MayHaveSideEffects(expr) {
		return js_ast.Expr{}
	}

	switch e := expr.Data.(type) {
	case *js_ast.ETemplate:
		// "`${a()}${b()}`" => "a(), b()" if both are primitives. Converting an
		// object to a string can call "toString".
		if e.TagOrNil.Data == nil {
			var result js_ast.Expr
			for _, part := range e.Parts {
				if !p.ev.ValueType(part.Value).IsPrimitive() {
					return expr
				}
				result = js_ast.JoinWithComma(result, p.simplifyUnusedExpr(part.Value))
			}
			return result
		}

	case *js_ast.EArray:
		// "[a(), b()]" => "a(), b()"
		var result js_ast.Expr
		for _, item := range e.Items {
			// Spreading calls the iterator, which can do anything
			if _, ok := item.Data.(*js_ast.ESpread); ok {
				return expr
			}
			result = js_ast.JoinWithComma(result, p.simplifyUnusedExpr(item))
		}
		return result

	case *js_ast.EObject:
		// "({a: b(), [c()]: d})" => "b(), c()"
		var result js_ast.Expr
		for _, property := range e.Properties {
			if property.Kind == js_ast.PropertySpread {
				return expr
			}
			if property.Flags.Has(js_ast.PropertyIsComputed) {
				// Converting an object key to a string can call "toString"
				if !p.ev.ValueType(property.Key).IsPrimitive() {
					return expr
				}
				result = js_ast.JoinWithComma(result, p.simplifyUnusedExpr(property.Key))
			}
			if property.ValueOrNil.Data != nil {
				result = js_ast.JoinWithComma(result, p.simplifyUnusedExpr(property.ValueOrNil))
			}
		}
		return result

	case *js_ast.EIf:
		yes := p.simplifyUnusedExpr(e.Yes)
		no := p.simplifyUnusedExpr(e.No)

		// "a ? 1 : 2" => "a"
		if yes.Data == nil && no.Data == nil {
			return p.simplifyUnusedExpr(e.Test)
		}

		// "a ? 1 : b()" => "a || b()"
		if yes.Data == nil {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalOr, Left: e.Test, Right: no}}
		}

		// "a ? b() : 2" => "a && b()"
		if no.Data == nil {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalAnd, Left: e.Test, Right: yes}}
		}

		if yes.Data != e.Yes.Data || no.Data != e.No.Data {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIf{Test: e.Test, Yes: yes, No: no}}
		}

	case *js_ast.EUnary:
		switch e.Op {
		// "void a()" => "a()"
		// "!a()" => "a()"
		case js_ast.UnOpVoid, js_ast.UnOpNot:
			return p.simplifyUnusedExpr(e.Value)

		// "typeof a" => ""
		case js_ast.UnOpTypeof:
			if _, ok := e.Value.Data.(*js_ast.EIdentifier); ok {
				return js_ast.Expr{}
			}
			return p.simplifyUnusedExpr(e.Value)

		// "-a()" => "a()" if "a()" is a number. Symbols throw and objects can
		// run "valueOf".
		case js_ast.UnOpPos, js_ast.UnOpNeg, js_ast.UnOpCpl:
			if t := p.ev.ValueType(e.Value); t.IsPrimitive() && (e.Op != js_ast.UnOpPos || t != js_ast.ValueBigInt) {
				return p.simplifyUnusedExpr(e.Value)
			}
		}

	case *js_ast.EBinary:
		switch e.Op {
		// "a() === b()" => "a(), b()"
		case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpComma:
			return p.simplifyBothOperands(expr, e)

		// Loose equality only calls user code through object conversion
		case js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
			if p.ev.ValueType(e.Left).IsPrimitive() && p.ev.ValueType(e.Right).IsPrimitive() {
				return p.simplifyBothOperands(expr, e)
			}

		// Mixing bigints with other types throws, and bigint division can throw
		case js_ast.BinOpAdd, js_ast.BinOpSub, js_ast.BinOpMul, js_ast.BinOpDiv, js_ast.BinOpRem, js_ast.BinOpPow,
			js_ast.BinOpLt, js_ast.BinOpLe, js_ast.BinOpGt, js_ast.BinOpGe,
			js_ast.BinOpShl, js_ast.BinOpShr, js_ast.BinOpUShr,
			js_ast.BinOpBitwiseAnd, js_ast.BinOpBitwiseOr, js_ast.BinOpBitwiseXor:
			if p.isNonBigIntPrimitive(e.Left) && p.isNonBigIntPrimitive(e.Right) {
				return p.simplifyBothOperands(expr, e)
			}

		// "a() && 1" => "a()"
		case js_ast.BinOpLogicalAnd, js_ast.BinOpLogicalOr, js_ast.BinOpNullishCoalescing:
			right := p.simplifyUnusedExpr(e.Right)
			if right.Data == nil {
				return p.simplifyUnusedExpr(e.Left)
			}
			if right.Data != e.Right.Data {
				return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{Op: e.Op, Left: e.Left, Right: right}}
			}
		}

	case *js_ast.ECall:
		// "/* @__PURE__ */ a(b())" => "b()"
		if e.CanBeUnwrappedIfUnused || p.isPureCallTarget(e.Target) {
			return p.simplifyUnusedArgs(e.Args)
		}

	case *js_ast.ENew:
		if e.CanBeUnwrappedIfUnused {
			return p.simplifyUnusedArgs(e.Args)
		}
	}

	return expr
}

func (p *peephole) simplifyBothOperands(expr js_ast.Expr, e *js_ast.EBinary) js_ast.Expr {
	left := p.simplifyUnusedExpr(e.Left)
	right := p.simplifyUnusedExpr(e.Right)
	if left.Data == e.Left.Data && right.Data == e.Right.Data {
		return expr
	}
	return js_ast.JoinWithComma(left, right)
}

func (p *peephole) simplifyUnusedArgs(args []js_ast.Expr) (result js_ast.Expr) {
	for _, arg := range args {
		// Spreading calls the iterator, so it stays as an array spread
		if _, ok := arg.Data.(*js_ast.ESpread); ok {
			result = js_ast.JoinWithComma(result, js_ast.Expr{Loc: arg.Loc, Data: &js_ast.EArray{Items: []js_ast.Expr{arg}}})
			continue
		}
		result = js_ast.JoinWithComma(result, p.simplifyUnusedExpr(arg))
	}
	return
}

func (p *peephole) isNonBigIntPrimitive(expr js_ast.Expr) bool {
	t := p.ev.ValueType(expr)
	return t.IsPrimitive() && t != js_ast.ValueBigInt
}

func (p *peephole) isPureCallTarget(target js_ast.Expr) bool {
	id, ok := target.Data.(*js_ast.EIdentifier)
	return ok && p.isPureFunction(id.Ref)
}
