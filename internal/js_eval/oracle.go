package js_eval

import (
	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

// Answers whether evaluating an expression could be observed. This must be
// conservative: returning true when unsure only costs an optimization, while
// returning false when effects are possible breaks the program.
type SideEffectOracle interface {
	MayHaveSideEffects(expr js_ast.Expr) bool
}

type DefaultOracle struct {
	Symbols *js_ast.SymbolTable
	Globals config.KnownGlobals

	// Optional. Calls to a function for which this returns true are treated
	// like "/* @__PURE__ */" calls.
	IsPureFunction func(ref js_ast.Ref) bool
}

func NewDefaultOracle(symbols *js_ast.SymbolTable, globals config.KnownGlobals) *DefaultOracle {
	return &DefaultOracle{Symbols: symbols, Globals: globals}
}

func (o *DefaultOracle) MayHaveSideEffects(expr js_ast.Expr) bool {
	return !o.canBeRemovedIfUnused(expr)
}

func (o *DefaultOracle) IsGlobalReference(ref js_ast.Ref, name string) bool {
	return o.Symbols.IsGlobalReference(ref, name)
}

func (o *DefaultOracle) canBeRemovedIfUnused(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.ENull, *js_ast.EUndefined, *js_ast.EMissing, *js_ast.EBoolean, *js_ast.ENumber, *js_ast.EBigInt,
		*js_ast.EString, *js_ast.EThis, *js_ast.ERegExp, *js_ast.EFunction, *js_ast.EArrow, *js_ast.EImportMeta,
		*js_ast.ENewTarget:
		return true

	case *js_ast.EIdentifier:
		// Unbound identifiers cannot be removed because they can throw a
		// ReferenceError if they don't exist, or run a getter installed on the
		// global object. Only the globals every environment is known to have are
		// exempt. Bound identifiers are assumed to be initialized, which ignores
		// reads in the temporal dead zone.
		symbol := o.Symbols.Get(e.Ref)
		if symbol.Kind != js_ast.SymbolUnbound {
			return true
		}
		return o.Globals.IsKnown([]string{symbol.OriginalName})

	case *js_ast.EDot:
		if e.OptionalChain != js_ast.OptionalChainNone {
			return false
		}
		if e.Name == "length" && isLengthSafe(e.Target) {
			return o.canBeRemovedIfUnused(e.Target)
		}
		if parts, ok := o.globalMemberChain(expr); ok {
			return o.Globals.IsKnown(parts)
		}

	case *js_ast.EIndex:
		if e.OptionalChain != js_ast.OptionalChainNone {
			return false
		}
		if index, ok := e.Index.Data.(*js_ast.EString); ok && helpers.UTF16EqualsString(index.Value, "length") && isLengthSafe(e.Target) {
			return o.canBeRemovedIfUnused(e.Target)
		}

	case *js_ast.EClass:
		return o.classCanBeRemovedIfUnused(&e.Class)

	case *js_ast.EIf:
		return o.canBeRemovedIfUnused(e.Test) &&
			(o.isGuardedUnboundIdentifier(e.Yes, e.Test, true) || o.canBeRemovedIfUnused(e.Yes)) &&
			(o.isGuardedUnboundIdentifier(e.No, e.Test, false) || o.canBeRemovedIfUnused(e.No))

	case *js_ast.EArray:
		for _, item := range e.Items {
			if !o.canBeRemovedIfUnused(item) {
				return false
			}
		}
		return true

	case *js_ast.EObject:
		for _, property := range e.Properties {
			// The key must still be evaluated if it's computed or a spread
			if property.Kind == js_ast.PropertySpread || property.Flags.Has(js_ast.PropertyIsComputed) {
				return false
			}
			if property.ValueOrNil.Data != nil && !o.canBeRemovedIfUnused(property.ValueOrNil) {
				return false
			}
		}
		return true

	case *js_ast.ECall:
		if e.OptionalChain != js_ast.OptionalChainNone {
			return false
		}

		// A call that has been marked "__PURE__" can be removed if all arguments
		// can be removed. The annotation causes us to ignore the target.
		if e.CanBeUnwrappedIfUnused || o.isPureFunctionTarget(e.Target) {
			return o.argsCanBeRemovedIfUnused(e.Args)
		}

	case *js_ast.ENew:
		if e.CanBeUnwrappedIfUnused || o.isPureFunctionTarget(e.Target) {
			return o.argsCanBeRemovedIfUnused(e.Args)
		}

	case *js_ast.ETemplate:
		// A template can be removed if it has no tag and every value has no side
		// effects and results in some kind of primitive, since all primitives
		// except symbols have a "ToString" operation with no side effects.
		if e.TagOrNil.Data == nil {
			for _, part := range e.Parts {
				if !o.canBeRemovedIfUnused(part.Value) || !js_ast.KnownValueType(part.Value, o).IsPrimitive() {
					return false
				}
			}
			return true
		}

	case *js_ast.EUnary:
		switch e.Op {
		// These operators must not have any type conversions that can execute code
		// such as "toString" or "valueOf". They must also never throw any exceptions.
		case js_ast.UnOpVoid, js_ast.UnOpNot:
			return o.canBeRemovedIfUnused(e.Value)

		// "typeof x" never throws a ReferenceError, even if "x" doesn't exist
		case js_ast.UnOpTypeof:
			if _, ok := e.Value.Data.(*js_ast.EIdentifier); ok {
				return true
			}
			return o.canBeRemovedIfUnused(e.Value)

		// Numeric conversion of a primitive runs no code. Bigints are excluded
		// because "+1n" throws.
		case js_ast.UnOpPos, js_ast.UnOpNeg, js_ast.UnOpCpl:
			return o.isNonBigIntPrimitive(e.Value) && o.canBeRemovedIfUnused(e.Value)
		}

	case *js_ast.EBinary:
		switch e.Op {
		case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpComma, js_ast.BinOpNullishCoalescing:
			return o.canBeRemovedIfUnused(e.Left) && o.canBeRemovedIfUnused(e.Right)

		// Special-case "||" to make sure "typeof x === 'undefined' || x" can be removed
		case js_ast.BinOpLogicalOr:
			return o.canBeRemovedIfUnused(e.Left) &&
				(o.isGuardedUnboundIdentifier(e.Right, e.Left, false) || o.canBeRemovedIfUnused(e.Right))

		// Special-case "&&" to make sure "typeof x !== 'undefined' && x" can be removed
		case js_ast.BinOpLogicalAnd:
			return o.canBeRemovedIfUnused(e.Left) &&
				(o.isGuardedUnboundIdentifier(e.Right, e.Left, true) || o.canBeRemovedIfUnused(e.Right))

		// Loose equality between two primitives never calls "valueOf"
		case js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
			return js_ast.KnownValueType(e.Left, o).IsPrimitive() && js_ast.KnownValueType(e.Right, o).IsPrimitive() &&
				o.canBeRemovedIfUnused(e.Left) && o.canBeRemovedIfUnused(e.Right)

		// Arithmetic and comparison on primitives only run code for objects and
		// symbols, and only throw for bigints
		case js_ast.BinOpAdd, js_ast.BinOpSub, js_ast.BinOpMul, js_ast.BinOpDiv, js_ast.BinOpRem, js_ast.BinOpPow,
			js_ast.BinOpShl, js_ast.BinOpShr, js_ast.BinOpUShr,
			js_ast.BinOpBitwiseAnd, js_ast.BinOpBitwiseOr, js_ast.BinOpBitwiseXor,
			js_ast.BinOpLt, js_ast.BinOpLe, js_ast.BinOpGt, js_ast.BinOpGe:
			return o.isNonBigIntPrimitive(e.Left) && o.isNonBigIntPrimitive(e.Right) &&
				o.canBeRemovedIfUnused(e.Left) && o.canBeRemovedIfUnused(e.Right)
		}
	}

	// Assume all other expression types have side effects and cannot be removed
	return false
}

func (o *DefaultOracle) isNonBigIntPrimitive(expr js_ast.Expr) bool {
	t := js_ast.KnownValueType(expr, o)
	return t.IsPrimitive() && t != js_ast.ValueBigInt
}

func (o *DefaultOracle) argsCanBeRemovedIfUnused(args []js_ast.Expr) bool {
	for _, arg := range args {
		if !o.canBeRemovedIfUnused(arg) {
			return false
		}
	}
	return true
}

func (o *DefaultOracle) isPureFunctionTarget(target js_ast.Expr) bool {
	if o.IsPureFunction == nil {
		return false
	}
	id, ok := target.Data.(*js_ast.EIdentifier)
	return ok && o.IsPureFunction(id.Ref)
}

func (o *DefaultOracle) classCanBeRemovedIfUnused(class *js_ast.Class) bool {
	// Extending something that isn't a constructor throws
	if class.ExtendsOrNil.Data != nil {
		return false
	}

	for _, property := range class.Properties {
		if property.Kind == js_ast.PropertyClassStaticBlock {
			if len(property.ClassStaticBlock.Block.Stmts) > 0 {
				return false
			}
			continue
		}
		if property.Flags.Has(js_ast.PropertyIsComputed) && !js_ast.IsPrimitiveLiteral(property.Key.Data) {
			return false
		}

		// Instance field initializers only run when the class is constructed
		if property.Flags.Has(js_ast.PropertyIsStatic) {
			if property.ValueOrNil.Data != nil && !o.canBeRemovedIfUnused(property.ValueOrNil) {
				return false
			}
			if property.InitializerOrNil.Data != nil && !o.canBeRemovedIfUnused(property.InitializerOrNil) {
				return false
			}
		}
	}

	return true
}

// Collects "a.b.c" into ["a", "b", "c"] when "a" is an unbound identifier
func (o *DefaultOracle) globalMemberChain(expr js_ast.Expr) ([]string, bool) {
	var reversed []string
	for {
		switch e := expr.Data.(type) {
		case *js_ast.EDot:
			if e.OptionalChain != js_ast.OptionalChainNone {
				return nil, false
			}
			reversed = append(reversed, e.Name)
			expr = e.Target
			continue

		case *js_ast.EIdentifier:
			symbol := o.Symbols.Get(e.Ref)
			if symbol.Kind != js_ast.SymbolUnbound {
				return nil, false
			}
			parts := make([]string, 0, len(reversed)+1)
			parts = append(parts, symbol.OriginalName)
			for i := len(reversed) - 1; i >= 0; i-- {
				parts = append(parts, reversed[i])
			}
			return parts, true
		}
		return nil, false
	}
}

// Only string literals and array literals without spread have a "length"
// property that can't be overridden
func isLengthSafe(target js_ast.Expr) bool {
	switch e := target.Data.(type) {
	case *js_ast.EString:
		return true
	case *js_ast.EArray:
		for _, item := range e.Items {
			if _, ok := item.Data.(*js_ast.ESpread); ok {
				return false
			}
		}
		return true
	}
	return false
}

// Pattern match for "typeof x !== 'undefined' ? x : null" and friends, where
// the reference to "x" can't throw because the guard already checked it
func (o *DefaultOracle) isGuardedUnboundIdentifier(value js_ast.Expr, guardCondition js_ast.Expr, isYesBranch bool) bool {
	id, ok := value.Data.(*js_ast.EIdentifier)
	if !ok || !o.Symbols.IsUnbound(id.Ref) {
		return false
	}
	binary, ok := guardCondition.Data.(*js_ast.EBinary)
	if !ok {
		return false
	}
	switch binary.Op {
	case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
	default:
		return false
	}

	typeof, str := binary.Left, binary.Right
	if _, ok := typeof.Data.(*js_ast.EString); ok {
		typeof, str = str, typeof
	}
	unary, ok := typeof.Data.(*js_ast.EUnary)
	if !ok || unary.Op != js_ast.UnOpTypeof {
		return false
	}
	text, ok := str.Data.(*js_ast.EString)
	if !ok {
		return false
	}
	isNe := binary.Op == js_ast.BinOpStrictNe || binary.Op == js_ast.BinOpLooseNe
	if (helpers.UTF16EqualsString(text.Value, "undefined") == isYesBranch) != isNe {
		return false
	}
	id2, ok := unary.Value.Data.(*js_ast.EIdentifier)
	return ok && id2.Ref == id.Ref
}
