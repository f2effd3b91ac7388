package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
)

type stmtsKind uint8

const (
	stmtsNormal stmtsKind = iota
	stmtsFnBody
	stmtsLoopBody

	// A "case" clause shares its scope with every other clause of the switch,
	// so a declaration in one clause can be read from another clause before it
	// has run
	stmtsSwitch
)

func (p *peephole) visitStmts(stmts []js_ast.Stmt, kind stmtsKind) []js_ast.Stmt {
	visited := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		visited = p.visitAndAppendStmt(visited, stmt, kind)
	}
	return p.mangleStmts(visited, kind)
}

// This is used for the body of an "if", a loop, or a label. A statement that
// doesn't change must keep its identity here, otherwise the driver would see a
// change on every pass.
func (p *peephole) visitSingleStmt(stmt js_ast.Stmt, kind stmtsKind) js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		return stmt

	case *js_ast.SBlock:
		p.blockDepth++
		s.Stmts = p.visitStmts(s.Stmts, kind)
		p.blockDepth--

		if p.mangleSyntax {
			// "if (a) {}" => "if (a);"
			if len(s.Stmts) == 0 {
				p.changed = true
				return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SEmpty{}}
			}

			// "if (a) { b(); }" => "if (a) b();"
			if len(s.Stmts) == 1 && !statementCaresAboutScope(s.Stmts[0]) {
				p.changed = true
				return s.Stmts[0]
			}
		}
		return stmt
	}

	result := p.visitAndAppendStmt(nil, stmt, kind)
	if len(result) == 1 {
		return result[0]
	}
	return stmtsToSingleStmt(stmt.Loc, result)
}

func (p *peephole) visitAndAppendStmt(stmts []js_ast.Stmt, stmt js_ast.Stmt, kind stmtsKind) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.changed = true
		return stmts

	case *js_ast.SDebugger, *js_ast.SDirective, *js_ast.SImport, *js_ast.SExportFrom, *js_ast.SExportStar,
		*js_ast.SExportClause, *js_ast.SBreak, *js_ast.SContinue:

	case *js_ast.SExportDefault:
		switch s2 := s.Value.Data.(type) {
		case *js_ast.SExpr:
			s2.Value = p.visitExpr(s2.Value)
		case *js_ast.SFunction:
			p.visitFn(&s2.Fn, true)
		case *js_ast.SClass:
			p.visitClass(&s2.Class)
		default:
			panic("Internal error")
		}

	case *js_ast.SBlock:
		p.blockDepth++
		s.Stmts = p.visitStmts(s.Stmts, stmtsNormal)
		p.blockDepth--

		// Blocks without scoped declarations can be flattened into the parent
		if len(s.Stmts) == 0 || p.mangleSyntax && !anyStatementCaresAboutScope(s.Stmts) {
			p.changed = true
			return append(stmts, s.Stmts...)
		}

	case *js_ast.SExpr:
		s.Value = p.visitExpr(s.Value)

		if p.mangleSyntax {
			value := p.simplifyUnusedExpr(s.Value)
			if value.Data == nil {
				p.changed = true
				return stmts
			}
			if value.Data != s.Value.Data {
				p.changed = true
				s.Value = value
			}
		} else if !p.ev.MayHaveSideEffects(s.Value) {
			p.changed = true
			return stmts
		}

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			p.visitBinding(decl.Binding)
			if decl.ValueOrNil.Data != nil {
				decl.ValueOrNil = p.visitExpr(decl.ValueOrNil)
			}
		}
		if kind != stmtsSwitch {
			p.recordConstants(s)
		}

	case *js_ast.SFunction:
		p.visitFn(&s.Fn, true)

	case *js_ast.SClass:
		p.visitClass(&s.Class)

	case *js_ast.SLabel:
		s.Stmt = p.visitSingleStmt(s.Stmt, stmtsNormal)

		// "a: ;" => ""
		if _, ok := s.Stmt.Data.(*js_ast.SEmpty); ok {
			p.changed = true
			return stmts
		}

	case *js_ast.SIf:
		s.Test = p.visitExpr(s.Test)
		s.Yes = p.visitSingleStmt(s.Yes, stmtsNormal)
		if s.NoOrNil.Data != nil {
			s.NoOrNil = p.visitSingleStmt(s.NoOrNil, stmtsNormal)

			// "if (a) b(); else ;" => "if (a) b();"
			if _, ok := s.NoOrNil.Data.(*js_ast.SEmpty); ok {
				p.changed = true
				s.NoOrNil = js_ast.Stmt{}
			}
		}
		return p.mangleIf(stmts, stmt.Loc, s)

	case *js_ast.SWhile:
		s.Test = p.visitExpr(s.Test)
		s.Body = p.visitSingleStmt(s.Body, stmtsLoopBody)
		return p.mangleWhile(stmts, stmt, s)

	case *js_ast.SDoWhile:
		s.Body = p.visitSingleStmt(s.Body, stmtsLoopBody)
		s.Test = p.visitExpr(s.Test)
		return p.mangleDoWhile(stmts, stmt, s)

	case *js_ast.SFor:
		if s.InitOrNil.Data != nil {
			p.visitForLoopInit(s.InitOrNil, false)
		}
		if s.TestOrNil.Data != nil {
			s.TestOrNil = p.visitExpr(s.TestOrNil)
		}
		if s.UpdateOrNil.Data != nil {
			s.UpdateOrNil = p.visitExpr(s.UpdateOrNil)
		}
		s.Body = p.visitSingleStmt(s.Body, stmtsLoopBody)
		return p.mangleFor(stmts, stmt, s)

	case *js_ast.SForIn:
		p.visitForLoopInit(s.Init, true)
		s.Value = p.visitExpr(s.Value)
		s.Body = p.visitSingleStmt(s.Body, stmtsLoopBody)

	case *js_ast.SForOf:
		p.visitForLoopInit(s.Init, true)
		s.Value = p.visitExpr(s.Value)
		s.Body = p.visitSingleStmt(s.Body, stmtsLoopBody)

	case *js_ast.STry:
		p.blockDepth++
		s.Block.Stmts = p.visitStmts(s.Block.Stmts, stmtsNormal)
		if s.Catch != nil {
			if s.Catch.BindingOrNil.Data != nil {
				p.visitBinding(s.Catch.BindingOrNil)
			}
			s.Catch.Block.Stmts = p.visitStmts(s.Catch.Block.Stmts, stmtsNormal)
		}
		if s.Finally != nil {
			s.Finally.Block.Stmts = p.visitStmts(s.Finally.Block.Stmts, stmtsNormal)
		}
		p.blockDepth--
		return p.mangleTry(stmts, stmt, s)

	case *js_ast.SSwitch:
		s.Test = p.visitExpr(s.Test)
		p.blockDepth++
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.ValueOrNil.Data != nil {
				c.ValueOrNil = p.visitExpr(c.ValueOrNil)
			}
			c.Body = p.visitStmts(c.Body, stmtsSwitch)
		}
		p.blockDepth--

	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			s.ValueOrNil = p.visitExpr(s.ValueOrNil)

			// "return void 0" => "return"
			if _, ok := s.ValueOrNil.Data.(*js_ast.EUndefined); ok && p.mangleSyntax {
				p.changed = true
				s.ValueOrNil = js_ast.Expr{}
			}
		}

	case *js_ast.SThrow:
		s.Value = p.visitExpr(s.Value)

	default:
		panic("Internal error")
	}

	return append(stmts, stmt)
}

func (p *peephole) visitForLoopInit(stmt js_ast.Stmt, isInOrOf bool) {
	switch s := stmt.Data.(type) {
	case *js_ast.SExpr:
		in := exprInValue
		if isInOrOf {
			in = exprInAssignTarget
		}
		s.Value = p.visitExprIn(s.Value, in)

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			p.visitBinding(decl.Binding)
			if decl.ValueOrNil.Data != nil {
				decl.ValueOrNil = p.visitExpr(decl.ValueOrNil)
			}
		}

	default:
		panic("Internal error")
	}
}

func (p *peephole) visitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			p.visitBinding(item.Binding)
			if item.DefaultValueOrNil.Data != nil {
				item.DefaultValueOrNil = p.visitExpr(item.DefaultValueOrNil)
			}
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				property.Key = p.visitExpr(property.Key)
			}
			p.visitBinding(property.Value)
			if property.DefaultValueOrNil.Data != nil {
				property.DefaultValueOrNil = p.visitExpr(property.DefaultValueOrNil)
			}
		}

	default:
		panic("Internal error")
	}
}

func (p *peephole) visitFn(fn *js_ast.Fn, isHoisted bool) {
	oldBlockDepth := p.blockDepth
	p.fnDepth++
	p.blockDepth = 0
	if isHoisted {
		p.hoistedFnDepth++
	}

	p.visitArgs(fn.Args)
	fn.Body.Block.Stmts = p.visitStmts(fn.Body.Block.Stmts, stmtsFnBody)

	if isHoisted {
		p.hoistedFnDepth--
	}
	p.blockDepth = oldBlockDepth
	p.fnDepth--
}

func (p *peephole) visitArrow(e *js_ast.EArrow) {
	oldBlockDepth := p.blockDepth
	p.fnDepth++
	p.blockDepth = 0

	p.visitArgs(e.Args)
	e.Body.Block.Stmts = p.visitStmts(e.Body.Block.Stmts, stmtsFnBody)

	p.blockDepth = oldBlockDepth
	p.fnDepth--
}

func (p *peephole) visitArgs(args []js_ast.Arg) {
	for i := range args {
		arg := &args[i]
		p.visitBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			arg.DefaultOrNil = p.visitExpr(arg.DefaultOrNil)
		}
	}
}

func (p *peephole) visitClass(class *js_ast.Class) {
	if class.ExtendsOrNil.Data != nil {
		class.ExtendsOrNil = p.visitExpr(class.ExtendsOrNil)
	}

	p.pushPrivateScope(class)

	end := 0
	for _, property := range class.Properties {
		if property.Kind == js_ast.PropertyClassStaticBlock {
			oldBlockDepth := p.blockDepth
			p.fnDepth++
			p.blockDepth = 0
			block := &property.ClassStaticBlock.Block
			block.Stmts = p.visitStmts(block.Stmts, stmtsFnBody)
			p.blockDepth = oldBlockDepth
			p.fnDepth--

			// "class A { static {} }" => "class A {}"
			if len(block.Stmts) == 0 {
				p.changed = true
				continue
			}
			class.Properties[end] = property
			end++
			continue
		}

		// A private key is the declaration of the name, not a use of it
		if _, ok := property.Key.Data.(*js_ast.EPrivateIdentifier); !ok && property.Flags.Has(js_ast.PropertyIsComputed) {
			property.Key = p.visitExpr(property.Key)
		}
		if property.ValueOrNil.Data != nil {
			property.ValueOrNil = p.visitExpr(property.ValueOrNil)
		}
		if property.InitializerOrNil.Data != nil {
			property.InitializerOrNil = p.visitExpr(property.InitializerOrNil)
		}
		class.Properties[end] = property
		end++
	}
	class.Properties = class.Properties[:end]

	p.popPrivateScope(class)
}

type exprIn uint8

const (
	exprInValue exprIn = iota

	// The shape of a call target decides what "this" is inside the call and
	// whether "eval" is a direct eval, so it must not be rewritten into a
	// different member expression or identifier
	exprInCallTarget

	// "typeof x" doesn't throw when "x" is undeclared but "typeof (0, x)" does
	exprInTypeofTarget

	// Assignment targets and "delete" operands name a location instead of
	// producing a value. Only their children are simplified.
	exprInAssignTarget
	exprInDeleteTarget
)

func (p *peephole) visitExpr(expr js_ast.Expr) js_ast.Expr {
	return p.visitExprIn(expr, exprInValue)
}

func (p *peephole) visitExprIn(expr js_ast.Expr, in exprIn) js_ast.Expr {
	// Nested patterns in a destructuring assignment are also targets
	nestedIn := exprInValue
	if in == exprInAssignTarget {
		nestedIn = exprInAssignTarget
	}

	switch e := expr.Data.(type) {
	case *js_ast.ENull, *js_ast.EUndefined, *js_ast.EBoolean, *js_ast.ENumber, *js_ast.EBigInt, *js_ast.EString,
		*js_ast.ERegExp, *js_ast.EThis, *js_ast.ESuper, *js_ast.ENewTarget, *js_ast.EImportMeta, *js_ast.EMissing,
		*js_ast.EIdentifier:

	case *js_ast.EPrivateIdentifier:
		p.markPrivateUsed(e.Ref)

	case *js_ast.EArray:
		for i, item := range e.Items {
			e.Items[i] = p.visitExprIn(item, nestedIn)
		}

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.Flags.Has(js_ast.PropertyIsComputed) {
				property.Key = p.visitExpr(property.Key)
			}
			if property.ValueOrNil.Data != nil {
				property.ValueOrNil = p.visitExprIn(property.ValueOrNil, nestedIn)
			}
			if property.InitializerOrNil.Data != nil {
				property.InitializerOrNil = p.visitExpr(property.InitializerOrNil)
			}
		}

	case *js_ast.ESpread:
		e.Value = p.visitExprIn(e.Value, nestedIn)

	case *js_ast.EUnary:
		switch {
		case e.Op.UnaryAssignTarget() != js_ast.AssignTargetNone:
			e.Value = p.visitExprIn(e.Value, exprInAssignTarget)
		case e.Op == js_ast.UnOpDelete:
			e.Value = p.visitExprIn(e.Value, exprInDeleteTarget)
		case e.Op == js_ast.UnOpTypeof:
			e.Value = p.visitExprIn(e.Value, exprInTypeofTarget)
		default:
			e.Value = p.visitExpr(e.Value)
		}

	case *js_ast.EBinary:
		if e.Op.BinaryAssignTarget() != js_ast.AssignTargetNone {
			e.Left = p.visitExprIn(e.Left, exprInAssignTarget)
		} else {
			e.Left = p.visitExpr(e.Left)
		}
		e.Right = p.visitExpr(e.Right)

	case *js_ast.ECall:
		e.Target = p.visitExprIn(e.Target, exprInCallTarget)
		for i, arg := range e.Args {
			e.Args[i] = p.visitExpr(arg)
		}

	case *js_ast.ENew:
		e.Target = p.visitExpr(e.Target)
		for i, arg := range e.Args {
			e.Args[i] = p.visitExpr(arg)
		}

	case *js_ast.EDot:
		e.Target = p.visitExpr(e.Target)

	case *js_ast.EIndex:
		e.Target = p.visitExpr(e.Target)
		e.Index = p.visitExpr(e.Index)

	case *js_ast.EIf:
		e.Test = p.visitExpr(e.Test)
		e.Yes = p.visitExpr(e.Yes)
		e.No = p.visitExpr(e.No)

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			e.TagOrNil = p.visitExprIn(e.TagOrNil, exprInCallTarget)
		}
		for i := range e.Parts {
			e.Parts[i].Value = p.visitExpr(e.Parts[i].Value)
		}

	case *js_ast.EAwait:
		e.Value = p.visitExpr(e.Value)

	case *js_ast.EYield:
		if e.ValueOrNil.Data != nil {
			e.ValueOrNil = p.visitExpr(e.ValueOrNil)
		}

	case *js_ast.EImportCall:
		e.Expr = p.visitExpr(e.Expr)
		if e.OptionsOrNil.Data != nil {
			e.OptionsOrNil = p.visitExpr(e.OptionsOrNil)
		}

	case *js_ast.EArrow:
		p.visitArrow(e)

	case *js_ast.EFunction:
		p.visitFn(&e.Fn, false)

	case *js_ast.EClass:
		p.visitClass(&e.Class)

	default:
		panic("Internal error")
	}

	if in == exprInAssignTarget || in == exprInDeleteTarget || !p.mangleSyntax {
		return expr
	}

	result := p.mangleExpr(expr)
	if result.Data != expr.Data {
		if in == exprInCallTarget && p.isThisSensitive(result) {
			return expr
		}
		if in == exprInTypeofTarget && p.isUnboundIdentifier(result) {
			return expr
		}
		p.changed = true
	}
	return result
}

// Calling one of these passes a "this" value, and calling "eval" directly can
// see local variables. Replacing "(0, a.b)()" with "a.b()" would change both.
func (p *peephole) isThisSensitive(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EDot, *js_ast.EIndex:
		return true
	case *js_ast.EIdentifier:
		return p.symbols.Get(e.Ref).OriginalName == "eval"
	}
	return false
}

func (p *peephole) isUnboundIdentifier(expr js_ast.Expr) bool {
	id, ok := expr.Data.(*js_ast.EIdentifier)
	return ok && p.symbols.IsUnbound(id.Ref)
}
