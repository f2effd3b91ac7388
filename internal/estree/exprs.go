package estree

import (
	"math/big"
	"strings"

	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/js_lexer"
)

var unaryOps = map[string]js_ast.OpCode{
	"+":      js_ast.UnOpPos,
	"-":      js_ast.UnOpNeg,
	"~":      js_ast.UnOpCpl,
	"!":      js_ast.UnOpNot,
	"void":   js_ast.UnOpVoid,
	"typeof": js_ast.UnOpTypeof,
	"delete": js_ast.UnOpDelete,
}

var binaryOps = map[string]js_ast.OpCode{
	"+":          js_ast.BinOpAdd,
	"-":          js_ast.BinOpSub,
	"*":          js_ast.BinOpMul,
	"/":          js_ast.BinOpDiv,
	"%":          js_ast.BinOpRem,
	"**":         js_ast.BinOpPow,
	"<":          js_ast.BinOpLt,
	"<=":         js_ast.BinOpLe,
	">":          js_ast.BinOpGt,
	">=":         js_ast.BinOpGe,
	"in":         js_ast.BinOpIn,
	"instanceof": js_ast.BinOpInstanceof,
	"<<":         js_ast.BinOpShl,
	">>":         js_ast.BinOpShr,
	">>>":        js_ast.BinOpUShr,
	"==":         js_ast.BinOpLooseEq,
	"!=":         js_ast.BinOpLooseNe,
	"===":        js_ast.BinOpStrictEq,
	"!==":        js_ast.BinOpStrictNe,
	"??":         js_ast.BinOpNullishCoalescing,
	"||":         js_ast.BinOpLogicalOr,
	"&&":         js_ast.BinOpLogicalAnd,
	"|":          js_ast.BinOpBitwiseOr,
	"&":          js_ast.BinOpBitwiseAnd,
	"^":          js_ast.BinOpBitwiseXor,
}

var assignOps = map[string]js_ast.OpCode{
	"=":    js_ast.BinOpAssign,
	"+=":   js_ast.BinOpAddAssign,
	"-=":   js_ast.BinOpSubAssign,
	"*=":   js_ast.BinOpMulAssign,
	"/=":   js_ast.BinOpDivAssign,
	"%=":   js_ast.BinOpRemAssign,
	"**=":  js_ast.BinOpPowAssign,
	"<<=":  js_ast.BinOpShlAssign,
	">>=":  js_ast.BinOpShrAssign,
	">>>=": js_ast.BinOpUShrAssign,
	"|=":   js_ast.BinOpBitwiseOrAssign,
	"&=":   js_ast.BinOpBitwiseAndAssign,
	"^=":   js_ast.BinOpBitwiseXorAssign,
	"??=":  js_ast.BinOpNullishCoalescingAssign,
	"||=":  js_ast.BinOpLogicalOrAssign,
	"&&=":  js_ast.BinOpLogicalAndAssign,
}

func (l *loader) exprOrNil(n node) js_ast.Expr {
	if n == nil {
		return js_ast.Expr{}
	}
	return l.expr(n)
}

func (l *loader) exprs(nodes []node) []js_ast.Expr {
	exprs := make([]js_ast.Expr, 0, len(nodes))
	for _, n := range nodes {
		exprs = append(exprs, l.expr(n))
	}
	return exprs
}

func (l *loader) expr(n node) js_ast.Expr {
	expr, _ := l.chainExpr(n, false)
	return expr
}

// Members and calls inside a "ChainExpression" continue an optional chain
// that one of their targets started. The second return value says whether
// this expression contains the start of the chain.
func (l *loader) chainExpr(n node, inChain bool) (js_ast.Expr, bool) {
	if n == nil {
		l.fail(nil, "missing expression")
	}
	loc := n.loc()
	l.recordStart(n)

	switch n.typ() {
	case "Identifier":
		return l.identifier(n, js_ast.ReferenceRead), false

	case "Literal":
		return js_ast.Expr{Loc: loc, Data: l.literal(n)}, false

	case "ThisExpression":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}, false

	case "Super":
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}, false

	case "MetaProperty":
		if n.child("meta").str("name") == "new" {
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{}}, false
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}, false

	case "ParenthesizedExpression":
		return l.chainExpr(n.child("expression"), inChain)

	case "ChainExpression":
		expr, _ := l.chainExpr(n.child("expression"), true)
		return expr, false

	case "ArrayExpression":
		var items []js_ast.Expr
		for _, element := range n.children("elements") {
			if element == nil {
				items = append(items, js_ast.Expr{Loc: loc, Data: &js_ast.EMissing{}})
			} else {
				items = append(items, l.expr(element))
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}, false

	case "ObjectExpression":
		var properties []js_ast.Property
		for _, property := range n.children("properties") {
			properties = append(properties, l.objectProperty(property))
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}, false

	case "SpreadElement":
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: l.expr(n.child("argument"))}}, false

	case "FunctionExpression":
		e := &js_ast.EFunction{}
		l.fnExpr(n, &e.Fn)
		return js_ast.Expr{Loc: loc, Data: e}, false

	case "ArrowFunctionExpression":
		return js_ast.Expr{Loc: loc, Data: l.arrow(n)}, false

	case "ClassExpression":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: l.classExpr(n)}}, false

	case "TemplateLiteral":
		return js_ast.Expr{Loc: loc, Data: l.template(n, js_ast.Expr{})}, false

	case "TaggedTemplateExpression":
		tag := l.expr(n.child("tag"))
		return js_ast.Expr{Loc: loc, Data: l.template(n.child("quasi"), tag)}, false

	case "UnaryExpression":
		operator := n.str("operator")
		op, ok := unaryOps[operator]
		if !ok {
			l.fail(n, "unsupported unary operator %q", operator)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: l.expr(n.child("argument"))}}, false

	case "UpdateExpression":
		var op js_ast.OpCode
		isPrefix := n.boolean("prefix")
		switch {
		case n.str("operator") == "++" && isPrefix:
			op = js_ast.UnOpPreInc
		case n.str("operator") == "++":
			op = js_ast.UnOpPostInc
		case isPrefix:
			op = js_ast.UnOpPreDec
		default:
			op = js_ast.UnOpPostDec
		}
		value := l.assignTarget(n.child("argument"), js_ast.ReferenceRead|js_ast.ReferenceWrite)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}, false

	case "BinaryExpression", "LogicalExpression":
		operator := n.str("operator")
		op, ok := binaryOps[operator]
		if !ok {
			l.fail(n, "unsupported binary operator %q", operator)
		}
		var left js_ast.Expr
		if private := n.child("left"); private != nil && private.typ() == "PrivateIdentifier" {
			// "#x in obj"
			left = js_ast.Expr{Loc: private.loc(), Data: &js_ast.EPrivateIdentifier{Ref: l.resolvePrivate(private)}}
		} else {
			left = l.expr(n.child("left"))
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: l.expr(n.child("right"))}}, false

	case "AssignmentExpression":
		operator := n.str("operator")
		op, ok := assignOps[operator]
		if !ok {
			l.fail(n, "unsupported assignment operator %q", operator)
		}
		flags := js_ast.ReferenceWrite
		if op != js_ast.BinOpAssign {
			flags |= js_ast.ReferenceRead
		}
		left := l.assignTarget(n.child("left"), flags)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: l.expr(n.child("right"))}}, false

	case "ConditionalExpression":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIf{
			Test: l.expr(n.child("test")),
			Yes:  l.expr(n.child("consequent")),
			No:   l.expr(n.child("alternate")),
		}}, false

	case "SequenceExpression":
		return js_ast.JoinAllWithComma(l.exprs(n.children("expressions"))), false

	case "YieldExpression":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{
			ValueOrNil: l.exprOrNil(n.child("argument")),
			IsStar:     n.boolean("delegate"),
		}}, false

	case "AwaitExpression":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: l.expr(n.child("argument"))}}, false

	case "ImportExpression":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportCall{
			Expr:         l.expr(n.child("source")),
			OptionsOrNil: l.exprOrNil(n.child("options")),
		}}, false

	case "NewExpression":
		e := &js_ast.ENew{Target: l.expr(n.child("callee")), Args: l.exprs(n.children("arguments"))}
		l.recordNew(n, e)
		return js_ast.Expr{Loc: loc, Data: e}, false

	case "CallExpression":
		callee := n.child("callee")
		target, hasChain := l.chainExpr(callee, inChain)
		e := &js_ast.ECall{Target: target, Args: l.exprs(n.children("arguments"))}
		e.OptionalChain, hasChain = optionalChain(n, inChain, hasChain)
		l.recordCall(n, e)

		// A direct call to the real "eval" can see every variable in scope
		if id, ok := target.Data.(*js_ast.EIdentifier); ok && l.symbols.IsGlobalReference(id.Ref, "eval") {
			l.hasDirectEval = true
		}
		return js_ast.Expr{Loc: loc, Data: e}, hasChain

	case "MemberExpression":
		target, hasChain := l.chainExpr(n.child("object"), inChain)
		chain, hasChain := optionalChain(n, inChain, hasChain)
		property := n.child("property")
		switch {
		case property.typ() == "PrivateIdentifier":
			index := js_ast.Expr{Loc: property.loc(), Data: &js_ast.EPrivateIdentifier{Ref: l.resolvePrivate(property)}}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: target, Index: index, OptionalChain: chain}}, hasChain

		case n.boolean("computed"):
			return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: target, Index: l.expr(property), OptionalChain: chain}}, hasChain

		default:
			return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{
				Target:        target,
				Name:          property.str("name"),
				NameLoc:       property.loc(),
				OptionalChain: chain,
			}}, hasChain
		}
	}

	l.unsupported(n)
	return js_ast.Expr{}, false
}

func optionalChain(n node, inChain bool, targetHasChain bool) (js_ast.OptionalChain, bool) {
	switch {
	case n.boolean("optional"):
		return js_ast.OptionalChainStart, true
	case inChain && targetHasChain:
		return js_ast.OptionalChainContinue, true
	}
	return js_ast.OptionalChainNone, false
}

func (l *loader) identifier(n node, flags js_ast.ReferenceFlags) js_ast.Expr {
	ref := l.resolve(n.str("name"))
	return js_ast.Expr{Loc: n.loc(), Data: l.symbols.NewIdentifier(ref, flags)}
}

func (l *loader) literal(n node) js_ast.E {
	switch value := n["value"].(type) {
	case string:
		return &js_ast.EString{Value: helpers.StringToUTF16(value)}
	case float64:
		return &js_ast.ENumber{Value: value}
	case bool:
		return &js_ast.EBoolean{Value: value}
	}

	if regex := n.child("regex"); regex != nil {
		return &js_ast.ERegExp{Value: "/" + regex.str("pattern") + "/" + regex.str("flags")}
	}

	if n.has("bigint") {
		// Parsers disagree on whether this keeps the radix prefix
		digits, ok := new(big.Int).SetString(n.str("bigint"), 0)
		if !ok {
			l.fail(n, "invalid bigint literal %q", n.str("bigint"))
		}
		return &js_ast.EBigInt{Value: digits.String()}
	}

	raw := n.str("raw")
	if raw == "" || raw == "null" {
		return &js_ast.ENull{}
	}

	// Numbers that don't fit in JSON (such as "1e999") are serialized as null
	return &js_ast.ENumber{Value: helpers.StringToNumber(helpers.StringToUTF16(strings.ReplaceAll(raw, "_", "")))}
}

func (l *loader) template(n node, tag js_ast.Expr) *js_ast.ETemplate {
	quasis := n.children("quasis")
	exprs := n.children("expressions")
	if len(quasis) != len(exprs)+1 {
		l.fail(n, "malformed template literal")
	}

	e := &js_ast.ETemplate{TagOrNil: tag, HeadLoc: quasis[0].loc()}
	if tag.Data != nil {
		e.HeadRaw = quasis[0].child("value").str("raw")
	} else {
		e.HeadCooked = helpers.StringToUTF16(quasis[0].child("value").str("cooked"))
	}

	for i, expr := range exprs {
		tail := quasis[i+1]
		part := js_ast.TemplatePart{Value: l.expr(expr), TailLoc: tail.loc()}
		if tag.Data != nil {
			part.TailRaw = tail.child("value").str("raw")
		} else {
			part.TailCooked = helpers.StringToUTF16(tail.child("value").str("cooked"))
		}
		e.Parts = append(e.Parts, part)
	}
	return e
}

func (l *loader) propertyKey(key node, isComputed bool) js_ast.Expr {
	if isComputed {
		return l.expr(key)
	}
	switch key.typ() {
	case "Identifier":
		return js_ast.Expr{Loc: key.loc(), Data: &js_ast.EString{Value: helpers.StringToUTF16(key.str("name"))}}
	case "PrivateIdentifier":
		return js_ast.Expr{Loc: key.loc(), Data: &js_ast.EPrivateIdentifier{Ref: l.resolvePrivate(key)}}
	case "Literal":
		l.recordStart(key)
		return js_ast.Expr{Loc: key.loc(), Data: l.literal(key)}
	}
	l.unsupported(key)
	return js_ast.Expr{}
}

func (l *loader) objectProperty(n node) js_ast.Property {
	if n.typ() == "SpreadElement" {
		return js_ast.Property{Kind: js_ast.PropertySpread, ValueOrNil: l.expr(n.child("argument"))}
	}
	if n.typ() != "Property" {
		l.unsupported(n)
	}

	property := js_ast.Property{Key: l.propertyKey(n.child("key"), n.boolean("computed"))}
	if n.boolean("computed") {
		property.Flags |= js_ast.PropertyIsComputed
	}
	switch n.str("kind") {
	case "get":
		property.Kind = js_ast.PropertyGet
	case "set":
		property.Kind = js_ast.PropertySet
	}
	if n.boolean("method") {
		property.Flags |= js_ast.PropertyIsMethod
	}
	if n.boolean("shorthand") {
		property.Flags |= js_ast.PropertyWasShorthand
	}
	property.ValueOrNil = l.expr(n.child("value"))
	return property
}

// Assignment targets name locations. Identifiers in them are references with
// the given flags, and patterns are represented as object and array literals.
func (l *loader) assignTarget(n node, flags js_ast.ReferenceFlags) js_ast.Expr {
	loc := n.loc()
	l.recordStart(n)

	switch n.typ() {
	case "Identifier":
		return l.identifier(n, flags)

	case "ParenthesizedExpression":
		return l.assignTarget(n.child("expression"), flags)

	case "MemberExpression":
		return l.expr(n)

	case "ObjectPattern":
		var properties []js_ast.Property
		for _, p := range n.children("properties") {
			if p.typ() == "RestElement" {
				properties = append(properties, js_ast.Property{Kind: js_ast.PropertySpread, ValueOrNil: l.assignTarget(p.child("argument"), flags)})
				continue
			}
			property := js_ast.Property{Key: l.propertyKey(p.child("key"), p.boolean("computed"))}
			if p.boolean("computed") {
				property.Flags |= js_ast.PropertyIsComputed
			}
			if p.boolean("shorthand") {
				property.Flags |= js_ast.PropertyWasShorthand
			}
			value := p.child("value")
			if value.typ() == "AssignmentPattern" {
				property.ValueOrNil = l.assignTarget(value.child("left"), flags)
				property.InitializerOrNil = l.expr(value.child("right"))
			} else {
				property.ValueOrNil = l.assignTarget(value, flags)
			}
			properties = append(properties, property)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	case "ArrayPattern":
		var items []js_ast.Expr
		for _, element := range n.children("elements") {
			if element == nil {
				items = append(items, js_ast.Expr{Loc: loc, Data: &js_ast.EMissing{}})
			} else {
				items = append(items, l.assignTarget(element, flags))
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case "AssignmentPattern":
		// "[a = 1] = b"
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpAssign,
			Left:  l.assignTarget(n.child("left"), flags),
			Right: l.expr(n.child("right")),
		}}

	case "RestElement":
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: l.assignTarget(n.child("argument"), flags)}}
	}

	l.unsupported(n)
	return js_ast.Expr{}
}

// Bindings declare names. The names were already declared in the right
// scope, so this only resolves them.
func (l *loader) binding(n node) js_ast.Binding {
	loc := n.loc()

	switch n.typ() {
	case "Identifier":
		name := n.str("name")
		if l.isModule && js_lexer.IsReservedWord(name) {
			l.fail(n, "%q cannot be used as a name in module code", name)
		}
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: l.resolve(name)}}

	case "ObjectPattern":
		b := &js_ast.BObject{}
		for _, p := range n.children("properties") {
			if p.typ() == "RestElement" {
				b.Properties = append(b.Properties, js_ast.PropertyBinding{IsSpread: true, Value: l.binding(p.child("argument"))})
				continue
			}
			property := js_ast.PropertyBinding{
				Key:        l.propertyKey(p.child("key"), p.boolean("computed")),
				IsComputed: p.boolean("computed"),
			}
			value := p.child("value")
			if value.typ() == "AssignmentPattern" {
				property.Value = l.binding(value.child("left"))
				property.DefaultValueOrNil = l.expr(value.child("right"))
			} else {
				property.Value = l.binding(value)
			}
			b.Properties = append(b.Properties, property)
		}
		return js_ast.Binding{Loc: loc, Data: b}

	case "ArrayPattern":
		b := &js_ast.BArray{}
		for _, element := range n.children("elements") {
			var item js_ast.ArrayBinding
			switch {
			case element == nil:
				item.Binding = js_ast.Binding{Loc: loc, Data: &js_ast.BMissing{}}
			case element.typ() == "AssignmentPattern":
				item.Binding = l.binding(element.child("left"))
				item.DefaultValueOrNil = l.expr(element.child("right"))
			case element.typ() == "RestElement":
				item.Binding = l.binding(element.child("argument"))
				b.HasSpread = true
			default:
				item.Binding = l.binding(element)
			}
			b.Items = append(b.Items, item)
		}
		return js_ast.Binding{Loc: loc, Data: b}
	}

	l.unsupported(n)
	return js_ast.Binding{}
}

// Parameters and the function body share a scope
func (l *loader) fnBody(n node, fn *js_ast.Fn, kind scopeKind) {
	l.pushScope(kind)
	params := n.children("params")
	for _, param := range params {
		for _, name := range bindingNames(param, nil) {
			l.declare(js_ast.SymbolHoisted, name)
		}
	}

	for i, param := range params {
		var arg js_ast.Arg
		switch param.typ() {
		case "AssignmentPattern":
			arg.Binding = l.binding(param.child("left"))
			arg.DefaultOrNil = l.expr(param.child("right"))
		case "RestElement":
			arg.Binding = l.binding(param.child("argument"))
			fn.HasRestArg = i+1 == len(params)
		default:
			arg.Binding = l.binding(param)
		}
		fn.Args = append(fn.Args, arg)
	}

	// Labels don't cross function boundaries
	oldLabels := l.labels
	l.labels = nil

	body := n.child("body")
	fn.Body.Loc = body.loc()
	if body.typ() == "BlockStatement" {
		stmts := body.children("body")
		l.hoistVars(stmts)
		l.declareLexical(stmts)
		fn.Body.Block.Stmts = l.stmtsWithDirectives(stmts)
	} else {
		// Arrow functions with an expression body
		value := l.expr(body)
		fn.Body.Block.Stmts = []js_ast.Stmt{{Loc: value.Loc, Data: &js_ast.SReturn{ValueOrNil: value}}}
	}

	l.labels = oldLabels
	l.popScope()
}

func (l *loader) fnDecl(n node, fn *js_ast.Fn) {
	if id := n.child("id"); id != nil {
		fn.Name = &js_ast.LocRef{Loc: id.loc(), Ref: l.resolve(id.str("name"))}
	}
	fn.IsAsync = n.boolean("async")
	fn.IsGenerator = n.boolean("generator")
	l.fnBody(n, fn, scopeFunction)
	l.recordFn(n, fn)
}

// The name of a function expression is only visible inside the function
func (l *loader) fnExpr(n node, fn *js_ast.Fn) {
	id := n.child("id")
	if id != nil {
		l.pushScope(scopeBlock)
		fn.Name = &js_ast.LocRef{Loc: id.loc(), Ref: l.declare(js_ast.SymbolHoistedFunction, id.str("name"))}
	}
	fn.IsAsync = n.boolean("async")
	fn.IsGenerator = n.boolean("generator")
	l.fnBody(n, fn, scopeFunction)
	if id != nil {
		l.popScope()
	}
	l.recordFn(n, fn)
}

func (l *loader) arrow(n node) *js_ast.EArrow {
	var fn js_ast.Fn
	l.fnBody(n, &fn, scopeArrow)
	return &js_ast.EArrow{
		Args:       fn.Args,
		Body:       fn.Body,
		IsAsync:    n.boolean("async"),
		HasRestArg: fn.HasRestArg,
		PreferExpr: n.boolean("expression"),
	}
}

func (l *loader) classDecl(n node) js_ast.Class {
	class := js_ast.Class{}
	if id := n.child("id"); id != nil {
		class.Name = &js_ast.LocRef{Loc: id.loc(), Ref: l.resolve(id.str("name"))}
	}
	l.classBody(n, &class)
	return class
}

func (l *loader) classExpr(n node) js_ast.Class {
	class := js_ast.Class{}
	id := n.child("id")
	if id != nil {
		l.pushScope(scopeBlock)
		class.Name = &js_ast.LocRef{Loc: id.loc(), Ref: l.declare(js_ast.SymbolClass, id.str("name"))}
	}
	l.classBody(n, &class)
	if id != nil {
		l.popScope()
	}
	return class
}

func (l *loader) classBody(n node, class *js_ast.Class) {
	class.ExtendsOrNil = l.exprOrNil(n.child("superClass"))
	body := n.child("body")
	class.BodyLoc = body.loc()
	members := body.children("body")

	l.pushPrivateNames(members)
	for _, member := range members {
		class.Properties = append(class.Properties, l.classMember(member))
	}
	l.popPrivateNames()
}

func (l *loader) classMember(n node) js_ast.Property {
	switch n.typ() {
	case "StaticBlock":
		l.pushScope(scopeArrow)
		stmts := n.children("body")
		l.hoistVars(stmts)
		l.declareLexical(stmts)
		block := &js_ast.ClassStaticBlock{Loc: n.loc(), Block: js_ast.SBlock{Stmts: l.stmts(stmts)}}
		l.popScope()
		return js_ast.Property{Kind: js_ast.PropertyClassStaticBlock, ClassStaticBlock: block}

	case "MethodDefinition", "PropertyDefinition":
		property := js_ast.Property{Key: l.propertyKey(n.child("key"), n.boolean("computed"))}
		if n.boolean("computed") {
			property.Flags |= js_ast.PropertyIsComputed
		}
		if n.boolean("static") {
			property.Flags |= js_ast.PropertyIsStatic
		}

		if n.typ() == "PropertyDefinition" {
			property.InitializerOrNil = l.exprOrNil(n.child("value"))
			return property
		}

		switch n.str("kind") {
		case "get":
			property.Kind = js_ast.PropertyGet
		case "set":
			property.Kind = js_ast.PropertySet
		default:
			property.Flags |= js_ast.PropertyIsMethod
		}
		property.ValueOrNil = l.expr(n.child("value"))
		return property
	}

	l.unsupported(n)
	return js_ast.Property{}
}
