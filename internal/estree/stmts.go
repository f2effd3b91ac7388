package estree

import (
	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
)

// Leading string expression statements form the directive prologue
func (l *loader) stmtsWithDirectives(nodes []node) []js_ast.Stmt {
	stmts := make([]js_ast.Stmt, 0, len(nodes))
	isPrologue := true
	for _, n := range nodes {
		if isPrologue && n.typ() == "ExpressionStatement" && n.has("directive") {
			stmts = append(stmts, js_ast.Stmt{Loc: n.loc(), Data: &js_ast.SDirective{Value: helpers.StringToUTF16(n.str("directive"))}})
			continue
		}
		isPrologue = false
		stmts = append(stmts, l.stmt(n))
	}
	return stmts
}

func (l *loader) stmts(nodes []node) []js_ast.Stmt {
	stmts := make([]js_ast.Stmt, 0, len(nodes))
	for _, n := range nodes {
		stmts = append(stmts, l.stmt(n))
	}
	return stmts
}

// Statement lists in a new block scope
func (l *loader) blockStmts(nodes []node) []js_ast.Stmt {
	l.pushScope(scopeBlock)
	l.declareLexical(nodes)
	stmts := l.stmts(nodes)
	l.popScope()
	return stmts
}

// The body of an "if", a loop, or a label. A declaration there is only
// visible to the statement itself.
func (l *loader) body(n node) js_ast.Stmt {
	if n.typ() == "BlockStatement" {
		return l.stmt(n)
	}
	l.pushScope(scopeBlock)
	l.declareLexicalStmt(n)
	stmt := l.stmt(n)
	l.popScope()
	return stmt
}

func (l *loader) stmtOrNil(n node) js_ast.Stmt {
	if n == nil {
		return js_ast.Stmt{}
	}
	return l.body(n)
}

func (l *loader) stmt(n node) js_ast.Stmt {
	if n == nil {
		l.fail(nil, "missing statement")
	}
	loc := n.loc()
	l.recordStart(n)

	switch n.typ() {
	case "EmptyStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case "DebuggerStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case "ExpressionStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: l.expr(n.child("expression"))}}

	case "BlockStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: l.blockStmts(n.children("body"))}}

	case "VariableDeclaration":
		return js_ast.Stmt{Loc: loc, Data: l.local(n)}

	case "FunctionDeclaration":
		s := &js_ast.SFunction{}
		l.fnDecl(n, &s.Fn)
		return js_ast.Stmt{Loc: loc, Data: s}

	case "ClassDeclaration":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: l.classDecl(n)}}

	case "ReturnStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: l.exprOrNil(n.child("argument"))}}

	case "ThrowStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: l.expr(n.child("argument"))}}

	case "IfStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{
			Test:    l.expr(n.child("test")),
			Yes:     l.body(n.child("consequent")),
			NoOrNil: l.stmtOrNil(n.child("alternate")),
		}}

	case "WhileStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{
			Test: l.expr(n.child("test")),
			Body: l.body(n.child("body")),
		}}

	case "DoWhileStatement":
		body := l.body(n.child("body"))
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: l.expr(n.child("test"))}}

	case "ForStatement":
		l.pushScope(scopeBlock)
		defer l.popScope()
		s := &js_ast.SFor{}
		if init := n.child("init"); init != nil {
			if init.typ() == "VariableDeclaration" {
				l.declareLexicalStmt(init)
				s.InitOrNil = js_ast.Stmt{Loc: init.loc(), Data: l.local(init)}
			} else {
				s.InitOrNil = js_ast.Stmt{Loc: init.loc(), Data: &js_ast.SExpr{Value: l.expr(init)}}
			}
		}
		s.TestOrNil = l.exprOrNil(n.child("test"))
		s.UpdateOrNil = l.exprOrNil(n.child("update"))
		s.Body = l.body(n.child("body"))
		return js_ast.Stmt{Loc: loc, Data: s}

	case "ForInStatement", "ForOfStatement":
		l.pushScope(scopeBlock)
		defer l.popScope()
		left := n.child("left")
		var init js_ast.Stmt
		if left.typ() == "VariableDeclaration" {
			l.declareLexicalStmt(left)
			init = js_ast.Stmt{Loc: left.loc(), Data: l.local(left)}
		} else {
			init = js_ast.Stmt{Loc: left.loc(), Data: &js_ast.SExpr{Value: l.assignTarget(left, js_ast.ReferenceWrite)}}
		}
		value := l.expr(n.child("right"))
		body := l.body(n.child("body"))
		if n.typ() == "ForInStatement" {
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: init, Value: value, Body: body}}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{Init: init, Value: value, Body: body, IsAwait: n.boolean("await")}}

	case "BreakStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: l.resolveLabel(n.child("label"))}}

	case "ContinueStatement":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: l.resolveLabel(n.child("label"))}}

	case "LabeledStatement":
		id := n.child("label")
		ref := l.pushLabel(id.str("name"))
		body := l.body(n.child("body"))
		l.popLabel()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: js_ast.LocRef{Loc: id.loc(), Ref: ref}, Stmt: body}}

	case "SwitchStatement":
		s := &js_ast.SSwitch{Test: l.expr(n.child("discriminant"))}

		// Every clause shares one scope
		cases := n.children("cases")
		l.pushScope(scopeBlock)
		for _, c := range cases {
			l.declareLexical(c.children("consequent"))
		}
		for _, c := range cases {
			s.Cases = append(s.Cases, js_ast.Case{
				Loc:        c.loc(),
				ValueOrNil: l.exprOrNil(c.child("test")),
				Body:       l.stmts(c.children("consequent")),
			})
		}
		l.popScope()
		return js_ast.Stmt{Loc: loc, Data: s}

	case "TryStatement":
		block := n.child("block")
		s := &js_ast.STry{BlockLoc: block.loc(), Block: js_ast.SBlock{Stmts: l.blockStmts(block.children("body"))}}
		if handler := n.child("handler"); handler != nil {
			l.pushScope(scopeBlock)
			catch := &js_ast.Catch{Loc: handler.loc()}
			if param := handler.child("param"); param != nil {
				kind := js_ast.SymbolOther
				if param.typ() == "Identifier" {
					kind = js_ast.SymbolCatchIdentifier
				}
				for _, name := range bindingNames(param, nil) {
					l.declare(kind, name)
				}
				catch.BindingOrNil = l.binding(param)
			}
			body := handler.child("body")
			catch.BlockLoc = body.loc()
			catch.Block.Stmts = l.blockStmts(body.children("body"))
			l.popScope()
			s.Catch = catch
		}
		if finalizer := n.child("finalizer"); finalizer != nil {
			s.Finally = &js_ast.Finally{Loc: finalizer.loc(), Block: js_ast.SBlock{Stmts: l.blockStmts(finalizer.children("body"))}}
		}
		return js_ast.Stmt{Loc: loc, Data: s}

	case "ImportDeclaration":
		return js_ast.Stmt{Loc: loc, Data: l.importDecl(n)}

	case "ExportNamedDeclaration":
		return js_ast.Stmt{Loc: loc, Data: l.exportNamed(n)}

	case "ExportDefaultDeclaration":
		return js_ast.Stmt{Loc: loc, Data: l.exportDefault(n)}

	case "ExportAllDeclaration":
		s := &js_ast.SExportStar{Path: n.child("source").str("value")}
		if exported := n.child("exported"); exported != nil {
			s.Alias = &js_ast.ExportStarAlias{Loc: exported.loc(), Name: moduleExportName(exported)}
		}
		return js_ast.Stmt{Loc: loc, Data: s}

	case "WithStatement":
		l.fail(n, "\"with\" statements are not supported")
	}

	l.unsupported(n)
	return js_ast.Stmt{}
}

func (l *loader) local(n node) *js_ast.SLocal {
	s := &js_ast.SLocal{}
	switch kind := n.str("kind"); kind {
	case "var":
		s.Kind = js_ast.LocalVar
	case "let":
		s.Kind = js_ast.LocalLet
	case "const":
		s.Kind = js_ast.LocalConst
	default:
		l.fail(n, "unsupported declaration kind %q", kind)
	}

	decls := n.children("declarations")
	for _, decl := range decls {
		init := decl.child("init")
		if init != nil && init.typ() == "FunctionExpression" && len(decls) == 1 {
			// "/* @__NO_SIDE_EFFECTS__ */ const f = function() {}"
			l.aliasStart(n, init)
		}
		s.Decls = append(s.Decls, js_ast.Decl{
			Binding:    l.binding(decl.child("id")),
			ValueOrNil: l.exprOrNil(init),
		})
	}
	return s
}

func (l *loader) importDecl(n node) *js_ast.SImport {
	s := &js_ast.SImport{Path: n.child("source").str("value")}
	for _, specifier := range n.children("specifiers") {
		local := specifier.child("local")
		ref := l.resolve(local.str("name"))
		switch specifier.typ() {
		case "ImportDefaultSpecifier":
			s.DefaultName = &js_ast.LocRef{Loc: local.loc(), Ref: ref}

		case "ImportNamespaceSpecifier":
			s.StarName = &js_ast.LocRef{Loc: local.loc(), Ref: ref}

		case "ImportSpecifier":
			if s.Items == nil {
				s.Items = &[]js_ast.ClauseItem{}
			}
			imported := specifier.child("imported")
			name := moduleExportName(imported)
			*s.Items = append(*s.Items, js_ast.ClauseItem{
				Alias:        name,
				AliasLoc:     imported.loc(),
				Name:         js_ast.LocRef{Loc: local.loc(), Ref: ref},
				OriginalName: name,
			})

		default:
			l.unsupported(specifier)
		}
	}
	return s
}

// Export names can be identifiers or string literals
func moduleExportName(n node) string {
	if n.typ() == "Literal" {
		return n.str("value")
	}
	return n.str("name")
}

func (l *loader) exportNamed(n node) js_ast.S {
	if decl := n.child("declaration"); decl != nil {
		stmt := l.stmt(decl)
		l.aliasStart(n, decl)
		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			s.IsExport = true
		case *js_ast.SFunction:
			s.IsExport = true
		case *js_ast.SClass:
			s.IsExport = true
		default:
			l.unsupported(decl)
		}
		return stmt.Data
	}

	var items []js_ast.ClauseItem
	source := n.child("source")
	for _, specifier := range n.children("specifiers") {
		local := specifier.child("local")
		exported := specifier.child("exported")
		item := js_ast.ClauseItem{
			Alias:        moduleExportName(exported),
			AliasLoc:     exported.loc(),
			OriginalName: moduleExportName(local),
		}
		if source == nil {
			// "export { a as b }" reads "a" when the module is imported
			ref := l.resolve(item.OriginalName)
			item.Name = js_ast.LocRef{Loc: local.loc(), Ref: ref}
			item.ReferenceID = l.symbols.NewReference(ref, js_ast.ReferenceRead)
			item.IsReference = true
		} else {
			item.Name = js_ast.LocRef{Loc: local.loc(), Ref: l.symbols.NewSymbol(js_ast.SymbolOther, item.OriginalName)}
		}
		items = append(items, item)
	}

	if source != nil {
		return &js_ast.SExportFrom{Items: items, Path: source.str("value")}
	}
	return &js_ast.SExportClause{Items: items}
}

func (l *loader) exportDefault(n node) js_ast.S {
	decl := n.child("declaration")
	loc := decl.loc()
	l.recordStart(decl)
	switch decl.typ() {
	case "FunctionDeclaration":
		s := &js_ast.SFunction{}
		l.fnDecl(decl, &s.Fn)
		l.aliasStart(n, decl)
		return &js_ast.SExportDefault{Value: js_ast.Stmt{Loc: loc, Data: s}}

	case "ClassDeclaration":
		return &js_ast.SExportDefault{Value: js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: l.classDecl(decl)}}}
	}
	return &js_ast.SExportDefault{Value: js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: l.expr(decl)}}}
}
