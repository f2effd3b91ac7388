package estree

import (
	"github.com/evanw/jsfold/internal/js_ast"
)

type scopeKind uint8

const (
	scopeBlock scopeKind = iota
	scopeTop

	// "var" declarations stop at both of these, but only non-arrow functions
	// have their own "arguments"
	scopeFunction
	scopeArrow
)

type scope struct {
	parent  *scope
	members map[string]js_ast.Ref
	kind    scopeKind
}

func (s *scope) isVarBoundary() bool {
	return s.kind != scopeBlock
}

type label struct {
	name string
	ref  js_ast.Ref
}

type loader struct {
	symbols  js_ast.SymbolTable
	scope    *scope
	labels   []label
	privates []map[string]js_ast.Ref

	comments   []comment
	calls      []callSite
	fns        []fnSite
	nodeStarts []int32
	aliases    map[int32]int32

	isModule      bool
	hasDirectEval bool
}

func newLoader() *loader {
	return &loader{aliases: make(map[int32]int32)}
}

func (l *loader) pushScope(kind scopeKind) {
	l.scope = &scope{parent: l.scope, kind: kind, members: make(map[string]js_ast.Ref)}
}

func (l *loader) popScope() {
	l.scope = l.scope.parent
}

// Redeclaring a name in the same scope reuses the symbol, which is what
// "var" and sloppy-mode function declarations need
func (l *loader) declareIn(s *scope, kind js_ast.SymbolKind, name string) js_ast.Ref {
	if ref, ok := s.members[name]; ok {
		return ref
	}
	ref := l.symbols.NewSymbol(kind, name)
	s.members[name] = ref
	return ref
}

func (l *loader) declare(kind js_ast.SymbolKind, name string) js_ast.Ref {
	return l.declareIn(l.scope, kind, name)
}

func (l *loader) resolve(name string) js_ast.Ref {
	for s := l.scope; s != nil; s = s.parent {
		if ref, ok := s.members[name]; ok {
			return ref
		}

		// "arguments" is created on demand the first time it's used
		if name == "arguments" && s.kind == scopeFunction {
			return l.declareIn(s, js_ast.SymbolArguments, name)
		}
	}
	return l.symbols.UnboundRef(name)
}

func (l *loader) varScope() *scope {
	s := l.scope
	for !s.isVarBoundary() {
		s = s.parent
	}
	return s
}

// Declares every "var" in these statements in the enclosing function scope.
// Nested functions have their own scope and are skipped.
func (l *loader) hoistVars(stmts []node) {
	target := l.varScope()
	for _, stmt := range stmts {
		l.hoistVarsIn(target, stmt)
	}
}

func (l *loader) hoistVarsIn(target *scope, n node) {
	if n == nil {
		return
	}

	switch n.typ() {
	case "VariableDeclaration":
		if n.str("kind") == "var" {
			for _, decl := range n.children("declarations") {
				for _, name := range bindingNames(decl.child("id"), nil) {
					l.declareIn(target, js_ast.SymbolHoisted, name)
				}
			}
		}

	case "BlockStatement":
		for _, child := range n.children("body") {
			l.hoistVarsIn(target, child)
		}

	case "IfStatement":
		l.hoistVarsIn(target, n.child("consequent"))
		l.hoistVarsIn(target, n.child("alternate"))

	case "ForStatement":
		l.hoistVarsIn(target, n.child("init"))
		l.hoistVarsIn(target, n.child("body"))

	case "ForInStatement", "ForOfStatement":
		l.hoistVarsIn(target, n.child("left"))
		l.hoistVarsIn(target, n.child("body"))

	case "WhileStatement", "DoWhileStatement", "LabeledStatement", "WithStatement":
		l.hoistVarsIn(target, n.child("body"))

	case "TryStatement":
		l.hoistVarsIn(target, n.child("block"))
		if handler := n.child("handler"); handler != nil {
			l.hoistVarsIn(target, handler.child("body"))
		}
		l.hoistVarsIn(target, n.child("finalizer"))

	case "SwitchStatement":
		for _, c := range n.children("cases") {
			for _, child := range c.children("consequent") {
				l.hoistVarsIn(target, child)
			}
		}

	case "ExportNamedDeclaration":
		l.hoistVarsIn(target, n.child("declaration"))
	}
}

// Declares the block-scoped names of a statement list before any of it is
// converted, so that uses before the declaration still bind to it
func (l *loader) declareLexical(stmts []node) {
	for _, stmt := range stmts {
		l.declareLexicalStmt(stmt)
	}
}

func (l *loader) declareLexicalStmt(n node) {
	if n == nil {
		return
	}

	switch n.typ() {
	case "VariableDeclaration":
		kind := js_ast.SymbolOther
		switch n.str("kind") {
		case "var":
			return
		case "const":
			kind = js_ast.SymbolConst
		}
		for _, decl := range n.children("declarations") {
			for _, name := range bindingNames(decl.child("id"), nil) {
				l.declare(kind, name)
			}
		}

	case "FunctionDeclaration":
		if id := n.child("id"); id != nil {
			kind := js_ast.SymbolHoistedFunction
			if n.boolean("async") || n.boolean("generator") {
				kind = js_ast.SymbolGeneratorOrAsyncFunction
			}
			l.declare(kind, id.str("name"))
		}

	case "ClassDeclaration":
		if id := n.child("id"); id != nil {
			l.declare(js_ast.SymbolClass, id.str("name"))
		}

	case "ExportNamedDeclaration", "ExportDefaultDeclaration":
		l.declareLexicalStmt(n.child("declaration"))

	case "ImportDeclaration":
		for _, specifier := range n.children("specifiers") {
			l.declare(js_ast.SymbolImport, specifier.child("local").str("name"))
		}
	}
}

func bindingNames(n node, names []string) []string {
	if n == nil {
		return names
	}

	switch n.typ() {
	case "Identifier":
		names = append(names, n.str("name"))

	case "ObjectPattern":
		for _, property := range n.children("properties") {
			if property.typ() == "RestElement" {
				names = bindingNames(property.child("argument"), names)
			} else {
				names = bindingNames(property.child("value"), names)
			}
		}

	case "ArrayPattern":
		for _, element := range n.children("elements") {
			names = bindingNames(element, names)
		}

	case "AssignmentPattern":
		names = bindingNames(n.child("left"), names)

	case "RestElement":
		names = bindingNames(n.child("argument"), names)
	}

	return names
}

func (l *loader) pushLabel(name string) js_ast.Ref {
	ref := l.symbols.NewSymbol(js_ast.SymbolLabel, name)
	l.labels = append(l.labels, label{name: name, ref: ref})
	return ref
}

func (l *loader) popLabel() {
	l.labels = l.labels[:len(l.labels)-1]
}

func (l *loader) resolveLabel(n node) *js_ast.LocRef {
	if n == nil {
		return nil
	}
	name := n.str("name")
	for i := len(l.labels) - 1; i >= 0; i-- {
		if l.labels[i].name == name {
			return &js_ast.LocRef{Loc: n.loc(), Ref: l.labels[i].ref}
		}
	}
	l.fail(n, "undefined label %q", name)
	return nil
}

// Private names are visible in the whole class body, including methods that
// appear before the member that declares them
func (l *loader) pushPrivateNames(members []node) {
	names := make(map[string]js_ast.Ref)
	for _, member := range members {
		key := member.child("key")
		if key == nil || key.typ() != "PrivateIdentifier" {
			continue
		}
		name := "#" + key.str("name")
		kind := privateSymbolKind(member)
		if ref, ok := names[name]; ok {
			// A getter and a setter can share a name
			symbol := l.symbols.Get(ref)
			if symbol.Kind == js_ast.SymbolPrivateGet || symbol.Kind == js_ast.SymbolPrivateSet {
				symbol.Kind = js_ast.SymbolPrivateGetSetPair
			} else if symbol.Kind == js_ast.SymbolPrivateStaticGet || symbol.Kind == js_ast.SymbolPrivateStaticSet {
				symbol.Kind = js_ast.SymbolPrivateStaticGetSetPair
			}
			continue
		}
		names[name] = l.symbols.NewSymbol(kind, name)
	}
	l.privates = append(l.privates, names)
}

func (l *loader) popPrivateNames() {
	l.privates = l.privates[:len(l.privates)-1]
}

func privateSymbolKind(member node) js_ast.SymbolKind {
	isStatic := member.boolean("static")
	if member.typ() == "MethodDefinition" {
		switch member.str("kind") {
		case "get":
			if isStatic {
				return js_ast.SymbolPrivateStaticGet
			}
			return js_ast.SymbolPrivateGet
		case "set":
			if isStatic {
				return js_ast.SymbolPrivateStaticSet
			}
			return js_ast.SymbolPrivateSet
		}
		if isStatic {
			return js_ast.SymbolPrivateStaticMethod
		}
		return js_ast.SymbolPrivateMethod
	}
	if isStatic {
		return js_ast.SymbolPrivateStaticField
	}
	return js_ast.SymbolPrivateField
}

func (l *loader) resolvePrivate(n node) js_ast.Ref {
	name := "#" + n.str("name")
	for i := len(l.privates) - 1; i >= 0; i-- {
		if ref, ok := l.privates[i][name]; ok {
			return ref
		}
	}
	l.fail(n, "private name %q is not declared in an enclosing class", name)
	return js_ast.InvalidRef
}
