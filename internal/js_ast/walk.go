package js_ast

// A read-only pre-order traversal. Either callback may be nil. Returning
// false from a callback skips the children of that node.
type Walker struct {
	Expr func(expr Expr) bool
	Stmt func(stmt Stmt) bool
}

func (w Walker) Stmts(stmts []Stmt) {
	for _, stmt := range stmts {
		w.Stmt1(stmt)
	}
}

func (w Walker) Stmt1(stmt Stmt) {
	if stmt.Data == nil {
		return
	}
	if w.Stmt != nil && !w.Stmt(stmt) {
		return
	}

	switch s := stmt.Data.(type) {
	case *SBlock:
		w.Stmts(s.Stmts)

	case *SExpr:
		w.Expr1(s.Value)

	case *SExportDefault:
		w.Stmt1(s.Value)

	case *SFunction:
		w.fn(&s.Fn)

	case *SClass:
		w.class(&s.Class)

	case *SLabel:
		w.Stmt1(s.Stmt)

	case *SIf:
		w.Expr1(s.Test)
		w.Stmt1(s.Yes)
		w.Stmt1(s.NoOrNil)

	case *SFor:
		w.Stmt1(s.InitOrNil)
		w.Expr1(s.TestOrNil)
		w.Expr1(s.UpdateOrNil)
		w.Stmt1(s.Body)

	case *SForIn:
		w.Stmt1(s.Init)
		w.Expr1(s.Value)
		w.Stmt1(s.Body)

	case *SForOf:
		w.Stmt1(s.Init)
		w.Expr1(s.Value)
		w.Stmt1(s.Body)

	case *SDoWhile:
		w.Stmt1(s.Body)
		w.Expr1(s.Test)

	case *SWhile:
		w.Expr1(s.Test)
		w.Stmt1(s.Body)

	case *STry:
		w.Stmts(s.Block.Stmts)
		if s.Catch != nil {
			w.Binding(s.Catch.BindingOrNil)
			w.Stmts(s.Catch.Block.Stmts)
		}
		if s.Finally != nil {
			w.Stmts(s.Finally.Block.Stmts)
		}

	case *SSwitch:
		w.Expr1(s.Test)
		for _, c := range s.Cases {
			w.Expr1(c.ValueOrNil)
			w.Stmts(c.Body)
		}

	case *SReturn:
		w.Expr1(s.ValueOrNil)

	case *SThrow:
		w.Expr1(s.Value)

	case *SLocal:
		for _, decl := range s.Decls {
			w.Binding(decl.Binding)
			w.Expr1(decl.ValueOrNil)
		}
	}
}

func (w Walker) Binding(binding Binding) {
	switch b := binding.Data.(type) {
	case *BArray:
		for _, item := range b.Items {
			w.Binding(item.Binding)
			w.Expr1(item.DefaultValueOrNil)
		}

	case *BObject:
		for _, property := range b.Properties {
			if property.IsComputed {
				w.Expr1(property.Key)
			}
			w.Binding(property.Value)
			w.Expr1(property.DefaultValueOrNil)
		}
	}
}

func (w Walker) fn(fn *Fn) {
	for _, arg := range fn.Args {
		w.Binding(arg.Binding)
		w.Expr1(arg.DefaultOrNil)
	}
	w.Stmts(fn.Body.Block.Stmts)
}

func (w Walker) class(class *Class) {
	w.Expr1(class.ExtendsOrNil)
	for _, property := range class.Properties {
		if property.ClassStaticBlock != nil {
			w.Stmts(property.ClassStaticBlock.Block.Stmts)
			continue
		}
		w.Expr1(property.Key)
		w.Expr1(property.ValueOrNil)
		w.Expr1(property.InitializerOrNil)
	}
}

func (w Walker) Exprs(exprs []Expr) {
	for _, expr := range exprs {
		w.Expr1(expr)
	}
}

func (w Walker) Expr1(expr Expr) {
	if expr.Data == nil {
		return
	}
	if w.Expr != nil && !w.Expr(expr) {
		return
	}

	switch e := expr.Data.(type) {
	case *EArray:
		w.Exprs(e.Items)

	case *EObject:
		for _, property := range e.Properties {
			w.Expr1(property.Key)
			w.Expr1(property.ValueOrNil)
			w.Expr1(property.InitializerOrNil)
		}

	case *EUnary:
		w.Expr1(e.Value)

	case *EBinary:
		w.Expr1(e.Left)
		w.Expr1(e.Right)

	case *ENew:
		w.Expr1(e.Target)
		w.Exprs(e.Args)

	case *ECall:
		w.Expr1(e.Target)
		w.Exprs(e.Args)

	case *EDot:
		w.Expr1(e.Target)

	case *EIndex:
		w.Expr1(e.Target)
		w.Expr1(e.Index)

	case *EArrow:
		for _, arg := range e.Args {
			w.Binding(arg.Binding)
			w.Expr1(arg.DefaultOrNil)
		}
		w.Stmts(e.Body.Block.Stmts)

	case *EFunction:
		w.fn(&e.Fn)

	case *EClass:
		w.class(&e.Class)

	case *ESpread:
		w.Expr1(e.Value)

	case *ETemplate:
		w.Expr1(e.TagOrNil)
		for _, part := range e.Parts {
			w.Expr1(part.Value)
		}

	case *EAwait:
		w.Expr1(e.Value)

	case *EYield:
		w.Expr1(e.ValueOrNil)

	case *EIf:
		w.Expr1(e.Test)
		w.Expr1(e.Yes)
		w.Expr1(e.No)

	case *EImportCall:
		w.Expr1(e.Expr)
		w.Expr1(e.OptionsOrNil)
	}
}

// Calls "visit" with every symbol declared by this binding
func ForEachIdentifierBinding(binding Binding, visit func(binding Binding, b *BIdentifier)) {
	switch b := binding.Data.(type) {
	case *BIdentifier:
		visit(binding, b)

	case *BArray:
		for _, item := range b.Items {
			ForEachIdentifierBinding(item.Binding, visit)
		}

	case *BObject:
		for _, property := range b.Properties {
			ForEachIdentifierBinding(property.Value, visit)
		}
	}
}
