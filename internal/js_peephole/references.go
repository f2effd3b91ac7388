package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/js_eval"
)

// Rules drop subtrees without tracking what was inside them. After a pass the
// tree is walked once to find the references that are still reachable, and
// every other reference is removed from its symbol. Reference counts are then
// exact again for the next pass.
func (p *peephole) reconcileReferences() int {
	live := p.symbols.LiveReferenceIDs()
	reachable := collectReferenceIDs(p.tree.Stmts)
	removed := 0
	for id := range live {
		if _, ok := reachable[id]; !ok && p.symbols.DeleteReference(id) {
			removed++
		}
	}
	return removed
}

func collectReferenceIDs(stmts []js_ast.Stmt) map[js_ast.ReferenceID]struct{} {
	ids := make(map[js_ast.ReferenceID]struct{})
	js_ast.Walker{
		Expr: func(expr js_ast.Expr) bool {
			if id, ok := expr.Data.(*js_ast.EIdentifier); ok {
				ids[id.ReferenceID] = struct{}{}
			}
			return true
		},
		Stmt: func(stmt js_ast.Stmt) bool {
			if s, ok := stmt.Data.(*js_ast.SExportClause); ok {
				for _, item := range s.Items {
					if item.IsReference {
						ids[item.ReferenceID] = struct{}{}
					}
				}
			}
			return true
		},
	}.Stmts(stmts)
	return ids
}

func (p *peephole) isUnused(ref js_ast.Ref) bool {
	return len(p.symbols.Get(ref).References) == 0
}

func (p *peephole) hasNoWrites(ref js_ast.Ref) bool {
	_, writes := p.symbols.CountReferences(ref)
	return writes == 0
}

// A function declared with "@__NO_SIDE_EFFECTS__" makes calls to it removable,
// but only while the binding still holds that function
func (p *peephole) collectPureFunctions() {
	for ref := range p.pureFunctions {
		delete(p.pureFunctions, ref)
	}

	js_ast.Walker{
		Stmt: func(stmt js_ast.Stmt) bool {
			switch s := stmt.Data.(type) {
			case *js_ast.SFunction:
				if s.Fn.HasNoSideEffectsComment && s.Fn.Name != nil && p.hasNoWrites(s.Fn.Name.Ref) {
					p.pureFunctions[s.Fn.Name.Ref] = true
				}

			case *js_ast.SLocal:
				if s.Kind == js_ast.LocalConst {
					for _, decl := range s.Decls {
						if id, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok {
							if fn, ok := decl.ValueOrNil.Data.(*js_ast.EFunction); ok && fn.Fn.HasNoSideEffectsComment {
								p.pureFunctions[id.Ref] = true
							}
						}
					}
				}
			}
			return true
		},
	}.Stmts(p.tree.Stmts)
}

func (p *peephole) isPureFunction(ref js_ast.Ref) bool {
	return p.pureFunctions[ref]
}

type knownConstant struct {
	value js_eval.Value

	// Hoisted function declarations can be called before the declaration
	// runs, so a constant is only used at the nesting level it was seen at
	hoistedFnDepth int
}

// Only "let" and "const" are considered. The binding is not initialized until
// the declaration runs, so a read that the visitor reaches after the
// declaration (outside of hoisted functions) always sees the initializer.
func (p *peephole) recordConstants(s *js_ast.SLocal) {
	if s.Kind == js_ast.LocalVar || s.IsExport || p.ev.KnownConstant == nil {
		return
	}
	for _, decl := range s.Decls {
		id, ok := decl.Binding.Data.(*js_ast.BIdentifier)
		if !ok || decl.ValueOrNil.Data == nil || !p.hasNoWrites(id.Ref) {
			continue
		}
		if value, ok := js_eval.LiteralValue(decl.ValueOrNil.Data); ok {
			p.constants[id.Ref] = knownConstant{value: value, hoistedFnDepth: p.hoistedFnDepth}
		}
	}
}

func (p *peephole) lookupConstant(ref js_ast.Ref) (js_eval.Value, bool) {
	if c, ok := p.constants[ref]; ok && c.hoistedFnDepth == p.hoistedFnDepth {
		return c.value, true
	}
	return js_eval.Value{}, false
}
