package js_peephole

import (
	"github.com/evanw/jsfold/internal/js_ast"
)

// Private names are only visible inside the class body that declares them,
// so a private member with no use in its own class body can never be reached
type privateScope struct {
	declared map[js_ast.Ref]int
	used     map[js_ast.Ref]bool
}

func (p *peephole) pushPrivateScope(class *js_ast.Class) {
	scope := privateScope{
		declared: make(map[js_ast.Ref]int),
		used:     make(map[js_ast.Ref]bool),
	}
	for _, property := range class.Properties {
		if private, ok := property.Key.Data.(*js_ast.EPrivateIdentifier); ok {
			scope.declared[private.Ref]++
		}
	}
	p.privateScopes = append(p.privateScopes, scope)
}

func (p *peephole) markPrivateUsed(ref js_ast.Ref) {
	for i := len(p.privateScopes) - 1; i >= 0; i-- {
		scope := p.privateScopes[i]
		if _, ok := scope.declared[ref]; ok {
			scope.used[ref] = true
			return
		}
	}
}

func (p *peephole) popPrivateScope(class *js_ast.Class) {
	scope := p.privateScopes[len(p.privateScopes)-1]
	p.privateScopes = p.privateScopes[:len(p.privateScopes)-1]
	if len(scope.declared) == len(scope.used) {
		return
	}

	end := 0
	for _, property := range class.Properties {
		if private, ok := property.Key.Data.(*js_ast.EPrivateIdentifier); ok && !scope.used[private.Ref] && p.canDropPrivateMember(property) {
			p.changed = true
			continue
		}
		class.Properties[end] = property
		end++
	}
	class.Properties = class.Properties[:end]
}

func (p *peephole) canDropPrivateMember(property js_ast.Property) bool {
	// Methods and accessors are installed without running any code
	if property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet || property.Flags.Has(js_ast.PropertyIsMethod) {
		return true
	}

	// Fields run their initializer when the instance (or the class, for static
	// fields) is created
	return property.InitializerOrNil.Data == nil || !p.ev.MayHaveSideEffects(property.InitializerOrNil)
}
