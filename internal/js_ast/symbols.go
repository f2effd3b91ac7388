package js_ast

type SymbolKind uint8

const (
	// An unbound symbol is one that isn't declared in the file it's referenced
	// in. For example, using "window" without declaring it will be unbound.
	// There is exactly one unbound symbol per name, which stands for the
	// built-in global of that name.
	SymbolUnbound SymbolKind = iota

	// This has special merging behavior. You're allowed to re-declare these
	// symbols more than once in the same scope. These symbols are also hoisted
	// out of the scope they are declared in to the closest containing function
	// or module scope. These are the symbols with this kind:
	//
	// - Function arguments
	// - Function statements
	// - Variables declared using "var"
	//
	SymbolHoisted
	SymbolHoistedFunction

	// There's a weird special case where catch variables declared using a simple
	// identifier (i.e. not a binding pattern) block hoisted variables instead of
	// becoming an error:
	//
	//   var e = 0;
	//   try { throw 1 } catch (e) {
	//     print(e) // 1
	//     var e = 2
	//     print(e) // 2
	//   }
	//   print(e) // 0 (since the hoisting stops at the catch block boundary)
	//
	SymbolCatchIdentifier

	// Generator and async functions are not hoisted, but still have special
	// properties such as being able to overwrite previous functions with the
	// same name
	SymbolGeneratorOrAsyncFunction

	// This is the special "arguments" variable inside functions
	SymbolArguments

	SymbolClass

	// A class-private identifier (i.e. "#foo").
	SymbolPrivateField
	SymbolPrivateMethod
	SymbolPrivateGet
	SymbolPrivateSet
	SymbolPrivateGetSetPair
	SymbolPrivateStaticField
	SymbolPrivateStaticMethod
	SymbolPrivateStaticGet
	SymbolPrivateStaticSet
	SymbolPrivateStaticGetSetPair

	// Labels are in their own namespace
	SymbolLabel

	SymbolImport

	// Assigning to a "const" symbol will throw a TypeError at runtime
	SymbolConst

	// This annotates all other symbols that don't have special behavior.
	SymbolOther
)

var InvalidRef Ref = Ref{^uint32(0)}

// A Ref is an index into "SymbolTable.Symbols"
type Ref struct {
	InnerIndex uint32
}

type Symbol struct {
	// This is the name that came from the parser
	OriginalName string

	// The IDs of every reference to this symbol that is still present in the
	// tree. This is in creation order, which is also source order for trees
	// produced by the loader.
	References []ReferenceID

	Kind SymbolKind
}

type ReferenceID uint32

type ReferenceFlags uint8

const (
	ReferenceRead ReferenceFlags = 1 << iota
	ReferenceWrite
)

func (flags ReferenceFlags) Has(flag ReferenceFlags) bool {
	return (flags & flag) != 0
}

type Reference struct {
	Ref   Ref
	Flags ReferenceFlags

	// Deleted references stay in the table so IDs remain stable, but they no
	// longer appear in any symbol's reference list
	IsDeleted bool
}

// This is the only way the evaluator learns about name resolution. The
// well-known globals "undefined", "NaN", and "Infinity" can be shadowed by a
// local declaration, so every use of one must be checked.
type GlobalChecker interface {
	IsGlobalReference(ref Ref, name string) bool
}

type SymbolTable struct {
	Symbols    []Symbol
	References []Reference

	unbound map[string]Ref
}

func (t *SymbolTable) Get(ref Ref) *Symbol {
	return &t.Symbols[ref.InnerIndex]
}

func (t *SymbolTable) NewSymbol(kind SymbolKind, name string) Ref {
	ref := Ref{InnerIndex: uint32(len(t.Symbols))}
	t.Symbols = append(t.Symbols, Symbol{OriginalName: name, Kind: kind})
	return ref
}

// Returns the single unbound symbol for this name, creating it if needed
func (t *SymbolTable) UnboundRef(name string) Ref {
	if ref, ok := t.unbound[name]; ok {
		return ref
	}
	if t.unbound == nil {
		t.unbound = make(map[string]Ref)
	}
	ref := t.NewSymbol(SymbolUnbound, name)
	t.unbound[name] = ref
	return ref
}

func (t *SymbolTable) NewReference(ref Ref, flags ReferenceFlags) ReferenceID {
	id := ReferenceID(len(t.References))
	t.References = append(t.References, Reference{Ref: ref, Flags: flags})
	symbol := t.Get(ref)
	symbol.References = append(symbol.References, id)
	return id
}

// Makes a new identifier expression that reads this symbol
func (t *SymbolTable) NewIdentifier(ref Ref, flags ReferenceFlags) *EIdentifier {
	return &EIdentifier{Ref: ref, ReferenceID: t.NewReference(ref, flags)}
}

func (t *SymbolTable) IsGlobalReference(ref Ref, name string) bool {
	if ref == InvalidRef || int(ref.InnerIndex) >= len(t.Symbols) {
		return false
	}
	symbol := &t.Symbols[ref.InnerIndex]
	return symbol.Kind == SymbolUnbound && symbol.OriginalName == name
}

func (t *SymbolTable) IsUnbound(ref Ref) bool {
	return t.Symbols[ref.InnerIndex].Kind == SymbolUnbound
}

// Removes the reference from its symbol. Returns false if it was already
// deleted.
func (t *SymbolTable) DeleteReference(id ReferenceID) bool {
	reference := &t.References[id]
	if reference.IsDeleted {
		return false
	}
	reference.IsDeleted = true

	symbol := t.Get(reference.Ref)
	for i, other := range symbol.References {
		if other == id {
			symbol.References = append(symbol.References[:i], symbol.References[i+1:]...)
			break
		}
	}
	return true
}

// Counts the live references to this symbol. A reference that both reads and
// writes (e.g. "x++") is counted in both.
func (t *SymbolTable) CountReferences(ref Ref) (reads int, writes int) {
	for _, id := range t.Get(ref).References {
		flags := t.References[id].Flags
		if flags.Has(ReferenceRead) {
			reads++
		}
		if flags.Has(ReferenceWrite) {
			writes++
		}
	}
	return
}

func (t *SymbolTable) LiveReferenceIDs() map[ReferenceID]struct{} {
	live := make(map[ReferenceID]struct{}, len(t.References))
	for _, symbol := range t.Symbols {
		for _, id := range symbol.References {
			live[id] = struct{}{}
		}
	}
	return live
}
