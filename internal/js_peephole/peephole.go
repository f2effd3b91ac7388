package js_peephole

// This package rewrites a tree in place until no rule applies anymore. Every
// rule is local: it looks at one node after its children have been visited
// and replaces it with something shorter that does the same thing. Rules can
// enable each other (pruning a branch can leave a variable unused, and so on),
// which is why the whole tree is visited repeatedly.

import (
	"fmt"

	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/helpers"
	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/js_eval"
	"github.com/evanw/jsfold/internal/logger"
)

// Without an explicit limit, the loop is expected to settle well before this.
// A tree that keeps changing after this many passes means two rules are
// undoing each other.
const maxImplicitIterations = 10

type Result struct {
	Passes            int
	ReferencesRemoved int

	// False if the pass limit was hit while the tree was still changing
	Converged bool
}

type peephole struct {
	log     logger.Log
	options config.Options
	tree    *js_ast.AST
	symbols *js_ast.SymbolTable
	ev      *js_eval.Evaluator

	// This is false when only dead code is being removed. Expressions that are
	// kept are then never rewritten.
	mangleSyntax bool

	// Set by any rule that modifies the tree. The driver stops once an entire
	// pass leaves this unset.
	changed bool

	constants     map[js_ast.Ref]knownConstant
	pureFunctions map[js_ast.Ref]bool
	privateScopes []privateScope

	fnDepth        int
	blockDepth     int
	hoistedFnDepth int
}

func Run(tree *js_ast.AST, options config.Options, log logger.Log) Result {
	switch options.Mode {
	case config.ModeFull:
		return Optimize(tree, options, log)
	case config.ModeDeadCodeOnly:
		return DeadCodeElimination(tree, options, log)
	default:
		panic("Internal error")
	}
}

// Folds constants, simplifies expressions and statements, and removes dead
// code until the tree stops changing
func Optimize(tree *js_ast.AST, options config.Options, log logger.Log) Result {
	p := newPeephole(tree, options, log)
	p.mangleSyntax = true
	return p.run()
}

// Only removes unreachable code and unused side-effect free code. Everything
// that survives is left exactly as it was.
func DeadCodeElimination(tree *js_ast.AST, options config.Options, log logger.Log) Result {
	p := newPeephole(tree, options, log)
	return p.run()
}

func newPeephole(tree *js_ast.AST, options config.Options, log logger.Log) *peephole {
	p := &peephole{
		log:           log,
		options:       options,
		tree:          tree,
		symbols:       &tree.Symbols,
		pureFunctions: make(map[js_ast.Ref]bool),
	}

	oracle := &js_eval.DefaultOracle{
		Symbols:        p.symbols,
		Globals:        config.ProcessKnownGlobals(options.PureGlobals),
		IsPureFunction: p.isPureFunction,
	}
	p.ev = js_eval.NewEvaluator(oracle, oracle)
	return p
}

func (p *peephole) run() Result {
	var result Result

	// Inlining is a syntax change, so it's only done in full mode
	if p.mangleSyntax && p.options.InlineConstants && !p.tree.HasDirectEval {
		p.ev.KnownConstant = p.lookupConstant
	}

	for {
		if p.options.MaxIterations > 0 && result.Passes >= p.options.MaxIterations {
			return result
		}
		if p.options.MaxIterations <= 0 && result.Passes >= maxImplicitIterations {
			p.reportNonConvergence(result.Passes)
			return result
		}

		p.changed = false
		p.constants = make(map[js_ast.Ref]knownConstant)
		p.collectPureFunctions()
		p.tree.Stmts = p.visitStmts(p.tree.Stmts, stmtsNormal)
		result.Passes++

		if !p.changed {
			result.Converged = true
			return result
		}

		removed := p.reconcileReferences()
		result.ReferencesRemoved += removed
		p.log.AddDebug(fmt.Sprintf("Pass %d changed the tree and removed %d references", result.Passes, removed))
	}
}

func (p *peephole) reportNonConvergence(passes int) {
	text := fmt.Sprintf("The tree was still changing after %d passes", passes)
	if p.options.Debug {
		panic(text + "\n" + helpers.PrettyPrintedStack())
	}
	p.log.AddDebug(text)
}
