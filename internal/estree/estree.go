// This package loads programs that were parsed by an external ESTree parser
// such as acorn, espree, or oxc-parser and serialized as JSON. Identifiers are
// bound to symbols while the tree is converted, so the result can be handed
// straight to the optimizer.
package estree

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/evanw/jsfold/internal/js_ast"
	"github.com/evanw/jsfold/internal/logger"
)

// Conversion stops at the first problem. This is used to unwind out of deeply
// nested conversion code without threading errors through every call.
type loadPanic struct {
	err error
}

func Load(source []byte) (tree *js_ast.AST, err error) {
	var root interface{}
	if err := json.Unmarshal(source, &root); err != nil {
		return nil, fmt.Errorf("invalid ESTree JSON: %w", err)
	}
	program, ok := root.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid ESTree JSON: expected an object at the top level")
	}
	return LoadProgram(program)
}

// Converts an already-decoded "Program" node
func LoadProgram(program map[string]interface{}) (tree *js_ast.AST, err error) {
	defer func() {
		if r := recover(); r != nil {
			if p, ok := r.(loadPanic); ok {
				tree = nil
				err = p.err
				return
			}
			panic(r)
		}
	}()

	root := node(program)
	if typ := root.typ(); typ != "Program" {
		return nil, fmt.Errorf("expected a Program node but got %q", typ)
	}

	l := newLoader()
	l.isModule = root.str("sourceType") == "module"
	l.collectComments(root)

	tree = &js_ast.AST{IsModule: l.isModule}
	l.pushScope(scopeTop)
	body := root.children("body")
	l.hoistVars(body)
	l.declareLexical(body)
	tree.Stmts = l.stmtsWithDirectives(body)
	l.popScope()

	l.applyAnnotations()
	tree.Symbols = l.symbols
	tree.HasDirectEval = l.hasDirectEval
	return tree, nil
}

func (l *loader) fail(n node, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if n != nil {
		text = fmt.Sprintf("%s (at offset %d)", text, n.loc().Start)
	}
	panic(loadPanic{err: fmt.Errorf("%s", text)})
}

func (l *loader) unsupported(n node) {
	l.fail(n, "unsupported node type %q", n.typ())
}

// A decoded JSON object for one ESTree node
type node map[string]interface{}

func (n node) typ() string {
	return n.str("type")
}

func (n node) str(key string) string {
	if text, ok := n[key].(string); ok {
		return text
	}
	return ""
}

func (n node) boolean(key string) bool {
	value, _ := n[key].(bool)
	return value
}

func (n node) has(key string) bool {
	value, ok := n[key]
	return ok && value != nil
}

// Returns nil if the child is missing or null
func (n node) child(key string) node {
	if child, ok := n[key].(map[string]interface{}); ok {
		return node(child)
	}
	return nil
}

// Elements that are null (such as array holes) are returned as nil
func (n node) children(key string) []node {
	items, _ := n[key].([]interface{})
	result := make([]node, len(items))
	for i, item := range items {
		if child, ok := item.(map[string]interface{}); ok {
			result[i] = node(child)
		}
	}
	return result
}

// acorn and oxc-parser use "start" and "end" while espree uses "range"
func (n node) offsets() (int32, int32) {
	if start, ok := n["start"].(float64); ok {
		end, _ := n["end"].(float64)
		return int32(start), int32(end)
	}
	if r, ok := n["range"].([]interface{}); ok && len(r) == 2 {
		start, _ := r[0].(float64)
		end, _ := r[1].(float64)
		return int32(start), int32(end)
	}
	return 0, 0
}

func (n node) loc() logger.Loc {
	start, _ := n.offsets()
	return logger.Loc{Start: start}
}

func sortedUnique(offsets []int32) []int32 {
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	end := 0
	for i, offset := range offsets {
		if i == 0 || offset != offsets[end-1] {
			offsets[end] = offset
			end++
		}
	}
	return offsets[:end]
}
