package estree

import (
	"sort"
	"strings"

	"github.com/evanw/jsfold/internal/js_ast"
)

// ESTree has no place for comments on the nodes themselves, so annotations
// are matched up with nodes by source offset once the whole tree is built.
// An annotation applies to the node that starts first after the comment ends.

type annotation uint8

const (
	annotationNone annotation = iota
	annotationPure
	annotationNoSideEffects
)

type comment struct {
	end  int32
	kind annotation
}

type callSite struct {
	start int32
	end   int32
	call  *js_ast.ECall
	new   *js_ast.ENew
}

type fnSite struct {
	start int32
	fn    *js_ast.Fn
}

func annotationKind(text string) annotation {
	switch {
	case strings.Contains(text, "@__PURE__"), strings.Contains(text, "#__PURE__"):
		return annotationPure
	case strings.Contains(text, "@__NO_SIDE_EFFECTS__"), strings.Contains(text, "#__NO_SIDE_EFFECTS__"):
		return annotationNoSideEffects
	}
	return annotationNone
}

func (l *loader) collectComments(root node) {
	for _, c := range root.children("comments") {
		if c == nil {
			continue
		}
		if kind := annotationKind(c.str("value")); kind != annotationNone {
			_, end := c.offsets()
			l.comments = append(l.comments, comment{end: end, kind: kind})
		}
	}
}

func (l *loader) recordStart(n node) {
	if len(l.comments) > 0 {
		start, _ := n.offsets()
		l.nodeStarts = append(l.nodeStarts, start)
	}
}

func (l *loader) recordCall(n node, call *js_ast.ECall) {
	start, end := n.offsets()
	l.calls = append(l.calls, callSite{start: start, end: end, call: call})
}

func (l *loader) recordNew(n node, e *js_ast.ENew) {
	start, end := n.offsets()
	l.calls = append(l.calls, callSite{start: start, end: end, new: e})
}

func (l *loader) recordFn(n node, fn *js_ast.Fn) {
	start, _ := n.offsets()
	l.fns = append(l.fns, fnSite{start: start, fn: fn})
}

// "export function f() {}" and "const f = function() {}" start before the
// function itself does, but a comment in front of them still annotates it
func (l *loader) aliasStart(owner node, fn node) {
	ownerStart, _ := owner.offsets()
	fnStart, _ := fn.offsets()
	if ownerStart != fnStart {
		l.aliases[ownerStart] = fnStart
	}
}

func (l *loader) applyAnnotations() {
	if len(l.comments) == 0 {
		return
	}
	starts := sortedUnique(l.nodeStarts)

	for _, c := range l.comments {
		i := sort.Search(len(starts), func(i int) bool { return starts[i] >= c.end })
		if i == len(starts) {
			continue
		}
		start := starts[i]

		switch c.kind {
		case annotationPure:
			// "a.b()()" has two calls at the same offset and the outer one wins
			var best *callSite
			for i := range l.calls {
				site := &l.calls[i]
				if site.start == start && (best == nil || site.end > best.end) {
					best = site
				}
			}
			if best != nil {
				if best.call != nil {
					best.call.CanBeUnwrappedIfUnused = true
				} else {
					best.new.CanBeUnwrappedIfUnused = true
				}
			}

		case annotationNoSideEffects:
			for {
				if fn := l.fnAt(start); fn != nil {
					fn.HasNoSideEffectsComment = true
					break
				}
				next, ok := l.aliases[start]
				if !ok {
					break
				}
				start = next
			}
		}
	}
}

func (l *loader) fnAt(start int32) *js_ast.Fn {
	for _, site := range l.fns {
		if site.start == start {
			return site.fn
		}
	}
	return nil
}
