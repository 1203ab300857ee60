package modeldoc

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// Selector is a predicate over an element and its ancestry.
type Selector struct {
	desc  string
	match func(*Node) bool
}

func (s Selector) String() string { return s.desc }

// Matches reports whether n is an element accepted by s.
func (s Selector) Matches(n *Node) bool {
	return n != nil && n.Kind == ElementNode && s.match != nil && s.match(n)
}

// Element matches by local name and attribute equality. attrs are
// name/value pairs.
func Element(name string, attrs ...string) Selector {
	if len(attrs)%2 != 0 {
		panic("modeldoc: Element needs attribute name/value pairs")
	}

	var b strings.Builder
	b.WriteString(name)
	for i := 0; i < len(attrs); i += 2 {
		fmt.Fprintf(&b, "[@%s=%q]", attrs[i], attrs[i+1])
	}

	return Selector{
		desc: b.String(),
		match: func(n *Node) bool {
			if n.Name != name {
				return false
			}
			for i := 0; i < len(attrs); i += 2 {
				if v, ok := n.Attr(attrs[i]); !ok || v != attrs[i+1] {
					return false
				}
			}
			return true
		},
	}
}

// Where wraps an arbitrary predicate.
func Where(desc string, fn func(*Node) bool) Selector {
	return Selector{desc: desc, match: fn}
}

// And requires both selectors to match the same element.
func (s Selector) And(o Selector) Selector {
	return Selector{
		desc:  s.desc + " & " + o.desc,
		match: func(n *Node) bool { return s.Matches(n) && o.Matches(n) },
	}
}

// Within requires some ancestor to match anc.
func (s Selector) Within(anc Selector) Selector {
	return Selector{
		desc: anc.desc + " // " + s.desc,
		match: func(n *Node) bool {
			if !s.Matches(n) {
				return false
			}
			for p := n.parent; p != nil; p = p.parent {
				if anc.Matches(p) {
					return true
				}
			}
			return false
		},
	}
}

// ChildOf requires the direct parent to match parent.
func (s Selector) ChildOf(parent Selector) Selector {
	return Selector{
		desc:  parent.desc + " / " + s.desc,
		match: func(n *Node) bool { return s.Matches(n) && parent.Matches(n.parent) },
	}
}

// FindAll returns every element matching sel in document order.
func (d *Document) FindAll(sel Selector) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind != ElementNode {
			return
		}
		if sel.Matches(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if d.root != nil {
		walk(d.root)
	}
	return out
}

// Find returns the single element matching sel. Zero or several matches are
// both reported as an ambiguous target.
func (d *Document) Find(sel Selector) (*Node, error) {
	found := d.FindAll(sel)
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, &domain.OpError{
			Op:      "modeldoc.find",
			Kind:    domain.KindAmbiguousTarget,
			Path:    d.path,
			Subject: sel.String(),
			Err:     fmt.Errorf("no element matches"),
		}
	default:
		return nil, &domain.OpError{
			Op:      "modeldoc.find",
			Kind:    domain.KindAmbiguousTarget,
			Path:    d.path,
			Subject: sel.String(),
			Err:     fmt.Errorf("%d elements match; a disambiguating selector is required", len(found)),
		}
	}
}
