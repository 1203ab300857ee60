package modeldoc

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// NodeKind tags the variant of a Node.
type NodeKind int

const (
	ElementNode NodeKind = iota
	CharDataNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case CharDataNode:
		return "chardata"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	case DirectiveNode:
		return "directive"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Attr is one attribute; element attributes keep their source order.
type Attr struct {
	Name  string
	Value string
}

// Node is one entry of the document tree.
type Node struct {
	Kind NodeKind
	// Name is the local element name, or the target of a processing instruction.
	Name     string
	Attrs    []Attr
	Children []*Node
	// Text is the decoded content of character data, comments, processing
	// instructions and directives. Elements expose their text via TextContent.
	Text string

	parent *Node

	// Source span. For elements tagEnd is the end of the start tag and
	// closeStart the start of the end tag (equal to end when self-closing).
	start, end         int
	tagEnd, closeStart int
	selfClosing        bool

	// Edit state. A dirty node has an edited descendant or is edited itself.
	dirty    bool
	startTag []byte
	closeTag []byte
	raw      []byte
}

// Parent returns the enclosing element, or nil for top-level nodes.
func (n *Node) Parent() *Node { return n.parent }

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// MustAttr is Attr that reports a missing attribute as a format error.
func (n *Node) MustAttr(name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok {
		return "", &domain.OpError{
			Op:      "modeldoc.attr",
			Kind:    domain.KindFormat,
			Subject: n.describe(),
			Err:     fmt.Errorf("missing attribute %q", name),
		}
	}
	return v, nil
}

// Elements returns the element children in document order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Indent is the whitespace between the start of n's line and its start
// tag, taken from the preceding layout text.
func (n *Node) Indent() string {
	if n.parent == nil {
		return ""
	}
	var prev *Node
	for _, c := range n.parent.Children {
		if c == n {
			break
		}
		prev = c
	}
	if prev == nil || prev.Kind != CharDataNode {
		return ""
	}
	t := prev.Text
	if i := strings.LastIndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	if strings.TrimSpace(t) != "" {
		return ""
	}
	return t
}

// RawText is the concatenated character data of the direct children.
func (n *Node) RawText() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == CharDataNode {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// TextContent is RawText without the surrounding layout whitespace.
func (n *Node) TextContent() string {
	return strings.TrimSpace(n.RawText())
}

func (n *Node) describe() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind != ElementNode {
		return n.Kind.String()
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Name)
	if v, ok := n.Attr("name"); ok {
		fmt.Fprintf(&b, " name=%q", v)
	}
	b.WriteString(">")
	return b.String()
}

func (n *Node) markDirty() {
	for p := n; p != nil; p = p.parent {
		p.dirty = true
	}
}

func (n *Node) clone(parent *Node) *Node {
	c := *n
	c.parent = parent
	c.Attrs = append([]Attr(nil), n.Attrs...)
	c.startTag = cloneBytes(n.startTag)
	c.closeTag = cloneBytes(n.closeTag)
	c.raw = cloneBytes(n.raw)
	c.Children = nil
	if n.Children != nil {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, ch := range n.Children {
			c.Children = append(c.Children, ch.clone(&c))
		}
	}
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
