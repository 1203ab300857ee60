package modeldoc

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// ReplaceText replaces the character content of an element. Attributes are
// untouched and the layout whitespace around the old content is kept around
// the new one, so the diff is limited to the value itself.
func (d *Document) ReplaceText(n *Node, value string) error {
	const op = "modeldoc.replace_text"

	if !d.owns(n) {
		return d.foreign(op, n)
	}
	if n.Kind != ElementNode {
		return &domain.OpError{
			Op:      op,
			Kind:    domain.KindInvalidArgument,
			Path:    d.path,
			Subject: n.describe(),
			Err:     errors.New("not an element"),
		}
	}
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			return &domain.OpError{
				Op:      op,
				Kind:    domain.KindFormat,
				Path:    d.path,
				Subject: n.describe(),
				Err:     errors.New("element has child elements, refusing to replace mixed content"),
			}
		}
	}

	lead, trail := layout(n.RawText())
	text := &Node{
		Kind:   CharDataNode,
		Text:   lead + value + trail,
		parent: n,
		dirty:  true,
		raw:    []byte(lead + escapeText(value) + trail),
	}

	children := make([]*Node, 0, len(n.Children)+1)
	placed := false
	for _, c := range n.Children {
		if c.Kind == CharDataNode {
			if !placed {
				children = append(children, text)
				placed = true
			}
			continue
		}
		children = append(children, c)
	}
	if !placed {
		children = append([]*Node{text}, children...)
	}
	n.Children = children

	if n.selfClosing && len(n.closeTag) == 0 {
		tag := d.currentStartTag(n)
		open := bytes.TrimSuffix(bytes.TrimRightFunc(tag, unicode.IsSpace), []byte("/>"))
		n.startTag = append(cloneBytes(open), '>')
		n.closeTag = []byte("</" + rawTagName(tag) + ">")
	}

	n.markDirty()
	return nil
}

// SetAttr replaces the value of an existing attribute in place.
func (d *Document) SetAttr(n *Node, name, value string) error {
	const op = "modeldoc.set_attr"

	if !d.owns(n) {
		return d.foreign(op, n)
	}

	idx := -1
	for i, a := range n.Attrs {
		if a.Name == name {
			idx = i
			break
		}
	}
	if n.Kind != ElementNode || idx < 0 {
		return &domain.OpError{
			Op:      op,
			Kind:    domain.KindFormat,
			Path:    d.path,
			Subject: n.describe(),
			Err:     fmt.Errorf("missing attribute %q", name),
		}
	}

	tag := d.currentStartTag(n)
	vs, ve, ok := attrValueSpan(tag, name)
	if !ok {
		return &domain.OpError{
			Op:      op,
			Kind:    domain.KindFormat,
			Path:    d.path,
			Subject: n.describe(),
			Err:     fmt.Errorf("attribute %q not found in start tag", name),
		}
	}

	out := make([]byte, 0, len(tag)+len(value))
	out = append(out, tag[:vs]...)
	out = append(out, escapeAttr(value)...)
	out = append(out, tag[ve:]...)

	n.Attrs[idx].Value = value
	n.startTag = out
	n.markDirty()
	return nil
}

// Remove deletes the element n together with the layout whitespace that
// precedes it, so no blank line is left behind.
func (d *Document) Remove(n *Node) error {
	const op = "modeldoc.remove"

	if !d.owns(n) {
		return d.foreign(op, n)
	}
	p := n.parent
	if n.Kind != ElementNode || p == nil {
		return &domain.OpError{
			Op:      op,
			Kind:    domain.KindInvalidArgument,
			Path:    d.path,
			Subject: n.describe(),
			Err:     errors.New("only nested elements can be removed"),
		}
	}

	i := slices.Index(p.Children, n)
	from := i
	if i > 0 {
		if prev := p.Children[i-1]; prev.Kind == CharDataNode && strings.TrimSpace(prev.Text) == "" {
			from = i - 1
		}
	}
	p.Children = slices.Delete(p.Children, from, i+1)
	n.parent = nil
	p.markDirty()
	return nil
}

// ReplaceElement puts the element parsed from fragment in place of n and
// returns it. fragment must hold exactly one element; its own layout is
// kept as written.
func (d *Document) ReplaceElement(n *Node, fragment string) (*Node, error) {
	const op = "modeldoc.replace_element"

	if !d.owns(n) {
		return nil, d.foreign(op, n)
	}
	p := n.parent
	if n.Kind != ElementNode || p == nil {
		return nil, &domain.OpError{
			Op:      op,
			Kind:    domain.KindInvalidArgument,
			Path:    d.path,
			Subject: n.describe(),
			Err:     errors.New("only nested elements can be replaced"),
		}
	}

	frag, err := Parse(d.path, []byte(fragment))
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindInvalidArgument, Path: d.path, Subject: n.describe(), Err: err}
	}

	repl := graft(frag.root, frag.src, p)
	p.Children[slices.Index(p.Children, n)] = repl
	n.parent = nil
	p.markDirty()
	return repl, nil
}

// graft copies a subtree parsed from another buffer, materializing every
// byte it renders so the result no longer refers to src.
func graft(n *Node, src []byte, parent *Node) *Node {
	c := &Node{
		Kind:   n.Kind,
		Name:   n.Name,
		Attrs:  append([]Attr(nil), n.Attrs...),
		Text:   n.Text,
		parent: parent,
		dirty:  true,
	}
	if n.Kind != ElementNode {
		c.raw = cloneBytes(src[n.start:n.end])
		return c
	}

	c.selfClosing = n.selfClosing
	c.startTag = cloneBytes(src[n.start:n.tagEnd])
	// Empty but non-nil for self-closing tags: nothing follows the start tag.
	c.closeTag = cloneBytes(src[n.closeStart:n.end])
	for _, ch := range n.Children {
		c.Children = append(c.Children, graft(ch, src, c))
	}
	return c
}

func (d *Document) currentStartTag(n *Node) []byte {
	if n.startTag != nil {
		return n.startTag
	}
	return d.src[n.start:n.tagEnd]
}

// layout splits the whitespace that surrounds text content.
func layout(s string) (lead, trail string) {
	core := strings.TrimSpace(s)
	if core == "" {
		return "", ""
	}
	i := strings.Index(s, core)
	return s[:i], s[i+len(core):]
}

func rawTagName(tag []byte) string {
	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	return string(tag[1:i])
}

// attrValueSpan locates the value of an attribute inside a raw start tag.
// A name without a prefix also matches a prefixed attribute's local part.
func attrValueSpan(tag []byte, name string) (int, int, bool) {
	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}

	for i < len(tag) {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			return 0, 0, false
		}

		ns := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) {
			i++
		}
		raw := string(tag[ns:i])

		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			return 0, 0, false
		}
		i++
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			return 0, 0, false
		}
		q := tag[i]
		i++
		vs := i
		for i < len(tag) && tag[i] != q {
			i++
		}
		if i >= len(tag) {
			return 0, 0, false
		}
		if attrNameMatches(raw, name) {
			return vs, i, true
		}
		i++
	}
	return 0, 0, false
}

func attrNameMatches(raw, name string) bool {
	if raw == name {
		return true
	}
	if strings.Contains(name, ":") || strings.HasPrefix(raw, "xmlns") {
		return false
	}
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		return raw[i+1:] == name
	}
	return false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
