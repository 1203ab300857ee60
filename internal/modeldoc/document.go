package modeldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// Document is one loaded model file. It is not safe for concurrent mutation;
// use Clone to hand independent copies to other goroutines.
type Document struct {
	path  string
	src   []byte
	nodes []*Node
	root  *Node
}

// Load reads and parses a model file.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "modeldoc.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return Parse(path, b)
}

// Parse builds a Document from in-memory content. name is only used for
// error context and as the document's source path.
func Parse(name string, data []byte) (*Document, error) {
	src := make([]byte, len(data))
	copy(src, data)

	doc := &Document{path: name, src: src}

	dec := xml.NewDecoder(bytes.NewReader(src))
	var stack []*Node
	var prev int64

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, formatError(name, "", err)
		}

		start, end := int(prev), int(dec.InputOffset())
		prev = dec.InputOffset()

		var parent *Node
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Kind:   ElementNode,
				Name:   t.Name.Local,
				Attrs:  make([]Attr, 0, len(t.Attr)),
				parent: parent,
				start:  start,
				tagEnd: end,
			}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if parent == nil {
				if doc.root != nil {
					return nil, formatError(name, n.describe(), errors.New("more than one root element"))
				}
				doc.root = n
			}
			doc.appendNode(parent, n)
			stack = append(stack, n)

		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n.closeStart = start
			n.end = end
			n.selfClosing = start == end

		case xml.CharData:
			n := &Node{Kind: CharDataNode, Text: string(t), parent: parent, start: start, end: end}
			if parent == nil && strings.TrimSpace(n.Text) != "" {
				return nil, formatError(name, "", errors.New("character data outside the root element"))
			}
			doc.appendNode(parent, n)

		case xml.Comment:
			doc.appendNode(parent, &Node{Kind: CommentNode, Text: string(t), parent: parent, start: start, end: end})

		case xml.ProcInst:
			doc.appendNode(parent, &Node{Kind: ProcInstNode, Name: t.Target, Text: string(t.Inst), parent: parent, start: start, end: end})

		case xml.Directive:
			doc.appendNode(parent, &Node{Kind: DirectiveNode, Text: string(t), parent: parent, start: start, end: end})
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return nil, formatError(name, open.describe(), errors.New("unexpected end of file inside element"))
	}
	if doc.root == nil {
		return nil, formatError(name, "", errors.New("no root element"))
	}

	return doc, nil
}

func (d *Document) appendNode(parent, n *Node) {
	if parent == nil {
		d.nodes = append(d.nodes, n)
		return
	}
	parent.Children = append(parent.Children, n)
}

func attrName(n xml.Name) string {
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return n.Local
}

func formatError(path, subject string, err error) error {
	return &domain.OpError{
		Op:      "modeldoc.parse",
		Kind:    domain.KindFormat,
		Path:    path,
		Subject: subject,
		Err:     err,
	}
}

// Path is the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// Root is the document element.
func (d *Document) Root() *Node { return d.root }

// Clone returns a deep copy that shares no state with d.
func (d *Document) Clone() *Document {
	c := &Document{
		path:  d.path,
		src:   cloneBytes(d.src),
		nodes: make([]*Node, 0, len(d.nodes)),
	}
	for _, n := range d.nodes {
		cn := n.clone(nil)
		if n == d.root {
			c.root = cn
		}
		c.nodes = append(c.nodes, cn)
	}
	return c
}

// Bytes renders the current document. Untouched nodes are copied verbatim
// from the source.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(len(d.src) + 64)
	for _, n := range d.nodes {
		d.writeNode(&buf, n)
	}
	return buf.Bytes()
}

func (d *Document) writeNode(buf *bytes.Buffer, n *Node) {
	if !n.dirty {
		buf.Write(d.src[n.start:n.end])
		return
	}

	if n.Kind != ElementNode {
		buf.Write(n.raw)
		return
	}

	if n.startTag != nil {
		buf.Write(n.startTag)
	} else {
		buf.Write(d.src[n.start:n.tagEnd])
	}
	for _, c := range n.Children {
		d.writeNode(buf, c)
	}
	if n.closeTag != nil {
		buf.Write(n.closeTag)
	} else {
		buf.Write(d.src[n.closeStart:n.end])
	}
}

// Serialize writes the document to path (tmp file, then rename).
func (d *Document) Serialize(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.OpError{Op: "modeldoc.serialize", Kind: domain.KindIO, Path: dir, Err: err}
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, d.Bytes(), 0o644); err != nil {
		return &domain.OpError{Op: "modeldoc.serialize", Kind: domain.KindIO, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "modeldoc.serialize", Kind: domain.KindIO, Path: path, Err: err}
	}
	return nil
}

// owns reports whether n belongs to this document's tree.
func (d *Document) owns(n *Node) bool {
	if n == nil {
		return false
	}
	top := n
	for top.parent != nil {
		top = top.parent
	}
	for _, t := range d.nodes {
		if t == top {
			return true
		}
	}
	return false
}

func (d *Document) foreign(op string, n *Node) error {
	return &domain.OpError{
		Op:      op,
		Kind:    domain.KindInvalidArgument,
		Path:    d.path,
		Subject: n.describe(),
		Err:     fmt.Errorf("node does not belong to this document"),
	}
}
