// Package markup is a small read-only view over an HTML tree. It keeps only
// text and element nodes so decoders can walk fragments without caring about
// comments, doctypes or parser bookkeeping.
package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is either a *TextNode or an *ElementNode.
type Node interface {
	// Text returns all text under the node, concatenated in document order.
	Text() string
}

// TextNode holds character data.
type TextNode struct {
	Content string
}

func (t *TextNode) Text() string { return t.Content }

// ElementNode is a tag with attributes and ordered children.
type ElementNode struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

func (e *ElementNode) Text() string {
	var b strings.Builder
	for _, c := range e.Children {
		b.WriteString(c.Text())
	}
	return b.String()
}

// Attr returns the attribute value and whether it was present.
func (e *ElementNode) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// ID returns the id attribute or "".
func (e *ElementNode) ID() string { return e.Attrs["id"] }

// Class returns the raw class attribute or "".
func (e *ElementNode) Class() string { return e.Attrs["class"] }

// HasClass reports whether the class attribute contains sub. Matching is by
// substring so "mola_" matches "mola_-3" and "accent_top mola_-2".
func (e *ElementNode) HasClass(sub string) bool {
	if sub == "" {
		return false
	}
	return strings.Contains(e.Class(), sub)
}

// Elements returns the element children in document order, skipping text.
func (e *ElementNode) Elements() []*ElementNode {
	var out []*ElementNode
	for _, c := range e.Children {
		if el, ok := c.(*ElementNode); ok {
			out = append(out, el)
		}
	}
	return out
}

// FindAll returns every descendant element (not e itself) matching match, in
// document order.
func (e *ElementNode) FindAll(match func(*ElementNode) bool) []*ElementNode {
	var out []*ElementNode
	var walk func(*ElementNode)
	walk = func(n *ElementNode) {
		for _, c := range n.Elements() {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// Find returns the first descendant matching match.
func (e *ElementNode) Find(match func(*ElementNode) bool) (*ElementNode, bool) {
	for _, c := range e.Elements() {
		if match(c) {
			return c, true
		}
		if found, ok := c.Find(match); ok {
			return found, true
		}
	}
	return nil, false
}

// ClassContains matches elements whose class attribute contains sub.
func ClassContains(sub string) func(*ElementNode) bool {
	return func(e *ElementNode) bool { return e.HasClass(sub) }
}

// WithID matches elements with the given id.
func WithID(id string) func(*ElementNode) bool {
	return func(e *ElementNode) bool { return e.ID() == id }
}

// FromHTML converts an x/net/html node. Document nodes become an element
// with an empty tag. Comments, doctypes and raw nodes yield nil.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.TextNode:
		return &TextNode{Content: n.Data}
	case html.ElementNode, html.DocumentNode:
		el := &ElementNode{Attrs: make(map[string]string, len(n.Attr))}
		if n.Type == html.ElementNode {
			el.Tag = n.Data
		}
		for _, a := range n.Attr {
			el.Attrs[a.Key] = a.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := FromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		return nil
	}
}

// Element converts n and requires the result to be an element.
func Element(n *html.Node) (*ElementNode, error) {
	el, ok := FromHTML(n).(*ElementNode)
	if !ok {
		return nil, fmt.Errorf("markup: node is not an element")
	}
	return el, nil
}

// Parse reads an HTML document and returns its root.
func Parse(r io.Reader) (*ElementNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("markup: parse: %w", err)
	}
	return Element(doc)
}

// ParseFragment parses s as children of a <body> and returns a synthetic
// root holding them. Table rows need a table context, so fragments starting
// with <tr> are parsed inside a <tbody>.
func ParseFragment(s string) (*ElementNode, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	if strings.HasPrefix(strings.TrimSpace(s), "<tr") {
		ctx = &html.Node{Type: html.ElementNode, Data: "tbody", DataAtom: atom.Tbody}
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}
	root := &ElementNode{Attrs: map[string]string{}}
	for _, n := range nodes {
		if child := FromHTML(n); child != nil {
			root.Children = append(root.Children, child)
		}
	}
	return root, nil
}
