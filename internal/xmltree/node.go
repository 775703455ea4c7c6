package xmltree

import (
	"github.com/antchfx/xmlquery"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// node adapts an xmlquery element node to Element
type node struct {
	n *xmlquery.Node
}

func (e *node) Name() string {
	if e.n.Prefix != "" {
		return e.n.Prefix + ":" + e.n.Data
	}
	return e.n.Data
}

func (e *node) Attrs() []Attr {
	attrs := make([]Attr, 0, len(e.n.Attr))
	for _, a := range e.n.Attr {
		attrs = append(attrs, Attr{Name: attrName(a), Value: a.Value})
	}
	return attrs
}

func (e *node) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if attrName(a) == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *node) Child(name string) (Element, bool) {
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		child := &node{n: c}
		if child.Name() == name {
			return child, true
		}
	}
	return nil, false
}

func (e *node) Children(name string) []Element {
	var children []Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		child := &node{n: c}
		if name == "" || child.Name() == name {
			children = append(children, child)
		}
	}
	return children
}

func (e *node) Text() string {
	return e.n.InnerText()
}

// attrName rebuilds the qualified attribute name as written in the document
func attrName(a xmlquery.Attr) string {
	switch a.Name.Space {
	case "":
		return a.Name.Local
	case xmlNamespace:
		return "xml:" + a.Name.Local
	default:
		return a.Name.Space + ":" + a.Name.Local
	}
}
