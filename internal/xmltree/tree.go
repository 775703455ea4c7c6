// Package xmltree exposes a parsed XML document through the small read-only
// view the Metalink extractors need: element name, attributes, children by
// tag and text content.
package xmltree

import (
	"errors"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
)

// ErrNoRoot is returned when a document contains no element at all
var ErrNoRoot = errors.New("document has no root element")

// Attr is a single attribute in document order
type Attr struct {
	Name  string
	Value string
}

// Element is a read-only view of an XML element
type Element interface {
	// Name returns the qualified tag name (prefix:local when prefixed)
	Name() string

	// Attrs returns every attribute in document order, namespace declarations included
	Attrs() []Attr

	// Attr looks up an attribute by qualified name
	Attr(name string) (string, bool)

	// Child returns the first child element with the given name
	Child(name string) (Element, bool)

	// Children returns the child elements with the given name in document order.
	// An empty name returns every child element.
	Children(name string) []Element

	// Text returns the concatenated text content of the element and its descendants
	Text() string
}

// Parse reads an XML document and returns its root element
func Parse(r io.Reader) (Element, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return FromNode(n), nil
		}
	}

	return nil, ErrNoRoot
}

// FromNode wraps an xmlquery element node
func FromNode(n *xmlquery.Node) Element {
	return &node{n: n}
}
