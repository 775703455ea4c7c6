package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/xmltree"
)

// AttrString returns the attribute value or "" when absent
func AttrString(e xmltree.Element, name string) string {
	v, _ := e.Attr(name)
	return v
}

// ChildText returns the text of the first child named name, or "" when absent
func ChildText(e xmltree.Element, name string) string {
	child, ok := e.Child(name)
	if !ok {
		return ""
	}
	return child.Text()
}

// AttrInt parses a required integer attribute
func AttrInt(e xmltree.Element, name string) (int, error) {
	raw, ok := e.Attr(name)
	if !ok {
		return 0, models.NewFormatError(e.Name(), fmt.Errorf("%w: %s is missing", models.ErrInvalidNumber, name))
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, models.NewFormatError(e.Name(), fmt.Errorf("%w: %s=%q", models.ErrInvalidNumber, name, raw))
	}
	return v, nil
}

// ParseInt64 parses the numeric value of field found on element
func ParseInt64(element, field, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, models.NewFormatError(element, fmt.Errorf("%w: %s=%q", models.ErrInvalidNumber, field, raw))
	}
	return v, nil
}

// ParseURI parses an absolute URI from element text
func ParseURI(element, raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, models.NewFormatError(element, fmt.Errorf("%w: %v", models.ErrInvalidURI, err))
	}
	if !u.IsAbs() {
		return nil, models.NewFormatError(element, fmt.Errorf("%w: %q is not absolute", models.ErrInvalidURI, raw))
	}
	return u, nil
}

// ParsePublisher reads the optional publisher element shared by both versions
func ParsePublisher(root xmltree.Element, ml *models.Metalink) {
	publisher, ok := root.Child("publisher")
	if !ok {
		return
	}
	ml.Publisher = ChildText(publisher, "name")
	ml.PublisherURL = ChildText(publisher, "url")
}

// ParseHash reads a hash element
func ParseHash(e xmltree.Element) models.MetalinkHash {
	return models.MetalinkHash{
		HashSumType: AttrString(e, "type"),
		HashSum:     e.Text(),
	}
}

// ParsePieces reads a pieces element: its length and type attributes and the
// ordered hash children
func ParsePieces(pieces xmltree.Element) (*models.MetalinkPieceInfo, error) {
	raw, ok := pieces.Attr("length")
	if !ok {
		return nil, models.NewFormatError("pieces", fmt.Errorf("%w: length is missing", models.ErrInvalidNumber))
	}
	length, err := ParseInt64("pieces", "length", raw)
	if err != nil {
		return nil, err
	}
	// Zero is numeric but would make every piece empty, so it is rejected too
	if length <= 0 {
		return nil, models.NewFormatError("pieces", fmt.Errorf("%w: length must be positive, got %d", models.ErrInvalidNumber, length))
	}

	hashElements := pieces.Children("hash")
	hashes := make([]string, 0, len(hashElements))
	for _, h := range hashElements {
		hashes = append(hashes, h.Text())
	}

	return &models.MetalinkPieceInfo{
		Type:   AttrString(pieces, "type"),
		Length: length,
		Hashes: hashes,
	}, nil
}
