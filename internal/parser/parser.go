// Package parser classifies a Metalink document by its root element and hands
// it to the extractor registered for that version.
package parser

import (
	"fmt"
	"strings"

	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/xmltree"
)

const rootElement = "metalink"

// Extractor interface for per-version Metalink extractors
type Extractor interface {
	// Extract walks the root element and builds the data model
	Extract(root xmltree.Element) (*models.Metalink, error)

	// GetSupportedVersion returns the Metalink version this extractor reads
	GetSupportedVersion() models.MetalinkVersion
}

// Dispatcher routes documents to the extractor matching their version
type Dispatcher struct {
	extractors map[models.MetalinkVersion]Extractor
}

// NewDispatcher creates a dispatcher over the given extractors
func NewDispatcher(extractors ...Extractor) *Dispatcher {
	d := &Dispatcher{
		extractors: make(map[models.MetalinkVersion]Extractor, len(extractors)),
	}
	for _, ex := range extractors {
		d.extractors[ex.GetSupportedVersion()] = ex
	}
	return d
}

// Parse detects the version of root and returns the extractor's result unchanged
func (d *Dispatcher) Parse(root xmltree.Element) (*models.Metalink, error) {
	version, err := DetectVersion(root)
	if err != nil {
		return nil, err
	}

	ex, ok := d.extractors[version]
	if !ok {
		return nil, models.NewFormatError(rootElement, fmt.Errorf("%w: no extractor for version %s", models.ErrUnknownVersion, version))
	}

	return ex.Extract(root)
}

// DetectVersion classifies a document from the attribute shape of its root.
//
// More than one attribute means version 3 and requires version="3.0"; a single
// attribute means version 4 and must be an xmlns declaration mentioning
// "metalink". Descendants are never inspected.
func DetectVersion(root xmltree.Element) (models.MetalinkVersion, error) {
	if root == nil || root.Name() != rootElement {
		return models.VersionUnknown, models.NewFormatError("", models.ErrNotMetalink)
	}

	attrs := root.Attrs()
	switch {
	case len(attrs) > 1:
		if v, _ := root.Attr("version"); v != "3.0" {
			return models.VersionUnknown, models.NewFormatError(rootElement, models.ErrInvalidVersion3)
		}
		return models.VersionThree, nil
	case len(attrs) == 1:
		if attrs[0].Name != "xmlns" || !strings.Contains(attrs[0].Value, "metalink") {
			return models.VersionUnknown, models.NewFormatError(rootElement, models.ErrInvalidVersion4)
		}
		return models.VersionFour, nil
	default:
		return models.VersionUnknown, models.NewFormatError(rootElement, models.ErrUnknownVersion)
	}
}
