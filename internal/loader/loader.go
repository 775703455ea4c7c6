// Package loader turns a Metalink document held in a file, a stream or a
// string into the parsed data model.
package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/parser"
	v3 "github.com/ralt/metalinker/internal/parser/v3"
	v4 "github.com/ralt/metalinker/internal/parser/v4"
	"github.com/ralt/metalinker/internal/scanner"
	"github.com/ralt/metalinker/internal/utils"
	"github.com/ralt/metalinker/internal/xmltree"
	"github.com/sirupsen/logrus"
)

var dispatcher = parser.NewDispatcher(v3.NewExtractor(), v4.NewExtractor())

// FromPath loads a .meta4 or .metalink file
func FromPath(path string) (*models.Metalink, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.MetalinkError{
				Type:    models.ErrNotFound,
				Element: path,
				Err:     fmt.Errorf("metalink file doesn't exist: %w", err),
			}
		}
		return nil, &models.MetalinkError{Type: models.ErrFileOp, Element: path, Err: err}
	}

	ext := filepath.Ext(path)
	if !scanner.IsMetalinkExtension(ext) {
		return nil, models.NewFormatError(path, fmt.Errorf("%w, got %q", models.ErrInvalidExtension, ext))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &models.MetalinkError{Type: models.ErrFileOp, Element: path, Err: err}
	}
	defer f.Close()

	logrus.Debugf("Loading metalink file: %s", path)
	return FromReader(f)
}

// FromReader loads a Metalink document from a stream. Gzip, zstd and xz
// compressed content is decompressed transparently.
func FromReader(r io.Reader) (*models.Metalink, error) {
	if r == nil {
		return nil, models.NewFormatError("", models.ErrEmptyInput)
	}

	rc, encoding, err := utils.Decompress(r)
	if err != nil {
		return nil, models.NewFormatError("", err)
	}
	defer rc.Close()

	if encoding != scanner.EncodingIdentity {
		logrus.Debugf("Decompressing %s metalink stream", encoding)
	}

	root, err := xmltree.Parse(rc)
	if err != nil {
		if errors.Is(err, xmltree.ErrNoRoot) {
			return nil, models.NewFormatError("", fmt.Errorf("%w: %w", models.ErrNotMetalink, err))
		}
		return nil, classifyReadError(err)
	}

	return FromTree(root)
}

// FromString loads a Metalink document from its XML text
func FromString(metalink string) (*models.Metalink, error) {
	if metalink == "" {
		return nil, models.NewFormatError("", models.ErrEmptyInput)
	}
	return FromReader(strings.NewReader(metalink))
}

// FromTree parses an already materialised document tree
func FromTree(root xmltree.Element) (*models.Metalink, error) {
	if root == nil {
		return nil, models.NewFormatError("", models.ErrEmptyInput)
	}
	return dispatcher.Parse(root)
}

// classifyReadError separates malformed XML from stream failures
func classifyReadError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return models.NewFormatError("", err)
	}
	return &models.MetalinkError{Type: models.ErrFileOp, Err: err}
}
