package v4

import (
	"fmt"

	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/parser"
	"github.com/ralt/metalinker/internal/xmltree"
)

// signatureSuffix is appended to the file name to name its detached signature
const signatureSuffix = ".asc"

// Extractor implements the parser.Extractor interface for Metalink 4.0 documents
type Extractor struct{}

// NewExtractor creates a new Metalink 4.0 extractor
func NewExtractor() parser.Extractor {
	return &Extractor{}
}

// GetSupportedVersion returns models.VersionFour
func (x *Extractor) GetSupportedVersion() models.MetalinkVersion {
	return models.VersionFour
}

// Extract reads a Metalink 4.0 (RFC 5854) document
func (x *Extractor) Extract(root xmltree.Element) (*models.Metalink, error) {
	ml := &models.Metalink{
		Generator:   parser.ChildText(root, "generator"),
		PublishDate: parser.ChildText(root, "published"),
	}

	if origin, ok := root.Child("origin"); ok {
		ml.Origin = origin.Text()
		ml.Dynamic = parser.AttrString(origin, "dynamic") == "true"
	}

	parser.ParsePublisher(root, ml)

	// Files are direct children of the root
	fileElements := root.Children("file")
	files := make([]models.MetalinkFile, 0, len(fileElements))
	for _, fileElement := range fileElements {
		file, err := parseFile(fileElement)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	ml.Files = files

	return ml, nil
}

// parseFile reads a file element
func parseFile(fileElement xmltree.Element) (*models.MetalinkFile, error) {
	sizeElement, ok := fileElement.Child("size")
	if !ok {
		return nil, models.NewFormatError("file", fmt.Errorf("%w: size is missing", models.ErrInvalidNumber))
	}
	size, err := parser.ParseInt64("size", "size", sizeElement.Text())
	if err != nil {
		return nil, err
	}

	file := &models.MetalinkFile{
		File: parser.AttrString(fileElement, "name"),
		Size: size,
	}

	for _, sig := range fileElement.Children("signature") {
		file.Signatures = append(file.Signatures, models.MetalinkSignature{
			SignatureFile:    signatureFile(file.File),
			SignatureType:    parser.AttrString(sig, "mediatype"),
			SignatureContent: sig.Text(),
		})
	}

	for _, h := range fileElement.Children("hash") {
		file.Hashes = append(file.Hashes, parser.ParseHash(h))
	}

	pieces, ok := fileElement.Child("pieces")
	if !ok {
		return nil, models.NewStructuralError("file", models.ErrNoPieces)
	}
	pieceInfo, err := parser.ParsePieces(pieces)
	if err != nil {
		return nil, err
	}
	file.PieceInfo = pieceInfo

	for _, urlElement := range fileElement.Children("url") {
		resource, err := parseResource(urlElement)
		if err != nil {
			return nil, err
		}
		file.Resources = append(file.Resources, *resource)
	}

	return file, nil
}

// parseResource reads a url element; the transport is the URI's own scheme
func parseResource(urlElement xmltree.Element) (*models.MetalinkResource, error) {
	u, err := parser.ParseURI("url", urlElement.Text())
	if err != nil {
		return nil, err
	}

	priority, err := parser.AttrInt(urlElement, "priority")
	if err != nil {
		return nil, err
	}

	return &models.MetalinkResource{
		URL:        u.String(),
		Type:       u.Scheme,
		Location:   parser.AttrString(urlElement, "location"),
		Preference: priority,
	}, nil
}

// signatureFile names the detached signature of a file, "" for unnamed files
func signatureFile(name string) string {
	if name == "" {
		return ""
	}
	return name + signatureSuffix
}
