package v3

import (
	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/parser"
	"github.com/ralt/metalinker/internal/xmltree"
)

// Extractor implements the parser.Extractor interface for Metalink 3.0 documents
type Extractor struct{}

// NewExtractor creates a new Metalink 3.0 extractor
func NewExtractor() parser.Extractor {
	return &Extractor{}
}

// GetSupportedVersion returns models.VersionThree
func (x *Extractor) GetSupportedVersion() models.MetalinkVersion {
	return models.VersionThree
}

// Extract reads a Metalink 3.0 document
func (x *Extractor) Extract(root xmltree.Element) (*models.Metalink, error) {
	// Document metadata lives in root attributes
	ml := &models.Metalink{
		Origin:      parser.AttrString(root, "origin"),
		Generator:   parser.AttrString(root, "generator"),
		Dynamic:     parser.AttrString(root, "type") == "dynamic",
		PublishDate: parser.AttrString(root, "pubdate"),
	}

	parser.ParsePublisher(root, ml)

	filesElement, ok := root.Child("files")
	if !ok {
		return nil, models.NewStructuralError("metalink", models.ErrNoFiles)
	}

	fileElements := filesElement.Children("file")
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

// parseFile reads a files/file element
func parseFile(fileElement xmltree.Element) (*models.MetalinkFile, error) {
	// Size is a Metalink 4.0 field; a v3 size element is not read
	file := &models.MetalinkFile{
		File: parser.AttrString(fileElement, "name"),
	}

	// Signatures, hashes and pieces are nested under verification
	verification, ok := fileElement.Child("verification")
	if !ok {
		return nil, models.NewStructuralError("file", models.ErrVerificationMissing)
	}

	for _, sig := range verification.Children("signature") {
		file.Signatures = append(file.Signatures, models.MetalinkSignature{
			SignatureFile:    parser.AttrString(sig, "file"),
			SignatureType:    parser.AttrString(sig, "type"),
			SignatureContent: sig.Text(),
		})
	}

	for _, h := range verification.Children("hash") {
		file.Hashes = append(file.Hashes, parser.ParseHash(h))
	}

	pieces, ok := verification.Child("pieces")
	if !ok {
		return nil, models.NewStructuralError("verification", models.ErrNoPieces)
	}
	pieceInfo, err := parser.ParsePieces(pieces)
	if err != nil {
		return nil, err
	}
	file.PieceInfo = pieceInfo

	// Resources are a sibling of verification, not a child of it
	resources, ok := fileElement.Child("resources")
	if !ok {
		return nil, models.NewStructuralError("file", models.ErrNoResources)
	}

	for _, urlElement := range resources.Children("url") {
		resource, err := parseResource(urlElement)
		if err != nil {
			return nil, err
		}
		file.Resources = append(file.Resources, *resource)
	}

	return file, nil
}

// parseResource reads a resources/url element; the transport comes from its type attribute
func parseResource(urlElement xmltree.Element) (*models.MetalinkResource, error) {
	u, err := parser.ParseURI("url", urlElement.Text())
	if err != nil {
		return nil, err
	}

	preference, err := parser.AttrInt(urlElement, "preference")
	if err != nil {
		return nil, err
	}

	return &models.MetalinkResource{
		URL:        u.String(),
		Type:       parser.AttrString(urlElement, "type"),
		Location:   parser.AttrString(urlElement, "location"),
		Preference: preference,
	}, nil
}
