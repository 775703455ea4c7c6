package models

// Metalink represents a parsed Metalink 3.0 or 4.0 document
type Metalink struct {
	Generator    string         `json:"generator" yaml:"generator"`
	Origin       string         `json:"origin" yaml:"origin"`
	Dynamic      bool           `json:"dynamic" yaml:"dynamic"`           // Whether the metadata may change upstream
	PublishDate  string         `json:"publishDate" yaml:"publishDate"`   // Kept verbatim, the format differs between versions
	Publisher    string         `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherURL string         `json:"publisherUrl,omitempty" yaml:"publisherUrl,omitempty"`
	Files        []MetalinkFile `json:"files" yaml:"files"`
}

// MetalinkFile describes one downloadable file
type MetalinkFile struct {
	File       string              `json:"file" yaml:"file"`
	Size       int64               `json:"size,omitempty" yaml:"size,omitempty"` // 0 when the document does not declare it
	Hashes     []MetalinkHash      `json:"hashes" yaml:"hashes"`
	Resources  []MetalinkResource  `json:"resources" yaml:"resources"`
	Signatures []MetalinkSignature `json:"signatures,omitempty" yaml:"signatures,omitempty"`
	PieceInfo  *MetalinkPieceInfo  `json:"pieceInfo,omitempty" yaml:"pieceInfo,omitempty"`
}

// MetalinkHash is a whole-file digest
type MetalinkHash struct {
	HashSumType string `json:"type" yaml:"type"`
	HashSum     string `json:"hash" yaml:"hash"`
}

// MetalinkPieceInfo holds the piece-wise digests of a file.
// Hashes[i] covers the byte range [i*Length, (i+1)*Length).
type MetalinkPieceInfo struct {
	Type   string   `json:"type" yaml:"type"`
	Length int64    `json:"length" yaml:"length"`
	Hashes []string `json:"hashes" yaml:"hashes"`
}

// PieceRange returns the byte range covered by piece i for a file of the given size.
// A size of 0 leaves the last range unbounded by the file length.
func (p *MetalinkPieceInfo) PieceRange(i int, size int64) (start, end int64) {
	start = int64(i) * p.Length
	end = start + p.Length
	if size > 0 && end > size {
		end = size
	}
	return start, end
}

// MetalinkResource is one mirror for a file.
//
// Preference is reported as found in the document: Metalink 3.0 "preference"
// ranks higher values first, Metalink 4.0 "priority" ranks lower values first.
type MetalinkResource struct {
	URL        string `json:"url" yaml:"url"`
	Type       string `json:"type" yaml:"type"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	Preference int    `json:"preference" yaml:"preference"`
}

// MetalinkSignature is a detached signature attached to a file
type MetalinkSignature struct {
	SignatureFile    string `json:"file" yaml:"file"`
	SignatureType    string `json:"type" yaml:"type"`
	SignatureContent string `json:"content" yaml:"content"`
}
