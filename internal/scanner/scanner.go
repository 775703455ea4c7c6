package scanner

import "context"

// FileType represents the Metalink flavour announced by a file name
type FileType int

const (
	TypeUnknown FileType = iota
	TypeMetalink
	TypeMeta4
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case TypeMetalink:
		return "metalink"
	case TypeMeta4:
		return "meta4"
	default:
		return "unknown"
	}
}

// Encoding represents the compression wrapped around a document
type Encoding int

const (
	EncodingIdentity Encoding = iota
	EncodingGzip
	EncodingZstd
	EncodingXz
)

// String returns the string representation of Encoding
func (e Encoding) String() string {
	switch e {
	case EncodingGzip:
		return "gzip"
	case EncodingZstd:
		return "zstd"
	case EncodingXz:
		return "xz"
	default:
		return "identity"
	}
}

// ScannedFile represents a Metalink file found during scanning
type ScannedFile struct {
	Path string
	Type FileType
	Size int64
}

// Scanner interface for finding Metalink files
type Scanner interface {
	// Scan recursively scans a directory for Metalink files
	Scan(ctx context.Context, dir string) ([]ScannedFile, error)

	// DetectType determines the file type of a file
	DetectType(path string) (FileType, error)
}
