package scanner

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for content detection
var (
	// Gzip magic bytes
	gzipMagic = []byte{0x1F, 0x8B}

	// Zstandard magic bytes
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

	// XZ magic bytes
	xzMagic = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}

	// UTF-8 byte order mark, allowed in front of an XML declaration
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// Metalink file extensions
const (
	ExtMeta4    = ".meta4"
	ExtMetalink = ".metalink"
)

// HeaderSize is the number of leading bytes needed to detect an encoding
const HeaderSize = 6

// DetectEncoding determines the compression of content from its first bytes
func DetectEncoding(header []byte) Encoding {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return EncodingGzip
	case bytes.HasPrefix(header, zstdMagic):
		return EncodingZstd
	case bytes.HasPrefix(header, xzMagic):
		return EncodingXz
	default:
		return EncodingIdentity
	}
}

// IsMetalinkExtension reports whether ext is one of the accepted Metalink extensions
func IsMetalinkExtension(ext string) bool {
	return ext == ExtMeta4 || ext == ExtMetalink
}

// DetectFileType determines the Metalink flavour of a file from its extension
// and checks that its content is either compressed or looks like XML
func DetectFileType(path string) (FileType, error) {
	var fileType FileType
	switch filepath.Ext(path) {
	case ExtMeta4:
		fileType = TypeMeta4
	case ExtMetalink:
		fileType = TypeMetalink
	default:
		return TypeUnknown, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	// Read first 512 bytes for content sniffing
	header := make([]byte, 512)
	n, err := f.Read(header)
	if n == 0 {
		// An empty document keeps its extension type so that parsing reports it
		if err == nil || errors.Is(err, io.EOF) {
			return fileType, nil
		}
		return TypeUnknown, err
	}
	header = header[:n]

	if DetectEncoding(header) != EncodingIdentity {
		return fileType, nil
	}

	text := strings.TrimLeft(string(bytes.TrimPrefix(header, utf8BOM)), " \t\r\n")
	if strings.HasPrefix(text, "<") {
		return fileType, nil
	}

	return TypeUnknown, nil
}
