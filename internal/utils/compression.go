package utils

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ralt/metalinker/internal/scanner"
	"github.com/ulikunitz/xz"
)

// Decompress sniffs the leading bytes of r and returns a reader over the
// decompressed content. Uncompressed content is passed through unchanged.
func Decompress(r io.Reader) (io.ReadCloser, scanner.Encoding, error) {
	br := bufio.NewReader(r)

	// Peek returns fewer bytes with an error on short input, which is fine here
	header, _ := br.Peek(scanner.HeaderSize)
	encoding := scanner.DetectEncoding(header)

	switch encoding {
	case scanner.EncodingGzip:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, encoding, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gr, encoding, nil
	case scanner.EncodingZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, encoding, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), encoding, nil
	case scanner.EncodingXz:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, encoding, fmt.Errorf("failed to open xz stream: %w", err)
		}
		return io.NopCloser(xr), encoding, nil
	default:
		return io.NopCloser(br), encoding, nil
	}
}
