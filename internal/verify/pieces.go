package verify

import (
	"encoding/hex"
	"hash"
)

// pieceWriter hashes a stream in fixed-size pieces and records every piece
// whose digest differs from the expected one
type pieceWriter struct {
	newHash  func() hash.Hash
	length   int64
	expected []string

	current hash.Hash
	written int64
	index   int
	bad     []int
}

func newPieceWriter(newHash func() hash.Hash, length int64, expected []string) *pieceWriter {
	return &pieceWriter{
		newHash:  newHash,
		length:   length,
		expected: expected,
	}
}

// Write never fails; it splits p on piece boundaries
func (w *pieceWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		if w.current == nil {
			w.current = w.newHash()
		}

		chunk := p
		if room := w.length - w.written; int64(len(chunk)) > room {
			chunk = chunk[:room]
		}

		w.current.Write(chunk)
		w.written += int64(len(chunk))
		p = p[len(chunk):]

		if w.written == w.length {
			w.finishPiece()
		}
	}
	return n, nil
}

// finishPiece checks the piece in progress, if any
func (w *pieceWriter) finishPiece() {
	if w.current == nil {
		return
	}

	sum := hex.EncodeToString(w.current.Sum(nil))
	if w.index >= len(w.expected) || !SameDigest(sum, w.expected[w.index]) {
		w.bad = append(w.bad, w.index)
	}

	w.index++
	w.current = nil
	w.written = 0
}

// Close checks the trailing partial piece and flags expected pieces the stream never reached
func (w *pieceWriter) Close() error {
	w.finishPiece()
	for ; w.index < len(w.expected); w.index++ {
		w.bad = append(w.bad, w.index)
	}
	return nil
}
