// Package verify checks a downloaded file against the digests a Metalink
// document declares for it.
package verify

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/ralt/metalinker/internal/models"
	"github.com/sirupsen/logrus"
)

// HashResult is the outcome for one whole-file digest
type HashResult struct {
	Type     string
	Expected string
	Actual   string
	Match    bool
	Skipped  bool // No implementation for Type
}

// Result summarises the verification of one file
type Result struct {
	Path         string
	ExpectedSize int64
	ActualSize   int64
	Hashes       []HashResult

	PieceType     string
	PiecesChecked int
	PiecesSkipped bool
	BadPieces     []int
}

// SizeMatch reports whether the size agrees, or no size was declared
func (r *Result) SizeMatch() bool {
	return r.ExpectedSize == 0 || r.ExpectedSize == r.ActualSize
}

// Verified reports whether at least one digest was checked
func (r *Result) Verified() bool {
	if !r.PiecesSkipped && r.PiecesChecked > 0 {
		return true
	}
	for _, h := range r.Hashes {
		if !h.Skipped {
			return true
		}
	}
	return false
}

// OK reports whether nothing that was checked failed
func (r *Result) OK() bool {
	if !r.SizeMatch() || len(r.BadPieces) > 0 {
		return false
	}
	for _, h := range r.Hashes {
		if !h.Skipped && !h.Match {
			return false
		}
	}
	return true
}

// File verifies the file at path against the size, hashes and pieces of
// file, reading it once
func File(path string, file models.MetalinkFile) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Reader(f, path, file)
}

// Reader verifies the content of r; name is only used for reporting
func Reader(r io.Reader, name string, file models.MetalinkFile) (*Result, error) {
	result := &Result{
		Path:         name,
		ExpectedSize: file.Size,
	}

	var writers []io.Writer
	hashers := make([]hash.Hash, len(file.Hashes))
	for i, h := range file.Hashes {
		hasher, err := NewHash(h.HashSumType)
		if err != nil {
			logrus.Warnf("Skipping %s hash of %s: %v", h.HashSumType, file.File, err)
			continue
		}
		hashers[i] = hasher
		writers = append(writers, hasher)
	}

	var pieces *pieceWriter
	if info := file.PieceInfo; info != nil {
		result.PieceType = info.Type
		if factory, ok := hashFactories[normalizeAlgorithm(info.Type)]; ok && info.Length > 0 {
			pieces = newPieceWriter(factory, info.Length, info.Hashes)
			writers = append(writers, pieces)
		} else {
			logrus.Warnf("Skipping %s piece hashes of %s", info.Type, file.File)
			result.PiecesSkipped = true
		}
	}

	// Use MultiWriter to calculate all hashes at once
	n, err := io.Copy(io.MultiWriter(writers...), r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	result.ActualSize = n

	for i, h := range file.Hashes {
		hr := HashResult{Type: h.HashSumType, Expected: h.HashSum}
		if hashers[i] == nil {
			hr.Skipped = true
		} else {
			hr.Actual = hex.EncodeToString(hashers[i].Sum(nil))
			hr.Match = SameDigest(hr.Actual, hr.Expected)
		}
		result.Hashes = append(result.Hashes, hr)
	}

	if pieces != nil {
		pieces.Close()
		result.PiecesChecked = pieces.index
		result.BadPieces = pieces.bad
	}

	logrus.Debugf("Verified %s: %d bytes, %d hashes, %d pieces", name, n, len(result.Hashes), result.PiecesChecked)
	return result, nil
}
