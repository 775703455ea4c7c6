package verify

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// ErrUnsupportedAlgorithm is returned for hash identifiers with no known implementation
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// hashFactories maps identifiers, lower-cased with dashes removed, to constructors.
// Metalink 3.0 writes "sha256" where Metalink 4.0 writes "sha-256".
var hashFactories = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// NewHash returns a hash for a Metalink algorithm identifier
func NewHash(algorithm string) (hash.Hash, error) {
	factory, ok := hashFactories[normalizeAlgorithm(algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return factory(), nil
}

// SameDigest compares two hex digests ignoring case and surrounding whitespace
func SameDigest(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func normalizeAlgorithm(algorithm string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(algorithm)), "-", "")
}
