package signer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ralt/metalinker/internal/models"
)

// ErrUnsupportedSignature is returned for signature types other than PGP
var ErrUnsupportedSignature = errors.New("unsupported signature type")

// GPGVerifier implements Verifier interface using an OpenPGP public keyring
type GPGVerifier struct {
	keyring openpgp.EntityList
}

// NewGPGVerifier creates a new verifier from a public keyring file
func NewGPGVerifier(keyPath string) (*GPGVerifier, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	// Read keyring file
	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	return ReadGPGVerifier(keyFile)
}

// ReadGPGVerifier creates a new verifier from an armored or binary keyring
func ReadGPGVerifier(r io.ReadSeeker) (*GPGVerifier, error) {
	// Try to parse as armored keyring first
	entityList, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		// Try as binary keyring
		if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("failed to rewind keyring: %w", seekErr)
		}
		entityList, err = openpgp.ReadKeyRing(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in keyring")
	}

	return &GPGVerifier{keyring: entityList}, nil
}

// VerifyDetached checks sig as an armored detached signature over signed and
// returns the primary identity of the signing key
func (v *GPGVerifier) VerifyDetached(signed io.Reader, sig models.MetalinkSignature) (string, error) {
	if !IsPGP(sig.SignatureType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSignature, sig.SignatureType)
	}

	entity, err := openpgp.CheckArmoredDetachedSignature(v.keyring, signed, strings.NewReader(sig.SignatureContent), nil)
	if err != nil {
		return "", fmt.Errorf("signature verification failed: %w", err)
	}

	if identity := entity.PrimaryIdentity(); identity != nil {
		return identity.Name, nil
	}
	return fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint), nil
}

// IsPGP reports whether a signature type names an OpenPGP signature.
// Metalink 3.0 writes "pgp", Metalink 4.0 a media type such as
// "application/pgp-signature".
func IsPGP(signatureType string) bool {
	t := strings.ToLower(strings.TrimSpace(signatureType))
	return t == "" || strings.Contains(t, "pgp")
}
