package signer

import (
	"io"

	"github.com/ralt/metalinker/internal/models"
)

// Verifier interface for checking the signatures attached to a Metalink file
type Verifier interface {
	// VerifyDetached checks a detached signature over signed and returns the signer identity
	VerifyDetached(signed io.Reader, sig models.MetalinkSignature) (string, error)
}
