package relay

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// SaltLength is the fixed RSA-PSS salt length in bytes.
const SaltLength = 32

var pssOptions = &rsa.PSSOptions{
	SaltLength: SaltLength,
	Hash:       crypto.SHA256,
}

// Verify reports whether signatureB64 is a valid RSA-PSS signature over message.
//
// The message must be the exact bytes the client signed, i.e. the raw request body
// before any JSON parsing. A malformed signature is treated like a mismatch: both
// return false and neither is an error.
func (k *VerificationKey) Verify(signatureB64 string, message []byte) bool {
	if k == nil || k.key == nil {
		return false
	}

	sig, err := DecodeBase64(signatureB64)
	if err != nil {
		return false
	}

	digest := sha256.Sum256(message)
	return rsa.VerifyPSS(k.key, crypto.SHA256, digest[:], sig, pssOptions) == nil
}

// Sign returns the base64 RSA-PSS signature over message.
// PSS is randomized, so two signatures over the same message differ but both verify.
func (k *SigningKey) Sign(message []byte) (string, error) {
	if k == nil || k.key == nil {
		return "", fmt.Errorf("sign: %w", errNoKey)
	}

	digest := sha256.Sum256(message)
	sig, err := rsa.SignPSS(rand.Reader, k.key, crypto.SHA256, digest[:], pssOptions)
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}

	return EncodeBase64(sig), nil
}
