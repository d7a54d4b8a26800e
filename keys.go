package relay

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
)

// MinKeyBits is the smallest modulus GenerateKeyPair will produce.
const MinKeyBits = 2048

// VerificationKey is an RSA-PSS/SHA-256 public key usable only for verification.
type VerificationKey struct {
	key *rsa.PublicKey
}

// SigningKey is an RSA-PSS/SHA-256 private key usable only for signing.
type SigningKey struct {
	key *rsa.PrivateKey
}

// KeyImportError reports key material that could not be imported.
// It matches ErrConfiguration under errors.Is.
type KeyImportError struct {
	Kind string // "public" or "private"
	Err  error
}

func (e *KeyImportError) Error() string {
	return fmt.Sprintf("import %s key: %v", e.Kind, e.Err)
}

func (e *KeyImportError) Unwrap() error { return e.Err }

func (e *KeyImportError) Is(target error) bool {
	return target == ErrConfiguration
}

// ImportPublicKey parses a base64-encoded DER SubjectPublicKeyInfo holding an RSA key.
func ImportPublicKey(b64 string) (*VerificationKey, error) {
	der, err := DecodeBase64(b64)
	if err != nil {
		return nil, &KeyImportError{Kind: "public", Err: err}
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, &KeyImportError{Kind: "public", Err: fmt.Errorf("parse spki: %w", err)}
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, &KeyImportError{Kind: "public", Err: fmt.Errorf("unsupported key type %T: expected RSA", parsed)}
	}

	return &VerificationKey{key: pub}, nil
}

// ImportPrivateKey parses a base64-encoded DER PKCS #8 RSA private key.
// Private material must only come from trusted configuration.
func ImportPrivateKey(b64 string) (*SigningKey, error) {
	der, err := DecodeBase64(b64)
	if err != nil {
		return nil, &KeyImportError{Kind: "private", Err: err}
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, &KeyImportError{Kind: "private", Err: fmt.Errorf("parse pkcs8: %w", err)}
	}

	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, &KeyImportError{Kind: "private", Err: fmt.Errorf("unsupported key type %T: expected RSA", parsed)}
	}

	return &SigningKey{key: priv}, nil
}

// GenerateKeyPair creates a new RSA key pair and returns the public half as base64 DER SPKI
// and the private half as base64 DER PKCS #8, ready to paste into configuration.
func GenerateKeyPair(bits int) (publicB64, privateB64 string, err error) {
	if bits < MinKeyBits {
		return "", "", fmt.Errorf("generate key pair: %d bits is below the minimum of %d", bits, MinKeyBits)
	}

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return "", "", fmt.Errorf("generate key pair: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("marshal public key: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", "", fmt.Errorf("marshal private key: %w", err)
	}

	return EncodeBase64(pubDER), EncodeBase64(privDER), nil
}

// errNoKey is wrapped when a key handle is nil.
var errNoKey = errors.New("no key")
