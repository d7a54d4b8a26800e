package relay_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/bananamirror/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	kp, other := testKeys(t)

	verifier, err := relay.ImportPublicKey(kp.publicB64)
	require.NoError(t, err)
	signer, err := relay.ImportPrivateKey(kp.privateB64)
	require.NoError(t, err)
	otherSigner, err := relay.ImportPrivateKey(other.privateB64)
	require.NoError(t, err)

	body := []byte(`{"fileCategory":"mods","fileName":"a.zip","file":"aGVsbG8="}`)
	validSig, err := signer.Sign(body)
	require.NoError(t, err)
	otherSig, err := otherSigner.Sign(body)
	require.NoError(t, err)

	sigBytes, err := base64.StdEncoding.DecodeString(validSig)
	require.NoError(t, err)
	flipped := append([]byte(nil), sigBytes...)
	flipped[len(flipped)-1] ^= 0x01

	digest := sha256.Sum256(body)
	shortSalt, err := rsa.SignPSS(rand.Reader, kp.raw, crypto.SHA256, digest[:], &rsa.PSSOptions{SaltLength: 20})
	require.NoError(t, err)

	tests := []struct {
		name      string
		signature string
		message   []byte
		want      bool
	}{
		{name: "valid signature", signature: validSig, message: body, want: true},
		{name: "body changed by one byte", signature: validSig, message: append([]byte(" "), body...), want: false},
		{name: "reserialized body", signature: validSig, message: []byte(`{"fileCategory": "mods", "fileName": "a.zip", "file": "aGVsbG8="}`), want: false},
		{name: "signature bit flipped", signature: base64.StdEncoding.EncodeToString(flipped), message: body, want: false},
		{name: "signed by another key", signature: otherSig, message: body, want: false},
		{name: "wrong salt length", signature: base64.StdEncoding.EncodeToString(shortSalt), message: body, want: false},
		{name: "signature not base64", signature: "***", message: body, want: false},
		{name: "empty signature", signature: "", message: body, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verifier.Verify(tt.signature, tt.message))
		})
	}
}

func TestVerify_Deterministic(t *testing.T) {
	kp, _ := testKeys(t)

	verifier, err := relay.ImportPublicKey(kp.publicB64)
	require.NoError(t, err)
	signer, err := relay.ImportPrivateKey(kp.privateB64)
	require.NoError(t, err)

	body := []byte("payload")
	sig, err := signer.Sign(body)
	require.NoError(t, err)

	for range 3 {
		assert.True(t, verifier.Verify(sig, body))
	}
}

func TestSign_Randomized(t *testing.T) {
	kp, _ := testKeys(t)

	signer, err := relay.ImportPrivateKey(kp.privateB64)
	require.NoError(t, err)

	a, err := signer.Sign([]byte("same"))
	require.NoError(t, err)
	b, err := signer.Sign([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerify_NilKey(t *testing.T) {
	var key *relay.VerificationKey
	assert.False(t, key.Verify("abc", []byte("x")))
}
