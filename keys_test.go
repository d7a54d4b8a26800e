package relay_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/bananamirror/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportPublicKey_Valid(t *testing.T) {
	kp, _ := testKeys(t)

	key, err := relay.ImportPublicKey(kp.publicB64)
	require.NoError(t, err)
	assert.NotNil(t, key)
}

func TestImportPrivateKey_Valid(t *testing.T) {
	kp, _ := testKeys(t)

	key, err := relay.ImportPrivateKey(kp.privateB64)
	require.NoError(t, err)
	assert.NotNil(t, key)
}

func TestImportKeys_Invalid(t *testing.T) {
	kp, _ := testKeys(t)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ecPub, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	require.NoError(t, err)
	ecPriv, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  string
		public bool
	}{
		{name: "public malformed base64", input: "%%%", public: true},
		{name: "public malformed der", input: base64.StdEncoding.EncodeToString([]byte("not der")), public: true},
		{name: "public given pkcs8 private key", input: kp.privateB64, public: true},
		{name: "public ecdsa key", input: base64.StdEncoding.EncodeToString(ecPub), public: true},
		{name: "private malformed base64", input: "%%%", public: false},
		{name: "private malformed der", input: base64.StdEncoding.EncodeToString([]byte("not der")), public: false},
		{name: "private given spki public key", input: kp.publicB64, public: false},
		{name: "private ecdsa key", input: base64.StdEncoding.EncodeToString(ecPriv), public: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var importErr error
			if tt.public {
				_, importErr = relay.ImportPublicKey(tt.input)
			} else {
				_, importErr = relay.ImportPrivateKey(tt.input)
			}

			require.Error(t, importErr)
			assert.ErrorIs(t, importErr, relay.ErrConfiguration)

			var kie *relay.KeyImportError
			assert.True(t, errors.As(importErr, &kie))
		})
	}
}

func TestGenerateKeyPair(t *testing.T) {
	pub, priv, err := relay.GenerateKeyPair(2048)
	require.NoError(t, err)

	verifier, err := relay.ImportPublicKey(pub)
	require.NoError(t, err)
	signer, err := relay.ImportPrivateKey(priv)
	require.NoError(t, err)

	body := []byte(`{"fileCategory":"mods"}`)
	sig, err := signer.Sign(body)
	require.NoError(t, err)
	assert.True(t, verifier.Verify(sig, body))
}

func TestGenerateKeyPair_TooSmall(t *testing.T) {
	_, _, err := relay.GenerateKeyPair(1024)
	assert.Error(t, err)
}
