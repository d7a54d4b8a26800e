package relay_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type testKeyPair struct {
	raw        *rsa.PrivateKey
	publicB64  string
	privateB64 string
}

var (
	keysOnce   sync.Once
	sharedKeys [2]testKeyPair
	keysErr    error
)

// testKeys returns two distinct RSA key pairs, generated once per test binary.
func testKeys(t *testing.T) (testKeyPair, testKeyPair) {
	t.Helper()

	keysOnce.Do(func() {
		for i := range sharedKeys {
			priv, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				keysErr = err
				return
			}
			pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
			if err != nil {
				keysErr = err
				return
			}
			privDER, err := x509.MarshalPKCS8PrivateKey(priv)
			if err != nil {
				keysErr = err
				return
			}
			sharedKeys[i] = testKeyPair{
				raw:        priv,
				publicB64:  base64.StdEncoding.EncodeToString(pubDER),
				privateB64: base64.StdEncoding.EncodeToString(privDER),
			}
		}
	})

	require.NoError(t, keysErr)
	return sharedKeys[0], sharedKeys[1]
}
