package http_test

import (
	"context"
	"sync"
	"testing"

	"github.com/bananamirror/relay"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	keysOnce   sync.Once
	publicKey  string
	privateKey string
	keysErr    error
)

// testKeys returns a base64 SPKI/PKCS8 key pair shared by the package tests.
func testKeys(t *testing.T) (string, string) {
	t.Helper()
	keysOnce.Do(func() {
		publicKey, privateKey, keysErr = relay.GenerateKeyPair(relay.MinKeyBits)
	})
	require.NoError(t, keysErr)
	return publicKey, privateKey
}

func sign(t *testing.T, body string) string {
	t.Helper()
	_, priv := testKeys(t)
	key, err := relay.ImportPrivateKey(priv)
	require.NoError(t, err)
	sig, err := key.Sign([]byte(body))
	require.NoError(t, err)
	return sig
}

func newAuthenticator(t *testing.T, ips ...string) *relay.Authenticator {
	t.Helper()
	pub, _ := testKeys(t)
	return relay.NewAuthenticator(relay.NewCredentials(relay.AuthConfig{
		Environment:  relay.EnvProduction,
		PermittedIPs: ips,
		PublicKey:    pub,
	}))
}

// MockAuthenticator is a mock implementation of http.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(req relay.AuthRequest) relay.AuthResult {
	args := m.Called(req)
	return args.Get(0).(relay.AuthResult)
}

// MockDispatcher is a mock implementation of http.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, p relay.Payload) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

// MockBucket is a mock implementation of relay.Bucket
type MockBucket struct {
	mock.Mock
}

func (m *MockBucket) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockBucket) Delete(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
